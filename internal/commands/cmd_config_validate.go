package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/scout/internal/core/styles"
)

type ConfigCmd struct {
	flags *Flags
}

// NewConfigCmd creates a new config command
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration helpers",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate the configuration file",
				UsageText: "scout config validate",
				Action:    cmd.validate,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) validate(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for _, w := range cmd.flags.Config.Warnings() {
		item := w.Category
		if w.Item != "" {
			item += " (" + w.Item + ")"
		}
		fmt.Fprintln(os.Stderr, styles.Warning.Render(fmt.Sprintf("warning: %s: %s", item, w.Message)))
	}

	fmt.Fprintln(os.Stderr, styles.Success.Render("config is valid"))
	return nil
}
