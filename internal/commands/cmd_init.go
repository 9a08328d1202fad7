package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/scout/internal/core/config"
	"github.com/colonyops/scout/internal/core/styles"
)

type InitCmd struct {
	flags *Flags

	yes   bool
	force bool
}

// NewInitCmd creates a new init command
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create a config file interactively",
		UsageText: "scout init [--yes] [--force]",
		Description: `Walks through a short wizard and writes a starter config file with a
gateway section and one surface. Edit the file afterwards to add more
surfaces or point at a different personas directory.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip prompts and write defaults",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "overwrite an existing config file",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	path := cmd.flags.ConfigPath

	if _, err := os.Stat(path); err == nil && !cmd.force {
		if cmd.yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", path)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(path + "\nOverwrite?").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(os.Stderr, styles.Muted.Render("init cancelled"))
			return nil
		}
	}

	cfg := config.DefaultConfig()
	surface := config.SurfaceConfig{Key: "tasks", Name: "Tasks"}

	if !cmd.yes {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Token environment variable").
					Description("Name of the env var holding your integration token").
					Value(&cfg.Gateway.TokenEnv),
				huh.NewInput().
					Title("First surface key").
					Description("Stable identifier used in checkpoints and reports").
					Value(&surface.Key),
				huh.NewInput().
					Title("First surface name").
					Value(&surface.Name),
				huh.NewInput().
					Title("First surface collection id").
					Description("The remote database id (paste from its URL)").
					Value(&surface.Collection),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	cfg.Surfaces = []config.SurfaceConfig{surface}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintln(os.Stderr, styles.Success.Render("wrote "+path))
	return nil
}
