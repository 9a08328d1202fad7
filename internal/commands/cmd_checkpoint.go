package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/scout/internal/core/checkpoint"
	"github.com/colonyops/scout/internal/core/styles"
	"github.com/colonyops/scout/pkg/iojson"
)

type CheckpointCmd struct {
	flags *Flags

	importReader iojson.FileReader[checkpoint.Checkpoint]
}

// NewCheckpointCmd creates a new checkpoint command
func NewCheckpointCmd(flags *Flags) *CheckpointCmd {
	return &CheckpointCmd{flags: flags}
}

// Register adds the checkpoint command to the application
func (cmd *CheckpointCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "checkpoint",
		Usage: "Inspect or manage the scan checkpoint",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Print the current checkpoint as JSON",
				UsageText: "scout checkpoint show",
				Action:    cmd.show,
			},
			{
				Name:      "reset",
				Usage:     "Delete the checkpoint so the next scan starts from scratch",
				UsageText: "scout checkpoint reset",
				Action:    cmd.reset,
			},
			{
				Name:      "import",
				Usage:     "Replace the checkpoint with a JSON document",
				UsageText: "scout checkpoint import [-f FILE]",
				Flags:     []cli.Flag{cmd.importReader.Flag()},
				Action:    cmd.importRun,
			},
		},
	})

	return app
}

func (cmd *CheckpointCmd) show(ctx context.Context, c *cli.Command) error {
	cp, err := cmd.flags.CheckpointStore().Load(ctx)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}

	return iojson.Write(cp)
}

func (cmd *CheckpointCmd) reset(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.CheckpointStore().Reset(); err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, styles.Success.Render("checkpoint reset"))
	return nil
}

func (cmd *CheckpointCmd) importRun(ctx context.Context, c *cli.Command) error {
	cp, err := cmd.importReader.Read()
	if err != nil {
		return err
	}

	if err := cmd.flags.CheckpointStore().Save(ctx, cp); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	fmt.Fprintln(os.Stderr, styles.Success.Render("checkpoint imported"))
	return nil
}
