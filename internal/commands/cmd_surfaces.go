package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/scout/pkg/iojson"
)

type SurfacesCmd struct {
	flags *Flags

	resolveFrom string
}

// NewSurfacesCmd creates a new surfaces command
func NewSurfacesCmd(flags *Flags) *SurfacesCmd {
	return &SurfacesCmd{flags: flags}
}

// Register adds the surfaces command to the application
func (cmd *SurfacesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "surfaces",
		Usage:     "List configured surfaces",
		UsageText: "scout surfaces [--resolve-from PAGE_ID]",
		Description: `Prints the configured surfaces as JSON.

With --resolve-from, instead scans the given reference page for
"Label: collection-id" lines and prints the discovered mapping. Use
this to bootstrap the surfaces section of a config file from a page
that indexes your databases.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "resolve-from",
				Usage:       "resolve surface ids from a bootstrap page",
				Destination: &cmd.resolveFrom,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SurfacesCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.resolveFrom != "" {
		return cmd.resolve(ctx)
	}

	return iojson.Write(cmd.flags.Config.Surfaces)
}

func (cmd *SurfacesCmd) resolve(ctx context.Context) error {
	gateway, err := cmd.flags.Gateway()
	if err != nil {
		return err
	}

	ids, err := gateway.ResolveSurfaceIDs(ctx, cmd.resolveFrom)
	if err != nil {
		return fmt.Errorf("resolve surface ids: %w", err)
	}

	return iojson.Write(ids)
}
