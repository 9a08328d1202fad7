package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/scout/internal/core/persona"
	"github.com/colonyops/scout/internal/core/styles"
	"github.com/colonyops/scout/pkg/iojson"
)

type PersonasCmd struct {
	flags *Flags

	validate bool
}

// NewPersonasCmd creates a new personas command
func NewPersonasCmd(flags *Flags) *PersonasCmd {
	return &PersonasCmd{flags: flags}
}

// Register adds the personas command to the application
func (cmd *PersonasCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "personas",
		Usage:     "List the bundled agent personas",
		UsageText: "scout personas [PATTERN] [--validate]",
		Description: `Lists the persona documents found in the personas directory,
optionally filtered by a glob pattern against the persona name.

With --validate, every persona's front matter is checked against the
configured surfaces and the command fails on the first problem.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "validate",
				Usage:       "check persona front matter against configured surfaces",
				Destination: &cmd.validate,
			},
		},
		Action: cmd.list,
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Render a persona document to the terminal",
				UsageText: "scout personas show NAME",
				Action:    cmd.show,
			},
		},
	})

	return app
}

// personaListing is the JSON shape emitted by the list action.
type personaListing struct {
	Name     string   `json:"name"`
	Role     string   `json:"role,omitempty"`
	Surfaces []string `json:"surfaces,omitempty"`
	Path     string   `json:"path"`
}

func (cmd *PersonasCmd) list(ctx context.Context, c *cli.Command) error {
	personas, err := persona.Load(cmd.flags.Config.Personas.Dir)
	if err != nil {
		return err
	}

	personas, err = persona.Match(personas, c.Args().First())
	if err != nil {
		return err
	}

	if cmd.validate {
		known := make(map[string]bool, len(cmd.flags.Config.Surfaces))
		for _, s := range cmd.flags.Config.Surfaces {
			known[s.Key] = true
		}

		for _, p := range personas {
			if err := p.Validate(known); err != nil {
				return err
			}
		}

		fmt.Fprintln(os.Stderr, styles.Success.Render(fmt.Sprintf("%d persona(s) valid", len(personas))))
	}

	listing := make([]personaListing, 0, len(personas))
	for _, p := range personas {
		listing = append(listing, personaListing{
			Name:     p.Name,
			Role:     p.Role,
			Surfaces: p.Surfaces,
			Path:     p.Path,
		})
	}

	return iojson.Write(listing)
}

func (cmd *PersonasCmd) show(ctx context.Context, c *cli.Command) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("persona name is required")
	}

	personas, err := persona.Load(cmd.flags.Config.Personas.Dir)
	if err != nil {
		return err
	}

	p, err := persona.Find(personas, name)
	if err != nil {
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	out, err := renderer.Render(p.Body)
	if err != nil {
		return fmt.Errorf("render persona: %w", err)
	}

	fmt.Print(out)
	return nil
}
