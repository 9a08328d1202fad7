package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/scout/internal/commands"
	"github.com/colonyops/scout/internal/core/config"
	"github.com/colonyops/scout/internal/gateway/notion"
	"github.com/colonyops/scout/pkg/iojson"
	"github.com/colonyops/scout/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	// A signal before the checkpoint commit cancels the run cleanly:
	// no report, no checkpoint write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "scout",
		Usage:     "Poll workspace surfaces for changes and report them",
		UsageText: "scout [global options] command [command options]",
		Description: `Scout bundles agent persona documents and polls a workspace content
API for changes across configured surfaces. Each scan classifies items
as new, updated, commented, or unchanged relative to the last
checkpoint, prints a JSON report, and advances the checkpoint only
when every surface scanned cleanly.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("SCOUT_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("SCOUT_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SCOUT_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("SCOUT_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			return ctx, nil
		},
	}

	app = commands.NewScanCmd(flags).Register(app)
	app = commands.NewSurfacesCmd(flags).Register(app)
	app = commands.NewCheckpointCmd(flags).Register(app)
	app = commands.NewPersonasCmd(flags).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)
	app = commands.NewInitCmd(flags).Register(app)

	err := app.Run(ctx, os.Args)

	if err != nil {
		log.Error().Err(err).Msg("command failed")

		data := map[string]any{}
		var apiErr *notion.APIError
		if errors.As(err, &apiErr) {
			data["status"] = apiErr.StatusCode
			data["code"] = apiErr.Code
		}

		_ = iojson.WriteError(err.Error(), data)

		// os.Exit skips deferred calls, so close the log file here.
		if logCloser != nil {
			logCloser()
		}
		os.Exit(1)
	}

	if logCloser != nil {
		logCloser()
	}
}
