package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/scout/internal/core/scan"
	"github.com/colonyops/scout/internal/core/styles"
	"github.com/colonyops/scout/pkg/iojson"
)

type ScanCmd struct {
	flags *Flags

	surfaces []string
	dryRun   bool
}

// NewScanCmd creates a new scan command
func NewScanCmd(flags *Flags) *ScanCmd {
	return &ScanCmd{flags: flags}
}

// Register adds the scan command to the application
func (cmd *ScanCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "scan",
		Usage:     "Scan surfaces for changes since the last run",
		UsageText: "scout scan [--surface KEY ...] [--dry-run]",
		Description: `Pages through every configured surface, classifies each item changed
since the last checkpoint (new, updated, commented, unchanged), and
prints a JSON report to stdout.

The checkpoint only advances after every configured surface scanned
successfully. Any failure leaves it untouched, so the next run retries
the same window. Restricting the scan with --surface therefore implies
--dry-run unless the listed keys cover every configured surface.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "surface",
				Usage:       "restrict the scan to the given surface keys (implies --dry-run on a subset)",
				Destination: &cmd.surfaces,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "emit the report without advancing the checkpoint",
				Destination: &cmd.dryRun,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ScanCmd) run(ctx context.Context, c *cli.Command) error {
	runner, partial, err := cmd.buildRunner()
	if err != nil {
		return err
	}

	result, err := runner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	// The report goes out before the commit: a failed checkpoint write
	// must not swallow an already complete scan.
	if err := iojson.Write(result.Report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if cmd.dryRun {
		fmt.Fprintln(os.Stderr, styles.Muted.Render("dry run, checkpoint not advanced"))
		return nil
	}

	if partial {
		// The watermark covers every surface; a subset scan must not
		// advance it past the skipped surfaces' unseen edits.
		fmt.Fprintln(os.Stderr, styles.Muted.Render("partial scan, checkpoint not advanced"))
		return nil
	}

	if err := runner.Commit(ctx, result); err != nil {
		return err
	}

	printSummary(result.Report)

	return nil
}

func (cmd *ScanCmd) buildRunner() (runner *scan.Runner, partial bool, err error) {
	gateway, err := cmd.flags.Gateway()
	if err != nil {
		return nil, false, err
	}

	surfaces, err := cmd.flags.Surfaces(cmd.surfaces)
	if err != nil {
		return nil, false, err
	}

	cfg := cmd.flags.Config
	partial = len(surfaces) < len(cfg.Surfaces)

	scanner := scan.NewScanner(gateway, scan.ScannerOptions{
		PageSize: cfg.Gateway.PageSize,
		PageCap:  cfg.Gateway.PageCap,
		Timeout:  cfg.Gateway.Timeout,
		Logger:   log.With().Str("component", "scanner").Logger(),
	})

	return scan.NewRunner(scanner, cmd.flags.CheckpointStore(), surfaces, scan.RunnerOptions{
		Retention: cfg.Checkpoint.Retention,
		Partial:   partial,
		Logger:    log.With().Str("component", "runner").Logger(),
	}), partial, nil
}

// printSummary writes per-run totals to stderr for humans; stdout carries
// the report.
func printSummary(report scan.Report) {
	t := report.Totals()

	line := fmt.Sprintf("%s new, %s updated, %s commented, %s unchanged across %d surface(s)",
		styles.Success.Render(fmt.Sprint(t.New)),
		styles.Warning.Render(fmt.Sprint(t.Updated)),
		styles.Primary.Render(fmt.Sprint(t.Commented)),
		styles.Muted.Render(fmt.Sprint(t.Unchanged)),
		len(report.Surfaces),
	)
	fmt.Fprintln(os.Stderr, line)
}
