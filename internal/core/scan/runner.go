package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/scout/internal/core/checkpoint"
)

// ErrNoSurfaces is returned when a run is started with nothing to scan.
var ErrNoSurfaces = errors.New("no surfaces configured")

// ErrPartialScan is returned by Commit when the runner covered only a
// subset of the configured surfaces. The watermark is shared by every
// surface; advancing it after a partial scan would put the skipped
// surfaces' intervening edits below the next run's edited-since bound
// without ever recording them as seen.
var ErrPartialScan = errors.New("partial scan cannot advance the checkpoint")

// Runner orchestrates one scan run: load the checkpoint, scan every surface,
// classify, build the report, and (separately) commit the next checkpoint.
//
// Scan and Commit are split so callers can emit the report before the
// checkpoint write: a write failure after emission leaves the old checkpoint
// in place and the next run re-scans the same window.
type Runner struct {
	scanner   *Scanner
	store     checkpoint.Store
	surfaces  []Surface
	retention int
	partial   bool
	now       func() time.Time
	log       zerolog.Logger
}

// RunnerOptions configures a Runner. Zero values fall back to defaults.
type RunnerOptions struct {
	Retention int
	// Partial marks the surface list as a subset of the configured set.
	// A partial runner scans and reports but refuses to commit.
	Partial bool
	Now     func() time.Time
	Logger  zerolog.Logger
}

// NewRunner creates a runner over the given scanner and checkpoint store.
func NewRunner(scanner *Scanner, store checkpoint.Store, surfaces []Surface, opts RunnerOptions) *Runner {
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		scanner:   scanner,
		store:     store,
		surfaces:  surfaces,
		retention: opts.Retention,
		partial:   opts.Partial,
		now:       opts.Now,
		log:       opts.Logger,
	}
}

// Result carries a completed scan's report together with the derived next
// checkpoint, pending commit.
type Result struct {
	Report Report

	next checkpoint.Checkpoint
}

// Scan runs every configured surface and builds the report. Surfaces share
// no mutable state and the gateway is stateless, so they are scanned
// concurrently; the report is deterministic regardless of completion order.
//
// Any surface failure aborts the whole run with no checkpoint change. There
// is no mid-scan retry: the caller's next invocation re-covers the same
// window because the watermark never advanced.
func (r *Runner) Scan(ctx context.Context) (*Result, error) {
	if len(r.surfaces) == 0 {
		return nil, ErrNoSurfaces
	}

	prev, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}

	since := prev.LastRun
	if since == nil {
		r.log.Info().Msg("no previous watermark, scanning from the beginning")
	} else {
		r.log.Info().Time("since", *since).Msg("scanning for changes")
	}

	classified := make([]ClassifiedSurface, len(r.surfaces))

	g, gctx := errgroup.WithContext(ctx)
	for i, surface := range r.surfaces {
		g.Go(func() error {
			scanned, err := r.scanner.Scan(gctx, surface, since)
			if err != nil {
				return err
			}

			items := make([]ClassifiedItem, 0, len(scanned.Items))
			for _, item := range scanned.Items {
				items = append(items, ClassifiedItem{
					Item:  item,
					Group: Classify(item, prev.WasSeen(surface.Key, item.ID)),
				})
			}

			classified[i] = ClassifiedSurface{Scan: scanned, Items: items}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := BuildReport(r.now().UTC(), prev.LastRun, classified)

	return &Result{
		Report: report,
		next:   NextCheckpoint(report, prev, r.retention),
	}, nil
}

// Commit persists the next checkpoint derived from a successful scan.
// A partial runner's commit is rejected with ErrPartialScan.
func (r *Runner) Commit(ctx context.Context, res *Result) error {
	if r.partial {
		return ErrPartialScan
	}

	if err := r.store.Save(ctx, res.next); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	r.log.Info().Time("watermark", res.Report.RanAt).Msg("checkpoint advanced")
	return nil
}
