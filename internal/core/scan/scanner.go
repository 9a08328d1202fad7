package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultPageSize is the page size requested from the gateway when the
	// caller does not specify one.
	DefaultPageSize = 50

	// DefaultPageCap bounds the number of pages fetched per surface (and
	// per item's comment listing). Reaching the cap is not an error; the
	// scan silently truncates, so results may be incomplete for very
	// large deltas.
	DefaultPageCap = 200
)

// Scanner pages through a gateway collection and attaches each item's
// comments since the watermark. Scans have no side effects beyond gateway
// reads and are safe to re-run.
type Scanner struct {
	gateway  Gateway
	pageSize int
	pageCap  int
	timeout  time.Duration
	log      zerolog.Logger
}

// ScannerOptions configures a Scanner. Zero values fall back to defaults;
// a zero Timeout means gateway calls run without a per-call deadline.
type ScannerOptions struct {
	PageSize int
	PageCap  int
	Timeout  time.Duration
	Logger   zerolog.Logger
}

// NewScanner creates a scanner over the given gateway.
func NewScanner(gateway Gateway, opts ScannerOptions) *Scanner {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.PageCap <= 0 {
		opts.PageCap = DefaultPageCap
	}
	return &Scanner{
		gateway:  gateway,
		pageSize: opts.PageSize,
		pageCap:  opts.PageCap,
		timeout:  opts.Timeout,
		log:      opts.Logger,
	}
}

// SurfaceScan is the outcome of scanning a single surface.
type SurfaceScan struct {
	Surface      Surface
	Items        []Item
	PagesQueried int
	// Truncated is set when the page cap stopped pagination before the
	// gateway reported the end of the collection.
	Truncated bool
}

// Scan pages through the surface's collection, deduplicates by item id, and
// fetches each item's comments since the watermark. A nil since means first
// run: no edit-time lower bound and no comment filter.
//
// Any gateway failure, including a comment fetch failure, fails the whole
// surface scan: a partially confirmed item must never reach the report,
// because committing on partial data would corrupt the checkpoint.
func (s *Scanner) Scan(ctx context.Context, surface Surface, since *time.Time) (SurfaceScan, error) {
	result := SurfaceScan{Surface: surface}

	seen := make(map[string]struct{})
	cursor := ""

	for {
		if result.PagesQueried >= s.pageCap {
			result.Truncated = true
			s.log.Warn().
				Str("surface", surface.Key).
				Int("pages", result.PagesQueried).
				Msg("page cap reached, truncating scan")
			break
		}

		page, err := s.query(ctx, surface.CollectionID, QueryOptions{
			PageSize:    s.pageSize,
			Cursor:      cursor,
			EditedSince: since,
		})
		if err != nil {
			return SurfaceScan{}, fmt.Errorf("query surface %q: %w", surface.Key, err)
		}
		result.PagesQueried++

		for _, item := range page.Items {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			result.Items = append(result.Items, item)
		}

		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	for i := range result.Items {
		comments, err := s.commentsSince(ctx, result.Items[i].ID, since)
		if err != nil {
			return SurfaceScan{}, fmt.Errorf("list comments for item %q on surface %q: %w",
				result.Items[i].ID, surface.Key, err)
		}
		result.Items[i].Comments = comments
	}

	s.log.Debug().
		Str("surface", surface.Key).
		Int("items", len(result.Items)).
		Int("pages", result.PagesQueried).
		Msg("surface scan complete")

	return result, nil
}

// commentsSince pages through an item's comments and keeps those created at
// or after the watermark. The gateway returns comments regardless of time,
// so the filter is applied here.
func (s *Scanner) commentsSince(ctx context.Context, itemID string, since *time.Time) ([]Comment, error) {
	var kept []Comment
	cursor := ""

	for pages := 0; pages < s.pageCap; pages++ {
		page, err := s.listComments(ctx, itemID, CommentOptions{
			PageSize: s.pageSize,
			Cursor:   cursor,
		})
		if err != nil {
			return nil, err
		}

		for _, c := range page.Comments {
			if since != nil && c.CreatedAt.Before(*since) {
				continue
			}
			kept = append(kept, c)
		}

		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	return kept, nil
}

func (s *Scanner) query(ctx context.Context, collectionID string, opts QueryOptions) (QueryResult, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.gateway.QueryCollection(ctx, collectionID, opts)
}

func (s *Scanner) listComments(ctx context.Context, itemID string, opts CommentOptions) (CommentResult, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.gateway.ListComments(ctx, itemID, opts)
}

// callContext applies the per-call timeout. A timed-out call surfaces as a
// scan failure like any other gateway error, never as an empty result.
func (s *Scanner) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
