// Package scan implements incremental change detection over a paginated
// remote content gateway: pull everything edited since the last watermark,
// classify each item, aggregate a report, and derive the next checkpoint.
package scan

import (
	"context"
	"time"
)

// MaxCommentExcerpt bounds the stored length of a comment's text.
const MaxCommentExcerpt = 500

// Surface is one named logical collection to scan. The surface list is
// configured externally; the scan core treats it as an input parameter.
type Surface struct {
	// Key is the stable identifier used in checkpoints and reports.
	Key string
	// Name is the human-readable label.
	Name string
	// CollectionID identifies the remote collection at the gateway.
	CollectionID string
}

// Item is one unit fetched from a surface.
type Item struct {
	ID           string
	Title        string
	URL          string
	CreatedAt    time.Time
	LastEditedAt time.Time

	// Comments holds the comments observed since the watermark,
	// fetched lazily per item during the scan.
	Comments []Comment
}

// Comment belongs to exactly one item. The core fetches comments, never
// mutates them.
type Comment struct {
	ID        string
	CreatedAt time.Time
	Author    string
	Excerpt   string
}

// Group is the four-way change classification for an item.
type Group int

const (
	GroupNew Group = iota
	GroupUpdated
	GroupCommented
	GroupUnchanged
)

// String returns the lowercase label used in reports.
func (g Group) String() string {
	switch g {
	case GroupNew:
		return "new"
	case GroupUpdated:
		return "updated"
	case GroupCommented:
		return "commented"
	case GroupUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// MarshalText renders the group as its report label.
func (g Group) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// ClassifiedItem pairs an item with its change group. It is produced per
// scan and consumed by the report builder; only its id and edit timestamp
// survive into the next checkpoint.
type ClassifiedItem struct {
	Item
	Group Group
}

// QueryOptions controls one page of a collection query.
type QueryOptions struct {
	PageSize int
	// Cursor resumes a prior page; empty starts from the beginning.
	Cursor string
	// EditedSince, when non-nil, restricts results to items whose last
	// edit time is on or after the bound.
	EditedSince *time.Time
}

// QueryResult is one page of collection results, sorted by last edit time
// descending. Items arrive without comments.
type QueryResult struct {
	Items      []Item
	HasMore    bool
	NextCursor string
}

// CommentOptions controls one page of a comment listing.
type CommentOptions struct {
	PageSize int
	Cursor   string
}

// CommentResult is one page of comments for an item. The gateway returns
// comments regardless of timestamp; callers filter client-side.
type CommentResult struct {
	Comments   []Comment
	HasMore    bool
	NextCursor string
}

// Gateway is the remote content service the scanner reads from.
// Authentication and API versioning are the gateway's concern.
type Gateway interface {
	// QueryCollection fetches one page of a collection, newest edits
	// first, optionally bounded by an edited-since filter.
	QueryCollection(ctx context.Context, collectionID string, opts QueryOptions) (QueryResult, error)

	// ListComments fetches one page of comments for an item.
	ListComments(ctx context.Context, itemID string, opts CommentOptions) (CommentResult, error)
}
