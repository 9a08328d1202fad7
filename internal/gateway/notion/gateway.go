package notion

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/colonyops/scout/internal/core/scan"
)

// QueryCollection fetches one page of a database, sorted by last edit time
// descending, optionally bounded by an on-or-after edit-time filter.
func (c *Client) QueryCollection(ctx context.Context, collectionID string, opts scan.QueryOptions) (scan.QueryResult, error) {
	req := queryRequest{
		PageSize:    opts.PageSize,
		StartCursor: opts.Cursor,
		Sorts: []querySort{
			{Timestamp: "last_edited_time", Direction: "descending"},
		},
	}
	if opts.EditedSince != nil {
		req.Filter = &queryFilter{
			Timestamp: "last_edited_time",
			LastEditedTime: timestampFilter{
				OnOrAfter: opts.EditedSince.UTC().Format(time.RFC3339),
			},
		}
	}

	var resp queryResponse
	if err := c.do(ctx, "POST", "/v1/databases/"+collectionID+"/query", req, &resp); err != nil {
		return scan.QueryResult{}, err
	}

	result := scan.QueryResult{
		Items:      make([]scan.Item, 0, len(resp.Results)),
		HasMore:    resp.HasMore,
		NextCursor: resp.NextCursor,
	}
	for _, p := range resp.Results {
		result.Items = append(result.Items, p.toItem())
	}

	return result, nil
}

// ListComments fetches one page of comments attached to a page or block.
// Notion returns comments regardless of creation time; time filtering is
// the caller's concern.
func (c *Client) ListComments(ctx context.Context, itemID string, opts scan.CommentOptions) (scan.CommentResult, error) {
	q := url.Values{}
	q.Set("block_id", itemID)
	if opts.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(opts.PageSize))
	}
	if opts.Cursor != "" {
		q.Set("start_cursor", opts.Cursor)
	}

	var resp commentsResponse
	if err := c.do(ctx, "GET", "/v1/comments?"+q.Encode(), nil, &resp); err != nil {
		return scan.CommentResult{}, err
	}

	result := scan.CommentResult{
		Comments:   make([]scan.Comment, 0, len(resp.Results)),
		HasMore:    resp.HasMore,
		NextCursor: resp.NextCursor,
	}
	for _, cm := range resp.Results {
		result.Comments = append(result.Comments, cm.toComment())
	}

	return result, nil
}
