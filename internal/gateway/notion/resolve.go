package notion

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// surfaceLine matches "Label: collection-id" lines in a bootstrap document.
// Collection ids are 32 hex characters, with or without UUID dashes.
var surfaceLine = regexp.MustCompile(`^\s*([^:]+?)\s*:\s*([0-9a-fA-F]{8}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{12})\s*$`)

const resolvePageSize = 100

// ResolveSurfaceIDs reads a reference page's blocks and extracts
// label/collection-id pairs from its text. It exists as a configuration
// bootstrap: point it at a page listing your databases and it returns a
// surface-key to collection-id mapping ready to paste into config.
//
// Labels are normalized to lowercase kebab-case keys. Later occurrences of
// the same label win.
func (c *Client) ResolveSurfaceIDs(ctx context.Context, bootstrapPageID string) (map[string]string, error) {
	ids := make(map[string]string)
	cursor := ""

	for {
		q := url.Values{}
		q.Set("page_size", fmt.Sprint(resolvePageSize))
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}

		var resp childrenResponse
		path := "/v1/blocks/" + bootstrapPageID + "/children?" + q.Encode()
		if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
			return nil, fmt.Errorf("list bootstrap blocks: %w", err)
		}

		for _, b := range resp.Results {
			label, id, ok := parseSurfaceLine(b.text())
			if !ok {
				continue
			}
			ids[label] = id
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return ids, nil
}

func parseSurfaceLine(text string) (key, id string, ok bool) {
	m := surfaceLine.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return normalizeKey(m[1]), strings.ToLower(m[2]), true
}

func normalizeKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	return strings.Join(strings.Fields(key), "-")
}
