package notion

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSurfaceLine(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
		wantID  string
		ok      bool
	}{
		{
			name:    "plain hex id",
			text:    "Tasks: 0123456789abcdef0123456789abcdef",
			wantKey: "tasks",
			wantID:  "0123456789abcdef0123456789abcdef",
			ok:      true,
		},
		{
			name:    "uuid form",
			text:    "Events: 01234567-89ab-cdef-0123-456789abcdef",
			wantKey: "events",
			wantID:  "01234567-89ab-cdef-0123-456789abcdef",
			ok:      true,
		},
		{
			name:    "multi-word label normalizes to kebab case",
			text:    "  Weekly   Imports : 0123456789ABCDEF0123456789ABCDEF",
			wantKey: "weekly-imports",
			wantID:  "0123456789abcdef0123456789abcdef",
			ok:      true,
		},
		{name: "prose with a colon", text: "Note: remember to update this page"},
		{name: "no colon", text: "just some text"},
		{name: "empty", text: ""},
		{name: "short hex value", text: "Tasks: abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, id, ok := parseSurfaceLine(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func TestResolveSurfaceIDs_paginates(t *testing.T) {
	pages := map[string]string{
		"": `{
			"object": "list",
			"results": [
				{"id": "b1", "type": "heading_2", "heading_2": {"rich_text": [{"plain_text": "Databases"}]}},
				{"id": "b2", "type": "bulleted_list_item", "bulleted_list_item": {"rich_text": [
					{"plain_text": "Tasks: "},
					{"plain_text": "0123456789abcdef0123456789abcdef"}
				]}}
			],
			"has_more": true,
			"next_cursor": "cur-2"
		}`,
		"cur-2": `{
			"object": "list",
			"results": [
				{"id": "b3", "type": "paragraph", "paragraph": {"rich_text": [{"plain_text": "Events: fedcba9876543210fedcba9876543210"}]}},
				{"id": "b4", "type": "divider"}
			],
			"has_more": false
		}`,
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/blocks/boot-page/children", r.URL.Path)
		body, ok := pages[r.URL.Query().Get("start_cursor")]
		require.True(t, ok, "unexpected cursor %q", r.URL.Query().Get("start_cursor"))
		_, _ = w.Write([]byte(body))
	})

	ids, err := client.ResolveSurfaceIDs(context.Background(), "boot-page")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"tasks":  "0123456789abcdef0123456789abcdef",
		"events": "fedcba9876543210fedcba9876543210",
	}, ids)
}
