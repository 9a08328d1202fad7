package notion

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/colonyops/scout/internal/core/scan"
)

// listEnvelope is the common shape of Notion list responses.
type listEnvelope struct {
	Object     string `json:"object"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// queryRequest is the body of a database query call.
type queryRequest struct {
	PageSize    int          `json:"page_size,omitempty"`
	StartCursor string       `json:"start_cursor,omitempty"`
	Filter      *queryFilter `json:"filter,omitempty"`
	Sorts       []querySort  `json:"sorts,omitempty"`
}

type queryFilter struct {
	Timestamp      string          `json:"timestamp"`
	LastEditedTime timestampFilter `json:"last_edited_time"`
}

type timestampFilter struct {
	OnOrAfter string `json:"on_or_after,omitempty"`
}

type querySort struct {
	Timestamp string `json:"timestamp"`
	Direction string `json:"direction"`
}

// queryResponse is one page of database query results.
type queryResponse struct {
	listEnvelope
	Results []page `json:"results"`
}

// page is a database row. CreatedTime and LastEditedTime are required;
// URL and properties may be absent depending on integration capabilities.
type page struct {
	ID             string              `json:"id"`
	CreatedTime    time.Time           `json:"created_time"`
	LastEditedTime time.Time           `json:"last_edited_time"`
	URL            string              `json:"url,omitempty"`
	Properties     map[string]property `json:"properties,omitempty"`
}

// property carries only the pieces needed for title extraction.
type property struct {
	Type  string     `json:"type"`
	Title []richText `json:"title,omitempty"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

// commentsResponse is one page of comment listing results.
type commentsResponse struct {
	listEnvelope
	Results []comment `json:"results"`
}

type comment struct {
	ID          string     `json:"id"`
	CreatedTime time.Time  `json:"created_time"`
	CreatedBy   *user      `json:"created_by,omitempty"`
	RichText    []richText `json:"rich_text,omitempty"`
}

type user struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// childrenResponse is one page of a block-children listing.
type childrenResponse struct {
	listEnvelope
	Results []block `json:"results"`
}

// block carries the text-bearing block variants used for surface resolution.
type block struct {
	ID               string        `json:"id"`
	Type             string        `json:"type"`
	Paragraph        *blockContent `json:"paragraph,omitempty"`
	BulletedListItem *blockContent `json:"bulleted_list_item,omitempty"`
	NumberedListItem *blockContent `json:"numbered_list_item,omitempty"`
	Heading1         *blockContent `json:"heading_1,omitempty"`
	Heading2         *blockContent `json:"heading_2,omitempty"`
	Heading3         *blockContent `json:"heading_3,omitempty"`
	ToDo             *blockContent `json:"to_do,omitempty"`
}

type blockContent struct {
	RichText []richText `json:"rich_text"`
}

// text returns the block's plain text, empty for non-text blocks.
func (b block) text() string {
	for _, c := range []*blockContent{
		b.Paragraph, b.BulletedListItem, b.NumberedListItem,
		b.Heading1, b.Heading2, b.Heading3, b.ToDo,
	} {
		if c != nil {
			return plainText(c.RichText)
		}
	}
	return ""
}

func plainText(parts []richText) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.PlainText)
	}
	return sb.String()
}

func (p page) toItem() scan.Item {
	return scan.Item{
		ID:           p.ID,
		Title:        p.title(),
		URL:          p.URL,
		CreatedAt:    p.CreatedTime,
		LastEditedAt: p.LastEditedTime,
	}
}

// title extracts the page's title property, empty when none is present.
func (p page) title() string {
	for _, prop := range p.Properties {
		if prop.Type == "title" {
			return plainText(prop.Title)
		}
	}
	return ""
}

func (c comment) toComment() scan.Comment {
	excerpt := plainText(c.RichText)
	if len(excerpt) > scan.MaxCommentExcerpt {
		// Cut on a rune boundary so the excerpt stays valid UTF-8.
		cut := scan.MaxCommentExcerpt
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		excerpt = excerpt[:cut]
	}

	author := ""
	if c.CreatedBy != nil {
		author = c.CreatedBy.Name
		if author == "" {
			author = c.CreatedBy.ID
		}
	}

	return scan.Comment{
		ID:        c.ID,
		CreatedAt: c.CreatedTime,
		Author:    author,
		Excerpt:   excerpt,
	}
}
