package scan

import (
	"sort"
	"time"
)

// ReportComment is a comment as it appears in the emitted report.
type ReportComment struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
}

// ReportItem is one classified item as it appears in the emitted report.
type ReportItem struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	URL          string          `json:"url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastEditedAt time.Time       `json:"last_edited_at"`
	Group        Group           `json:"group"`
	Comments     []ReportComment `json:"comments,omitempty"`
}

// GroupCounts holds per-group totals for one surface.
type GroupCounts struct {
	New       int `json:"new"`
	Updated   int `json:"updated"`
	Commented int `json:"commented"`
	Unchanged int `json:"unchanged"`
}

// SurfaceReport aggregates one surface's classified items. All four groups
// are fully populated, unchanged items included, so the report stays
// independently verifiable.
type SurfaceReport struct {
	Key          string       `json:"key"`
	Name         string       `json:"name"`
	PagesQueried int          `json:"pages_queried"`
	Truncated    bool         `json:"truncated,omitempty"`
	Counts       GroupCounts  `json:"counts"`
	New          []ReportItem `json:"new"`
	Updated      []ReportItem `json:"updated"`
	Commented    []ReportItem `json:"commented"`
	Unchanged    []ReportItem `json:"unchanged"`
}

// Report is the scan's sole output, emitted once per run. RanAt is captured
// at build time and becomes the next watermark on commit; the previous
// watermark is carried for auditability.
type Report struct {
	RanAt             time.Time       `json:"ran_at"`
	PreviousWatermark *time.Time      `json:"previous_watermark"`
	Surfaces          []SurfaceReport `json:"surfaces"`
}

// ClassifiedSurface pairs a surface scan with its classified items.
type ClassifiedSurface struct {
	Scan  SurfaceScan
	Items []ClassifiedItem
}

// BuildReport aggregates classified surface scans into a report. Surfaces
// may complete in any order; output is deterministic because aggregation
// sorts by surface key and, within each group, by item id.
func BuildReport(ranAt time.Time, previousWatermark *time.Time, surfaces []ClassifiedSurface) Report {
	report := Report{
		RanAt:             ranAt,
		PreviousWatermark: previousWatermark,
		Surfaces:          make([]SurfaceReport, 0, len(surfaces)),
	}

	for _, cs := range surfaces {
		sr := SurfaceReport{
			Key:          cs.Scan.Surface.Key,
			Name:         cs.Scan.Surface.Name,
			PagesQueried: cs.Scan.PagesQueried,
			Truncated:    cs.Scan.Truncated,
			New:          []ReportItem{},
			Updated:      []ReportItem{},
			Commented:    []ReportItem{},
			Unchanged:    []ReportItem{},
		}

		for _, ci := range cs.Items {
			ri := toReportItem(ci)
			switch ci.Group {
			case GroupNew:
				sr.New = append(sr.New, ri)
				sr.Counts.New++
			case GroupUpdated:
				sr.Updated = append(sr.Updated, ri)
				sr.Counts.Updated++
			case GroupCommented:
				sr.Commented = append(sr.Commented, ri)
				sr.Counts.Commented++
			case GroupUnchanged:
				sr.Unchanged = append(sr.Unchanged, ri)
				sr.Counts.Unchanged++
			}
		}

		for _, group := range [][]ReportItem{sr.New, sr.Updated, sr.Commented, sr.Unchanged} {
			sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		}

		report.Surfaces = append(report.Surfaces, sr)
	}

	sort.Slice(report.Surfaces, func(i, j int) bool {
		return report.Surfaces[i].Key < report.Surfaces[j].Key
	})

	return report
}

// Totals sums group counts across all surfaces.
func (r Report) Totals() GroupCounts {
	var t GroupCounts
	for _, s := range r.Surfaces {
		t.New += s.Counts.New
		t.Updated += s.Counts.Updated
		t.Commented += s.Counts.Commented
		t.Unchanged += s.Counts.Unchanged
	}
	return t
}

func toReportItem(ci ClassifiedItem) ReportItem {
	ri := ReportItem{
		ID:           ci.ID,
		Title:        ci.Title,
		URL:          ci.URL,
		CreatedAt:    ci.CreatedAt,
		LastEditedAt: ci.LastEditedAt,
		Group:        ci.Group,
	}
	for _, c := range ci.Comments {
		ri.Comments = append(ri.Comments, ReportComment{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			Author:    c.Author,
			Excerpt:   c.Excerpt,
		})
	}
	return ri
}
