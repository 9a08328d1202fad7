package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifiedSurface(key string, items ...ClassifiedItem) ClassifiedSurface {
	return ClassifiedSurface{
		Scan:  SurfaceScan{Surface: Surface{Key: key, Name: key}, PagesQueried: 1},
		Items: items,
	}
}

func TestBuildReport_groups_and_counts(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ranAt := created.Add(6 * time.Hour)

	cs := classifiedSurface("tasks",
		ClassifiedItem{Item: Item{ID: "a", CreatedAt: created, LastEditedAt: created}, Group: GroupNew},
		ClassifiedItem{Item: Item{ID: "b", CreatedAt: created, LastEditedAt: created.Add(time.Hour)}, Group: GroupUpdated},
		ClassifiedItem{Item: Item{ID: "c", CreatedAt: created, LastEditedAt: created, Comments: []Comment{{ID: "c1", Excerpt: "hi"}}}, Group: GroupCommented},
		ClassifiedItem{Item: Item{ID: "d", CreatedAt: created, LastEditedAt: created}, Group: GroupUnchanged},
	)

	report := BuildReport(ranAt, nil, []ClassifiedSurface{cs})

	require.Len(t, report.Surfaces, 1)
	sr := report.Surfaces[0]

	assert.Equal(t, GroupCounts{New: 1, Updated: 1, Commented: 1, Unchanged: 1}, sr.Counts)
	assert.Equal(t, 1, sr.PagesQueried)
	require.Len(t, sr.Commented, 1)
	require.Len(t, sr.Commented[0].Comments, 1)
	assert.Equal(t, "hi", sr.Commented[0].Comments[0].Excerpt)

	// Unchanged items are never dropped; the report stays verifiable.
	require.Len(t, sr.Unchanged, 1)
	assert.Equal(t, "d", sr.Unchanged[0].ID)

	assert.Equal(t, ranAt, report.RanAt)
	assert.Nil(t, report.PreviousWatermark)
}

func TestBuildReport_deterministic_ordering(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ranAt := created.Add(time.Hour)

	newItem := func(id string) ClassifiedItem {
		return ClassifiedItem{Item: Item{ID: id, CreatedAt: created, LastEditedAt: created}, Group: GroupNew}
	}

	// Surfaces and items deliberately out of order, as if scans joined
	// in arbitrary completion order.
	scans := []ClassifiedSurface{
		classifiedSurface("zebra", newItem("z2"), newItem("z1")),
		classifiedSurface("alpha", newItem("a3"), newItem("a1"), newItem("a2")),
	}
	reversed := []ClassifiedSurface{scans[1], scans[0]}

	first := BuildReport(ranAt, nil, scans)
	second := BuildReport(ranAt, nil, reversed)

	assert.Equal(t, first, second)

	require.Len(t, first.Surfaces, 2)
	assert.Equal(t, "alpha", first.Surfaces[0].Key)
	assert.Equal(t, "zebra", first.Surfaces[1].Key)

	ids := []string{}
	for _, ri := range first.Surfaces[0].New {
		ids = append(ids, ri.ID)
	}
	assert.Equal(t, []string{"a1", "a2", "a3"}, ids)
}

func TestReport_totals(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	report := BuildReport(created, nil, []ClassifiedSurface{
		classifiedSurface("a",
			ClassifiedItem{Item: Item{ID: "1"}, Group: GroupNew},
			ClassifiedItem{Item: Item{ID: "2"}, Group: GroupNew},
		),
		classifiedSurface("b",
			ClassifiedItem{Item: Item{ID: "3"}, Group: GroupCommented},
			ClassifiedItem{Item: Item{ID: "4"}, Group: GroupUnchanged},
		),
	})

	assert.Equal(t, GroupCounts{New: 2, Commented: 1, Unchanged: 1}, report.Totals())
}

func TestBuildReport_empty_groups_are_not_nil(t *testing.T) {
	report := BuildReport(time.Now(), nil, []ClassifiedSurface{classifiedSurface("tasks")})

	require.Len(t, report.Surfaces, 1)
	sr := report.Surfaces[0]
	assert.NotNil(t, sr.New)
	assert.NotNil(t, sr.Updated)
	assert.NotNil(t, sr.Commented)
	assert.NotNil(t, sr.Unchanged)
}
