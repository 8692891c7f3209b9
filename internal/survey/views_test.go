package survey

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteTable(t *testing.T) *Table {
	t.Helper()
	return mustTable(t, []string{"workload", "pay"}, []map[string]string{
		{"gender": "F", "staff_group": "Nursing", "Comment": "Too many night shifts", "workload": "yes", "urgent": "yes"},
		{"gender": "M", "staff_group": "Admin", "Comment": "Pay has not kept up", "pay": "yes", "suggestion": "yes"},
		{"gender": "F", "staff_group": "Admin", "Comment": strings.Repeat("x", 80), "workload": "yes", "positive": "yes"},
	})
}

func TestOverview(t *testing.T) {
	table := genderTable(t)

	view, err := Overview(table, OverviewRequest{Dimension: "Gender", Values: []string{All, "M"}})
	require.NoError(t, err)
	assert.Equal(t, Selection{"M"}, view.Selection)
	assert.Equal(t, []string{"F", "M"}, view.Options)
	assert.Equal(t, 6, view.Shown)
	assert.Equal(t, "Showing 6 out of 10 responses", view.Summary)
	assert.Equal(t, []Bucket{{Label: "M", Count: 6, Percent: 0.6}}, view.Buckets)
}

func TestOverview_DefaultsToFirstDimension(t *testing.T) {
	table := genderTable(t)
	view, err := Overview(table, OverviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Occupation group", view.Dimension)
	assert.Equal(t, "Showing 10 responses", view.Summary)
	require.Len(t, view.Buckets, 1)
	assert.Equal(t, "", view.Buckets[0].Label)
	assert.Equal(t, 10, view.Buckets[0].Count)
}

func TestThemes_IgnoresThemeFilter(t *testing.T) {
	table := quoteTable(t)
	view, err := Themes(table, Query{Dimension: "Gender", Values: []string{"F"}, Theme: "pay"})
	require.NoError(t, err)

	assert.Equal(t, 2, view.Shown)
	assert.Equal(t, ThemesDisclaimer, view.Disclaimer)
	assert.Equal(t, []Bucket{
		{Label: "workload", Count: 2, Percent: 1},
		{Label: "pay", Count: 0, Percent: 0},
	}, view.Themes)
}

func TestQuotes_Projection(t *testing.T) {
	table := quoteTable(t)
	q := Query{Dimension: "Staff group", Values: []string{"Admin"}, Theme: "workload", Tags: []string{"positive", All}}

	view, err := Quotes(table, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Staff group", "Comment", "workload", "positive"}, view.Columns)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, RowKey(2), view.Rows[0].Key)
	assert.Equal(t, "Admin", view.Rows[0].Values[0])
	assert.Equal(t, "Showing 1 out of 3 responses", view.Summary)

	require.Len(t, view.Options, 1)
	assert.Equal(t, "2: "+strings.Repeat("x", 50)+"...", view.Options[0].Label)
}

func TestQuotes_NoFilters(t *testing.T) {
	table := quoteTable(t)
	view, err := Quotes(table, Query{Dimension: All})
	require.NoError(t, err)
	assert.Equal(t, []string{"Comment"}, view.Columns)
	assert.Len(t, view.Rows, 3)
	assert.Equal(t, "0: Too many night shifts...", view.Options[0].Label)
}

func TestLookupContext_StaleSelection(t *testing.T) {
	// Scenario E: row 1 was picked under no filter, then Gender=F was applied.
	table := quoteTable(t)
	_, err := LookupContext(table, Query{}, 1)
	require.NoError(t, err)

	_, err = LookupContext(table, Query{Dimension: "Gender", Values: []string{"F"}}, 1)
	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, RowKey(1), lookupErr.Key)
}

func TestLookup_Fields(t *testing.T) {
	table := quoteTable(t)
	ctx, err := table.All().Lookup(0)
	require.NoError(t, err)

	cols := make([]string, len(ctx.Fields))
	for i, f := range ctx.Fields {
		cols[i] = f.Column
	}
	want := append(table.Dimensions(), "workload", "pay")
	want = append(want, DefaultTags...)
	want = append(want, "Comment")
	assert.Equal(t, want, cols)
	assert.Equal(t, "Too many night shifts", ctx.Fields[len(ctx.Fields)-1].Value)

	_, err = table.All().Lookup(99)
	assert.Error(t, err)
	_, err = table.All().Lookup(-1)
	assert.Error(t, err)
}
