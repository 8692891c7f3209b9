package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountByCategory_ScenarioA(t *testing.T) {
	table := genderTable(t)

	buckets, err := CountByCategory(table.All(), "Gender", table.Total())
	require.NoError(t, err)
	assert.Equal(t, []Bucket{
		{Label: "F", Count: 4, Percent: 0.4},
		{Label: "M", Count: 6, Percent: 0.6},
	}, buckets)
	assert.Equal(t, "40.0%", FormatPercent(buckets[0].Percent))
}

func TestCountByCategory_FixedDenominator(t *testing.T) {
	table := genderTable(t)
	v, err := table.All().ByDimension("Gender", []string{"F"})
	require.NoError(t, err)

	buckets, err := CountByCategory(v, "Gender", table.Total())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, 0.4, buckets[0].Percent)
}

func TestCountByCategory_SumsToRowCount(t *testing.T) {
	table := mustTable(t, nil, []map[string]string{
		{"age": "21-30"}, {"age": ""}, {"age": "31-40"}, {"age": "21-30"}, {"age": "unknown"},
	})
	for _, dim := range table.Dimensions() {
		buckets, err := CountByCategory(table.All(), dim, table.Total())
		require.NoError(t, err)
		sum := 0
		for _, b := range buckets {
			sum += b.Count
		}
		assert.Equal(t, table.Total(), sum, dim)
	}
}

func TestCountThemes_OrderAndPercent(t *testing.T) {
	table := mustTable(t, []string{"pay", "workload", "culture"}, []map[string]string{
		{"workload": "yes", "culture": "yes"},
		{"workload": "yes"},
		{"pay": "yes", "culture": "1"},
		{},
	})

	got := CountThemes(table.All())
	assert.Equal(t, []Bucket{
		{Label: "workload", Count: 2, Percent: 0.5},
		{Label: "culture", Count: 2, Percent: 0.5},
		{Label: "pay", Count: 1, Percent: 0.25},
	}, got)
	for _, b := range got {
		assert.GreaterOrEqual(t, b.Percent, 0.0)
		assert.LessOrEqual(t, b.Percent, 1.0)
	}
}

func TestCountThemes_EmptySubset(t *testing.T) {
	// Scenario C
	table := mustTable(t, []string{"pay", "workload"}, []map[string]string{
		{"gender": "M", "pay": "yes"},
	})
	v, err := table.All().ByDimension("Gender", []string{"F"})
	require.NoError(t, err)
	require.Equal(t, 0, v.Len())

	got := CountThemes(v)
	require.Len(t, got, 2)
	for _, b := range got {
		assert.Equal(t, 0, b.Count)
		assert.Equal(t, 0.0, b.Percent)
		assert.Equal(t, "0.0%", FormatPercent(b.Percent))
	}
}

func TestCountTags(t *testing.T) {
	table := mustTable(t, nil, []map[string]string{
		{"urgent": "yes", "negative": "yes"},
		{"negative": "true"},
	})
	got := CountTags(table.All())
	assert.Equal(t, "negative", got[0].Label)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "urgent", got[1].Label)
	assert.Equal(t, []string{"suggestion", "positive"}, []string{got[2].Label, got[3].Label})
}

func TestPercentAndSummary(t *testing.T) {
	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, 0.25, Percent(1, 4))
	assert.Equal(t, "Showing 4 out of 10 responses", Summary(4, 10))
	assert.Equal(t, "Showing 10 responses", Summary(10, 10))
	assert.Equal(t, "33.3%", FormatPercent(Percent(1, 3)))
}
