package survey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var rawDimensions = []string{
	"occupation_group", "lgbtq", "disability", "age", "service_line",
	"gender", "payband", "staff_group", "bme",
}

// frame builds a raw upload with every required column, the given theme
// columns, and one row per entry in rows. Missing cells are left blank.
func frame(themes []string, rows []map[string]string) ([]string, [][]string) {
	headers := append([]string{""}, rawDimensions...)
	headers = append(headers, "Comment")
	headers = append(headers, DefaultTags...)
	headers = append(headers, themes...)

	out := make([][]string, len(rows))
	for i, r := range rows {
		rec := make([]string, len(headers))
		rec[0] = string(rune('0' + i%10))
		for j, h := range headers[1:] {
			rec[j+1] = r[h]
		}
		out[i] = rec
	}
	return headers, out
}

func mustTable(t *testing.T, themes []string, rows []map[string]string) *Table {
	t.Helper()
	headers, records := frame(themes, rows)
	table, err := Normalize(headers, records, DefaultSchema())
	require.NoError(t, err)
	return table
}

// genderTable is Scenario A: six M and four F responses.
func genderTable(t *testing.T) *Table {
	t.Helper()
	var rows []map[string]string
	for i := 0; i < 10; i++ {
		g := "M"
		if i%5 == 1 || i%5 == 3 {
			g = "F"
		}
		rows = append(rows, map[string]string{"gender": g, "Comment": "comment"})
	}
	return mustTable(t, []string{"wellbeing"}, rows)
}
