package survey

import (
	"fmt"
	"sort"
)

// Bucket is one row of an aggregate table. Percent is the exact fraction
// count/denominator in [0,1].
type Bucket struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Percent returns count/denominator, or 0 when the denominator is 0.
func Percent(count, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(count) / float64(denominator)
}

// FormatPercent renders a fraction as a one-decimal percentage, e.g. "40.0%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// Summary is the response-count line shown above every view.
func Summary(shown, total int) string {
	if shown != total {
		return fmt.Sprintf("Showing %d out of %d responses", shown, total)
	}
	return fmt.Sprintf("Showing %d responses", total)
}

// CountByCategory groups the view by a dimension's values, sorted by label.
// Percentages use total as denominator, normally the unfiltered table size.
// Blank cells form their own bucket so counts always sum to v.Len().
func CountByCategory(v *View, dimension string, total int) ([]Bucket, error) {
	if !v.table.IsDimension(dimension) {
		return nil, fmt.Errorf("dimension %q: %w", dimension, ErrUnknownColumn)
	}
	c := v.table.index[dimension]
	counts := make(map[string]int)
	for _, k := range v.keys {
		counts[v.table.rows[k][c]]++
	}

	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	buckets := make([]Bucket, len(labels))
	for i, l := range labels {
		buckets[i] = Bucket{Label: l, Count: counts[l], Percent: Percent(counts[l], total)}
	}
	return buckets, nil
}

// CountThemes counts each theme flag within the view. Percentages are relative
// to the view size. Higher counts come first; equal counts keep theme order.
func CountThemes(v *View) []Bucket {
	return v.countFlags(v.table.themes)
}

// CountTags is CountThemes for the fixed tag columns.
func CountTags(v *View) []Bucket {
	return v.countFlags(v.table.tags)
}

func (v *View) countFlags(columns []string) []Bucket {
	buckets := make([]Bucket, 0, len(columns))
	for _, col := range columns {
		c := v.table.index[col]
		n := 0
		for _, k := range v.keys {
			if IsTruthy(v.table.rows[k][c]) {
				n++
			}
		}
		buckets = append(buckets, Bucket{Label: col, Count: n, Percent: Percent(n, len(v.keys))})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	return buckets
}
