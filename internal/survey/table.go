package survey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownColumn is returned when a filter or aggregation names a column
// the table does not have in the requested role.
var ErrUnknownColumn = errors.New("unknown column")

// RowKey identifies a response by its position in the uploaded file. Keys are
// stable for the lifetime of the table they came from.
type RowKey int

// Table is a normalised survey upload. It is never mutated after Normalize.
type Table struct {
	columns    []string
	index      map[string]int
	rows       [][]string
	dimensions []string
	themes     []string
	tags       []string
	comment    string
}

// Total is the number of responses in the upload.
func (t *Table) Total() int { return len(t.rows) }

func (t *Table) Columns() []string    { return append([]string(nil), t.columns...) }
func (t *Table) Dimensions() []string { return append([]string(nil), t.dimensions...) }
func (t *Table) Themes() []string     { return append([]string(nil), t.themes...) }
func (t *Table) Tags() []string       { return append([]string(nil), t.tags...) }
func (t *Table) CommentColumn() string {
	return t.comment
}

// Records returns a copy of the normalised rows in column order.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

func (t *Table) IsDimension(name string) bool { return contains(t.dimensions, name) }
func (t *Table) IsTheme(name string) bool     { return contains(t.themes, name) }
func (t *Table) IsTag(name string) bool       { return contains(t.tags, name) }

// Value returns the cell for key and column, or "" when either is out of range.
func (t *Table) Value(key RowKey, column string) string {
	c, ok := t.index[column]
	if !ok || key < 0 || int(key) >= len(t.rows) {
		return ""
	}
	return t.rows[key][c]
}

// Comment returns the free-text comment of a response.
func (t *Table) Comment(key RowKey) string {
	return t.Value(key, t.comment)
}

// DistinctValues lists the non-blank values of a dimension, sorted ascending.
func (t *Table) DistinctValues(dimension string) ([]string, error) {
	if !t.IsDimension(dimension) {
		return nil, fmt.Errorf("dimension %q: %w", dimension, ErrUnknownColumn)
	}
	c := t.index[dimension]
	seen := make(map[string]bool)
	values := []string{}
	for _, r := range t.rows {
		v := r[c]
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// IsTruthy reports whether a flag cell counts as set: its lower-case form must
// be exactly "yes", "true" or "1".
func IsTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "yes", "true", "1":
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
