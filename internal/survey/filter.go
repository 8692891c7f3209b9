package survey

import (
	"fmt"
	"sort"
)

// Selection is a normalised multi-select value: either exactly [All] or a set
// of concrete values.
type Selection []string

// NormalizeSelection applies the multi-select rule: concrete values take
// precedence over All, an empty selection means All, duplicates collapse.
func NormalizeSelection(values []string) Selection {
	seen := make(map[string]bool, len(values))
	out := Selection{}
	for _, v := range values {
		if v == All || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return Selection{All}
	}
	return out
}

func (s Selection) IsAll() bool {
	return len(s) == 0 || (len(s) == 1 && s[0] == All)
}

func (s Selection) set() map[string]bool {
	m := make(map[string]bool, len(s))
	for _, v := range s {
		m[v] = true
	}
	return m
}

// View is a filtered subset of a table. Keys stay in upload order.
type View struct {
	table *Table
	keys  []RowKey
}

// All returns the identity view over every response.
func (t *Table) All() *View {
	keys := make([]RowKey, len(t.rows))
	for i := range keys {
		keys[i] = RowKey(i)
	}
	return &View{table: t, keys: keys}
}

func (v *View) Table() *Table { return v.table }
func (v *View) Len() int      { return len(v.keys) }

func (v *View) Keys() []RowKey {
	return append([]RowKey(nil), v.keys...)
}

// Contains reports whether key is part of this subset.
func (v *View) Contains(key RowKey) bool {
	i := sort.Search(len(v.keys), func(i int) bool { return v.keys[i] >= key })
	return i < len(v.keys) && v.keys[i] == key
}

func (v *View) where(keep func(RowKey) bool) *View {
	out := &View{table: v.table, keys: make([]RowKey, 0, len(v.keys))}
	for _, k := range v.keys {
		if keep(k) {
			out.keys = append(out.keys, k)
		}
	}
	return out
}

// ByDimension keeps rows whose dimension value is in the selection.
func (v *View) ByDimension(dimension string, values []string) (*View, error) {
	if !v.table.IsDimension(dimension) {
		return nil, fmt.Errorf("dimension %q: %w", dimension, ErrUnknownColumn)
	}
	sel := NormalizeSelection(values)
	if sel.IsAll() {
		return v, nil
	}
	want := sel.set()
	c := v.table.index[dimension]
	return v.where(func(k RowKey) bool {
		return want[v.table.rows[k][c]]
	}), nil
}

// ByTheme keeps rows where the theme flag is set. All is the identity.
func (v *View) ByTheme(theme string) (*View, error) {
	if theme == "" || theme == All {
		return v, nil
	}
	if !v.table.IsTheme(theme) {
		return nil, fmt.Errorf("theme %q: %w", theme, ErrUnknownColumn)
	}
	c := v.table.index[theme]
	return v.where(func(k RowKey) bool {
		return IsTruthy(v.table.rows[k][c])
	}), nil
}

// ByTags keeps rows where at least one of the selected tags is set.
func (v *View) ByTags(tags []string) (*View, error) {
	sel := NormalizeSelection(tags)
	if sel.IsAll() {
		return v, nil
	}
	cols := make([]int, 0, len(sel))
	for _, tag := range sel {
		if !v.table.IsTag(tag) {
			return nil, fmt.Errorf("tag %q: %w", tag, ErrUnknownColumn)
		}
		cols = append(cols, v.table.index[tag])
	}
	return v.where(func(k RowKey) bool {
		for _, c := range cols {
			if IsTruthy(v.table.rows[k][c]) {
				return true
			}
		}
		return false
	}), nil
}

// Query is the complete filter state of one view. Empty fields and All mean
// no restriction; active filters combine with AND.
type Query struct {
	Dimension string   `json:"dimension,omitempty"`
	Values    []string `json:"values,omitempty"`
	Theme     string   `json:"theme,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// HasDimension reports whether the query slices by a dimension at all.
func (q Query) HasDimension() bool {
	return q.Dimension != "" && q.Dimension != All
}

// Apply derives the filtered subset of t described by q.
func Apply(t *Table, q Query) (*View, error) {
	v := t.All()
	var err error
	if q.HasDimension() {
		if v, err = v.ByDimension(q.Dimension, q.Values); err != nil {
			return nil, err
		}
	}
	if v, err = v.ByTheme(q.Theme); err != nil {
		return nil, err
	}
	return v.ByTags(q.Tags)
}
