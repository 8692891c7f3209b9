package survey

import "fmt"

// Field is one column/value pair of a response.
type Field struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Context is the full record of a single response.
type Context struct {
	Key    RowKey  `json:"row_key"`
	Fields []Field `json:"fields"`
}

// LookupError means the requested response is not (or no longer) part of the
// filtered subset, typically because filters changed after it was picked.
type LookupError struct {
	Key RowKey
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("response %d is not in the current filtered results", e.Key)
}

// Lookup returns the demographics, themes, tags and comment of one response.
// Membership is checked against this view at call time.
func (v *View) Lookup(key RowKey) (Context, error) {
	if !v.Contains(key) {
		return Context{}, &LookupError{Key: key}
	}
	t := v.table
	cols := make([]string, 0, len(t.dimensions)+len(t.themes)+len(t.tags)+1)
	cols = append(cols, t.dimensions...)
	cols = append(cols, t.themes...)
	cols = append(cols, t.tags...)
	cols = append(cols, t.comment)

	ctx := Context{Key: key, Fields: make([]Field, 0, len(cols))}
	for _, c := range cols {
		if !t.Has(c) {
			continue
		}
		ctx.Fields = append(ctx.Fields, Field{Column: c, Value: t.Value(key, c)})
	}
	return ctx, nil
}
