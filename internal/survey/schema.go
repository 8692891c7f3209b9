package survey

import (
	"fmt"
	"strings"
)

const (
	// All is the selection sentinel meaning "no restriction".
	All = "All"

	DefaultCommentColumn = "Comment"
)

// DefaultTags are the fixed priority/sentiment flag columns.
var DefaultTags = []string{"suggestion", "urgent", "positive", "negative"}

// DefaultIndexColumns are header names written by dataframe exports for the row index.
var DefaultIndexColumns = []string{"", "Unnamed: 0"}

// Dimension maps a raw demographic field name to its display name.
// Optional dimensions are used when present but never required.
type Dimension struct {
	Raw      string `yaml:"raw" json:"raw"`
	Display  string `yaml:"display" json:"display"`
	Optional bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Schema is the static column configuration a survey upload is checked against.
type Schema struct {
	Dimensions    []Dimension
	CommentColumn string
	Tags          []string
	IndexColumns  []string
	DropColumns   []string
}

// DefaultSchema returns the staff survey column layout.
func DefaultSchema() Schema {
	return Schema{
		Dimensions: []Dimension{
			{Raw: "occupation_group", Display: "Occupation group"},
			{Raw: "lgbtq", Display: "Sexuality"},
			{Raw: "disability", Display: "Disability"},
			{Raw: "age", Display: "Age group"},
			{Raw: "service_line", Display: "Service line"},
			{Raw: "division", Display: "Division", Optional: true},
			{Raw: "gender", Display: "Gender"},
			{Raw: "payband", Display: "Pay band"},
			{Raw: "staff_group", Display: "Staff group"},
			{Raw: "bme", Display: "Ethnicity"},
		},
		CommentColumn: DefaultCommentColumn,
		Tags:          append([]string(nil), DefaultTags...),
		IndexColumns:  append([]string(nil), DefaultIndexColumns...),
	}
}

// Validate checks that the schema is internally consistent. A display name
// that doubles as another dimension's raw name would make normalisation
// non-idempotent, so it is rejected.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.CommentColumn) == "" {
		return fmt.Errorf("schema: comment column is required")
	}
	if len(s.Dimensions) == 0 {
		return fmt.Errorf("schema: at least one dimension is required")
	}

	seen := map[string]string{s.CommentColumn: "comment column"}
	for _, tag := range s.Tags {
		if tag == "" {
			return fmt.Errorf("schema: empty tag name")
		}
		if prev, ok := seen[tag]; ok {
			return fmt.Errorf("schema: tag %q clashes with %s", tag, prev)
		}
		seen[tag] = "tag"
	}

	raws := make(map[string]bool, len(s.Dimensions))
	for _, d := range s.Dimensions {
		if d.Raw == "" || d.Display == "" {
			return fmt.Errorf("schema: dimension needs both raw and display names (%q -> %q)", d.Raw, d.Display)
		}
		if prev, ok := seen[d.Display]; ok {
			return fmt.Errorf("schema: dimension %q clashes with %s", d.Display, prev)
		}
		seen[d.Display] = "dimension"
		raws[d.Raw] = true
	}
	for _, d := range s.Dimensions {
		if raws[d.Display] && d.Display != d.Raw {
			return fmt.Errorf("schema: display name %q is also a raw field name", d.Display)
		}
	}
	return nil
}

// Expected lists the columns a normalised table must contain, in report order.
func (s Schema) Expected() []string {
	out := make([]string, 0, len(s.Dimensions)+1+len(s.Tags))
	for _, d := range s.Dimensions {
		if !d.Optional {
			out = append(out, d.Display)
		}
	}
	out = append(out, s.CommentColumn)
	return append(out, s.Tags...)
}

func (s Schema) known() map[string]bool {
	known := make(map[string]bool, len(s.Dimensions)+1+len(s.Tags))
	for _, d := range s.Dimensions {
		known[d.Display] = true
	}
	known[s.CommentColumn] = true
	for _, t := range s.Tags {
		known[t] = true
	}
	return known
}

// ThemeColumns derives the theme columns of a normalised header: every column
// that is not a dimension display name, the comment column or a tag.
// Discovery order is preserved.
func ThemeColumns(columns []string, s Schema) []string {
	known := s.known()
	themes := []string{}
	for _, c := range columns {
		if !known[c] {
			themes = append(themes, c)
		}
	}
	return themes
}

// SchemaError reports an upload whose columns do not satisfy the schema.
// Suggestions maps a missing column to a similarly named header that was
// present but not recognised.
type SchemaError struct {
	Missing     []string
	Duplicate   []string
	Suggestions map[string]string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		names := make([]string, len(e.Missing))
		for i, m := range e.Missing {
			names[i] = m
			if hint, ok := e.Suggestions[m]; ok {
				names[i] = fmt.Sprintf("%s (found %q)", m, hint)
			}
		}
		parts = append(parts, "missing expected columns: "+strings.Join(names, ", "))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate columns: "+strings.Join(e.Duplicate, ", "))
	}
	if len(parts) == 0 {
		return "invalid survey schema"
	}
	return strings.Join(parts, "; ")
}

// Normalize turns a raw header and rows into an immutable Table. Index and
// dropped columns are removed, raw demographic names are renamed to display
// names, and short rows are padded with empty cells.
func Normalize(headers []string, rows [][]string, s Schema) (*Table, error) {
	alias := make(map[string]string, len(s.Dimensions))
	for _, d := range s.Dimensions {
		alias[d.Raw] = d.Display
	}
	drop := make(map[string]bool, len(s.IndexColumns)+len(s.DropColumns))
	for _, c := range s.IndexColumns {
		drop[c] = true
	}
	for _, c := range s.DropColumns {
		drop[c] = true
	}

	var (
		columns []string
		source  []int
		dupes   []string
	)
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if drop[h] {
			continue
		}
		name := h
		if display, ok := alias[h]; ok {
			name = display
		}
		if _, exists := index[name]; exists {
			dupes = append(dupes, name)
			continue
		}
		index[name] = len(columns)
		columns = append(columns, name)
		source = append(source, i)
	}

	var missing []string
	for _, c := range s.Expected() {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 || len(dupes) > 0 {
		return nil, &SchemaError{
			Missing:     missing,
			Duplicate:   dupes,
			Suggestions: suggestColumns(missing, ThemeColumns(columns, s), s),
		}
	}

	records := make([][]string, len(rows))
	for r, row := range rows {
		rec := make([]string, len(columns))
		for c, src := range source {
			if src < len(row) {
				rec[c] = row[src]
			}
		}
		records[r] = rec
	}

	dims := []string{}
	for _, d := range s.Dimensions {
		if _, ok := index[d.Display]; ok {
			dims = append(dims, d.Display)
		}
	}

	return &Table{
		columns:    columns,
		index:      index,
		rows:       records,
		dimensions: dims,
		themes:     ThemeColumns(columns, s),
		tags:       append([]string(nil), s.Tags...),
		comment:    s.CommentColumn,
	}, nil
}
