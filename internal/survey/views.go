package survey

import (
	"fmt"
)

const (
	ThemesDisclaimer = "These themes were identified and assigned using AI. AI isn't perfect and may make mistakes."
	QuotesDisclaimer = "Themes and tags were identified and assigned using AI. AI isn't perfect and may make mistakes."

	quotePreviewRunes = 50
)

// OverviewRequest selects the dimension and values of the Overview tab.
// An empty dimension means the first dimension of the table.
type OverviewRequest struct {
	Dimension string   `json:"dimension"`
	Values    []string `json:"values"`
}

// OverviewView is the distribution of one dimension. Percentages are shares of
// all responses, not of the filtered subset.
type OverviewView struct {
	Dimension string    `json:"dimension"`
	Selection Selection `json:"selection"`
	Options   []string  `json:"options"`
	Shown     int       `json:"shown"`
	Total     int       `json:"total"`
	Summary   string    `json:"summary"`
	Buckets   []Bucket  `json:"buckets"`
}

// Overview builds the Overview tab for req.
func Overview(t *Table, req OverviewRequest) (*OverviewView, error) {
	dim := req.Dimension
	if dim == "" {
		if len(t.dimensions) == 0 {
			return nil, fmt.Errorf("table has no dimensions: %w", ErrUnknownColumn)
		}
		dim = t.dimensions[0]
	}
	options, err := t.DistinctValues(dim)
	if err != nil {
		return nil, err
	}
	sel := NormalizeSelection(req.Values)
	v, err := t.All().ByDimension(dim, sel)
	if err != nil {
		return nil, err
	}
	buckets, err := CountByCategory(v, dim, t.Total())
	if err != nil {
		return nil, err
	}
	return &OverviewView{
		Dimension: dim,
		Selection: sel,
		Options:   options,
		Shown:     v.Len(),
		Total:     t.Total(),
		Summary:   Summary(v.Len(), t.Total()),
		Buckets:   buckets,
	}, nil
}

// ThemesView is theme prevalence within a filtered subset, with the tag
// prevalence of the same subset alongside.
type ThemesView struct {
	Query      Query    `json:"query"`
	Shown      int      `json:"shown"`
	Total      int      `json:"total"`
	Summary    string   `json:"summary"`
	Disclaimer string   `json:"disclaimer"`
	Themes     []Bucket `json:"themes"`
	Tags       []Bucket `json:"tags"`
}

// Themes builds the Themes tab. Only the dimension and tag parts of q apply.
func Themes(t *Table, q Query) (*ThemesView, error) {
	q.Theme = ""
	v, err := Apply(t, q)
	if err != nil {
		return nil, err
	}
	return &ThemesView{
		Query:      q,
		Shown:      v.Len(),
		Total:      t.Total(),
		Summary:    Summary(v.Len(), t.Total()),
		Disclaimer: ThemesDisclaimer,
		Themes:     CountThemes(v),
		Tags:       CountTags(v),
	}, nil
}

// QuoteRow is one listed response, with values in QuotesView.Columns order.
type QuoteRow struct {
	Key    RowKey   `json:"row_key"`
	Values []string `json:"values"`
}

// QuoteOption labels a response in the context picker.
type QuoteOption struct {
	Key   RowKey `json:"row_key"`
	Label string `json:"label"`
}

// QuotesView is the Quotation Bank listing.
type QuotesView struct {
	Query      Query         `json:"query"`
	Shown      int           `json:"shown"`
	Total      int           `json:"total"`
	Summary    string        `json:"summary"`
	Disclaimer string        `json:"disclaimer"`
	Columns    []string      `json:"columns"`
	Rows       []QuoteRow    `json:"rows"`
	Options    []QuoteOption `json:"options"`
}

// QuoteColumns is the projection shown in the Quotation Bank: the filtered
// dimension, the comment, the selected theme and the selected tags.
func QuoteColumns(t *Table, q Query) []string {
	cols := []string{}
	if q.HasDimension() {
		cols = append(cols, q.Dimension)
	}
	cols = append(cols, t.comment)
	if q.Theme != "" && q.Theme != All {
		cols = append(cols, q.Theme)
	}
	if tags := NormalizeSelection(q.Tags); !tags.IsAll() {
		cols = append(cols, tags...)
	}
	return cols
}

// QuoteOptions labels each response of the view as "<key>: <comment start>...".
func QuoteOptions(v *View) []QuoteOption {
	opts := make([]QuoteOption, len(v.keys))
	for i, k := range v.keys {
		preview := []rune(v.table.Comment(k))
		if len(preview) > quotePreviewRunes {
			preview = preview[:quotePreviewRunes]
		}
		opts[i] = QuoteOption{Key: k, Label: fmt.Sprintf("%d: %s...", k, string(preview))}
	}
	return opts
}

// Quotes builds the Quotation Bank for q.
func Quotes(t *Table, q Query) (*QuotesView, error) {
	v, err := Apply(t, q)
	if err != nil {
		return nil, err
	}
	cols := QuoteColumns(t, q)
	rows := make([]QuoteRow, v.Len())
	for i, k := range v.keys {
		vals := make([]string, len(cols))
		for j, c := range cols {
			vals[j] = t.Value(k, c)
		}
		rows[i] = QuoteRow{Key: k, Values: vals}
	}
	return &QuotesView{
		Query:      q,
		Shown:      v.Len(),
		Total:      t.Total(),
		Summary:    Summary(v.Len(), t.Total()),
		Disclaimer: QuotesDisclaimer,
		Columns:    cols,
		Rows:       rows,
		Options:    QuoteOptions(v),
	}, nil
}

// LookupContext re-applies q and returns the context of key if it is still
// part of the result.
func LookupContext(t *Table, q Query, key RowKey) (Context, error) {
	v, err := Apply(t, q)
	if err != nil {
		return Context{}, err
	}
	return v.Lookup(key)
}
