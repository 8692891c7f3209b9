package service

import (
	"strings"

	"survey-dashboard/internal/survey"
)

// Column roles reported by the profiler
const (
	RoleDimension = "dimension"
	RoleTheme     = "theme"
	RoleTag       = "tag"
	RoleComment   = "comment"
)

// ColumnProfile holds quality metrics for a column of a survey upload
type ColumnProfile struct {
	Column        string  `json:"column"`
	Role          string  `json:"role"`
	TotalRows     int     `json:"total_rows"`
	BlankRows     int     `json:"blank_rows"`
	BlankRate     float64 `json:"blank_rate"`
	DistinctCount int     `json:"distinct_count"`
	TruthyCount   int     `json:"truthy_count,omitempty"` // flags only
	// UnrecognisedFlags counts non-blank flag values that do not read as true
	// and are not an obvious "no" either (e.g. "y", "maybe").
	UnrecognisedFlags int `json:"unrecognised_flags,omitempty"`
}

// DataQualityProfiler summarises how clean each column of an upload is
type DataQualityProfiler struct{}

func NewDataQualityProfiler() *DataQualityProfiler {
	return &DataQualityProfiler{}
}

// ProfileTable profiles every classified column: dimensions, themes, tags,
// then the comment column
func (dqp *DataQualityProfiler) ProfileTable(t *survey.Table) []ColumnProfile {
	profiles := []ColumnProfile{}
	for _, c := range t.Dimensions() {
		profiles = append(profiles, dqp.ProfileColumn(t, c, RoleDimension))
	}
	for _, c := range t.Themes() {
		profiles = append(profiles, dqp.ProfileColumn(t, c, RoleTheme))
	}
	for _, c := range t.Tags() {
		profiles = append(profiles, dqp.ProfileColumn(t, c, RoleTag))
	}
	return append(profiles, dqp.ProfileColumn(t, t.CommentColumn(), RoleComment))
}

// ProfileColumn analyzes a single column
func (dqp *DataQualityProfiler) ProfileColumn(t *survey.Table, column, role string) ColumnProfile {
	profile := ColumnProfile{
		Column:    column,
		Role:      role,
		TotalRows: t.Total(),
	}
	isFlag := role == RoleTheme || role == RoleTag

	unique := make(map[string]struct{})
	for _, key := range t.All().Keys() {
		value := t.Value(key, column)
		if value == "" {
			profile.BlankRows++
			continue
		}
		unique[value] = struct{}{}

		if !isFlag {
			continue
		}
		if survey.IsTruthy(value) {
			profile.TruthyCount++
		} else if !isFalsy(value) {
			profile.UnrecognisedFlags++
		}
	}

	profile.DistinctCount = len(unique)
	profile.BlankRate = survey.Percent(profile.BlankRows, profile.TotalRows)
	return profile
}

func isFalsy(v string) bool {
	switch strings.ToLower(v) {
	case "no", "false", "0":
		return true
	}
	return false
}
