package models

import (
	"survey-dashboard/internal/survey"
)

// UploadResponse is returned after a survey file is loaded
type UploadResponse struct {
	DatasetID   string   `json:"dataset_id"`
	Message     string   `json:"message"`
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	ColumnNames []string `json:"column_names"`
	Dimensions  []string `json:"dimensions"`
	Themes      []string `json:"themes"`
	Tags        []string `json:"tags"`
}

// StatusResponse is returned by /status
type StatusResponse struct {
	Loaded     bool     `json:"loaded"`
	DatasetID  string   `json:"dataset_id,omitempty"`
	Filename   string   `json:"filename,omitempty"`
	Source     string   `json:"source,omitempty"`
	LoadedAt   string   `json:"loaded_at,omitempty"`
	Rows       int      `json:"rows"`
	Dimensions []string `json:"dimensions"`
	Themes     []string `json:"themes"`
	Tags       []string `json:"tags"`
}

// ValuesResponse lists the selectable values of one dimension
type ValuesResponse struct {
	Dimension string   `json:"dimension"`
	Options   []string `json:"options"`
}

// ErrorResponse is the body of every JSON error
type ErrorResponse struct {
	Error     string   `json:"error"`
	Missing   []string `json:"missing,omitempty"`
	Duplicate []string `json:"duplicate,omitempty"`
	// Suggestions maps a missing column to a similarly named header in the file
	Suggestions map[string]string `json:"suggestions,omitempty"`
}

// ContextRequest for /context: the filters of the Quotation Bank plus the
// picked response
type ContextRequest struct {
	survey.Query
	RowKey *survey.RowKey `json:"row_key"`
}

// ContextWarning is returned when the picked response left the filtered set
type ContextWarning struct {
	Warning string        `json:"warning"`
	RowKey  survey.RowKey `json:"row_key"`
}

// ImportRequest for /api/db/import
type ImportRequest struct {
	TableName string `json:"table_name"`
}

// TablesResponse for /api/db/tables
type TablesResponse struct {
	Tables []string `json:"tables"`
}
