package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"survey-dashboard/internal/analysis"
	"survey-dashboard/internal/models"
	"survey-dashboard/internal/service"
	"survey-dashboard/internal/state"
	"survey-dashboard/internal/survey"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	DefaultMaxUploadBytes = 100 * 1024 * 1024 // 100MB
	multipartMemory       = 32 << 20
)

var errNoDatabase = errors.New("no postgres database configured")

type Handler struct {
	Store          *state.AppState
	CSVService     *analysis.CSVService
	Profiler       *service.DataQualityProfiler
	Schema         survey.Schema
	Logger         *zap.Logger
	MaxUploadBytes int64

	DataSourceConfig service.DataSourceConfig
	NewDataSource    func() service.DataSource
}

func NewHandler(store *state.AppState, csv *analysis.CSVService, profiler *service.DataQualityProfiler, schema survey.Schema, logger *zap.Logger) *Handler {
	return &Handler{
		Store:          store,
		CSVService:     csv,
		Profiler:       profiler,
		Schema:         schema,
		Logger:         logger,
		MaxUploadBytes: DefaultMaxUploadBytes,
		NewDataSource: func() service.DataSource {
			return service.NewPostgresDataSource()
		},
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Post("/upload", h.Upload)
	r.Get("/status", h.GetStatus)

	r.Route("/api/datasets/{datasetID}", func(r chi.Router) {
		r.Get("/values", h.GetValues)
		r.Get("/profile", h.GetProfile)
		r.Post("/overview", h.Overview)
		r.Post("/themes", h.Themes)
		r.Post("/quotes", h.Quotes)
		r.Post("/context", h.Context)
	})

	r.Get("/api/db/tables", h.ListTables)
	r.Post("/api/db/import", h.ImportTable)
}

// ============================================================================
// Health & status
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := models.StatusResponse{
		Dimensions: []string{},
		Themes:     []string{},
		Tags:       []string{},
	}
	if ds := h.Store.Current(); ds != nil {
		resp.Loaded = true
		resp.DatasetID = ds.ID
		resp.Filename = ds.FileName
		resp.Source = ds.Source
		resp.LoadedAt = ds.LoadedAt.Format(time.RFC3339)
		resp.Rows = ds.Table.Total()
		resp.Dimensions = ds.Table.Dimensions()
		resp.Themes = ds.Table.Themes()
		resp.Tags = ds.Table.Tags()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ============================================================================
// Upload
// ============================================================================

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "Only CSV files are allowed")
		return
	}

	df, err := h.CSVService.Parse(file)
	if err != nil {
		h.Logger.Warn("csv parse failed", zap.String("file", header.Filename), zap.Error(err))
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse CSV: %v", err))
		return
	}
	df.FileName = header.Filename

	h.load(w, df)
}

// load normalises a raw frame and makes it the active dataset. A schema
// failure discards whatever was loaded before.
func (h *Handler) load(w http.ResponseWriter, df *state.DataFrame) {
	table, err := survey.Normalize(df.Headers, df.Rows, h.Schema)
	if err != nil {
		var schemaErr *survey.SchemaError
		if !errors.As(err, &schemaErr) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.Store.Clear()
		h.Logger.Warn("survey schema rejected",
			zap.String("file", df.FileName),
			zap.Strings("missing", schemaErr.Missing),
			zap.Strings("duplicate", schemaErr.Duplicate))
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:       schemaErr.Error() + ". Please check your file and try again.",
			Missing:     schemaErr.Missing,
			Duplicate:   schemaErr.Duplicate,
			Suggestions: schemaErr.Suggestions,
		})
		return
	}

	ds := h.Store.Replace(df.FileName, df.Source, table)
	h.Logger.Info("survey loaded",
		zap.String("dataset_id", ds.ID),
		zap.String("file", df.FileName),
		zap.String("source", df.Source),
		zap.Int("rows", table.Total()),
		zap.Int("themes", len(table.Themes())))

	writeJSON(w, http.StatusOK, models.UploadResponse{
		DatasetID:   ds.ID,
		Message:     fmt.Sprintf("File '%s' uploaded successfully", df.FileName),
		Rows:        table.Total(),
		Columns:     len(table.Columns()),
		ColumnNames: table.Columns(),
		Dimensions:  table.Dimensions(),
		Themes:      table.Themes(),
		Tags:        table.Tags(),
	})
}

// ============================================================================
// Views
// ============================================================================

func (h *Handler) GetValues(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	dim := r.URL.Query().Get("dimension")
	options, err := ds.Table.DistinctValues(dim)
	if err != nil {
		h.writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ValuesResponse{Dimension: dim, Options: options})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Profiler.ProfileTable(ds.Table))
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	var req survey.OverviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	view, err := survey.Overview(ds.Table, req)
	if err != nil {
		h.writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Themes(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	var q survey.Query
	if err := decodeJSON(r, &q); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	view, err := survey.Themes(ds.Table, q)
	if err != nil {
		h.writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Quotes(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	var q survey.Query
	if err := decodeJSON(r, &q); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	view, err := survey.Quotes(ds.Table, q)
	if err != nil {
		h.writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Context re-applies the caller's filters before returning the picked
// response, so a pick made under older filters is reported, not served.
func (h *Handler) Context(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	var req models.ContextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.RowKey == nil {
		writeError(w, http.StatusBadRequest, "row_key is required")
		return
	}

	ctx, err := survey.LookupContext(ds.Table, req.Query, *req.RowKey)
	var lookupErr *survey.LookupError
	if errors.As(err, &lookupErr) {
		h.Logger.Warn("context lookup outside filtered set",
			zap.String("dataset_id", ds.ID),
			zap.Int("row_key", int(lookupErr.Key)))
		writeJSON(w, http.StatusConflict, models.ContextWarning{Warning: err.Error(), RowKey: lookupErr.Key})
		return
	}
	if err != nil {
		h.writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ctx)
}

// ============================================================================
// Database import
// ============================================================================

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	src, err := h.openDataSource(r.Context())
	if err != nil {
		h.writeDBError(w, err)
		return
	}
	defer src.Close()

	tables, err := src.ListTables(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Error listing tables: %v", err))
		return
	}
	if tables == nil {
		tables = []string{}
	}
	writeJSON(w, http.StatusOK, models.TablesResponse{Tables: tables})
}

// ImportTable loads a survey table from Postgres and makes it the active
// dataset, exactly as an upload would.
func (h *Handler) ImportTable(w http.ResponseWriter, r *http.Request) {
	var req models.ImportRequest
	if err := decodeJSON(r, &req); err != nil || req.TableName == "" {
		writeError(w, http.StatusBadRequest, "table_name is required")
		return
	}

	src, err := h.openDataSource(r.Context())
	if err != nil {
		h.writeDBError(w, err)
		return
	}
	defer src.Close()

	df, err := src.LoadTable(r.Context(), req.TableName)
	if err != nil {
		h.Logger.Warn("postgres import failed", zap.String("table", req.TableName), zap.Error(err))
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Error loading table: %v", err))
		return
	}
	h.load(w, df)
}

func (h *Handler) openDataSource(ctx context.Context) (service.DataSource, error) {
	if h.DataSourceConfig.DSN == "" || h.NewDataSource == nil {
		return nil, errNoDatabase
	}
	src := h.NewDataSource()
	if err := src.Connect(ctx, h.DataSourceConfig); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return src, nil
}

func (h *Handler) writeDBError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNoDatabase) {
		writeError(w, http.StatusBadRequest, "No database configured")
		return
	}
	h.Logger.Warn("postgres unavailable", zap.Error(err))
	writeError(w, http.StatusBadGateway, err.Error())
}

// ============================================================================
// Helpers
// ============================================================================

func (h *Handler) dataset(w http.ResponseWriter, r *http.Request) (*state.Dataset, bool) {
	ds, ok := h.Store.Get(chi.URLParam(r, "datasetID"))
	if !ok {
		writeError(w, http.StatusNotFound, "Dataset not found; it may have been replaced by a newer upload")
		return nil, false
	}
	return ds, true
}

func (h *Handler) writeViewError(w http.ResponseWriter, err error) {
	if errors.Is(err, survey.ErrUnknownColumn) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.Logger.Error("view failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

// decodeJSON decodes the request body into v. An empty body leaves v at its
// zero value.
func decodeJSON(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
