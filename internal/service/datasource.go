package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"survey-dashboard/internal/state"

	"github.com/lib/pq"
)

// DataSourceConfig holds connection details
type DataSourceConfig struct {
	DSN      string
	RowLimit int // 0 means no limit
}

// DataSource defines the interface for database-backed survey sources
type DataSource interface {
	Connect(ctx context.Context, config DataSourceConfig) error
	Close() error
	ListTables(ctx context.Context) ([]string, error)
	LoadTable(ctx context.Context, tableName string) (*state.DataFrame, error)
}

// PostgresDataSource implements DataSource for PostgreSQL
type PostgresDataSource struct {
	db       *sql.DB
	rowLimit int
}

func NewPostgresDataSource() *PostgresDataSource {
	return &PostgresDataSource{}
}

func (p *PostgresDataSource) Connect(ctx context.Context, config DataSourceConfig) error {
	connector, err := pq.NewConnector(config.DSN)
	if err != nil {
		return fmt.Errorf("invalid postgres dsn: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}

	p.db = db
	p.rowLimit = config.RowLimit
	return nil
}

func (p *PostgresDataSource) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresDataSource) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name;
	`
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

// LoadTable reads a whole survey table as a raw DataFrame. The table name must
// be one of ListTables and is quoted as an identifier.
func (p *PostgresDataSource) LoadTable(ctx context.Context, tableName string) (*state.DataFrame, error) {
	tables, err := p.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	if !containsTable(tables, tableName) {
		return nil, fmt.Errorf("table %q not found in public schema", tableName)
	}

	query := buildSelect(tableName, p.rowLimit)
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	df := &state.DataFrame{
		Headers:  columns,
		Rows:     [][]string{},
		FileName: tableName,
		Source:   "postgres",
	}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make([]string, len(columns))
		for i, v := range values {
			record[i] = cellString(v)
		}
		df.Rows = append(df.Rows, record)
	}
	return df, rows.Err()
}

func buildSelect(tableName string, limit int) string {
	query := "SELECT * FROM " + pq.QuoteIdentifier(tableName)
	if limit > 0 {
		query += " LIMIT " + strconv.Itoa(limit)
	}
	return query
}

// cellString renders a scanned value the way it would appear in a CSV export.
// NULL becomes the empty string.
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

func containsTable(tables []string, name string) bool {
	for _, t := range tables {
		if t == name {
			return true
		}
	}
	return false
}
