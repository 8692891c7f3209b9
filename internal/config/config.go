package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"survey-dashboard/internal/survey"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when neither --config nor SURVEY_CONFIG is given.
const DefaultPath = "survey-dashboard.yaml"

// Config holds all dashboard configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Survey   SurveyConfig   `yaml:"survey"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadMB    int      `yaml:"max_upload_mb"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// SurveyConfig is the column layout uploads are validated against.
type SurveyConfig struct {
	Dimensions    []survey.Dimension `yaml:"dimensions"`
	CommentColumn string             `yaml:"comment_column"`
	Tags          []string           `yaml:"tags"`
	IndexColumns  []string           `yaml:"index_columns"`
	DropColumns   []string           `yaml:"drop_columns"`
}

// PostgresConfig configures the optional database import.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	RowLimit int    `yaml:"row_limit"`
}

// Schema converts the survey section into a survey.Schema.
func (s SurveyConfig) Schema() survey.Schema {
	return survey.Schema{
		Dimensions:    append([]survey.Dimension(nil), s.Dimensions...),
		CommentColumn: s.CommentColumn,
		Tags:          append([]string(nil), s.Tags...),
		IndexColumns:  append([]string(nil), s.IndexColumns...),
		DropColumns:   append([]string(nil), s.DropColumns...),
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	schema := survey.DefaultSchema()
	return &Config{
		Server: ServerConfig{
			Port:           "8001",
			AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			MaxUploadMB:    100,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Survey: SurveyConfig{
			Dimensions:    schema.Dimensions,
			CommentColumn: schema.CommentColumn,
			Tags:          schema.Tags,
			IndexColumns:  schema.IndexColumns,
			DropColumns:   []string{},
		},
		Postgres: PostgresConfig{
			RowLimit: 50000,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.MaxUploadMB = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.JSON = b
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.DSN = v
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port must be numeric: %q", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error: %q", c.Logging.Level)
	}
	if c.Postgres.RowLimit < 0 {
		return fmt.Errorf("postgres.row_limit must not be negative")
	}
	if err := c.Survey.Schema().Validate(); err != nil {
		return fmt.Errorf("survey: %w", err)
	}
	return nil
}

// MaxUploadBytes is the multipart size limit derived from MaxUploadMB.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
