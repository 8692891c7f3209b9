package config

import (
	"os"
	"path/filepath"
	"testing"

	"survey-dashboard/internal/survey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "CORS_ORIGINS", "MAX_UPLOAD_MB", "LOG_LEVEL", "LOG_JSON", "DATABASE_URL"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8001", cfg.Server.Port)
	assert.Equal(t, int64(100<<20), cfg.MaxUploadBytes())
	assert.Equal(t, survey.DefaultSchema(), cfg.Survey.Schema())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = "9090"
	cfg.Survey.DropColumns = []string{"division"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", loaded.Server.Port)
	assert.Equal(t, []string{"division"}, loaded.Survey.DropColumns)
	assert.Equal(t, cfg.Survey.Dimensions, loaded.Survey.Dimensions)
}

func TestLoad_YAMLReplacesDimensionList(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := `
survey:
  dimensions:
    - raw: gender
      display: Gender
    - raw: site
      display: Site
      optional: true
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []survey.Dimension{
		{Raw: "gender", Display: "Gender"},
		{Raw: "site", Display: "Site", Optional: true},
	}, cfg.Survey.Dimensions)
	assert.Equal(t, "Comment", cfg.Survey.CommentColumn)
}

func TestConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("DATABASE_URL", "postgres://localhost/survey")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5, cfg.Server.MaxUploadMB)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, "postgres://localhost/survey", cfg.Postgres.DSN)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }},
		{name: "non numeric port", mutate: func(c *Config) { c.Server.Port = "http" }},
		{name: "zero upload", mutate: func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }},
		{name: "negative row limit", mutate: func(c *Config) { c.Postgres.RowLimit = -1 }},
		{name: "no comment column", mutate: func(c *Config) { c.Survey.CommentColumn = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
