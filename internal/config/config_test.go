package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv(EnvDataPath, "")
	t.Setenv(EnvLogLevel, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  path: /srv/titles.csv
clustering:
  n_clusters: 4
logging:
  level: debug
`), 0o644))

	t.Setenv(EnvDataPath, "")
	t.Setenv(EnvLogLevel, "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/titles.csv", cfg.Data.Path)
	assert.Equal(t, 4, cfg.Clustering.NClusters)
	assert.Equal(t, 10, cfg.Clustering.NInit, "unset keys keep defaults")
	assert.Equal(t, 5000, cfg.Recommender.MaxFeatures)
	assert.Equal(t, "debug", cfg.Logging.Level)

	t.Setenv(EnvDataPath, "/tmp/other.csv")
	t.Setenv(EnvLogLevel, "warn")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.csv", cfg.Data.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clustering: [unterminated"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Clustering.Seed = 7
	require.NoError(t, Save(path, cfg))

	t.Setenv(EnvDataPath, "")
	t.Setenv(EnvLogLevel, "")
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"clusters", func(c *AppConfig) { c.Clustering.NClusters = 0 }},
		{"n_init", func(c *AppConfig) { c.Clustering.NInit = -1 }},
		{"top_k", func(c *AppConfig) { c.Recommender.TopK = 0 }},
		{"max_features", func(c *AppConfig) { c.Recommender.MaxFeatures = 0 }},
		{"tolerance", func(c *AppConfig) { c.Clustering.Tolerance = 0 }},
		{"data path", func(c *AppConfig) { c.Data.Path = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfiguration))
		})
	}
}
