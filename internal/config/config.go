package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
)

// Environment variables that override file values.
const (
	EnvDataPath = "NETFLIX_EXPLORER_DATA"
	EnvLogLevel = "NETFLIX_EXPLORER_LOG_LEVEL"
)

// DataConfig locates the title catalog.
type DataConfig struct {
	Path string `yaml:"path"`
}

// RecommenderConfig configures the TF-IDF encoder and queries.
type RecommenderConfig struct {
	MaxFeatures int `yaml:"max_features"`
	TopK        int `yaml:"top_k"`
}

// ClusteringConfig configures k-means.
type ClusteringConfig struct {
	NClusters int     `yaml:"n_clusters"`
	NInit     int     `yaml:"n_init"`
	Seed      int64   `yaml:"seed"`
	MaxIter   int     `yaml:"max_iter"`
	Tolerance float64 `yaml:"tolerance"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Path   string `yaml:"path,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Data        DataConfig        `yaml:"data"`
	Recommender RecommenderConfig `yaml:"recommender"`
	Clustering  ClusteringConfig  `yaml:"clustering"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/netflix-explorer/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports non-positive counts as configuration errors.
func (c *AppConfig) Validate() error {
	var errs []error
	check := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %d", domain.ErrConfiguration, name, v))
		}
	}
	check("recommender.max_features", c.Recommender.MaxFeatures)
	check("recommender.top_k", c.Recommender.TopK)
	check("clustering.n_clusters", c.Clustering.NClusters)
	check("clustering.n_init", c.Clustering.NInit)
	check("clustering.max_iter", c.Clustering.MaxIter)
	if c.Clustering.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("%w: clustering.tolerance must be positive, got %g", domain.ErrConfiguration, c.Clustering.Tolerance))
	}
	if c.Data.Path == "" {
		errs = append(errs, fmt.Errorf("%w: data.path is empty", domain.ErrConfiguration))
	}
	return errors.Join(errs...)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "netflix-explorer", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Data:        DataConfig{Path: filepath.Join("data", "titles.csv")},
		Recommender: RecommenderConfig{MaxFeatures: 5000, TopK: 10},
		Clustering:  ClusteringConfig{NClusters: 8, NInit: 10, Seed: 42, MaxIter: 300, Tolerance: 1e-4},
		Logging:     LoggingConfig{Level: "info", Format: "console"},
	}
}

// applyConfigDefaults fills keys a file left blank.
func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Data.Path == "" {
		cfg.Data.Path = filepath.Join("data", "titles.csv")
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv(EnvDataPath); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}
