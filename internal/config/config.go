package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	appName         = "gamecat"
	catalogFileName = "catalog.json"
)

// Config holds application configuration.
type Config struct {
	CatalogPath string        `yaml:"catalog_path"`
	MetricsFile string        `yaml:"metrics_file"`
	Sources     SourcesConfig `yaml:"sources"`
	Logging     LoggingConfig `yaml:"logging"`
}

// SourcesConfig holds per-platform discovery settings.
type SourcesConfig struct {
	Steam SourceConfig `yaml:"steam"`
	Epic  SourceConfig `yaml:"epic"`
	GOG   SourceConfig `yaml:"gog"`
}

// SourceConfig overrides discovery for a single platform.
// Path replaces the registry lookup; Disabled skips the platform entirely.
type SourceConfig struct {
	Path     string `yaml:"path,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// LoggingConfig mirrors logging.Config for the file format.
type LoggingConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// configPaths returns the list of paths to search for config file.
func configPaths() []string {
	paths := []string{
		".gamecat.yaml",
		".gamecat.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", appName, "config.yaml"),
			filepath.Join(home, ".config", appName, "config.yml"),
			filepath.Join(home, ".gamecat.yaml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env > GAMECAT_CONFIG > search paths > defaults.
// A .env file in the working directory is read first so its values
// take part in the env layer.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMECAT_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-selected config path
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GAMECAT_CATALOG"); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv("GAMECAT_METRICS_FILE"); v != "" {
		c.MetricsFile = v
	}
	if v := os.Getenv("GAMECAT_STEAM_PATH"); v != "" {
		c.Sources.Steam.Path = v
	}
	if v := os.Getenv("GAMECAT_EPIC_PATH"); v != "" {
		c.Sources.Epic.Path = v
	}
	if v := os.Getenv("GAMECAT_GOG_PATH"); v != "" {
		c.Sources.GOG.Path = v
	}
	if v := os.Getenv("GAMECAT_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("GAMECAT_LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
}

// GetCatalogPath returns the catalog document path, applying defaults.
// The default lives in the per-user config directory.
func (c *Config) GetCatalogPath() string {
	if c.CatalogPath != "" {
		return c.CatalogPath
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName, catalogFileName)
	}
	return catalogFileName
}
