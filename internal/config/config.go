package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// ProjectConfigName is looked up in the working directory
const ProjectConfigName = "mtg-events.toml"

// Paths locates the listing and the files the pipeline reads and writes.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	SourceFile   string `toml:"source_file"`
	DocumentFile string `toml:"document_file"`
	CacheFile    string `toml:"cache_file"`
	ProgressFile string `toml:"progress_file"`
	ResultsFile  string `toml:"results_file"`
}

// Parser contains listing parser settings.
type Parser struct {
	DefaultYear int `toml:"default_year"`
}

// Geocoder contains the Nominatim client settings.
type Geocoder struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	CountryCodes   string `toml:"country_codes"`
	MinIntervalMS  int    `toml:"min_interval_ms"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	BatchSize      int    `toml:"batch_size"`
}

// MinInterval is the enforced gap between two geocoder requests
func (g Geocoder) MinInterval() time.Duration {
	return time.Duration(g.MinIntervalMS) * time.Millisecond
}

// Timeout is the per-request HTTP timeout
func (g Geocoder) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Enrich contains query preparation settings.
type Enrich struct {
	DefaultLimit int `toml:"default_limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for mtg-events.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Parser   Parser   `toml:"parser"`
	Geocoder Geocoder `toml:"geocoder"`
	Enrich   Enrich   `toml:"enrich"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mtg-events/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the path it was read from and whether that file existed. A missing
// file is not an error; defaults are used.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// resolveConfigPath applies the lookup order: explicit path, project file in
// the working directory, per-user file
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s not found", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(ProjectConfigName)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ResolvePath resolves a file path the way configured paths are resolved:
// URLs are returned unchanged, relative paths are joined to the data directory.
func (c *Config) ResolvePath(p string) (string, error) {
	if p == "" || isURL(p) {
		return p, nil
	}
	if !filepath.IsAbs(p) && !strings.HasPrefix(p, "~") {
		p = filepath.Join(c.Paths.DataDir, p)
	}
	return expandPath(p)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// SampleConfig returns the commented sample configuration
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
// An existing file is not overwritten unless force is set.
func CreateSample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
