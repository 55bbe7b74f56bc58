package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	ImageBaseURL      string  `toml:"image_base_url"`
	Language          string  `toml:"language"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// Browse contains configuration for the home/browse view.
type Browse struct {
	PopularPages int `toml:"popular_pages"`
	MinVoteCount int `toml:"min_vote_count"`
	DebounceMS   int `toml:"debounce_ms"`
}

// Storage contains configuration for the personal rating slot.
type Storage struct {
	Backend string `toml:"backend"` // file, sqlite, or memory
	Path    string `toml:"path"`
}

// Server contains configuration for the local web surface.
type Server struct {
	Bind string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Marquee.
//
// Configuration sections by subsystem:
//   - Paths: log directory
//   - TMDB: catalog credentials, endpoints, and request pacing
//   - Browse: popular listing size, vote threshold, and search debounce
//   - Storage: rating slot backend and location
//   - Server: bind address for `marquee serve`
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	TMDB    TMDB    `toml:"tmdb"`
	Browse  Browse  `toml:"browse"`
	Storage Storage `toml:"storage"`
	Server  Server  `toml:"server"`
	Logging Logging `toml:"logging"`
}

// Load reads, normalizes, and validates the configuration. An explicit path
// that does not exist yields defaults with found=false; with no path the
// default location and ./marquee.toml are tried in turn. A missing TMDB API
// key is not a load failure; catalog operations report it when they run.
func Load(path string) (*Config, string, bool, error) {
	loaded := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &loaded); err != nil {
			return nil, "", false, err
		}
	}
	if err := loaded.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := loaded.Validate(); err != nil {
		return nil, "", false, err
	}
	return &loaded, resolvedPath, exists, nil
}

// EnsureDirectories creates the log directory and the parent of the rating slot.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	if c.Storage.Backend != StorageMemory && strings.TrimSpace(c.Storage.Path) != "" {
		dir := filepath.Dir(c.Storage.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage directory %q: %w", dir, err)
		}
	}
	return nil
}

// DebounceWindow returns the search debounce window as a duration.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.Browse.DebounceMS) * time.Millisecond
}

// RequestTimeout returns the per-request TMDB timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.TMDB.TimeoutSeconds) * time.Second
}

// HasAPIKey reports whether a TMDB credential is configured.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.TMDB.APIKey) != ""
}

// Encode renders the effective configuration as TOML. The API key is masked.
func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()
	if err := toml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Encode() ([]byte, error) {
	clone := *c
	if clone.HasAPIKey() {
		clone.TMDB.APIKey = maskSecret(clone.TMDB.APIKey)
	}
	return toml.Marshal(clone)
}

func maskSecret(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= 4 {
		return "****"
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}
