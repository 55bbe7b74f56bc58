package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"marquee/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("NEXT_PUBLIC_TMDB_API_KEY", "")
	t.Chdir(t.TempDir())
	return home
}

func TestLoadDefaultConfigExpandsPathsAndAppliesDefaults(t *testing.T) {
	home := isolateEnv(t)
	t.Setenv("TMDB_API_KEY", "test-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(home, ".config", "marquee", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if want := filepath.Join(home, ".local", "share", "marquee", "ratings.json"); cfg.Storage.Path != want {
		t.Fatalf("unexpected storage path: got %q want %q", cfg.Storage.Path, want)
	}
	if want := filepath.Join(home, ".local", "share", "marquee", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, want)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.Language != "en-US" {
		t.Fatalf("unexpected language: %q", cfg.TMDB.Language)
	}
	if cfg.Browse.PopularPages != 16 || cfg.Browse.MinVoteCount != 700 {
		t.Fatalf("unexpected browse defaults: %+v", cfg.Browse)
	}
	if cfg.DebounceWindow() != 500*time.Millisecond {
		t.Fatalf("unexpected debounce window: %s", cfg.DebounceWindow())
	}
	if cfg.Server.Bind != "127.0.0.1:7488" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Storage.Backend != config.StorageFile {
		t.Fatalf("unexpected backend: %q", cfg.Storage.Backend)
	}
}

func TestLoadWithoutAPIKeySucceeds(t *testing.T) {
	isolateEnv(t)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HasAPIKey() {
		t.Fatalf("expected no API key, got %q", cfg.TMDB.APIKey)
	}
}

func TestLoadFallsBackToLegacyEnvName(t *testing.T) {
	isolateEnv(t)
	t.Setenv("NEXT_PUBLIC_TMDB_API_KEY", "legacy-key")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "legacy-key" {
		t.Fatalf("expected legacy env key, got %q", cfg.TMDB.APIKey)
	}
}

func TestLoadCustomPath(t *testing.T) {
	home := isolateEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := `
[tmdb]
api_key = "file-key"
base_url = "https://example.test/3/"

[browse]
popular_pages = 2
min_vote_count = 10

[storage]
backend = "SQLite"
path = "~/data/ratings.db"
`
	if err := os.WriteFile(configPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected existing config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.TMDB.APIKey != "file-key" {
		t.Fatalf("unexpected key: %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://example.test/3" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.TMDB.BaseURL)
	}
	if cfg.Browse.PopularPages != 2 || cfg.Browse.MinVoteCount != 10 {
		t.Fatalf("unexpected browse section: %+v", cfg.Browse)
	}
	if cfg.Storage.Backend != config.StorageSQLite {
		t.Fatalf("expected lowercased backend, got %q", cfg.Storage.Backend)
	}
	if want := filepath.Join(home, "data", "ratings.db"); cfg.Storage.Path != want {
		t.Fatalf("unexpected storage path: got %q want %q", cfg.Storage.Path, want)
	}
}

func TestConfigFileKeyWinsOverEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TMDB_API_KEY", "env-key")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[tmdb]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "file-key" {
		t.Fatalf("expected file key, got %q", cfg.TMDB.APIKey)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[tmdb\napi_key ="), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestMemoryBackendClearsPath(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[storage]\nbackend = \"memory\"\npath = \"/tmp/x\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Storage.Path != "" {
		t.Fatalf("expected empty path for memory backend, got %q", cfg.Storage.Path)
	}
}

func TestWriteSample(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "config.toml")

	if err := config.WriteSample(target, false); err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	if err := config.WriteSample(target, false); !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
	if err := config.WriteSample(target, true); err != nil {
		t.Fatalf("WriteSample with overwrite returned error: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read sample config: %v", err)
	}
	var parsed config.Config
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if parsed.TMDB.APIKey != "your_tmdb_api_key_here" {
		t.Fatalf("unexpected sample api key: %q", parsed.TMDB.APIKey)
	}
	if parsed.Browse.PopularPages != 16 {
		t.Fatalf("unexpected sample popular pages: %d", parsed.Browse.PopularPages)
	}
}

func TestEncodeMasksAPIKey(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "abcdef123456"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(data), "abcdef123456") {
		t.Fatalf("expected key to be masked, got:\n%s", data)
	}
	if !strings.Contains(string(data), "ab********56") {
		t.Fatalf("expected masked key, got:\n%s", data)
	}
	if cfg.TMDB.APIKey != "abcdef123456" {
		t.Fatal("Encode must not mutate the receiver")
	}
}

func TestEnsureDirectoriesCreatesStorageParent(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Storage.Path = filepath.Join(base, "state", "ratings.json")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Storage.Path)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad backend", func(c *config.Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"file without path", func(c *config.Config) { c.Storage.Path = "" }, "storage.path"},
		{"bad base url", func(c *config.Config) { c.TMDB.BaseURL = "not a url" }, "tmdb.base_url"},
		{"negative rate", func(c *config.Config) { c.TMDB.RequestsPerSecond = -1 }, "tmdb.requests_per_second"},
		{"zero pages", func(c *config.Config) { c.Browse.PopularPages = 0 }, "browse.popular_pages"},
		{"too many pages", func(c *config.Config) { c.Browse.PopularPages = 501 }, "browse.popular_pages"},
		{"bad bind", func(c *config.Config) { c.Server.Bind = "localhost" }, "server.bind"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Storage.Path = "/tmp/ratings.json"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
