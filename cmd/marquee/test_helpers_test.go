package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marquee/internal/testsupport"
)

type cliTestEnv struct {
	tmdb       *testsupport.TMDBServer
	configPath string
	dataDir    string
	ratingsDB  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("NEXT_PUBLIC_TMDB_API_KEY", "")
	t.Setenv("NO_COLOR", "1")
	t.Chdir(base)

	server := testsupport.NewTMDBServer(t)
	server.Movies[550] = testsupport.TMDBMovie(550, "Fight Club", 30000)
	env := &cliTestEnv{
		tmdb:       server,
		configPath: filepath.Join(homeDir, ".config", "marquee", "config.toml"),
		dataDir:    filepath.Join(base, "data"),
	}
	env.ratingsDB = filepath.Join(env.dataDir, "ratings.json")
	writeTestConfig(t, env.configPath, server.URL, env.dataDir, env.ratingsDB)
	return env
}

func writeTestConfig(t *testing.T, path, tmdbURL, dataDir, ratingsPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(`[paths]
log_dir = %q

[tmdb]
api_key = "test-key"
base_url = %q
requests_per_second = 0

[browse]
popular_pages = 2
min_vote_count = 700

[storage]
backend = "file"
path = %q
`, filepath.Join(dataDir, "logs"), tmdbURL, ratingsPath)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string, stdin io.Reader) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	} else {
		cmd.SetIn(strings.NewReader(""))
	}
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
