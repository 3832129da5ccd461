package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at temp dirs so neither a
// real config nor a stray .env leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"DEX_BASE_URL", "DEX_TIMEOUT_MS", "DEX_PAGE_SIZE", "DEX_CONCURRENCY",
		"DEX_REQUESTS_PER_SECOND", "DEX_LOG_FILE", "DEX_LOG_LEVEL", "DEX_LISTEN",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	return home
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != defaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, defaultBaseURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.PageSize != 150 || cfg.Concurrency != 150 {
		t.Fatalf("PageSize/Concurrency = %d/%d, want 150/150", cfg.PageSize, cfg.Concurrency)
	}
	if cfg.RequestsPerSecond != 0 {
		t.Fatalf("RequestsPerSecond = %v, want 0", cfg.RequestsPerSecond)
	}
	want, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != want {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, want)
	}
	if cfg.LogLevel != "info" || cfg.Listen != "" {
		t.Fatalf("LogLevel/Listen = %q/%q, want info/empty", cfg.LogLevel, cfg.Listen)
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := isolate(t)

	dir := filepath.Join(home, ".config", "dex")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("page_size = 20\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PageSize != 20 {
		t.Fatalf("PageSize = %d, want 20", cfg.PageSize)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
base_url = "  http://localhost:9000/api/v2/  "
timeout_ms = 2500
page_size = 40
concurrency = 8
requests_per_second = 12.5
log_file = "  ~/logs/dex.log  "
log_level = " DEBUG "
listen = " :8080 "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "http://localhost:9000/api/v2" {
		t.Fatalf("BaseURL = %q, want trimmed without trailing slash", cfg.BaseURL)
	}
	if cfg.Timeout != 2500*time.Millisecond {
		t.Fatalf("Timeout = %v, want 2.5s", cfg.Timeout)
	}
	if cfg.PageSize != 40 || cfg.Concurrency != 8 || cfg.RequestsPerSecond != 12.5 {
		t.Fatalf("cfg = %#v, want page 40 concurrency 8 rps 12.5", cfg)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" || cfg.Listen != ":8080" {
		t.Fatalf("LogLevel/Listen = %q/%q, want debug/:8080", cfg.LogLevel, cfg.Listen)
	}
}

func TestLoad_NonPositiveValuesUseDefaults(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
base_url = "   "
timeout_ms = 0
page_size = -5
concurrency = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.BaseURL != def.BaseURL || cfg.Timeout != def.Timeout || cfg.PageSize != def.PageSize || cfg.Concurrency != def.Concurrency {
		t.Fatalf("cfg = %#v, want defaults %#v", cfg, def)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("page_size = 40\nlisten = \":1\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("DEX_PAGE_SIZE", "12")
	t.Setenv("DEX_LISTEN", ":9090")
	t.Setenv("DEX_REQUESTS_PER_SECOND", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PageSize != 12 || cfg.Listen != ":9090" || cfg.RequestsPerSecond != 3 {
		t.Fatalf("cfg = %#v, want env overrides applied", cfg)
	}
}

func TestLoad_DotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	isolate(t)

	if err := os.WriteFile(".env", []byte("DEX_CONCURRENCY=4\nDEX_LOG_LEVEL=warn\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("DEX_LOG_LEVEL", "error")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Concurrency != 4 {
		t.Fatalf("Concurrency = %d, want 4 from .env", cfg.Concurrency)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("LogLevel = %q, want process env to win", cfg.LogLevel)
	}
}

func TestLoad_InvalidEnvNumberFails(t *testing.T) {
	isolate(t)
	t.Setenv("DEX_TIMEOUT_MS", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "DEX_TIMEOUT_MS") {
		t.Fatalf("Load error = %v, want DEX_TIMEOUT_MS parse error", err)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`base_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
