package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings dex needs at startup.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	PageSize          int
	Concurrency       int
	RequestsPerSecond float64
	LogFile           string
	LogLevel          string
	Listen            string
}

const (
	defaultConfigPath  = "~/.config/dex/config.toml"
	defaultEnvFile     = ".env"
	defaultBaseURL     = "https://pokeapi.co/api/v2"
	defaultTimeout     = 10 * time.Second
	defaultPageSize    = 150
	defaultConcurrency = 150
	defaultLogFile     = "~/.local/share/dex/dex.log"
	defaultLogLevel    = "info"
)

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		BaseURL:     defaultBaseURL,
		Timeout:     defaultTimeout,
		PageSize:    defaultPageSize,
		Concurrency: defaultConcurrency,
		LogFile:     mustExpand(defaultLogFile),
		LogLevel:    defaultLogLevel,
	}
}

type fileConfig struct {
	BaseURL           string  `toml:"base_url"`
	TimeoutMS         int     `toml:"timeout_ms"`
	PageSize          int     `toml:"page_size"`
	Concurrency       int     `toml:"concurrency"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	LogFile           string  `toml:"log_file"`
	LogLevel          string  `toml:"log_level"`
	Listen            string  `toml:"listen"`
}

// Load reads the TOML config at path (or the default path), then applies a
// .env file from the working directory and DEX_* environment variables.
// A missing config file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw fileConfig
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	// .env never overrides variables already set in the process.
	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", defaultEnvFile, err)
	}
	if err := applyEnv(&raw); err != nil {
		return Config{}, err
	}

	return normalize(raw), nil
}

func normalize(raw fileConfig) Config {
	cfg := Default()

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if raw.TimeoutMS > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutMS) * time.Millisecond
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.Concurrency > 0 {
		cfg.Concurrency = raw.Concurrency
	}
	if raw.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = raw.RequestsPerSecond
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	cfg.Listen = strings.TrimSpace(raw.Listen)
	return cfg
}

func applyEnv(raw *fileConfig) error {
	strs := map[string]*string{
		"DEX_BASE_URL":  &raw.BaseURL,
		"DEX_LOG_FILE":  &raw.LogFile,
		"DEX_LOG_LEVEL": &raw.LogLevel,
		"DEX_LISTEN":    &raw.Listen,
	}
	for key, dest := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dest = v
		}
	}

	ints := map[string]*int{
		"DEX_TIMEOUT_MS":  &raw.TimeoutMS,
		"DEX_PAGE_SIZE":   &raw.PageSize,
		"DEX_CONCURRENCY": &raw.Concurrency,
	}
	for key, dest := range ints {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", key, err)
		}
		*dest = n
	}

	if v, ok := os.LookupEnv("DEX_REQUESTS_PER_SECOND"); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("parse DEX_REQUESTS_PER_SECOND: %w", err)
		}
		raw.RequestsPerSecond = f
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
