// Package prefs handles dex user preferences persistence.
// Preferences are stored in ~/.config/dex/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/dex/internal/catalog"
)

// Prefs holds user preferences for dex.
type Prefs struct {
	Theme     string   `toml:"theme"`
	SortField string   `toml:"sort_field"`
	SortOrder string   `toml:"sort_order"`
	Types     []string `toml:"types"`
}

const (
	defaultPrefsPath = "~/.config/dex/prefs.toml"
	defaultTheme     = "Dracula"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	q := catalog.DefaultQuery()
	return Prefs{
		Theme:     defaultTheme,
		SortField: string(q.Field),
		SortOrder: string(q.Order),
	}
}

// Query converts the stored list settings into a catalog query.
func (p Prefs) Query() catalog.Query {
	q := catalog.DefaultQuery()
	if f, ok := catalog.ParseSortField(p.SortField); ok {
		q.Field = f
	}
	if o, ok := catalog.ParseSortOrder(p.SortOrder); ok {
		q.Order = o
	}
	q.Types = append([]string(nil), p.Types...)
	return q
}

// WithQuery stores the list settings of q. The search term is not persisted.
func (p Prefs) WithQuery(q catalog.Query) Prefs {
	p.SortField = string(q.Field)
	p.SortOrder = string(q.Order)
	p.Types = append([]string(nil), q.Types...)
	return p
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) Prefs {
	prefs := Defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs
		}
		return prefs // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Defaults() // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if _, ok := catalog.ParseSortField(prefs.SortField); !ok {
		prefs.SortField = Defaults().SortField
	}
	if _, ok := catalog.ParseSortOrder(prefs.SortOrder); !ok {
		prefs.SortOrder = Defaults().SortOrder
	}

	return prefs
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
