package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/five82/dex/internal/catalog"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// formatNumber renders a national dex number as #001.
func formatNumber(id int) string {
	return fmt.Sprintf("#%03d", id)
}

// displayName capitalises each hyphen-separated part of a canonical name:
// "ho-oh" becomes "Ho-Oh".
func displayName(name string) string {
	parts := strings.Split(strings.TrimSpace(name), "-")
	for i, part := range parts {
		runes := []rune(part)
		if len(runes) == 0 {
			continue
		}
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, "-")
}

func orderArrow(o catalog.SortOrder) string {
	if o == catalog.Descending {
		return "↓"
	}
	return "↑"
}

// statBar renders a fixed-width bar filled in proportion to pct (0-100).
func statBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(pct/100*float64(width) + 0.5)
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// wrapText breaks text into lines no wider than width, splitting on spaces.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

// generationName turns "generation-iv" into "IV".
func generationName(name string) string {
	return strings.ToUpper(strings.TrimPrefix(name, "generation-"))
}
