package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/pokeapi"
)

const (
	cardWidth  = 22
	cardHeight = 5 // border + 3 content lines
)

func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	types := m.snapshot.Types
	switch {
	case key.Matches(msg, m.keys.TypeLeft):
		if len(types) > 0 {
			m.typeCursor = (m.typeCursor - 1 + len(types)) % len(types)
		}
	case key.Matches(msg, m.keys.TypeRight):
		if len(types) > 0 {
			m.typeCursor = (m.typeCursor + 1) % len(types)
		}
	case key.Matches(msg, m.keys.ToggleType):
		if m.typeCursor >= 0 && m.typeCursor < len(types) {
			m.setQuery(toggleType(m.query, types[m.typeCursor]))
		}
	case key.Matches(msg, m.keys.ClearTypes):
		q := m.query
		q.Types = nil
		m.setQuery(q)
	case key.Matches(msg, m.keys.Prev):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Next):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-m.galleryColumns())
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.galleryColumns())
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.clampCursor()
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.visible) - 1
		m.clampCursor()
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.galleryColumns() * m.galleryRows())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.galleryColumns() * m.galleryRows())
	case key.Matches(msg, m.keys.Search):
		return m.startSearch()
	case key.Matches(msg, m.keys.Open):
		if p := m.selected(); p != nil {
			return m.openDetail(p.ID)
		}
	case key.Matches(msg, m.keys.Tab, m.keys.ViewList, m.keys.Escape):
		m.switchView(viewList)
	}
	return m, nil
}

// toggleType adds name to the type selection, or removes it when present.
func toggleType(q catalog.Query, name string) catalog.Query {
	types := slices.Clone(q.Types)
	if i := slices.Index(types, name); i >= 0 {
		types = slices.Delete(types, i, i+1)
	} else {
		types = append(types, name)
	}
	if len(types) == 0 {
		types = nil
	}
	q.Types = types
	return q
}

func (m Model) galleryColumns() int {
	return max(1, m.width/cardWidth)
}

func (m Model) galleryRows() int {
	// header, chips, search line, footer
	return max(1, (m.height-4)/cardHeight)
}

func (m Model) renderGallery() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(m.renderTypeChips(styles))
	b.WriteString("\n")
	b.WriteString(m.renderSearchLine(styles))
	b.WriteString("\n")

	bodyHeight := max(1, m.height-4)
	if msg := m.emptyMessage(); msg != "" {
		b.WriteString(m.placeholder(msg, bodyHeight))
		return b.String()
	}

	cols := m.galleryColumns()
	rows := m.galleryRows()
	cursorRow := m.cursor / cols
	startRow := 0
	if cursorRow >= rows {
		startRow = cursorRow - rows + 1
	}

	var lines []string
	for r := startRow; r < startRow+rows; r++ {
		start := r * cols
		if start >= len(m.visible) {
			break
		}
		end := min(start+cols, len(m.visible))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(m.visible[i], i == m.cursor, styles))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	grid := strings.Join(lines, "\n")
	b.WriteString(lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(grid))
	return b.String()
}

func (m Model) renderCard(p pokeapi.Pokemon, selected bool, styles Styles) string {
	border := m.theme.Border
	if selected {
		border = m.theme.BorderFocus
	}
	inner := cardWidth - 2

	badges := make([]string, 0, len(p.Types))
	for _, t := range p.TypeNames() {
		badges = append(badges, styles.TypeBadge(t).Render(truncate(t, 8)))
	}

	name := styles.Text.Bold(true).Render(truncate(displayName(p.Name), inner))
	if selected {
		name = styles.AccentText.Bold(true).Render(truncate(displayName(p.Name), inner))
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.MutedText.Render(formatNumber(p.ID)),
		name,
		lipgloss.NewStyle().MaxWidth(inner).Render(strings.Join(badges, " ")),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(inner).
		Render(content)
}

func (m Model) renderTypeChips(styles Styles) string {
	types := m.snapshot.Types
	if len(types) == 0 {
		if m.snapshot.TypesError != nil {
			return " " + styles.WarningText.Render("Type list unavailable")
		}
		return " " + styles.FaintText.Render("Loading types…")
	}
	chips := make([]string, 0, len(types))
	for i, t := range types {
		label := t
		var style lipgloss.Style
		if slices.Contains(m.query.Types, t) {
			style = styles.TypeBadge(t)
		} else {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.TypeColor(t))).Padding(0, 1)
		}
		if i == m.typeCursor {
			style = style.Underline(true)
			label = "›" + label
		}
		chips = append(chips, style.Render(label))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(" " + strings.Join(chips, ""))
}
