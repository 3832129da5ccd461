package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dex/internal/pokeapi"
	"github.com/five82/dex/internal/state"
)

// Column widths for the list view.
const (
	colNumber = 6
	colName   = 16
	colTypes  = 20
	colHeight = 8
	colWeight = 10
	colExp    = 8
)

// listRows is the number of item rows the list view can show.
func (m Model) listRows() int {
	// header, column titles, search line, footer
	rows := m.height - 4
	if rows < 1 {
		return 1
	}
	return rows
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.clampCursor()
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.visible) - 1
		m.clampCursor()
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listRows())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listRows())
	case key.Matches(msg, m.keys.Search):
		return m.startSearch()
	case key.Matches(msg, m.keys.CycleSort):
		q := m.query
		q.Field = q.Field.Next()
		m.setQuery(q)
	case key.Matches(msg, m.keys.ToggleOrder):
		q := m.query
		q.Order = q.Order.Toggle()
		m.setQuery(q)
	case key.Matches(msg, m.keys.Open):
		if p := m.selected(); p != nil {
			return m.openDetail(p.ID)
		}
	case key.Matches(msg, m.keys.Tab, m.keys.ViewGallery):
		m.switchView(viewGallery)
	case key.Matches(msg, m.keys.Escape):
		if m.query.Term != "" {
			q := m.query
			q.Term = ""
			m.searchInput.SetValue("")
			m.setQuery(q)
		}
	}
	return m, nil
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	m.searchActive = true
	m.searchInput.SetValue(m.query.Term)
	m.searchInput.CursorEnd()
	cmd := m.searchInput.Focus()
	return m, cmd
}

// handleSearchInput filters as the user types. Enter keeps the term, Esc
// clears it.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searchActive = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		q := m.query
		q.Term = ""
		m.setQuery(q)
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if term := m.searchInput.Value(); term != m.query.Term {
		q := m.query
		q.Term = term
		m.setQuery(q)
	}
	return m, cmd
}

func (m Model) renderList() string {
	styles := m.theme.Styles()

	if msg := m.emptyMessage(); msg != "" {
		return m.renderSearchLine(styles) + "\n" + m.placeholder(msg, m.height-3)
	}

	var b strings.Builder
	b.WriteString(m.renderSearchLine(styles))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Bold(true).Render(listRow("No.", "Name", "Types", "Height", "Weight", "Base Exp")))

	rows := m.listRows()
	end := min(m.offset+rows, len(m.visible))
	for i := m.offset; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderListRow(m.visible[i], i == m.cursor, styles))
	}
	for i := end - m.offset; i < rows; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderListRow(p pokeapi.Pokemon, selected bool, styles Styles) string {
	row := listRow(
		formatNumber(p.ID),
		displayName(p.Name),
		strings.Join(p.TypeNames(), "/"),
		fmt.Sprintf("%.1f m", p.HeightMetres()),
		fmt.Sprintf("%.1f kg", p.WeightKilograms()),
		fmt.Sprintf("%d", p.BaseExperience),
	)
	if selected {
		return styles.Selected.Width(m.width).Render(row)
	}
	return styles.Text.Render(row)
}

func listRow(number, name, types, height, weight, exp string) string {
	cell := func(s string, w int) string {
		return lipgloss.NewStyle().Width(w).MaxWidth(w).Render(truncate(s, w-1))
	}
	right := func(s string, w int) string {
		return lipgloss.NewStyle().Width(w).Align(lipgloss.Right).Render(truncate(s, w-1))
	}
	return " " + cell(number, colNumber) + cell(name, colName) + cell(types, colTypes) +
		right(height, colHeight) + right(weight, colWeight) + right(exp, colExp)
}

func (m Model) renderSearchLine(styles Styles) string {
	if m.searchActive {
		return " " + m.searchInput.View()
	}
	sort := fmt.Sprintf("Sort: %s %s", m.query.Field.Label(), orderArrow(m.query.Order))
	parts := []string{styles.MutedText.Render(sort)}
	if m.query.Term != "" {
		parts = append(parts, styles.AccentText.Render("Search: "+m.query.Term))
	}
	if len(m.query.Types) > 0 {
		parts = append(parts, styles.InfoText.Render("Types: "+strings.Join(m.query.Types, ", ")))
	}
	count := fmt.Sprintf("%d of %d", len(m.visible), len(m.snapshot.Items))
	parts = append(parts, styles.FaintText.Render(count))
	return " " + strings.Join(parts, styles.FaintText.Render("  •  "))
}

// emptyMessage describes why there is nothing to list, or "" when items are
// visible.
func (m Model) emptyMessage() string {
	switch m.snapshot.Phase {
	case state.PhaseIdle, state.PhaseLoading:
		if len(m.snapshot.Items) == 0 {
			return "Loading Pokémon…"
		}
	case state.PhaseFailed:
		return m.snapshot.Error + "  (press r to retry)"
	}
	if len(m.visible) == 0 {
		return "No Pokémon match the current search and filters"
	}
	return ""
}

func (m Model) placeholder(text string, height int) string {
	styles := m.theme.Styles()
	style := styles.MutedText
	if m.snapshot.Phase == state.PhaseFailed {
		style = styles.DangerText
	}
	if height < 1 {
		height = 1
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, style.Render(text))
}
