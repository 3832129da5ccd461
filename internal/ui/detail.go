package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/pokeapi"
)

const statBarWidth = 24

// openDetail shows the detail view for id and starts the species fetch.
func (m Model) openDetail(id int) (tea.Model, tea.Cmd) {
	if idx := catalog.IndexOf(m.visible, id); idx >= 0 {
		m.cursor = idx
		m.clampCursor()
	}
	m.detail = detailState{id: id, loading: m.loader != nil}
	if m.current != viewDetail {
		m.switchView(viewDetail)
	}
	return m, m.fetchDetailCmd(id)
}

func (m Model) fetchDetailCmd(id int) tea.Cmd {
	if m.loader == nil {
		return nil
	}
	loader, parent := m.loader, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, detailFetchLimit)
		defer cancel()
		pokemon, species, err := loader.Detail(ctx, id)
		return detailMsg{id: id, pokemon: pokemon, species: species, err: err}
	}
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Prev):
		if prev, _ := catalog.Neighbors(m.visible, m.detail.id); prev != nil {
			return m.openDetail(prev.ID)
		}
	case key.Matches(msg, m.keys.Next):
		if _, next := catalog.Neighbors(m.visible, m.detail.id); next != nil {
			return m.openDetail(next.ID)
		}
	case key.Matches(msg, m.keys.Escape, m.keys.Tab):
		back := m.previous
		if back == viewDetail || back == viewLogs {
			back = viewList
		}
		m.switchView(back)
	}
	return m, nil
}

// detailPokemon prefers the freshly fetched record, then the item in the
// current list, then the full collection.
func (m Model) detailPokemon() (pokeapi.Pokemon, bool) {
	if m.detail.pokemon != nil {
		return *m.detail.pokemon, true
	}
	if idx := catalog.IndexOf(m.visible, m.detail.id); idx >= 0 {
		return m.visible[idx], true
	}
	if idx := catalog.IndexOf(m.snapshot.Items, m.detail.id); idx >= 0 {
		return m.snapshot.Items[idx], true
	}
	return pokeapi.Pokemon{}, false
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	height := max(1, m.height-2)

	p, ok := m.detailPokemon()
	if !ok {
		return m.placeholder("This Pokémon is no longer in the collection", height)
	}

	var b strings.Builder
	title := styles.Logo.Render(displayName(p.Name)) + "  " + styles.MutedText.Render(formatNumber(p.ID))
	b.WriteString(title)
	b.WriteString("\n")

	badges := make([]string, 0, len(p.Types))
	for _, t := range p.TypeNames() {
		badges = append(badges, styles.TypeBadge(t).Render(t))
	}
	b.WriteString(strings.Join(badges, " "))
	b.WriteString("\n\n")

	b.WriteString(m.renderFacts(p, styles))
	b.WriteString("\n")
	b.WriteString(m.renderStats(p, styles))
	b.WriteString("\n")
	b.WriteString(m.renderAbilities(p, styles))
	b.WriteString("\n")
	b.WriteString(m.renderFlavor(styles))
	b.WriteString("\n")
	b.WriteString(renderSprites(p, styles))
	b.WriteString("\n")
	b.WriteString(m.renderNeighbors(styles))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(0, 2).
		Width(max(20, min(m.width-2, 80)))
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Top, box.Render(b.String()))
}

func (m Model) renderFacts(p pokeapi.Pokemon, styles Styles) string {
	label := styles.MutedText.Width(14)
	rows := []string{
		label.Render("Height") + styles.Text.Render(fmt.Sprintf("%.1f m", p.HeightMetres())),
		label.Render("Weight") + styles.Text.Render(fmt.Sprintf("%.1f kg", p.WeightKilograms())),
		label.Render("Base Exp") + styles.Text.Render(fmt.Sprintf("%d", p.BaseExperience)),
	}
	if sp := m.detail.species; sp != nil {
		if sp.Generation.Name != "" {
			rows = append(rows, label.Render("Generation")+styles.Text.Render(generationName(sp.Generation.Name)))
		}
		if sp.Color.Name != "" {
			rows = append(rows, label.Render("Color")+styles.Text.Render(displayName(sp.Color.Name)))
		}
	}
	return strings.Join(rows, "\n") + "\n"
}

func renderSprites(p pokeapi.Pokemon, styles Styles) string {
	lines := []string{"Artwork: " + p.ImageURL()}
	if u := strings.TrimSpace(p.Sprites.FrontDefault); u != "" {
		lines = append(lines, "Sprite:  "+u)
	}
	if u := strings.TrimSpace(p.Sprites.FrontShiny); u != "" {
		lines = append(lines, "Shiny:   "+u)
	}
	return styles.FaintText.Render(strings.Join(lines, "\n")) + "\n"
}

func (m Model) renderStats(p pokeapi.Pokemon, styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Base Stats"))
	b.WriteString("\n")
	label := styles.MutedText.Width(16)
	for _, s := range p.Stats {
		bar := statBar(pokeapi.StatPercent(s.BaseStat), statBarWidth)
		color := m.theme.Success
		if s.BaseStat < 50 {
			color = m.theme.Danger
		} else if s.BaseStat < 90 {
			color = m.theme.Warning
		}
		b.WriteString(label.Render(displayName(s.Stat.Name)))
		b.WriteString(styles.Text.Width(5).Render(fmt.Sprintf("%d", s.BaseStat)))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(bar))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderAbilities(p pokeapi.Pokemon, styles Styles) string {
	if len(p.Abilities) == 0 {
		return ""
	}
	names := make([]string, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		name := displayName(a.Ability.Name)
		if a.IsHidden {
			name += styles.FaintText.Render(" (hidden)")
		}
		names = append(names, name)
	}
	return styles.AccentText.Bold(true).Render("Abilities") + "\n" + styles.Text.Render(strings.Join(names, ", ")) + "\n"
}

func (m Model) renderFlavor(styles Styles) string {
	switch {
	case m.detail.loading:
		return styles.FaintText.Render("Loading description…") + "\n"
	case m.detail.err != nil:
		return styles.WarningText.Render("Description unavailable") + "\n"
	case m.detail.species == nil:
		return ""
	}
	text := m.detail.species.EnglishFlavorText()
	if text == "" {
		return styles.FaintText.Render("No English description") + "\n"
	}
	width := max(20, min(m.width-10, 72))
	return styles.Text.Italic(true).Render(strings.Join(wrapText(text, width), "\n")) + "\n"
}

func (m Model) renderNeighbors(styles Styles) string {
	prev, next := catalog.Neighbors(m.visible, m.detail.id)
	left := styles.FaintText.Render("◀ ─")
	if prev != nil {
		left = styles.MutedText.Render("◀ " + formatNumber(prev.ID) + " " + displayName(prev.Name))
	}
	right := styles.FaintText.Render("─ ▶")
	if next != nil {
		right = styles.MutedText.Render(displayName(next.Name) + " " + formatNumber(next.ID) + " ▶")
	}
	return left + "    " + right
}
