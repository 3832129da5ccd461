package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dex/internal/state"
)

var headerTabs = []viewKind{viewList, viewGallery, viewDetail, viewLogs}

// renderHeader renders the logo, view tabs and load status on one line.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := m.theme.Surface

	left := styles.Logo.Background(lipgloss.Color(bg)).Render(" DEX ")
	tabs := make([]string, 0, len(headerTabs))
	for _, v := range headerTabs {
		style := styles.MutedText
		if v == m.current {
			style = styles.AccentText.Bold(true)
		}
		tabs = append(tabs, style.Background(lipgloss.Color(bg)).Render(" "+v.String()+" "))
	}
	left += strings.Join(tabs, "")

	right := m.statusText(styles).Background(lipgloss.Color(bg)).Render(m.statusLabel(time.Now()))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	filler := lipgloss.NewStyle().Background(lipgloss.Color(bg)).Render(strings.Repeat(" ", gap))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(left + filler + right)
}

// statusLabel summarises the snapshot for the header.
func (m Model) statusLabel(now time.Time) string {
	snap := m.snapshot
	switch snap.Phase {
	case state.PhaseLoading:
		return "● Loading… "
	case state.PhaseFailed:
		return "● " + snap.Error + " "
	case state.PhaseReady:
		label := fmt.Sprintf("● %d Pokémon", len(snap.Items))
		if !snap.LastUpdated.IsZero() {
			label += "  " + relativeTime(snap.LastUpdated, now)
		}
		return label + " "
	default:
		return "● Idle "
	}
}

func (m Model) statusText(styles Styles) lipgloss.Style {
	switch m.snapshot.Phase {
	case state.PhaseLoading:
		return styles.WarningText
	case state.PhaseFailed:
		return styles.DangerText
	case state.PhaseReady:
		return styles.SuccessText
	default:
		return styles.MutedText
	}
}

func relativeTime(t, now time.Time) string {
	since := now.Sub(t)
	switch {
	case since < time.Minute:
		return t.Format("15:04:05") + " (now)"
	case since < time.Hour:
		return fmt.Sprintf("%s (%dm ago)", t.Format("15:04:05"), int(since.Minutes()))
	default:
		return fmt.Sprintf("%s (%dh ago)", t.Format("15:04:05"), int(since.Hours()))
	}
}

// renderFooter renders the key hints for the current view.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var hints []string
	switch {
	case m.searchActive:
		hints = []string{"enter keep", "esc clear"}
	case m.current == viewGallery:
		hints = []string{"h/l type", "space toggle", "c clear", "←/→ move", "enter open", "/ search", "tab list"}
	case m.current == viewDetail:
		hints = []string{"←/p prev", "→/n next", "esc back"}
	case m.current == viewLogs:
		hints = []string{"j/k scroll", "G follow", "esc back"}
	default:
		hints = []string{"/ search", "s sort", "o order", "enter open", "tab gallery"}
	}
	hints = append(hints, "r reload", "L logs", "T theme", "? help", "q quit")
	if m.notice != "" {
		hints = append([]string{m.notice}, hints...)
	}
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(strings.Join(hints, "  "))
}
