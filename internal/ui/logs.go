package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dex/internal/logtail"
)

func (m Model) openLogs() (tea.Model, tea.Cmd) {
	m.switchView(viewLogs)
	m.logs.follow = true
	m.resizeLogViewport()
	return m, m.readLogsCmd()
}

func (m Model) readLogsCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, logtail.DefaultLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		back := m.previous
		if back == viewLogs {
			back = viewList
		}
		m.switchView(back)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.logs.follow = false
		m.logs.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.logs.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.logs.follow = false
		m.logs.viewport.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.logs.viewport.PageDown()
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		m.logs.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logs.follow = true
		m.logs.viewport.GotoBottom()
	}
	if m.logs.viewport.AtBottom() {
		m.logs.follow = true
	}
	return m, nil
}

func (m *Model) resizeLogViewport() {
	width := max(1, m.width)
	height := max(1, m.height-3) // header, status line, footer
	if m.logs.viewport.Width == 0 && m.logs.viewport.Height == 0 {
		m.logs.viewport = viewport.New(width, height)
	}
	m.logs.viewport.Width = width
	m.logs.viewport.Height = height
	m.updateLogViewport()
}

func (m *Model) updateLogViewport() {
	m.logs.viewport.SetContent(m.renderLogContent())
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.logs.lines))
	for _, line := range m.logs.lines {
		lines = append(lines, levelStyle(logtail.Level(line), styles).Render(line))
	}
	return strings.Join(lines, "\n")
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	case "INFO":
		return styles.Text
	default:
		return styles.MutedText
	}
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	status := styles.FaintText.Render(truncate(m.logPath, max(10, m.width-30)))
	switch {
	case m.logs.err != nil:
		status = styles.DangerText.Render("Cannot read log: " + m.logs.err.Error())
	case len(m.logs.lines) == 0:
		status += styles.MutedText.Render("  (empty)")
	default:
		var last string
		for i := len(m.logs.lines) - 1; i >= 0; i-- {
			if logtail.Level(m.logs.lines[i]) != "" {
				last = logtail.Message(m.logs.lines[i])
				break
			}
		}
		if last != "" {
			status += styles.MutedText.Render("  last: " + truncate(last, 40))
		}
	}
	if !m.logs.follow {
		status += styles.WarningText.Render("  [paused]")
	}
	return " " + status + "\n" + m.logs.viewport.View()
}
