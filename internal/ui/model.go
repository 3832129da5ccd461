package ui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/pokeapi"
	"github.com/five82/dex/internal/prefs"
	"github.com/five82/dex/internal/state"
)

// Loader is the part of the load orchestrator the UI drives.
type Loader interface {
	Refetch(ctx context.Context)
	Detail(ctx context.Context, id int) (pokeapi.Pokemon, pokeapi.Species, error)
}

// Options configure the UI runtime.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Loader    Loader
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string
	PollTick  time.Duration
}

type viewKind int

const (
	viewList viewKind = iota
	viewGallery
	viewDetail
	viewLogs
)

func (v viewKind) String() string {
	switch v {
	case viewGallery:
		return "Gallery"
	case viewDetail:
		return "Detail"
	case viewLogs:
		return "Logs"
	default:
		return "List"
	}
}

const (
	defaultPollTick  = 250 * time.Millisecond
	detailFetchLimit = 10 * time.Second
)

// Model is the Bubble Tea model for dex.
type Model struct {
	ctx       context.Context
	store     *state.Store
	loader    Loader
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	pollTick  time.Duration
	keys      keyMap

	theme  Theme
	width  int
	height int
	ready  bool

	snapshot state.Snapshot
	query    catalog.Query
	visible  []pokeapi.Pokemon

	current  viewKind
	previous viewKind
	showHelp bool
	cursor   int
	offset   int

	searchActive bool
	searchInput  textinput.Model

	typeCursor int

	detail detailState
	logs   logState

	notice string
}

type detailState struct {
	id      int
	pokemon *pokeapi.Pokemon // fetched record, nil until it arrives
	species *pokeapi.Species
	loading bool
	err     error
}

type logState struct {
	viewport viewport.Model
	lines    []string
	err      error
	follow   bool
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type detailMsg struct {
	id      int
	pokemon pokeapi.Pokemon
	species pokeapi.Species
	err     error
}

type logLinesMsg struct {
	lines []string
	err   error
}

// NewModel builds the initial model.
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.PollTick
	if tick <= 0 {
		tick = defaultPollTick
	}

	input := textinput.New()
	input.Placeholder = "name, number or type"
	input.Prompt = "/"
	input.CharLimit = 40

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		loader:      opts.Loader,
		prefs:       opts.Prefs,
		prefsPath:   opts.PrefsPath,
		logPath:     opts.LogPath,
		pollTick:    tick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.Prefs.Theme),
		query:       opts.Prefs.Query(),
		searchInput: input,
		logs:        logState{follow: true},
	}
	if m.store != nil {
		m.applySnapshot(m.store.Snapshot())
	}
	return m
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a data store")
	}
	m := NewModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		// Cancellation is a normal shutdown.
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeLogViewport()
		m.clampCursor()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case detailMsg:
		if msg.id != m.detail.id {
			return m, nil // stale response for a previous selection
		}
		m.detail.loading = false
		m.detail.err = msg.err
		if msg.err == nil {
			pokemon, species := msg.pokemon, msg.species
			if pokemon.ID == msg.id {
				m.detail.pokemon = &pokemon
			}
			m.detail.species = &species
		}
		return m, nil

	case logLinesMsg:
		m.logs.lines = msg.lines
		m.logs.err = msg.err
		m.updateLogViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.searchActive {
		return m.handleSearchInput(msg)
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Refetch):
		return m.refetch()
	case key.Matches(msg, m.keys.ViewLogs):
		return m.openLogs()
	}

	switch m.current {
	case viewDetail:
		return m.handleDetailKey(msg)
	case viewLogs:
		return m.handleLogsKey(msg)
	case viewGallery:
		return m.handleGalleryKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.current == viewLogs && m.logs.follow {
		cmds = append(cmds, m.readLogsCmd())
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m Model) refetch() (tea.Model, tea.Cmd) {
	if m.loader == nil || m.store == nil {
		return m, nil
	}
	m.loader.Refetch(m.ctx)
	m.notice = "Reloading…"
	return m, fetchSnapshotCmd(m.store)
}

// applySnapshot stores snap and recomputes the visible list while keeping
// the cursor on the same item when it is still present.
func (m *Model) applySnapshot(snap state.Snapshot) {
	var selected int
	if p := m.selected(); p != nil {
		selected = p.ID
	}

	m.snapshot = snap
	if snap.Phase != state.PhaseLoading {
		m.notice = ""
	}
	if m.typeCursor >= len(snap.Types) {
		m.typeCursor = 0
	}
	m.applyQuery()

	if selected != 0 {
		if idx := catalog.IndexOf(m.visible, selected); idx >= 0 {
			m.cursor = idx
		}
	}
	m.clampCursor()
}

func (m *Model) applyQuery() {
	m.visible = m.snapshot.Query(m.query)
}

func (m Model) selected() *pokeapi.Pokemon {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	p := m.visible[m.cursor]
	return &p
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	rows := m.listRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if rows > 0 && m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// setQuery applies a new list query, resets the cursor and persists the
// sort and type settings.
func (m *Model) setQuery(q catalog.Query) {
	persist := q.Field != m.query.Field || q.Order != m.query.Order || !slices.Equal(q.Types, m.query.Types)
	m.query = q
	m.applyQuery()
	m.cursor = 0
	m.offset = 0
	if persist {
		m.prefs = m.prefs.WithQuery(q)
		m.savePrefs()
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		slog.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

func (m *Model) switchView(v viewKind) {
	if v != m.current {
		m.previous = m.current
	}
	m.current = v
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch m.current {
	case viewGallery:
		body = m.renderGallery()
	case viewDetail:
		body = m.renderDetail()
	case viewLogs:
		body = m.renderLogs()
	default:
		body = m.renderList()
	}
	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}
