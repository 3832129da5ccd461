package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/five82/dex/internal/pokeapi"
	"github.com/five82/dex/internal/state"
)

// FailureMessage is the only text shown to users when a load cycle fails.
const FailureMessage = "Failed to load Pokémon data"

const (
	defaultPageSize    = 150
	defaultConcurrency = 150
)

// Cycle outcomes reported to a CycleObserver.
const (
	OutcomeReady      = "ready"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
)

// ErrSuperseded is returned by Load when a newer cycle started before this
// one finished. The store keeps the newer cycle's result.
var ErrSuperseded = errors.New("load cycle superseded")

// CycleObserver receives one call per finished load cycle.
type CycleObserver interface {
	ObserveCycle(outcome string, items int)
}

// LoaderOptions configure a Loader. Zero values use defaults.
type LoaderOptions struct {
	PageSize    int
	Concurrency int
	Observer    CycleObserver
	Logger      *slog.Logger
}

// Loader runs load cycles against a Fetcher and publishes their results to
// a Store.
type Loader struct {
	fetcher     pokeapi.Fetcher
	store       *state.Store
	pageSize    int
	concurrency int
	observer    CycleObserver
	logger      *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	current uint64
	wg      sync.WaitGroup
}

type cycle struct {
	id     string
	gen    uint64
	cancel context.CancelFunc
}

// NewLoader builds a Loader.
func NewLoader(fetcher pokeapi.Fetcher, store *state.Store, opts LoaderOptions) *Loader {
	l := &Loader{
		fetcher:     fetcher,
		store:       store,
		pageSize:    opts.PageSize,
		concurrency: opts.Concurrency,
		observer:    opts.Observer,
		logger:      opts.Logger,
	}
	if l.pageSize <= 0 {
		l.pageSize = defaultPageSize
	}
	if l.concurrency <= 0 {
		l.concurrency = defaultConcurrency
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Load runs one load cycle and blocks until it finishes. Any cycle still in
// flight is cancelled first.
func (l *Loader) Load(ctx context.Context) error {
	cctx, c := l.begin(ctx)
	defer l.release(c)
	return l.run(cctx, c)
}

// Start loads the type taxonomy and the collection in the background and
// returns immediately.
func (l *Loader) Start(ctx context.Context) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		_ = l.LoadTypes(ctx)
	}()
	l.Refetch(ctx)
}

// Refetch cancels the cycle in flight, if any, and starts a new one in the
// background. The new cycle enters the loading phase before Refetch returns.
func (l *Loader) Refetch(ctx context.Context) {
	cctx, c := l.begin(ctx)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.release(c)
		_ = l.run(cctx, c)
	}()
}

// Wait blocks until every background cycle started by Start or Refetch has
// finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// LoadTypes fetches the type taxonomy. A failure is logged and recorded on
// the snapshot; it never changes the load phase.
func (l *Loader) LoadTypes(ctx context.Context) error {
	list, err := l.fetcher.FetchTypes(ctx)
	if err != nil {
		l.logger.Warn("type list unavailable", "error", err)
		l.store.SetTypes(nil, err)
		return err
	}
	l.store.SetTypes(list.Names(), nil)
	l.logger.Debug("type list loaded", "count", len(list.Results))
	return nil
}

// Detail fetches a Pokemon and its species concurrently. Both must succeed.
func (l *Loader) Detail(ctx context.Context, id int) (pokeapi.Pokemon, pokeapi.Species, error) {
	var (
		mon     pokeapi.Pokemon
		species pokeapi.Species
	)
	key := strconv.Itoa(id)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mon, err = l.fetcher.FetchPokemon(gctx, key)
		return err
	})
	g.Go(func() error {
		var err error
		species, err = l.fetcher.FetchSpecies(gctx, key)
		return err
	})
	if err := g.Wait(); err != nil {
		return pokeapi.Pokemon{}, pokeapi.Species{}, fmt.Errorf("load detail %d: %w", id, err)
	}
	return mon, species, nil
}

// begin cancels the previous cycle and moves the store into loading under
// the same lock, so generations follow call order.
func (l *Loader) begin(ctx context.Context) (context.Context, cycle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	cctx, cancel := context.WithCancel(ctx)
	c := cycle{id: uuid.NewString(), cancel: cancel}
	c.gen = l.store.Begin(c.id)
	l.cancel = cancel
	l.current = c.gen
	l.logger.Info("load cycle started", "cycle", c.id, "page_size", l.pageSize)
	return cctx, c
}

func (l *Loader) release(c cycle) {
	c.cancel()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == c.gen {
		l.cancel = nil
	}
}

func (l *Loader) run(ctx context.Context, c cycle) error {
	items, err := l.fetchAll(ctx)
	if err != nil {
		if !l.store.Fail(c.gen, FailureMessage, err) {
			l.finish(c, OutcomeSuperseded, 0)
			return ErrSuperseded
		}
		l.logger.Error("load cycle failed", "cycle", c.id, "error", err)
		l.finish(c, OutcomeFailed, 0)
		return err
	}
	if !l.store.Commit(c.gen, items) {
		l.finish(c, OutcomeSuperseded, 0)
		return ErrSuperseded
	}
	l.logger.Info("load cycle ready", "cycle", c.id, "items", len(items))
	l.finish(c, OutcomeReady, len(items))
	return nil
}

func (l *Loader) finish(c cycle, outcome string, items int) {
	if outcome == OutcomeSuperseded {
		l.logger.Debug("load cycle superseded", "cycle", c.id)
	}
	if l.observer != nil {
		l.observer.ObserveCycle(outcome, items)
	}
}

// fetchAll reads the first page of summaries, then every detail with at
// most concurrency requests in flight. Results keep list order.
func (l *Loader) fetchAll(ctx context.Context) ([]pokeapi.Pokemon, error) {
	page, err := l.fetcher.FetchList(ctx, l.pageSize, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch list: %w", err)
	}

	ids := make([]int, len(page.Results))
	seen := make(map[int]string, len(page.Results))
	for i, summary := range page.Results {
		id, err := pokeapi.ExtractID(summary.URL)
		if err != nil {
			return nil, err
		}
		if other, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate id %d for %q and %q", id, other, summary.Name)
		}
		seen[id] = summary.Name
		ids[i] = id
	}

	items := make([]pokeapi.Pokemon, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			mon, err := l.fetcher.FetchPokemon(gctx, strconv.Itoa(id))
			if err != nil {
				return fmt.Errorf("fetch pokemon %d: %w", id, err)
			}
			items[i] = mon
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
