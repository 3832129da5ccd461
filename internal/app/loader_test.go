package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/dex/internal/pokeapi"
	"github.com/five82/dex/internal/state"
)

type fakeFetcher struct {
	count       int
	failID      int
	duplicateAt int // index whose URL repeats the previous entry's ID
	badURLAt    int // index with a malformed URL; zero disables
	listErr     error
	typesErr    error
	speciesErr  error
	delay       func(id int) time.Duration

	blockFirstList bool
	listCalls      atomic.Int32
	detailCalls    atomic.Int32
	inFlight       atomic.Int32
	maxInFlight    atomic.Int32
}

func (f *fakeFetcher) FetchList(ctx context.Context, limit, offset int) (pokeapi.ListPage, error) {
	call := f.listCalls.Add(1)
	if f.blockFirstList && call == 1 {
		<-ctx.Done()
		return pokeapi.ListPage{}, ctx.Err()
	}
	if f.listErr != nil {
		return pokeapi.ListPage{}, f.listErr
	}
	n := min(f.count, limit)
	page := pokeapi.ListPage{Count: f.count}
	for i := 0; i < n; i++ {
		id := i + 1
		if f.duplicateAt > 0 && i == f.duplicateAt {
			id = i
		}
		url := fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", id)
		if f.badURLAt > 0 && i == f.badURLAt {
			url = "https://pokeapi.co/api/v2/pokemon/"
		}
		page.Results = append(page.Results, pokeapi.NamedResource{Name: fmt.Sprintf("mon-%d", id), URL: url})
	}
	return page, nil
}

func (f *fakeFetcher) FetchPokemon(ctx context.Context, idOrName string) (pokeapi.Pokemon, error) {
	f.detailCalls.Add(1)
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxInFlight.Load()
		if cur <= seen || f.maxInFlight.CompareAndSwap(seen, cur) {
			break
		}
	}

	id, err := strconv.Atoi(idOrName)
	if err != nil {
		return pokeapi.Pokemon{}, err
	}
	if f.delay != nil {
		select {
		case <-time.After(f.delay(id)):
		case <-ctx.Done():
			return pokeapi.Pokemon{}, ctx.Err()
		}
	}
	if id == f.failID {
		return pokeapi.Pokemon{}, &pokeapi.TransportError{Op: "pokemon", StatusCode: 500, Err: errors.New("boom")}
	}
	return pokeapi.Pokemon{
		ID:    id,
		Name:  fmt.Sprintf("mon-%d", id),
		Types: []pokeapi.TypeSlot{{Slot: 1, Type: pokeapi.NamedResource{Name: "normal"}}},
	}, nil
}

func (f *fakeFetcher) FetchSpecies(ctx context.Context, idOrName string) (pokeapi.Species, error) {
	if f.speciesErr != nil {
		return pokeapi.Species{}, f.speciesErr
	}
	return pokeapi.Species{
		Name: "mon-" + idOrName,
		FlavorTextEntries: []pokeapi.FlavorText{
			{FlavorText: "A test\fcreature.", Language: pokeapi.NamedResource{Name: "en"}},
		},
	}, nil
}

func (f *fakeFetcher) FetchTypes(ctx context.Context) (pokeapi.TypeList, error) {
	if f.typesErr != nil {
		return pokeapi.TypeList{}, f.typesErr
	}
	return pokeapi.TypeList{Count: 2, Results: []pokeapi.NamedResource{{Name: "normal"}, {Name: "fire"}}}, nil
}

type cycleLog struct {
	mu       sync.Mutex
	outcomes []string
}

func (c *cycleLog) ObserveCycle(outcome string, items int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, outcome)
}

func (c *cycleLog) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.outcomes...)
}

func newTestLoader(f *fakeFetcher, opts LoaderOptions) (*Loader, *state.Store, *cycleLog) {
	store := &state.Store{}
	obs := &cycleLog{}
	opts.Observer = obs
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoader(f, store, opts), store, obs
}

func TestLoad_CommitsInListOrder(t *testing.T) {
	f := &fakeFetcher{
		count: 150,
		// Later IDs finish first.
		delay: func(id int) time.Duration { return time.Duration(150-id) * 50 * time.Microsecond },
	}
	loader, store, obs := newTestLoader(f, LoaderOptions{})

	require.NoError(t, loader.Load(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, state.PhaseReady, snap.Phase)
	assert.False(t, snap.Loading())
	assert.Empty(t, snap.Error)
	require.Len(t, snap.Items, 150)
	for i, p := range snap.Items {
		require.Equal(t, i+1, p.ID, "position %d", i)
	}
	assert.NotEmpty(t, snap.CycleID)
	assert.Equal(t, int32(1), f.listCalls.Load())
	assert.Equal(t, int32(150), f.detailCalls.Load())
	assert.Equal(t, []string{OutcomeReady}, obs.all())
}

func TestLoad_PageSizeLimitsList(t *testing.T) {
	f := &fakeFetcher{count: 40}
	loader, store, _ := newTestLoader(f, LoaderOptions{PageSize: 10})

	require.NoError(t, loader.Load(context.Background()))
	assert.Len(t, store.Snapshot().Items, 10)
}

func TestLoad_SingleDetailFailureFailsCycle(t *testing.T) {
	f := &fakeFetcher{count: 150, failID: 77}
	loader, store, obs := newTestLoader(f, LoaderOptions{})

	err := loader.Load(context.Background())
	require.Error(t, err)

	snap := store.Snapshot()
	assert.Equal(t, state.PhaseFailed, snap.Phase)
	assert.False(t, snap.Loading())
	assert.Equal(t, FailureMessage, snap.Error)
	assert.Empty(t, snap.Items)

	var te *pokeapi.TransportError
	assert.True(t, errors.As(snap.Cause, &te), "cause %v", snap.Cause)
	assert.Equal(t, []string{OutcomeFailed}, obs.all())
}

func TestLoad_ListFailure(t *testing.T) {
	f := &fakeFetcher{count: 10, listErr: errors.New("offline")}
	loader, store, _ := newTestLoader(f, LoaderOptions{})

	require.Error(t, loader.Load(context.Background()))
	snap := store.Snapshot()
	assert.Equal(t, state.PhaseFailed, snap.Phase)
	assert.Equal(t, FailureMessage, snap.Error)
	assert.Zero(t, f.detailCalls.Load())
}

func TestLoad_MalformedURLFailsCycle(t *testing.T) {
	f := &fakeFetcher{count: 5, badURLAt: 3}
	loader, store, _ := newTestLoader(f, LoaderOptions{})

	err := loader.Load(context.Background())
	var pe *pokeapi.ParseError
	require.True(t, errors.As(err, &pe), "err = %v", err)
	assert.Equal(t, state.PhaseFailed, store.Snapshot().Phase)
	assert.Zero(t, f.detailCalls.Load())
}

func TestLoad_DuplicateIDFailsCycle(t *testing.T) {
	f := &fakeFetcher{count: 5, duplicateAt: 2}
	loader, store, _ := newTestLoader(f, LoaderOptions{})

	err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id 2")
	assert.Equal(t, state.PhaseFailed, store.Snapshot().Phase)
}

func TestLoad_EmptyListIsReady(t *testing.T) {
	f := &fakeFetcher{count: 0}
	loader, store, _ := newTestLoader(f, LoaderOptions{})

	require.NoError(t, loader.Load(context.Background()))
	snap := store.Snapshot()
	assert.Equal(t, state.PhaseReady, snap.Phase)
	assert.Empty(t, snap.Items)
}

func TestLoad_RespectsConcurrencyLimit(t *testing.T) {
	f := &fakeFetcher{
		count: 40,
		delay: func(int) time.Duration { return 2 * time.Millisecond },
	}
	loader, store, _ := newTestLoader(f, LoaderOptions{Concurrency: 4})

	require.NoError(t, loader.Load(context.Background()))
	assert.Len(t, store.Snapshot().Items, 40)
	assert.LessOrEqual(t, f.maxInFlight.Load(), int32(4))
	assert.Positive(t, f.maxInFlight.Load())
}

func TestLoadTypes_FailureDoesNotBlockReady(t *testing.T) {
	f := &fakeFetcher{count: 3, typesErr: errors.New("types down")}
	loader, store, _ := newTestLoader(f, LoaderOptions{})

	require.Error(t, loader.LoadTypes(context.Background()))
	require.NoError(t, loader.Load(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, state.PhaseReady, snap.Phase)
	assert.Len(t, snap.Items, 3)
	assert.Error(t, snap.TypesError)
	assert.Empty(t, snap.Types)
}

func TestStart_LoadsTypesAndCollection(t *testing.T) {
	f := &fakeFetcher{count: 12}
	loader, store, _ := newTestLoader(f, LoaderOptions{})

	loader.Start(context.Background())
	loader.Wait()

	snap := store.Snapshot()
	assert.Equal(t, state.PhaseReady, snap.Phase)
	assert.Len(t, snap.Items, 12)
	assert.Equal(t, []string{"normal", "fire"}, snap.Types)
}

func TestRefetch_CancelsStaleCycle(t *testing.T) {
	f := &fakeFetcher{count: 8, blockFirstList: true}
	loader, store, obs := newTestLoader(f, LoaderOptions{})

	loader.Refetch(context.Background())
	first := store.Snapshot()
	assert.True(t, first.Loading())
	require.Eventually(t, func() bool { return f.listCalls.Load() == 1 }, time.Second, time.Millisecond)

	loader.Refetch(context.Background())
	loader.Wait()

	snap := store.Snapshot()
	assert.Equal(t, state.PhaseReady, snap.Phase)
	assert.Len(t, snap.Items, 8)
	assert.NotEqual(t, first.CycleID, snap.CycleID)
	assert.ElementsMatch(t, []string{OutcomeSuperseded, OutcomeReady}, obs.all())
}

func TestRefetch_AfterFailureRecovers(t *testing.T) {
	f := &fakeFetcher{count: 5, failID: 3}
	loader, store, _ := newTestLoader(f, LoaderOptions{})

	require.Error(t, loader.Load(context.Background()))
	require.Equal(t, state.PhaseFailed, store.Snapshot().Phase)

	f.failID = 0
	loader.Refetch(context.Background())
	loader.Wait()

	snap := store.Snapshot()
	assert.Equal(t, state.PhaseReady, snap.Phase)
	assert.Empty(t, snap.Error)
	assert.Len(t, snap.Items, 5)
}

func TestLoad_CancelledContextFails(t *testing.T) {
	f := &fakeFetcher{count: 5, delay: func(int) time.Duration { return time.Second }}
	loader, store, _ := newTestLoader(f, LoaderOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := loader.Load(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, state.PhaseFailed, store.Snapshot().Phase)
}

func TestDetail(t *testing.T) {
	f := &fakeFetcher{}
	loader, _, _ := newTestLoader(f, LoaderOptions{})

	mon, species, err := loader.Detail(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, 25, mon.ID)
	assert.Equal(t, "A test creature.", species.EnglishFlavorText())

	f.speciesErr = errors.New("no species")
	_, _, err = loader.Detail(context.Background(), 25)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load detail 25")
}
