package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/pokeapi"
)

// Phase is the load cycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot represents the latest data available to consumers.
type Snapshot struct {
	Phase       Phase
	Items       []pokeapi.Pokemon
	Types       []string
	Error       string // user-facing message, empty unless Phase is PhaseFailed
	Cause       error
	TypesError  error
	CycleID     string
	LastUpdated time.Time
}

// Loading reports whether a load cycle is in flight.
func (s Snapshot) Loading() bool {
	return s.Phase == PhaseLoading
}

// Search applies catalog.Search to the snapshot's items.
func (s Snapshot) Search(term string) []pokeapi.Pokemon {
	return catalog.Search(s.Items, term)
}

// Sort applies catalog.Sort to the snapshot's items.
func (s Snapshot) Sort(field catalog.SortField, order catalog.SortOrder) []pokeapi.Pokemon {
	return catalog.Sort(s.Items, field, order)
}

// FilterByTypes applies catalog.FilterByTypes to the snapshot's items.
func (s Snapshot) FilterByTypes(selected []string) []pokeapi.Pokemon {
	return catalog.FilterByTypes(s.Items, selected)
}

// Query applies a full catalog query to the snapshot's items.
func (s Snapshot) Query(q catalog.Query) []pokeapi.Pokemon {
	return catalog.Apply(s.Items, q)
}

// Store coordinates concurrent updates to the snapshot. Each load cycle is
// tagged with a generation; results from any cycle other than the latest one
// started are dropped.
type Store struct {
	mu         sync.RWMutex
	snapshot   Snapshot
	generation uint64
}

// Begin starts a new load cycle and returns its generation. The previous
// error is cleared and the current items are discarded.
func (s *Store) Begin(cycleID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.snapshot.Phase = PhaseLoading
	s.snapshot.Items = nil
	s.snapshot.Error = ""
	s.snapshot.Cause = nil
	s.snapshot.CycleID = cycleID
	s.snapshot.LastUpdated = time.Now()
	return s.generation
}

// Commit publishes the items of cycle gen. It reports false when gen is stale.
func (s *Store) Commit(gen uint64, items []pokeapi.Pokemon) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}
	s.snapshot.Phase = PhaseReady
	s.snapshot.Items = slices.Clone(items)
	s.snapshot.Error = ""
	s.snapshot.Cause = nil
	s.snapshot.LastUpdated = time.Now()
	return true
}

// Fail marks cycle gen as failed. No items are kept. It reports false when
// gen is stale.
func (s *Store) Fail(gen uint64, message string, cause error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}
	s.snapshot.Phase = PhaseFailed
	s.snapshot.Items = nil
	s.snapshot.Error = message
	s.snapshot.Cause = cause
	s.snapshot.LastUpdated = time.Now()
	return true
}

// SetTypes records the type taxonomy. A non-nil err keeps the previous names.
func (s *Store) SetTypes(names []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.TypesError = err
		return
	}
	s.snapshot.Types = slices.Clone(names)
	s.snapshot.TypesError = nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Items = slices.Clone(s.snapshot.Items)
	snap.Types = slices.Clone(s.snapshot.Types)
	if s.snapshot.Cause != nil {
		snap.Cause = fmt.Errorf("%w", s.snapshot.Cause)
	}
	return snap
}
