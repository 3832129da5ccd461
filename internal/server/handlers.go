package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/pokeapi"
	"github.com/five82/dex/internal/state"
)

type statusResponse struct {
	Phase       string     `json:"phase"`
	Loading     bool       `json:"loading"`
	Error       string     `json:"error,omitempty"`
	Count       int        `json:"count"`
	CycleID     string     `json:"cycle_id,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	TypesError  string     `json:"types_error,omitempty"`
}

type listResponse struct {
	Items      []pokeapi.Pokemon `json:"items"`
	TotalCount int               `json:"total_count"`
	Status     statusResponse    `json:"status"`
}

type detailResponse struct {
	Pokemon pokeapi.Pokemon `json:"pokemon"`
	PrevID  *int            `json:"prev_id"`
	NextID  *int            `json:"next_id"`
}

type typeMember struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Slot   int    `json:"slot"`
	Loaded bool   `json:"loaded"`
}

type typeResponse struct {
	Name    string       `json:"name"`
	Count   int          `json:"count"`
	Loaded  int          `json:"loaded"`
	Members []typeMember `json:"members"`
}

func newStatus(snap state.Snapshot) statusResponse {
	resp := statusResponse{
		Phase:   snap.Phase.String(),
		Loading: snap.Loading(),
		Error:   snap.Error,
		Count:   len(snap.Items),
		CycleID: snap.CycleID,
	}
	if !snap.LastUpdated.IsZero() {
		ts := snap.LastUpdated
		resp.LastUpdated = &ts
	}
	if snap.TypesError != nil {
		resp.TypesError = "type list unavailable"
	}
	return resp
}

// parseQuery reads q, sort, order and repeated type parameters. Unknown sort
// fields or orders are rejected.
func parseQuery(r *http.Request) (catalog.Query, string) {
	values := r.URL.Query()
	q := catalog.DefaultQuery()
	q.Term = values.Get("q")

	if raw := values.Get("sort"); raw != "" {
		field, ok := catalog.ParseSortField(raw)
		if !ok {
			return q, "unknown sort field " + strconv.Quote(raw)
		}
		q.Field = field
	}
	if raw := values.Get("order"); raw != "" {
		order, ok := catalog.ParseSortOrder(raw)
		if !ok {
			return q, "unknown sort order " + strconv.Quote(raw)
		}
		q.Order = order
	}
	for _, raw := range values["type"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
				q.Types = append(q.Types, name)
			}
		}
	}
	return q, ""
}

// handleListPokemon returns the filtered, searched and sorted collection
func (s *Server) handleListPokemon(w http.ResponseWriter, r *http.Request) {
	q, problem := parseQuery(r)
	if problem != "" {
		respondError(w, http.StatusBadRequest, problem)
		return
	}

	snap := s.store.Snapshot()
	items := snap.Query(q)
	respondJSON(w, http.StatusOK, listResponse{
		Items:      items,
		TotalCount: len(items),
		Status:     newStatus(snap),
	})
}

// handleGetPokemon returns one item and its neighbours within the same query
func (s *Server) handleGetPokemon(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}
	q, problem := parseQuery(r)
	if problem != "" {
		respondError(w, http.StatusBadRequest, problem)
		return
	}

	items := s.store.Snapshot().Query(q)
	idx := catalog.IndexOf(items, id)
	if idx < 0 {
		respondError(w, http.StatusNotFound, "Pokémon not found")
		return
	}

	resp := detailResponse{Pokemon: items[idx]}
	prev, next := catalog.Neighbors(items, id)
	if prev != nil {
		resp.PrevID = &prev.ID
	}
	if next != nil {
		resp.NextID = &next.ID
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleGetTypes returns the type taxonomy
func (s *Server) handleGetTypes(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	types := snap.Types
	if types == nil {
		types = []string{}
	}
	body := map[string]any{"types": types}
	if snap.TypesError != nil {
		body["error"] = "type list unavailable"
	}
	respondJSON(w, http.StatusOK, body)
}

// handleGetType returns every Pokémon upstream lists for one type, marking
// the ones present in the loaded collection
func (s *Server) handleGetType(w http.ResponseWriter, r *http.Request) {
	if s.types == nil {
		respondError(w, http.StatusServiceUnavailable, "type lookup unavailable")
		return
	}
	name := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "name")))

	detail, err := s.types.FetchType(r.Context(), name)
	switch {
	case pokeapi.IsNotFound(err):
		respondError(w, http.StatusNotFound, "type not found")
		return
	case err != nil:
		s.logger.Warn("type lookup failed", "type", name, "error", err)
		respondError(w, http.StatusBadGateway, "type lookup failed")
		return
	}

	items := s.store.Snapshot().Items
	resp := typeResponse{Name: detail.Name, Members: make([]typeMember, 0, len(detail.Pokemon))}
	for _, m := range detail.Pokemon {
		id, err := pokeapi.ExtractID(m.Pokemon.URL)
		if err != nil {
			s.logger.Warn("type lookup failed", "type", name, "error", err)
			respondError(w, http.StatusBadGateway, "type lookup failed")
			return
		}
		member := typeMember{ID: id, Name: m.Pokemon.Name, Slot: m.Slot, Loaded: catalog.IndexOf(items, id) >= 0}
		if member.Loaded {
			resp.Loaded++
		}
		resp.Members = append(resp.Members, member)
	}
	resp.Count = len(resp.Members)
	respondJSON(w, http.StatusOK, resp)
}

// handleGetStatus reports the load cycle state
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newStatus(s.store.Snapshot()))
}

// handleRefetch starts a new load cycle
func (s *Server) handleRefetch(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil {
		respondError(w, http.StatusServiceUnavailable, "refetch unavailable")
		return
	}
	s.loader.Refetch(s.ctx)
	respondJSON(w, http.StatusAccepted, newStatus(s.store.Snapshot()))
}
