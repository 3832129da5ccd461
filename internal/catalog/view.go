package catalog

import "github.com/five82/dex/internal/pokeapi"

// Query bundles the inputs a presentation layer supplies.
type Query struct {
	Term  string
	Field SortField
	Order SortOrder
	Types []string
}

// DefaultQuery sorts by number ascending with no search or type filter.
func DefaultQuery() Query {
	return Query{Field: SortByID, Order: Ascending}
}

// Apply filters by type, then searches, then sorts.
func Apply(items []pokeapi.Pokemon, q Query) []pokeapi.Pokemon {
	out := FilterByTypes(items, q.Types)
	out = Search(out, q.Term)
	if q.Field == "" {
		return out
	}
	order := q.Order
	if order == "" {
		order = Ascending
	}
	return Sort(out, q.Field, order)
}

// IndexOf returns the position of id in items, or -1.
func IndexOf(items []pokeapi.Pokemon, id int) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// Neighbors returns the items before and after id in items. Either is nil at
// the ends of the slice or when id is absent.
func Neighbors(items []pokeapi.Pokemon, id int) (prev, next *pokeapi.Pokemon) {
	idx := IndexOf(items, id)
	if idx < 0 {
		return nil, nil
	}
	if idx > 0 {
		p := items[idx-1]
		prev = &p
	}
	if idx < len(items)-1 {
		n := items[idx+1]
		next = &n
	}
	return prev, next
}
