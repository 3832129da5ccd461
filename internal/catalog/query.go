package catalog

import (
	"slices"
	"strconv"
	"strings"

	"github.com/five82/dex/internal/pokeapi"
)

// SortField names a sortable Pokemon attribute.
type SortField string

const (
	SortByName           SortField = "name"
	SortByID             SortField = "id"
	SortByHeight         SortField = "height"
	SortByWeight         SortField = "weight"
	SortByBaseExperience SortField = "base_experience"
)

// SortFields lists the fields in UI cycling order.
var SortFields = []SortField{SortByID, SortByName, SortByHeight, SortByWeight, SortByBaseExperience}

// SortOrder is asc or desc.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortField returns the field for s, or false when unknown.
func ParseSortField(s string) (SortField, bool) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortFields, f) {
		return f, true
	}
	return "", false
}

// ParseSortOrder returns the order for s, or false when unknown.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case Ascending:
		return Ascending, true
	case Descending:
		return Descending, true
	}
	return "", false
}

// Next returns the field after f in SortFields, wrapping around.
func (f SortField) Next() SortField {
	i := slices.Index(SortFields, f)
	return SortFields[(i+1)%len(SortFields)]
}

// Label is a human readable field name.
func (f SortField) Label() string {
	switch f {
	case SortByID:
		return "Number"
	case SortByName:
		return "Name"
	case SortByHeight:
		return "Height"
	case SortByWeight:
		return "Weight"
	case SortByBaseExperience:
		return "Base Exp"
	default:
		return string(f)
	}
}

// Toggle flips the order.
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// Search returns the items whose name, decimal ID or any type name contains
// term, case-insensitively. A blank term returns every item.
func Search(items []pokeapi.Pokemon, term string) []pokeapi.Pokemon {
	if strings.TrimSpace(term) == "" {
		return slices.Clone(items)
	}
	needle := strings.ToLower(term)
	out := make([]pokeapi.Pokemon, 0, len(items))
	for _, p := range items {
		if matches(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p pokeapi.Pokemon, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if strings.Contains(strconv.Itoa(p.ID), needle) {
		return true
	}
	for _, t := range p.Types {
		if strings.Contains(strings.ToLower(t.Type.Name), needle) {
			return true
		}
	}
	return false
}

// Sort returns a copy of items ordered by field. Equal keys keep their input
// order in both directions. An unknown field leaves the order unchanged.
func Sort(items []pokeapi.Pokemon, field SortField, order SortOrder) []pokeapi.Pokemon {
	out := slices.Clone(items)
	if !slices.Contains(SortFields, field) {
		return out
	}
	slices.SortStableFunc(out, func(a, b pokeapi.Pokemon) int {
		if field == SortByName {
			return compareStrict(a.Name, b.Name, order)
		}
		return compareStrict(numericKey(a, field), numericKey(b, field), order)
	})
	return out
}

func compareStrict[T int | string](a, b T, order SortOrder) int {
	if a == b {
		return 0
	}
	if order == Descending {
		if a < b {
			return 1
		}
		return -1
	}
	if a > b {
		return 1
	}
	return -1
}

func numericKey(p pokeapi.Pokemon, field SortField) int {
	switch field {
	case SortByHeight:
		return p.Height
	case SortByWeight:
		return p.Weight
	case SortByBaseExperience:
		return p.BaseExperience
	default:
		return p.ID
	}
}

// FilterByTypes returns the items carrying any of the selected types. An
// empty selection returns every item.
func FilterByTypes(items []pokeapi.Pokemon, selected []string) []pokeapi.Pokemon {
	if len(selected) == 0 {
		return slices.Clone(items)
	}
	out := make([]pokeapi.Pokemon, 0, len(items))
	for _, p := range items {
		for _, t := range p.Types {
			if slices.Contains(selected, t.Type.Name) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
