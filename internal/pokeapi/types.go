package pokeapi

import (
	"fmt"
	"strings"
)

const artworkURLPattern = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png"

// MaxStat is the upper bound of a base stat value.
const MaxStat = 255

// NamedResource is PokeAPI's (name, url) link to another resource.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListPage mirrors /pokemon?limit=&offset=.
type ListPage struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// Pokemon is one catalog record as returned by /pokemon/{idOrName}.
type Pokemon struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Height         int           `json:"height"`
	Weight         int           `json:"weight"`
	BaseExperience int           `json:"base_experience"`
	Types          []TypeSlot    `json:"types"`
	Stats          []Stat        `json:"stats"`
	Abilities      []AbilitySlot `json:"abilities"`
	Sprites        Sprites       `json:"sprites"`
	Species        NamedResource `json:"species"`
}

// TypeSlot places a type on a Pokemon.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// Stat is a base stat entry.
type Stat struct {
	BaseStat int           `json:"base_stat"`
	Stat     NamedResource `json:"stat"`
}

// AbilitySlot places an ability on a Pokemon.
type AbilitySlot struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
}

// Sprites holds image references. Any of them may be empty.
type Sprites struct {
	FrontDefault string       `json:"front_default"`
	FrontShiny   string       `json:"front_shiny"`
	Other        OtherSprites `json:"other"`
}

// OtherSprites holds the alternate artwork sets.
type OtherSprites struct {
	OfficialArtwork SpriteRef `json:"official-artwork"`
	DreamWorld      SpriteRef `json:"dream_world"`
}

// SpriteRef is a single image reference.
type SpriteRef struct {
	FrontDefault string `json:"front_default"`
}

// TypeNames returns the type names in slot order.
func (p Pokemon) TypeNames() []string {
	names := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

// HasType reports whether the Pokemon carries the named type.
func (p Pokemon) HasType(name string) bool {
	for _, t := range p.Types {
		if t.Type.Name == name {
			return true
		}
	}
	return false
}

// HeightMetres converts Height from decimetres.
func (p Pokemon) HeightMetres() float64 {
	return float64(p.Height) / 10
}

// WeightKilograms converts Weight from hectograms.
func (p Pokemon) WeightKilograms() float64 {
	return float64(p.Weight) / 10
}

// ImageURL returns the best available image, falling back to the static
// artwork URL derived from the ID.
func (p Pokemon) ImageURL() string {
	if u := strings.TrimSpace(p.Sprites.Other.OfficialArtwork.FrontDefault); u != "" {
		return u
	}
	if u := strings.TrimSpace(p.Sprites.FrontDefault); u != "" {
		return u
	}
	return ArtworkURL(p.ID)
}

// ArtworkURL returns the official artwork URL for id.
func ArtworkURL(id int) string {
	return fmt.Sprintf(artworkURLPattern, id)
}

// StatPercent scales a base stat to 0..100.
func StatPercent(value int) float64 {
	if value <= 0 {
		return 0
	}
	pct := float64(value) / MaxStat * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Species mirrors /pokemon-species/{idOrName}.
type Species struct {
	Name              string        `json:"name"`
	FlavorTextEntries []FlavorText  `json:"flavor_text_entries"`
	Generation        NamedResource `json:"generation"`
	Color             NamedResource `json:"color"`
}

// FlavorText is a localized description.
type FlavorText struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
}

// EnglishFlavorText returns the first English entry with form feeds replaced
// by spaces, or "" when there is none.
func (s Species) EnglishFlavorText() string {
	for _, entry := range s.FlavorTextEntries {
		if entry.Language.Name == "en" {
			return strings.ReplaceAll(entry.FlavorText, "\f", " ")
		}
	}
	return ""
}

// TypeList mirrors /type.
type TypeList struct {
	Count   int             `json:"count"`
	Results []NamedResource `json:"results"`
}

// Names returns the type names in service order.
func (l TypeList) Names() []string {
	names := make([]string, 0, len(l.Results))
	for _, r := range l.Results {
		names = append(names, r.Name)
	}
	return names
}

// TypeDetail mirrors /type/{name}.
type TypeDetail struct {
	ID      int              `json:"id"`
	Name    string           `json:"name"`
	Pokemon []TypeMembership `json:"pokemon"`
}

// TypeMembership links a Pokemon to a type.
type TypeMembership struct {
	Slot    int           `json:"slot"`
	Pokemon NamedResource `json:"pokemon"`
}
