package pokeapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractID(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"pokemon url", "https://pokeapi.co/api/v2/pokemon/25/", 25, false},
		{"species url", "https://pokeapi.co/api/v2/pokemon-species/151/", 151, false},
		{"surrounding whitespace", "  https://pokeapi.co/api/v2/pokemon/4/ ", 4, false},
		{"missing trailing slash", "https://pokeapi.co/api/v2/pokemon/25", 0, true},
		{"name segment", "https://pokeapi.co/api/v2/pokemon/pikachu/", 0, true},
		{"zero", "https://pokeapi.co/api/v2/pokemon/0/", 0, true},
		{"negative", "https://pokeapi.co/api/v2/pokemon/-3/", 0, true},
		{"plus sign", "https://pokeapi.co/api/v2/pokemon/+25/", 0, true},
		{"leading zero", "https://pokeapi.co/api/v2/pokemon/025/", 0, true},
		{"inner space", "https://pokeapi.co/api/v2/pokemon/ 25/", 0, true},
		{"hex", "https://pokeapi.co/api/v2/pokemon/0x19/", 0, true},
		{"large id", "https://pokeapi.co/api/v2/pokemon/10277/", 10277, false},
		{"empty", "", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractID(tc.in)
			if tc.wantErr {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPokemon_ImageURLFallbacks(t *testing.T) {
	p := Pokemon{ID: 7}
	assert.Equal(t, "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/7.png", p.ImageURL())

	p.Sprites.FrontDefault = "front.png"
	assert.Equal(t, "front.png", p.ImageURL())

	p.Sprites.Other.OfficialArtwork.FrontDefault = "art.png"
	assert.Equal(t, "art.png", p.ImageURL())
}

func TestPokemon_UnitsAndTypes(t *testing.T) {
	p := Pokemon{
		Height: 7,
		Weight: 69,
		Types: []TypeSlot{
			{Slot: 1, Type: NamedResource{Name: "grass"}},
			{Slot: 2, Type: NamedResource{Name: "poison"}},
		},
	}
	assert.InDelta(t, 0.7, p.HeightMetres(), 1e-9)
	assert.InDelta(t, 6.9, p.WeightKilograms(), 1e-9)
	assert.Equal(t, []string{"grass", "poison"}, p.TypeNames())
	assert.True(t, p.HasType("poison"))
	assert.False(t, p.HasType("fire"))
}

func TestStatPercent(t *testing.T) {
	assert.Zero(t, StatPercent(-1))
	assert.InDelta(t, 100, StatPercent(255), 1e-9)
	assert.InDelta(t, 100, StatPercent(300), 1e-9)
	assert.InDelta(t, 100.0/255*100, StatPercent(100), 1e-9)
}

func TestSpecies_EnglishFlavorTextMissing(t *testing.T) {
	s := Species{FlavorTextEntries: []FlavorText{{FlavorText: "hola", Language: NamedResource{Name: "es"}}}}
	assert.Empty(t, s.EnglishFlavorText())
}
