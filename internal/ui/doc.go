// Package ui implements the dex terminal interface with Bubble Tea.
//
// # Views
//
//   - List: one row per Pokémon with number, name, types, height, weight and
//     base experience. "/" searches as you type, "s" cycles the sort field,
//     "o" flips the order.
//   - Gallery: cards in a grid under a row of type chips. "h"/"l" move the
//     chip cursor, space toggles the type in the filter, "c" clears it.
//   - Detail: stats, abilities and the English flavor text for one Pokémon.
//     "p"/"n" (or the arrow keys) step through the current list order.
//   - Logs: tail of the session log file, refreshed while following.
//
// # Data Flow
//
// The model never talks to PokeAPI for the collection. A tick re-reads the
// shared state.Store snapshot, and every view renders from the snapshot run
// through the current catalog.Query. Only the detail view calls the Loader,
// to fetch species data for the selected Pokémon.
//
// Theme, sort settings and the type selection are persisted to prefs.toml
// whenever they change. The search term is not.
package ui
