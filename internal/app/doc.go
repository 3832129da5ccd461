// Package app provides the orchestration layer for dex.
//
// # Overview
//
// This package wires together configuration, logging, metrics, the PokeAPI
// client, the shared state store and the presentation layer. It is the
// composition root where every dependency is built and connected, and it
// owns the Loader that drives load cycles.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Load config from ~/.config/dex/config.toml, .env and DEX_* variables
//  2. Open the session log file and install the slog default logger
//  3. Build the Prometheus metrics and the rate-limited PokeAPI client
//  4. Create the shared state.Store and the Loader
//  5. Start the first load cycle and the type taxonomy fetch in the background
//  6. Run the TUI, or the headless HTTP API when a listen address is set
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config
//	       ├─────> logging.Setup()      Session log file
//	       ├─────> pokeapi.NewClient()  HTTP client
//	       ├─────> state.Store{}        Shared state container
//	       ├─────> Loader.Start()       Background load cycle
//	       └─────> ui.Run() | server    Presentation (blocks)
//
//	Load cycle:
//	┌─────────────────────────────────────────┐
//	│ store.Begin()         phase = loading   │
//	│  ├─> FetchList(page_size, 0)            │
//	│  ├─> ExtractID() per summary            │
//	│  ├─> FetchPokemon() x N  (errgroup,     │
//	│  │     SetLimit(concurrency))           │
//	│  └─> store.Commit() | store.Fail()      │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Load Cycles
//
// Every cycle gets a UUID for log correlation and a store generation.
// Details are written into a slice pre-sized from the list page, so the
// committed collection keeps list order no matter which request finishes
// first. A single failure (list, malformed URL, duplicate ID or any detail
// request) fails the whole cycle: partial results are dropped and users see
// only FailureMessage. The cause goes to the log.
//
// Refetch cancels the cycle in flight before starting a new one. The store
// ignores Commit and Fail calls from older generations, so the most recently
// started cycle always decides the final state.
//
// The type taxonomy is fetched independently. Its failure is recorded on the
// snapshot as TypesError and never blocks the ready phase.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid config file or environment override
//   - Log file cannot be opened
//   - Invalid base URL
//
// Recoverable errors (logged, reflected in state):
//   - Any upstream failure during a load cycle
//   - Type taxonomy failures
//   - Detail view fetch failures
package app
