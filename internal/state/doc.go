// Package state holds the application state shared between the loader and
// its consumers (the terminal UI and the headless HTTP server).
//
// # Overview
//
// The Store is the explicit application-state object. It is created once by
// app.Run, passed by pointer to every consumer, and lives for the session.
// There is no package-level singleton.
//
//	Producer (Loader):               Consumers (UI, server):
//	┌──────────────────┐            ┌───────────────────┐
//	│ store.Begin()    │            │                   │
//	│ FetchList()      │            │                   │
//	│ FetchPokemon()xN │            │                   │
//	│ store.Commit()   │───────────→│ store.Snapshot()  │
//	│  or store.Fail() │  (mutex)   │ snap.Query(q)     │
//	└──────────────────┘            └───────────────────┘
//
// # Load Cycle
//
// A cycle moves idle → loading → ready | failed and re-enters loading on
// refetch. Begin bumps a generation counter and returns it. Commit and Fail
// only apply when called with the current generation, so a cancelled or
// superseded cycle can never overwrite a newer one.
//
// Commit and Fail replace phase, items and error together under one write
// lock. Readers never observe a partially updated snapshot.
//
// # Snapshot
//
// Snapshot returns copies of the item and type slices. The query methods on
// Snapshot (Search, Sort, FilterByTypes, Query) are the catalog functions
// bound to the snapshot's items.
//
// # Type Taxonomy
//
// SetTypes is independent of the load cycle. A failure is recorded in
// TypesError and never changes Phase.
package state
