// Package catalog implements search, sort and type filtering over an
// already-fetched Pokemon collection.
//
// Every function is pure: inputs are never mutated, results are new slices,
// and nothing here returns an error. Blank search terms and empty type
// selections mean "everything".
//
// Sort uses a stable algorithm. Its comparator only returns zero for exactly
// equal keys, so runs of equal keys keep their input order whether the order
// is ascending or descending.
package catalog
