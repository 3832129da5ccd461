// Package logtail reads the tail of the dex session log for the logs view.
//
// Read uses a ring buffer of maxLines entries, so memory stays at
// O(maxLines) however large the file grows, and lines come back oldest
// first. A missing file yields no lines and no error.
//
// Level and Message pull the level and msg fields out of slog text records
// so the UI can color and abbreviate lines. Lines that are not slog records
// pass through unchanged.
package logtail
