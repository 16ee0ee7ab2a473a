// Package course defines the structured record extracted from a handbook
// subject page, and the per-code outcome type returned by batch fetches.
//
// Field names in the JSON encoding are stable: they double as the snapshot
// file format (an array of records identified by code), so renaming a field
// is a breaking change for previously written snapshots.
package course
