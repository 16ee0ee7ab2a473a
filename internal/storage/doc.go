// Package storage provides JSON-based persistence for course snapshots.
//
// A snapshot is an array of course records written by the prefetch command
// and loaded at server start to pre-warm the batch cache. Records are
// identified by their subject code. The default location is
// ~/.local/share/handbook-courses/courses.json.
package storage
