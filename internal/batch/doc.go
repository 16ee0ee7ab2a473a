// Package batch resolves lists of subject codes into course records.
//
// A bounded worker pool drives the injected fetcher, a shared cache
// short-circuits codes already resolved this process, and progress is
// streamed as events: one progress event per finished code in completion
// order, then exactly one complete event whose results are normalized back
// to input order. A failed code never aborts its batch.
package batch
