// Package source provides rule-set backends for the engine: plain files,
// an in-memory store for tests and embedding, and a SQLite blob store.
// It also carries the change watcher and the periodic refresh scheduler
// that keep the engine's cache in step with the backend.
package source
