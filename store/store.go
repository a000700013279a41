// Package store provides ContentStore implementations: a bun/SQLite store
// for the site database and an in-memory store for tests.
package store

import "github.com/sumeshkk123/localink"

// ContentStore is an alias to the engine interface for convenience.
type ContentStore = localink.ContentStore
