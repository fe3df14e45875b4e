// Package sim is an in-memory host for lunchboxes: a world, players with
// watched hunger attributes, inventories with transition speed modifiers
// and a small food system. It backs the tests and `lunchbox serve`.
package sim

import "sync"

// World serialises host callbacks. Every mutation of entities, inventories
// or lunchboxes must happen inside Do.
type World struct {
	mu     sync.Mutex
	server bool
}

// NewWorld creates a world. server marks it authoritative.
func NewWorld(server bool) *World {
	return &World{server: server}
}

// IsAuthoritative implements lunchbox.World.
func (w *World) IsAuthoritative() bool { return w.server }

// Do runs fn with exclusive access to host state. Do is not reentrant.
func (w *World) Do(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
}
