package hook

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrInterrupt signals that a handler wants to stop further processing.
var ErrInterrupt = errors.New("hook interrupted")

// HookFn is a hook handler function.
// Returns (modified data, nil) to continue, or (data, ErrInterrupt) to stop.
type HookFn func(ctx context.Context, event string, data interface{}) (interface{}, error)

type hookEntry struct {
	priority int
	seq      uint64
	fn       HookFn
	name     string
}

// HookCenter manages named listener registrations per event. The host uses
// one center per entity (attribute listeners) and one per inventory
// (transition speed modifiers).
type HookCenter struct {
	mu    sync.RWMutex
	seq   uint64
	hooks map[string][]*hookEntry
}

// NewHookCenter creates a new HookCenter.
func NewHookCenter() *HookCenter {
	return &HookCenter{hooks: make(map[string][]*hookEntry)}
}

// Register adds fn for event with the given priority (lower runs first,
// equal priorities run in registration order). Registering the same name
// twice yields two entries; callers that want a single live entry must
// Unregister first.
func (hc *HookCenter) Register(event string, priority int, name string, fn HookFn) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.seq++
	entries := append(hc.hooks[event], &hookEntry{priority: priority, seq: hc.seq, fn: fn, name: name})
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority < entries[j].priority
		}
		return entries[i].seq < entries[j].seq
	})
	hc.hooks[event] = entries
}

// Unregister removes all hooks with the given name for event. Safe to call
// when nothing is registered.
func (hc *HookCenter) Unregister(event, name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.hooks[event] = without(hc.hooks[event], name)
}

// UnregisterAll removes name across all events.
func (hc *HookCenter) UnregisterAll(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	for event, entries := range hc.hooks {
		hc.hooks[event] = without(entries, name)
	}
}

func without(entries []*hookEntry, name string) []*hookEntry {
	n := 0
	for _, e := range entries {
		if e.name != name {
			entries[n] = e
			n++
		}
	}
	for i := n; i < len(entries); i++ {
		entries[i] = nil
	}
	return entries[:n]
}

// Count returns the number of hooks registered for event.
func (hc *HookCenter) Count(event string) int {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return len(hc.hooks[event])
}

// CountNamed returns how many hooks named name are registered for event.
func (hc *HookCenter) CountNamed(event, name string) int {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	n := 0
	for _, e := range hc.hooks[event] {
		if e.name == name {
			n++
		}
	}
	return n
}

// Trigger executes all hooks for event in priority order. Data flows through
// each handler. Handlers run outside the lock so they may register or
// unregister hooks; such changes apply from the next Trigger.
func (hc *HookCenter) Trigger(ctx context.Context, event string, data interface{}) (interface{}, error) {
	hc.mu.RLock()
	entries := make([]*hookEntry, len(hc.hooks[event]))
	copy(entries, hc.hooks[event])
	hc.mu.RUnlock()

	var err error
	for _, e := range entries {
		data, err = e.fn(ctx, event, data)
		if errors.Is(err, ErrInterrupt) {
			return data, err
		}
	}
	return data, nil
}

// ---- Event names ----

// AcquireTransitionSpeed is fired by an inventory to fold per-stack
// transition speed modifiers. Data is the running multiplier query.
const AcquireTransitionSpeed = "acquire_transition_speed"

// AttributeModified returns the event fired when a watched attribute changes.
func AttributeModified(key string) string {
	return "attribute_modified:" + key
}
