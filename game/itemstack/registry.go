package itemstack

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
)

// ErrUnknownItem is returned when a stack references an unregistered code.
var ErrUnknownItem = errors.New("itemstack: unknown item code")

// Registry resolves item codes to item types.
type Registry struct {
	mu    sync.RWMutex
	items map[string]*Collectible
}

// NewRegistry creates a Registry preloaded with items.
func NewRegistry(items ...*Collectible) *Registry {
	r := &Registry{items: make(map[string]*Collectible, len(items))}
	for _, c := range items {
		r.items[c.Code] = c
	}
	return r
}

// Register adds c. Codes must be unique.
func (r *Registry) Register(c *Collectible) error {
	if c == nil || strings.TrimSpace(c.Code) == "" {
		return errors.New("itemstack: empty item code")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.Code]; ok {
		return fmt.Errorf("itemstack: duplicate item code %q", c.Code)
	}
	r.items[c.Code] = c
	return nil
}

// Lookup returns the item type for code.
func (r *Registry) Lookup(code string) (*Collectible, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[code]
	return c, ok
}

// Resolve is Lookup with an error carrying close matches.
func (r *Registry) Resolve(code string) (*Collectible, error) {
	if c, ok := r.Lookup(code); ok {
		return c, nil
	}
	if sugg := r.Suggest(code, 3); len(sugg) > 0 {
		return nil, fmt.Errorf("%w %q (did you mean %s?)", ErrUnknownItem, code, strings.Join(sugg, ", "))
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownItem, code)
}

// Codes returns every registered code in lexical order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.items))
	for code := range r.items {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Suggest returns up to n registered codes closest to code by edit distance.
func (r *Registry) Suggest(code string, n int) []string {
	type scored struct {
		code string
		dist int
	}
	token := strings.ToLower(code)
	var cands []scored
	for _, c := range r.Codes() {
		d := levenshtein.ComputeDistance(token, strings.ToLower(c))
		if d > suggestLimit(len(c)) {
			continue
		}
		cands = append(cands, scored{code: c, dist: d})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	if len(cands) > n {
		cands = cands[:n]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.code
	}
	return out
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
