package attr

import "sort"

// Cloner is implemented by leaf values that need a deep copy when their
// owning tree is cloned.
type Cloner interface {
	CloneValue() interface{}
}

// Tree is a string-keyed attribute map. Keys keep their insertion order so
// iteration is deterministic.
type Tree struct {
	keys   []string
	values map[string]interface{}
}

// NewTree creates an empty Tree.
func NewTree() *Tree {
	return &Tree{values: make(map[string]interface{})}
}

// Len returns the number of entries. A nil Tree has none.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Has reports whether key is present.
func (t *Tree) Has(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.values[key]
	return ok
}

// Get returns the raw value stored under key.
func (t *Tree) Get(key string) (interface{}, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Set stores v under key, replacing any previous value in place.
func (t *Tree) Set(key string, v interface{}) {
	if t.values == nil {
		t.values = make(map[string]interface{})
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
}

// Delete removes key. Deleting a missing key is a no-op.
func (t *Tree) Delete(key string) {
	if t == nil {
		return
	}
	if _, ok := t.values[key]; !ok {
		return
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// SortedKeys returns the keys in lexical order.
func (t *Tree) SortedKeys() []string {
	out := t.Keys()
	sort.Strings(out)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (t *Tree) Range(fn func(key string, v interface{}) bool) {
	if t == nil {
		return
	}
	for _, k := range t.keys {
		if !fn(k, t.values[k]) {
			return
		}
	}
}

// GetTree returns the nested tree under key, or nil if absent or not a tree.
func (t *Tree) GetTree(key string) *Tree {
	v, ok := t.Get(key)
	if !ok {
		return nil
	}
	sub, _ := v.(*Tree)
	return sub
}

// GetOrCreateTree returns the nested tree under key, creating it if needed.
func (t *Tree) GetOrCreateTree(key string) *Tree {
	if sub := t.GetTree(key); sub != nil {
		return sub
	}
	sub := NewTree()
	t.Set(key, sub)
	return sub
}

// GetFloat returns the float under key or def. Integer values are widened.
func (t *Tree) GetFloat(key string, def float64) float64 {
	v, ok := t.Get(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

// SetFloat stores a float64.
func (t *Tree) SetFloat(key string, v float64) { t.Set(key, v) }

// GetInt returns the integer under key or def.
func (t *Tree) GetInt(key string, def int) int {
	v, ok := t.Get(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	}
	return def
}

// SetInt stores an int.
func (t *Tree) SetInt(key string, v int) { t.Set(key, v) }

// GetString returns the string under key or def.
func (t *Tree) GetString(key, def string) string {
	v, ok := t.Get(key)
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// SetString stores a string.
func (t *Tree) SetString(key, v string) { t.Set(key, v) }

// GetBool returns the bool under key or def.
func (t *Tree) GetBool(key string, def bool) bool {
	v, ok := t.Get(key)
	if !ok {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

// SetBool stores a bool.
func (t *Tree) SetBool(key string, v bool) { t.Set(key, v) }

// Clone returns a deep copy. Nested trees and Cloner leaves are copied;
// other leaves are copied by value.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{
		keys:   make([]string, len(t.keys)),
		values: make(map[string]interface{}, len(t.values)),
	}
	copy(out.keys, t.keys)
	for k, v := range t.values {
		switch x := v.(type) {
		case *Tree:
			out.values[k] = x.Clone()
		case Cloner:
			out.values[k] = x.CloneValue()
		default:
			out.values[k] = v
		}
	}
	return out
}
