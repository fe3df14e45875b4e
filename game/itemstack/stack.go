package itemstack

import (
	"github.com/google/uuid"
	"github.com/kasuganosora/lunchbox/game/attr"
)

// Stack is a quantity of one item type plus its attributes.
//
// The container tag is transient: it is never persisted or cloned, and it
// is only meaningful while the stack sits in the container it names.
type Stack struct {
	Code       string
	Quantity   int
	Attributes *attr.Tree

	collectible *Collectible
	container   uuid.UUID
}

// New creates a resolved stack of c.
func New(c *Collectible, qty int) *Stack {
	return &Stack{
		Code:        c.Code,
		Quantity:    qty,
		Attributes:  attr.NewTree(),
		collectible: c,
	}
}

// Collectible returns the resolved item type, or nil before Resolve.
func (s *Stack) Collectible() *Collectible {
	if s == nil {
		return nil
	}
	return s.collectible
}

// Resolved reports whether the stack's item type has been looked up.
func (s *Stack) Resolved() bool { return s != nil && s.collectible != nil }

// Resolve looks up the stack's item type in reg.
func (s *Stack) Resolve(reg *Registry) error {
	c, err := reg.Resolve(s.Code)
	if err != nil {
		return err
	}
	s.collectible = c
	return nil
}

// ContainerTag returns the id of the container the stack is tagged as inside,
// or uuid.Nil.
func (s *Stack) ContainerTag() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.container
}

// SetContainerTag marks the stack as inside container id.
func (s *Stack) SetContainerTag(id uuid.UUID) {
	if s != nil {
		s.container = id
	}
}

// ClearContainerTag removes the tag if it names id. Tags set by other
// containers are left untouched.
func (s *Stack) ClearContainerTag(id uuid.UUID) {
	if s != nil && s.container == id {
		s.container = uuid.Nil
	}
}

// Empty reports whether the stack holds nothing.
func (s *Stack) Empty() bool { return s == nil || s.Quantity <= 0 }

// Clone returns a deep copy without the container tag.
func (s *Stack) Clone() *Stack {
	if s == nil {
		return nil
	}
	return &Stack{
		Code:        s.Code,
		Quantity:    s.Quantity,
		Attributes:  s.Attributes.Clone(),
		collectible: s.collectible,
	}
}

// Value is the attribute-tree leaf stored for each bag slot. A nil Stack is
// the empty placeholder.
type Value struct {
	Stack *Stack
}

// CloneValue implements attr.Cloner.
func (v *Value) CloneValue() interface{} {
	return &Value{Stack: v.Stack.Clone()}
}

// StackValue returns the leaf stored under key in t. ok is false when the key
// is missing or holds something other than a Value.
func StackValue(t *attr.Tree, key string) (*Value, bool) {
	raw, ok := t.Get(key)
	if !ok {
		return nil, false
	}
	v, ok := raw.(*Value)
	return v, ok
}
