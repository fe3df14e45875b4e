package lunchbox

import (
	"github.com/kasuganosora/lunchbox/game/attr"
	"github.com/kasuganosora/lunchbox/game/itemstack"
)

// World is the host's world accessor.
type World interface {
	// IsAuthoritative reports whether this side owns game state (server side).
	IsAuthoritative() bool
}

// WatchedAttributes is an entity's synchronised attribute tree. Listener
// removal is keyed by name and must be idempotent.
type WatchedAttributes interface {
	GetTree(key string) *attr.Tree
	RegisterModifiedListener(key, name string, fn func())
	UnregisterListener(key, name string)
}

// Entity is something that can hold an inventory. Implementations must be
// comparable by identity (pointer types).
type Entity interface {
	EntityID() string
	WatchedAttributes() WatchedAttributes
}

// TransitionKind names a time-based item transition.
type TransitionKind int

const (
	TransitionPerish TransitionKind = iota
	TransitionDry
	TransitionMelt
	TransitionCure
	TransitionRipen
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionPerish:
		return "perish"
	case TransitionDry:
		return "dry"
	case TransitionMelt:
		return "melt"
	case TransitionCure:
		return "cure"
	case TransitionRipen:
		return "ripen"
	}
	return "unknown"
}

// TransitionSpeedFn adjusts the transition speed multiplier of a stack.
type TransitionSpeedFn func(kind TransitionKind, stack *itemstack.Stack, mul float64) float64

// Inventory is the host inventory a lunchbox stack lives in. Implementations
// must be comparable by identity.
type Inventory interface {
	InventoryID() string
	// Holder returns the entity holding the inventory, or an untyped nil.
	Holder() Entity
	RegisterTransitionSpeed(name string, fn TransitionSpeedFn)
	UnregisterTransitionSpeed(name string)
}

// FoodSystem is the host's nutrition and meal logic.
type FoodSystem interface {
	HasNutrition(slot *Slot, e Entity) bool
	IsMealHoldingContainer(slot *Slot) bool
	// IsEmptyContainer reports whether a cooked container has no contents.
	IsEmptyContainer(stack *itemstack.Stack) bool
	// ServeInto moves one serving from cooked into meal. False means nothing changed.
	ServeInto(meal, cooked *Slot, w World) bool
	// ConsumeHeld ends a held interaction of secondsUsed on slot for e.
	ConsumeHeld(slot *Slot, e Entity, secondsUsed float64)
}
