package lunchbox

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kasuganosora/lunchbox/game/itemstack"
)

const slotKeyPrefix = "slot-"

var (
	// ErrMalformedSlotKey is returned when a persisted slot key has no index.
	ErrMalformedSlotKey = errors.New("lunchbox: malformed slot key")
	// ErrInvalidSlotIndex is returned when writing a slot outside the bag.
	ErrInvalidSlotIndex = errors.New("lunchbox: invalid slot index")
	// ErrSlotRejects is returned when a slot cannot hold a stack.
	ErrSlotRejects = errors.New("lunchbox: slot cannot hold item")
)

// SlotKey returns the persisted key for slot index i.
func SlotKey(i int) string {
	return slotKeyPrefix + strconv.Itoa(i)
}

// ParseSlotKey returns the index encoded in key. Only the canonical form
// produced by SlotKey is accepted.
func ParseSlotKey(key string) (int, error) {
	rest, ok := strings.CutPrefix(key, slotKeyPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedSlotKey, key)
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 || SlotKey(i) != key {
		return 0, fmt.Errorf("%w: %q", ErrMalformedSlotKey, key)
	}
	return i, nil
}

// SlotKind selects the slot variant a lunchbox type uses.
type SlotKind int

const (
	SlotKindGeneric SlotKind = iota
	SlotKindFood
)

func (k SlotKind) String() string {
	if k == SlotKindFood {
		return "food"
	}
	return "generic"
}

// ParseSlotKind maps a config name to a SlotKind. Empty means food.
func ParseSlotKind(s string) (SlotKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "food":
		return SlotKindFood, nil
	case "generic":
		return SlotKindGeneric, nil
	}
	return SlotKindGeneric, fmt.Errorf("lunchbox: unknown slot kind %q", s)
}

// Slot is one position inside a lunchbox.
type Slot struct {
	Inventory Inventory
	BagIndex  int
	Index     int
	Kind      SlotKind
	Flags     itemstack.StorageFlags
	BgColor   string
	Stack     *itemstack.Stack
}

// Empty reports whether the slot holds nothing.
func (s *Slot) Empty() bool { return s == nil || s.Stack.Empty() }

// CanHold reports whether stack may be placed in the slot.
func (s *Slot) CanHold(stack *itemstack.Stack) bool {
	c := stack.Collectible()
	if c == nil {
		return false
	}
	if c.StorageFlagsOrDefault()&s.Flags == 0 {
		return false
	}
	if s.Kind == SlotKindFood {
		return c.IsFoodLike()
	}
	return true
}
