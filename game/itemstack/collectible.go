package itemstack

import (
	"fmt"
	"strings"
)

// Class is the behavioural category of an item type.
type Class int

const (
	ClassGeneric Class = iota
	ClassFood
	// ClassCookedContainer holds cooked meals that must be served before eating (pots, crocks).
	ClassCookedContainer
	// ClassMealContainer can receive a served meal (bowls).
	ClassMealContainer
)

var classNames = map[Class]string{
	ClassGeneric:         "generic",
	ClassFood:            "food",
	ClassCookedContainer: "cooked_container",
	ClassMealContainer:   "meal_container",
}

func (c Class) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// ParseClass maps a config name to a Class.
func ParseClass(s string) (Class, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return ClassGeneric, nil
	}
	for c, n := range classNames {
		if n == name {
			return c, nil
		}
	}
	return ClassGeneric, fmt.Errorf("itemstack: unknown item class %q", s)
}

// StorageFlags describe which slot kinds accept an item.
type StorageFlags uint32

const (
	StorageGeneral StorageFlags = 1 << iota
	StorageBackpack
	StorageAgriculture
	StorageAlchemy
	StorageJewellery
	StorageArrow
)

// DefaultStorageFlags applies when an item type declares none.
const DefaultStorageFlags = StorageGeneral | StorageBackpack

// Collectible is an item type.
type Collectible struct {
	Code     string
	Name     string
	Class    Class
	Flags    StorageFlags
	Satiety  float64 // 0 means not directly edible
	MaxStack int
}

// IsCookedContainer reports whether the item is a pot/crock style container.
func (c *Collectible) IsCookedContainer() bool {
	return c != nil && c.Class == ClassCookedContainer
}

// IsMealContainer reports whether the item can be served into.
func (c *Collectible) IsMealContainer() bool {
	return c != nil && c.Class == ClassMealContainer
}

// IsFoodLike reports whether a food-only slot may hold the item.
func (c *Collectible) IsFoodLike() bool {
	if c == nil {
		return false
	}
	switch c.Class {
	case ClassFood, ClassCookedContainer, ClassMealContainer:
		return true
	}
	return c.Satiety > 0
}

// StorageFlagsOrDefault returns Flags, falling back to DefaultStorageFlags.
func (c *Collectible) StorageFlagsOrDefault() StorageFlags {
	if c == nil || c.Flags == 0 {
		return DefaultStorageFlags
	}
	return c.Flags
}
