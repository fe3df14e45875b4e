package sim

import (
	"github.com/kasuganosora/lunchbox/game/itemstack"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
)

// Stack attributes used by pots and bowls.
const (
	AttrContents = "contents"
	AttrServings = "servings"
)

// MinEatSeconds is how long an eat interaction must be held to count.
const MinEatSeconds = 0.95

// FoodSystem implements lunchbox.FoodSystem. Plain food is eaten one item at
// a time; cooked containers hold servings of a meal that must be served into
// a meal container before eating.
type FoodSystem struct {
	registry *itemstack.Registry
	// OnSlotModified is called after a slot's stack changes.
	OnSlotModified func(slot *lunchbox.Slot)
}

// NewFoodSystem creates a FoodSystem resolving meal codes through reg.
func NewFoodSystem(reg *itemstack.Registry) *FoodSystem {
	return &FoodSystem{registry: reg}
}

// Fill loads a cooked or meal container with servings of meal.
func Fill(stack *itemstack.Stack, meal string, servings int) {
	stack.Attributes.SetString(AttrContents, meal)
	stack.Attributes.SetInt(AttrServings, servings)
}

func contents(stack *itemstack.Stack) (string, int) {
	return stack.Attributes.GetString(AttrContents, ""), stack.Attributes.GetInt(AttrServings, 0)
}

func clearContents(stack *itemstack.Stack) {
	stack.Attributes.Delete(AttrContents)
	stack.Attributes.Delete(AttrServings)
}

// Satiety returns how much one bite of slot's contents restores.
func (f *FoodSystem) Satiety(slot *lunchbox.Slot) float64 {
	if slot.Empty() {
		return 0
	}
	c := slot.Stack.Collectible()
	switch {
	case c == nil:
		return 0
	case c.IsCookedContainer() || c.IsMealContainer():
		meal, servings := contents(slot.Stack)
		if meal == "" || servings <= 0 {
			return 0
		}
		m, ok := f.registry.Lookup(meal)
		if !ok {
			return 0
		}
		return m.Satiety
	default:
		return c.Satiety
	}
}

func (f *FoodSystem) HasNutrition(slot *lunchbox.Slot, _ lunchbox.Entity) bool {
	return f.Satiety(slot) > 0
}

func (f *FoodSystem) IsMealHoldingContainer(slot *lunchbox.Slot) bool {
	return !slot.Empty() && slot.Stack.Collectible().IsMealContainer()
}

func (f *FoodSystem) IsEmptyContainer(stack *itemstack.Stack) bool {
	meal, servings := contents(stack)
	return meal == "" || servings <= 0
}

// ServeInto moves one serving into a single empty meal container.
func (f *FoodSystem) ServeInto(meal, cooked *lunchbox.Slot, w lunchbox.World) bool {
	if w == nil || !w.IsAuthoritative() {
		return false
	}
	if meal.Empty() || cooked.Empty() || meal.Stack.Quantity != 1 {
		return false
	}
	if !f.IsEmptyContainer(meal.Stack) {
		return false
	}
	code, servings := contents(cooked.Stack)
	if code == "" || servings <= 0 {
		return false
	}
	Fill(meal.Stack, code, 1)
	if servings == 1 {
		clearContents(cooked.Stack)
	} else {
		cooked.Stack.Attributes.SetInt(AttrServings, servings-1)
	}
	f.modified(meal)
	f.modified(cooked)
	return true
}

// ConsumeHeld eats one item (or one serving) from slot when the hold was long enough.
func (f *FoodSystem) ConsumeHeld(slot *lunchbox.Slot, e lunchbox.Entity, secondsUsed float64) {
	if secondsUsed < MinEatSeconds {
		return
	}
	player, ok := e.(*Entity)
	if !ok {
		return
	}
	gain := f.Satiety(slot)
	if gain <= 0 {
		return
	}
	c := slot.Stack.Collectible()
	switch {
	case c.IsMealContainer():
		clearContents(slot.Stack)
	case c.IsCookedContainer():
		_, servings := contents(slot.Stack)
		if servings <= 1 {
			clearContents(slot.Stack)
		} else {
			slot.Stack.Attributes.SetInt(AttrServings, servings-1)
		}
	default:
		slot.Stack.Quantity--
		if slot.Stack.Quantity <= 0 {
			slot.Stack = nil
		}
	}
	f.modified(slot)
	player.SetSaturation(player.Saturation() + gain)
}

func (f *FoodSystem) modified(slot *lunchbox.Slot) {
	if f.OnSlotModified != nil {
		f.OnSlotModified(slot)
	}
}
