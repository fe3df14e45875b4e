package lunchbox

import "go.uber.org/zap"

// FindFirstEdibleSlot picks the slot to eat from.
//
// A directly edible item wins unless a cooked container was seen first. A
// cooked container is only usable once an empty meal container is found to
// serve it into; the filled meal container is then returned. Failed serves
// drop that meal container and the scan continues.
func (c *Container) FindFirstEdibleSlot(slots []*Slot) *Slot {
	slot, _ := c.selectSlot(slots)
	return slot
}

func (c *Container) selectSlot(slots []*Slot) (*Slot, bool) {
	food := c.behavior.food
	entity := c.holder.current()

	var cooked, meal, edible *Slot
	for _, slot := range slots {
		if slot.Empty() {
			continue
		}
		isCooked := slot.Stack.Collectible().IsCookedContainer()

		if cooked == nil && isCooked &&
			!food.IsEmptyContainer(slot.Stack) && food.HasNutrition(slot, entity) {
			cooked = slot
		}
		if meal == nil && food.IsMealHoldingContainer(slot) && !food.HasNutrition(slot, entity) {
			meal = slot
		}
		if edible == nil && !isCooked && food.HasNutrition(slot, entity) {
			edible = slot
		}

		if edible != nil && cooked == nil {
			return edible, false
		}
		if meal == nil || cooked == nil {
			continue
		}
		if food.ServeInto(meal, cooked, c.world) {
			return meal, true
		}
		c.logger.Warn("serving into meal container failed",
			zap.Int("meal_slot", meal.Index),
			zap.Int("cooked_slot", cooked.Index),
		)
		meal = nil
	}
	return edible, false
}
