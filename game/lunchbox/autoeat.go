package lunchbox

import (
	"time"

	"go.uber.org/zap"
)

// ConfigureAutoEat binds the hunger listener to whoever holds inv. It only
// runs on the authoritative side, and rebinding to the current holder is a
// no-op.
func (c *Container) ConfigureAutoEat(world World, inv Inventory) {
	if world == nil || !world.IsAuthoritative() {
		return
	}
	c.world = world

	var next Entity
	if inv != nil {
		next = inv.Holder()
	}
	prev := c.holder.current()
	if !c.holder.rebind(next, c.attachHunger) {
		return
	}
	c.logger.Debug("auto-eat rebound",
		zap.String("from", entityID(prev)),
		zap.String("to", entityID(next)),
	)
}

func (c *Container) attachHunger(e Entity) func() {
	key := c.behavior.eat.HungerKey
	name := c.listenerName()
	attrs := e.WatchedAttributes()
	attrs.RegisterModifiedListener(key, name, c.OnHungerChanged)
	return func() { attrs.UnregisterListener(key, name) }
}

// OnHungerChanged feeds the bound entity from the container when its
// saturation is at or below the configured minimum.
func (c *Container) OnHungerChanged() {
	e := c.holder.current()
	if e == nil {
		return
	}
	eat := c.behavior.eat
	hunger := e.WatchedAttributes().GetTree(eat.HungerKey)
	if hunger == nil {
		return
	}
	saturation := hunger.GetFloat(eat.SaturationKey, 0)
	if saturation > eat.MinSatiety {
		return
	}

	slot, served := c.selectSlot(c.slots)
	if slot == nil {
		return
	}
	c.eatFrom(e, slot, saturation, served)
}

// eatFrom fakes a completed hold of HoldSeconds, which the host requires
// before a meal counts as eaten.
func (c *Container) eatFrom(e Entity, slot *Slot, saturation float64, served bool) {
	stack := slot.Stack
	if stack == nil || stack.Collectible() == nil {
		return
	}
	ev := AutoEatEvent{
		ContainerID:  c.id,
		LunchboxCode: c.behavior.code,
		EntityID:     e.EntityID(),
		SlotIndex:    slot.Index,
		FoodCode:     stack.Code,
		Saturation:   saturation,
		Served:       served,
		At:           time.Now(),
	}
	c.logger.Info("auto-eat",
		zap.String("entity", ev.EntityID),
		zap.Int("slot", ev.SlotIndex),
		zap.String("food", ev.FoodCode),
		zap.Float64("saturation", saturation),
		zap.Bool("served", served),
	)
	c.behavior.notify(ev)
	c.behavior.food.ConsumeHeld(slot, e, c.behavior.eat.HoldSeconds)
}

func entityID(e Entity) string {
	if e == nil {
		return ""
	}
	return e.EntityID()
}
