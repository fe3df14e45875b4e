package lunchbox

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kasuganosora/lunchbox/game/attr"
	"github.com/kasuganosora/lunchbox/game/itemstack"
	"go.uber.org/zap"
)

// Container is one lunchbox stack. All methods run inside host callbacks,
// which the host serialises.
type Container struct {
	id       uuid.UUID
	behavior *Behavior
	logger   *zap.Logger

	slots     []*Slot
	inventory Inventory
	world     World

	holder   subscription[Entity]
	spoilage subscription[Inventory]
}

func newContainer(id uuid.UUID, b *Behavior) *Container {
	return &Container{
		id:       id,
		behavior: b,
		logger:   b.logger.With(zap.String("container", id.String())),
	}
}

// ID returns the container instance id.
func (c *Container) ID() uuid.UUID { return c.id }

// Behavior returns the item-type behavior of the container.
func (c *Container) Behavior() *Behavior { return c.behavior }

// Slots returns the slots from the last materialisation.
func (c *Container) Slots() []*Slot { return c.slots }

// Holder returns the bound entity, or nil.
func (c *Container) Holder() Entity { return c.holder.current() }

// Inventory returns the inventory of the last materialisation.
func (c *Container) Inventory() Inventory { return c.inventory }

// listenerName identifies this instance in host listener registries.
func (c *Container) listenerName() string { return "lunchbox:" + c.id.String() }

// MaterializeSlots builds the slots from bagstack's persisted state, creating
// empty state on first use. Every restored stack is tagged before the
// auto-eat and spoilage bindings are refreshed.
func (c *Container) MaterializeSlots(bagstack *itemstack.Stack, inv Inventory, bagIndex int, world World) ([]*Slot, error) {
	b := c.behavior
	var slots []*Slot

	slotsTree := bagstack.Attributes.GetTree(attrBackpack).GetTree(attrSlots)
	if slotsTree == nil {
		slotsTree = attr.NewTree()
		for i := 0; i < b.slotCount; i++ {
			slots = append(slots, c.newSlot(inv, bagIndex, i))
			slotsTree.Set(SlotKey(i), &itemstack.Value{})
		}
		bagstack.Attributes.GetOrCreateTree(attrBackpack).Set(attrSlots, slotsTree)
	} else {
		var err error
		slots, err = c.restoreSlots(slotsTree, inv, bagIndex)
		if err != nil {
			return nil, err
		}
	}

	c.slots = slots
	c.inventory = inv

	c.ConfigureAutoEat(world, inv)
	if c.HasMultiplier() {
		c.spoilage.rebind(inv, c.attachSpoilage)
	}
	return slots, nil
}

func (c *Container) restoreSlots(slotsTree *attr.Tree, inv Inventory, bagIndex int) ([]*Slot, error) {
	b := c.behavior
	var slots []*Slot
	for _, key := range slotsTree.Keys() {
		idx, err := ParseSlotKey(key)
		if err != nil {
			return nil, err
		}
		slot := c.newSlot(inv, bagIndex, idx)
		if v, ok := itemstack.StackValue(slotsTree, key); ok && v.Stack != nil {
			if !v.Stack.Resolved() {
				if b.registry == nil {
					return nil, fmt.Errorf("lunchbox: resolve %s in %s: no item registry", v.Stack.Code, key)
				}
				if err := v.Stack.Resolve(b.registry); err != nil {
					return nil, fmt.Errorf("lunchbox: restore %s: %w", key, err)
				}
			}
			slot.Stack = v.Stack
		}
		for len(slots) <= idx {
			slots = append(slots, nil)
		}
		slots[idx] = slot
		c.TagStack(slot.Stack)
	}

	// Gaps and slots added to the item type since the state was written.
	for len(slots) < b.slotCount {
		slots = append(slots, nil)
	}
	for i, s := range slots {
		if s == nil {
			slots[i] = c.newSlot(inv, bagIndex, i)
			slotsTree.Set(SlotKey(i), &itemstack.Value{})
		}
	}
	return slots, nil
}

func (c *Container) newSlot(inv Inventory, bagIndex, index int) *Slot {
	b := c.behavior
	return &Slot{
		Inventory: inv,
		BagIndex:  bagIndex,
		Index:     index,
		Kind:      b.kind,
		Flags:     b.flags,
		BgColor:   b.bgColor,
	}
}

// Store writes slot's stack (or the empty placeholder) into bagstack's
// persisted state, then tags the stack. A stack that the write replaces has
// left the container and loses this container's tag.
func (c *Container) Store(bagstack *itemstack.Stack, slot *Slot) error {
	if slot == nil || slot.Index < 0 {
		return ErrInvalidSlotIndex
	}
	slotsTree := bagstack.Attributes.GetOrCreateTree(attrBackpack).GetOrCreateTree(attrSlots)
	key := SlotKey(slot.Index)
	if prev, ok := itemstack.StackValue(slotsTree, key); ok && prev.Stack != slot.Stack {
		c.UntagStack(prev.Stack)
	}
	slotsTree.Set(key, &itemstack.Value{Stack: slot.Stack})
	c.TagStack(slot.Stack)
	return nil
}

// ---- Spoilage ----

// HasMultiplier reports whether the configured multiplier differs from 1.0.
func (c *Container) HasMultiplier() bool {
	return c.behavior.spoilMul != 1.0
}

// TagStack marks stack as inside this container when a multiplier applies.
// Without one the stack ends up untagged, whichever container tagged it
// before. Nil stacks are ignored.
func (c *Container) TagStack(stack *itemstack.Stack) {
	if stack == nil {
		return
	}
	if c.HasMultiplier() {
		stack.SetContainerTag(c.id)
		return
	}
	stack.SetContainerTag(uuid.Nil)
}

// UntagStack clears the tag if it names this container.
func (c *Container) UntagStack(stack *itemstack.Stack) {
	stack.ClearContainerTag(c.id)
}

// OnSpoilageRateQuery applies the multiplier to perishing stacks tagged with
// this container's id. Everything else passes through unchanged.
func (c *Container) OnSpoilageRateQuery(kind TransitionKind, stack *itemstack.Stack, base float64) float64 {
	if kind != TransitionPerish {
		return base
	}
	if stack == nil || stack.Collectible() == nil {
		return base
	}
	if stack.ContainerTag() != c.id {
		return base
	}
	return base * c.behavior.spoilMul
}

func (c *Container) attachSpoilage(inv Inventory) func() {
	name := c.listenerName()
	inv.RegisterTransitionSpeed(name, c.OnSpoilageRateQuery)
	c.logger.Debug("spoilage modifier bound", zap.String("inventory", inv.InventoryID()))
	return func() { inv.UnregisterTransitionSpeed(name) }
}

// Release detaches every subscription and clears the tags this container set.
// Safe to call more than once.
func (c *Container) Release() {
	c.holder.clear()
	c.spoilage.clear()
	for _, s := range c.slots {
		if s != nil {
			c.UntagStack(s.Stack)
		}
	}
}
