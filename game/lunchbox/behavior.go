package lunchbox

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kasuganosora/lunchbox/config"
	"github.com/kasuganosora/lunchbox/game/attr"
	"github.com/kasuganosora/lunchbox/game/itemstack"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Attribute keys on a lunchbox stack.
const (
	attrContainerID = "lunchboxId"
	attrBackpack    = "backpack"
	attrSlots       = "slots"
)

// Behavior is the lunchbox logic shared by every stack of one item type.
// Per-stack state lives in Container.
type Behavior struct {
	code      string
	kind      SlotKind
	flags     itemstack.StorageFlags
	slotCount int
	bgColor   string
	spoilMul  float64
	eat       config.AutoEatConfig
	lang      language.Tag

	food      FoodSystem
	registry  *itemstack.Registry
	observers []Observer
	logger    *zap.Logger

	containers map[uuid.UUID]*Container
}

func newBehavior(item config.LunchboxItem, opts Options) (*Behavior, error) {
	if item.Code == "" {
		return nil, errors.New("lunchbox: item code is required")
	}
	kind, err := ParseSlotKind(item.SlotKind)
	if err != nil {
		return nil, err
	}
	if item.QuantitySlots <= 0 {
		return nil, fmt.Errorf("lunchbox: %s: quantity_slots must be positive", item.Code)
	}
	mul := item.SpoilMultiplier()
	if mul < 0 {
		return nil, fmt.Errorf("lunchbox: %s: spoil_speed_mult must not be negative", item.Code)
	}
	flags := itemstack.StorageFlags(item.StorageFlags)
	if flags == 0 {
		flags = itemstack.DefaultStorageFlags
	}
	return &Behavior{
		code:       item.Code,
		kind:       kind,
		flags:      flags,
		slotCount:  item.QuantitySlots,
		bgColor:    item.SlotBgColor,
		spoilMul:   mul,
		eat:        opts.AutoEat,
		lang:       opts.Lang,
		food:       opts.Food,
		registry:   opts.Registry,
		observers:  opts.Observers,
		logger:     opts.Logger.With(zap.String("lunchbox", item.Code)),
		containers: make(map[uuid.UUID]*Container),
	}, nil
}

// Code returns the lunchbox item code.
func (b *Behavior) Code() string { return b.code }

// SpoilMultiplier returns the configured multiplier (1.0 when unset).
func (b *Behavior) SpoilMultiplier() float64 { return b.spoilMul }

// SlotKind returns the slot variant of this lunchbox type.
func (b *Behavior) SlotKind() SlotKind { return b.kind }

// SlotCount returns the configured number of slots.
func (b *Behavior) SlotCount() int { return b.slotCount }

// Container returns the instance for bagstack, assigning an id to the stack
// on first use.
func (b *Behavior) Container(bagstack *itemstack.Stack) *Container {
	id, ok := ContainerIDOf(bagstack)
	if !ok {
		id = uuid.New()
		bagstack.Attributes.SetString(attrContainerID, id.String())
	}
	if c, ok := b.containers[id]; ok {
		return c
	}
	c := newContainer(id, b)
	b.containers[id] = c
	b.logger.Debug("container created", zap.String("container", id.String()))
	return c
}

// GetOrCreateSlots materialises the slots of bagstack inside inv.
func (b *Behavior) GetOrCreateSlots(bagstack *itemstack.Stack, inv Inventory, bagIndex int, world World) ([]*Slot, error) {
	return b.Container(bagstack).MaterializeSlots(bagstack, inv, bagIndex, world)
}

// Store writes slot's current stack into bagstack's persisted state and tags it.
func (b *Behavior) Store(bagstack *itemstack.Stack, slot *Slot) error {
	return b.Container(bagstack).Store(bagstack, slot)
}

// Insert places stack into slot and stores it.
func (b *Behavior) Insert(bagstack *itemstack.Stack, slot *Slot, stack *itemstack.Stack) error {
	if !slot.Empty() {
		return fmt.Errorf("%w: slot %d is occupied", ErrSlotRejects, slot.Index)
	}
	if !slot.CanHold(stack) {
		return fmt.Errorf("%w: %s in slot %d", ErrSlotRejects, stack.Code, slot.Index)
	}
	slot.Stack = stack
	return b.Store(bagstack, slot)
}

// Take removes and returns slot's stack. Storing the emptied slot clears
// the stack's container tag.
func (b *Behavior) Take(bagstack *itemstack.Stack, slot *Slot) (*itemstack.Stack, error) {
	stack := slot.Stack
	slot.Stack = nil
	if err := b.Store(bagstack, slot); err != nil {
		slot.Stack = stack
		return nil, err
	}
	return stack, nil
}

// OnModifiedInInventorySlot is the host hook fired when a lunchbox stack
// moves between inventory slots.
func (b *Behavior) OnModifiedInInventorySlot(world World, inv Inventory, bagstack *itemstack.Stack) {
	b.Container(bagstack).ConfigureAutoEat(world, inv)
}

// Destroy releases the instance belonging to bagstack, if any.
func (b *Behavior) Destroy(bagstack *itemstack.Stack) {
	id, ok := ContainerIDOf(bagstack)
	if !ok {
		return
	}
	if c, ok := b.containers[id]; ok {
		c.Release()
		delete(b.containers, id)
	}
}

func (b *Behavior) notify(ev AutoEatEvent) {
	for _, o := range b.observers {
		o.AutoAte(ev)
	}
}

// ContainerIDOf returns the instance id stored on bagstack, if any.
func ContainerIDOf(bagstack *itemstack.Stack) (uuid.UUID, bool) {
	id, err := uuid.Parse(bagstack.Attributes.GetString(attrContainerID, ""))
	return id, err == nil
}

// PersistedSlots returns bagstack's slot-<i> map, or nil before the first
// materialisation.
func PersistedSlots(bagstack *itemstack.Stack) *attr.Tree {
	return bagstack.Attributes.GetTree(attrBackpack).GetTree(attrSlots)
}

// AttachState writes a previously saved id and slot map onto bagstack so the
// next materialisation restores from it.
func AttachState(bagstack *itemstack.Stack, id uuid.UUID, slots *attr.Tree) {
	bagstack.Attributes.SetString(attrContainerID, id.String())
	bagstack.Attributes.GetOrCreateTree(attrBackpack).Set(attrSlots, slots)
}
