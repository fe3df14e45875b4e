package sim

import (
	"context"

	"github.com/kasuganosora/lunchbox/game/itemstack"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/plugin/hook"
)

type transitionQuery struct {
	kind  lunchbox.TransitionKind
	stack *itemstack.Stack
	mul   float64
}

// Inventory is a player's bag row: fixed stacks plus a holder.
type Inventory struct {
	id     string
	holder *Entity
	stacks []*itemstack.Stack
	hooks  *hook.HookCenter
}

// NewInventory creates an inventory with size positions held by holder (may be nil).
func NewInventory(id string, size int, holder *Entity) *Inventory {
	return &Inventory{
		id:     id,
		holder: holder,
		stacks: make([]*itemstack.Stack, size),
		hooks:  hook.NewHookCenter(),
	}
}

// InventoryID implements lunchbox.Inventory.
func (inv *Inventory) InventoryID() string { return inv.id }

// Holder implements lunchbox.Inventory. It returns an untyped nil when no
// one holds the inventory.
func (inv *Inventory) Holder() lunchbox.Entity {
	if inv.holder == nil {
		return nil
	}
	return inv.holder
}

// SetHolder changes who holds the inventory.
func (inv *Inventory) SetHolder(e *Entity) { inv.holder = e }

// Size returns the number of positions.
func (inv *Inventory) Size() int { return len(inv.stacks) }

// Get returns the stack at index, or nil.
func (inv *Inventory) Get(index int) *itemstack.Stack {
	if index < 0 || index >= len(inv.stacks) {
		return nil
	}
	return inv.stacks[index]
}

// Put places stack at index and returns what was there.
func (inv *Inventory) Put(index int, stack *itemstack.Stack) *itemstack.Stack {
	prev := inv.stacks[index]
	inv.stacks[index] = stack
	return prev
}

func (inv *Inventory) RegisterTransitionSpeed(name string, fn lunchbox.TransitionSpeedFn) {
	inv.hooks.Register(hook.AcquireTransitionSpeed, 0, name, func(_ context.Context, _ string, data interface{}) (interface{}, error) {
		q := data.(transitionQuery)
		q.mul = fn(q.kind, q.stack, q.mul)
		return q, nil
	})
}

func (inv *Inventory) UnregisterTransitionSpeed(name string) {
	inv.hooks.Unregister(hook.AcquireTransitionSpeed, name)
}

// ModifierCount returns how many transition speed modifiers are registered.
func (inv *Inventory) ModifierCount() int {
	return inv.hooks.Count(hook.AcquireTransitionSpeed)
}

// TransitionSpeed folds every registered modifier over a base of 1.0.
func (inv *Inventory) TransitionSpeed(kind lunchbox.TransitionKind, stack *itemstack.Stack) float64 {
	out, _ := inv.hooks.Trigger(context.Background(), hook.AcquireTransitionSpeed, transitionQuery{kind: kind, stack: stack, mul: 1.0})
	return out.(transitionQuery).mul
}

// Perish ages a perishable stack by hours scaled by the inventory's
// transition speed and returns the remaining fresh hours.
func (inv *Inventory) Perish(stack *itemstack.Stack, hours float64) float64 {
	state := stack.Attributes.GetOrCreateTree("transitionstate")
	fresh := state.GetFloat("freshHours", 0) - hours*inv.TransitionSpeed(lunchbox.TransitionPerish, stack)
	state.SetFloat("freshHours", fresh)
	return fresh
}
