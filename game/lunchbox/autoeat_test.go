package lunchbox_test

import (
	"testing"

	"github.com/kasuganosora/lunchbox/config"
	"github.com/kasuganosora/lunchbox/game/itemstack"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/game/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAutoEat_BindsHolderOnMaterialize(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	f.materialize(t)
	assert.Equal(t, 1, f.hungerListeners(f.player))
	assert.Equal(t, lunchbox.Entity(f.player), f.container().Holder())
}

func TestAutoEat_ConfigureIdempotent(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	f.materialize(t)
	c := f.container()
	c.ConfigureAutoEat(f.world, f.inv)
	c.ConfigureAutoEat(f.world, f.inv)
	f.behavior.OnModifiedInInventorySlot(f.world, f.inv, f.bag)
	assert.Equal(t, 1, f.hungerListeners(f.player))
}

func TestAutoEat_NonAuthoritativeWorld(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	client := sim.NewWorld(false)
	_, err := f.behavior.GetOrCreateSlots(f.bag, f.inv, 0, client)
	require.NoError(t, err)
	assert.Equal(t, 0, f.hungerListeners(f.player))
	assert.Nil(t, f.container().Holder())
}

func TestAutoEat_NoHolder(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	f.inv.SetHolder(nil)
	f.materialize(t)
	assert.Nil(t, f.container().Holder())

	// Hunger changes have no one to feed.
	assert.NotPanics(t, f.container().OnHungerChanged)
}

func TestAutoEat_RebindsToNewHolder(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	f.materialize(t)
	bob := sim.NewPlayer("Bob", 1500)

	f.inv.SetHolder(bob)
	f.behavior.OnModifiedInInventorySlot(f.world, f.inv, f.bag)

	assert.Equal(t, 0, f.hungerListeners(f.player))
	assert.Equal(t, 1, f.hungerListeners(bob))

	// Alice getting hungry no longer empties the box.
	slots := f.container().Slots()
	f.insert(t, slots[0], bread, 1)
	f.player.SetSaturation(5)
	assert.Empty(t, f.events)
	assert.False(t, slots[0].Empty())

	f.inv.SetHolder(nil)
	f.behavior.OnModifiedInInventorySlot(f.world, f.inv, f.bag)
	assert.Equal(t, 0, f.hungerListeners(bob))
}

func TestAutoEat_EatsWhenHungry(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	slots := f.materialize(t)
	f.insert(t, slots[1], bread, 3)

	f.player.SetSaturation(10)

	require.Len(t, f.events, 1)
	ev := f.events[0]
	assert.Equal(t, f.container().ID(), ev.ContainerID)
	assert.Equal(t, "lunchbox", ev.LunchboxCode)
	assert.Equal(t, f.player.EntityID(), ev.EntityID)
	assert.Equal(t, 1, ev.SlotIndex)
	assert.Equal(t, "bread", ev.FoodCode)
	assert.Equal(t, 10.0, ev.Saturation)
	assert.False(t, ev.Served)

	assert.Equal(t, 2, slots[1].Stack.Quantity)
	assert.Equal(t, 130.0, f.player.Saturation())
}

func TestAutoEat_ThresholdInclusive(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	slots := f.materialize(t)
	f.insert(t, slots[0], apple, 1)

	f.player.SetSaturation(15)
	require.Len(t, f.events, 1)
	assert.Equal(t, 95.0, f.player.Saturation())
}

func TestAutoEat_LastItemLeavesPlaceholder(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	slots := f.materialize(t)
	f.insert(t, slots[0], apple, 1)

	f.player.SetSaturation(0)

	assert.True(t, slots[0].Empty())
	v, ok := itemstack.StackValue(slotsTree(f.bag), "slot-0")
	require.True(t, ok)
	assert.Nil(t, v.Stack)
}

// Scenario: saturation above the threshold never consumes.
func TestAutoEat_NotHungry(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	slots := f.materialize(t)
	f.insert(t, slots[0], bread, 1)

	f.player.SetSaturation(20)

	assert.Empty(t, f.events)
	assert.Equal(t, 1, slots[0].Stack.Quantity)
	assert.Equal(t, 20.0, f.player.Saturation())
}

// Scenario: hungry but nothing edible.
func TestAutoEat_NothingEdible(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{SlotKind: "generic"})
	slots := f.materialize(t)
	f.insert(t, slots[0], stick, 1)
	f.insert(t, slots[1], bowl, 1)

	f.player.SetSaturation(10)

	assert.Empty(t, f.events)
	assert.Equal(t, 10.0, f.player.Saturation())
	assert.Equal(t, 1, slots[0].Stack.Quantity)
}

func TestAutoEat_ServesFromPot(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	slots := f.materialize(t)
	p := f.insert(t, slots[0], pot, 1)
	sim.Fill(p, "vegetable-stew", 2)
	require.NoError(t, f.behavior.Store(f.bag, slots[0]))
	b := f.insert(t, slots[2], bowl, 1)

	f.player.SetSaturation(0)

	require.Len(t, f.events, 1)
	assert.True(t, f.events[0].Served)
	assert.Equal(t, 2, f.events[0].SlotIndex)
	assert.Equal(t, "bowl", f.events[0].FoodCode)
	assert.Equal(t, 300.0, f.player.Saturation())
	assert.Equal(t, 1, p.Attributes.GetInt(sim.AttrServings, 0))
	assert.True(t, f.food.IsEmptyContainer(b))
}

// Observers see the slot before the host consumes from it.
func TestAutoEat_NotifiesBeforeConsuming(t *testing.T) {
	reg := itemstack.NewRegistry(lunchboxItem, bread)
	food := sim.NewFoodSystem(reg)
	var slots []*lunchbox.Slot
	var seenQty int
	m, err := lunchbox.NewManager([]config.LunchboxItem{{Code: "lunchbox", QuantitySlots: 1}}, lunchbox.Options{
		Food:     food,
		Registry: reg,
		Logger:   zap.NewNop(),
		Observers: []lunchbox.Observer{lunchbox.ObserverFunc(func(ev lunchbox.AutoEatEvent) {
			seenQty = slots[ev.SlotIndex].Stack.Quantity
		})},
	})
	require.NoError(t, err)
	b, _ := m.Behavior("lunchbox")

	player := sim.NewPlayer("Alice", 1500)
	inv := sim.NewInventory("inv", 1, player)
	bag := itemstack.New(lunchboxItem, 1)
	inv.Put(0, bag)
	slots, err = b.GetOrCreateSlots(bag, inv, 0, sim.NewWorld(true))
	require.NoError(t, err)
	require.NoError(t, b.Insert(bag, slots[0], itemstack.New(bread, 2)))

	player.SetSaturation(1)

	assert.Equal(t, 2, seenQty)
	assert.Equal(t, 1, slots[0].Stack.Quantity)
}

func TestAutoEat_ShortHoldIgnoredByHost(t *testing.T) {
	reg := itemstack.NewRegistry(lunchboxItem, bread)
	food := sim.NewFoodSystem(reg)
	eat := config.DefaultAutoEat()
	eat.HoldSeconds = 0.5
	m, err := lunchbox.NewManager([]config.LunchboxItem{{Code: "lunchbox", QuantitySlots: 1}}, lunchbox.Options{
		Food: food, Registry: reg, AutoEat: eat,
	})
	require.NoError(t, err)
	b, _ := m.Behavior("lunchbox")

	player := sim.NewPlayer("Alice", 1500)
	inv := sim.NewInventory("inv", 1, player)
	bag := itemstack.New(lunchboxItem, 1)
	slots, err := b.GetOrCreateSlots(bag, inv, 0, sim.NewWorld(true))
	require.NoError(t, err)
	require.NoError(t, b.Insert(bag, slots[0], itemstack.New(bread, 1)))

	player.SetSaturation(1)
	assert.Equal(t, 1, slots[0].Stack.Quantity)
	assert.Equal(t, 1.0, player.Saturation())
}
