package lunchbox_test

import (
	"testing"

	"github.com/kasuganosora/lunchbox/config"
	"github.com/kasuganosora/lunchbox/game/itemstack"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/game/sim"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	lunchboxItem = &itemstack.Collectible{Code: "lunchbox", Class: itemstack.ClassGeneric}
	bread        = &itemstack.Collectible{Code: "bread", Class: itemstack.ClassFood, Satiety: 120}
	apple        = &itemstack.Collectible{Code: "apple", Class: itemstack.ClassFood, Satiety: 80}
	stew         = &itemstack.Collectible{Code: "vegetable-stew", Class: itemstack.ClassFood, Satiety: 300}
	bowl         = &itemstack.Collectible{Code: "bowl", Class: itemstack.ClassMealContainer}
	pot          = &itemstack.Collectible{Code: "claypot", Class: itemstack.ClassCookedContainer}
	stick        = &itemstack.Collectible{Code: "stick", Class: itemstack.ClassGeneric}
)

func mult(v float64) *float64 { return &v }

type fixture struct {
	reg      *itemstack.Registry
	food     *sim.FoodSystem
	manager  *lunchbox.Manager
	behavior *lunchbox.Behavior
	world    *sim.World
	player   *sim.Entity
	inv      *sim.Inventory
	bag      *itemstack.Stack
	events   []lunchbox.AutoEatEvent
}

func newFixture(t *testing.T, item config.LunchboxItem) *fixture {
	t.Helper()
	if item.Code == "" {
		item.Code = "lunchbox"
	}
	if item.QuantitySlots == 0 {
		item.QuantitySlots = 4
	}
	f := &fixture{
		reg:    itemstack.NewRegistry(lunchboxItem, bread, apple, stew, bowl, pot, stick),
		world:  sim.NewWorld(true),
		player: sim.NewPlayer("Alice", 1500),
	}
	f.food = sim.NewFoodSystem(f.reg)
	var err error
	f.manager, err = lunchbox.NewManager([]config.LunchboxItem{item}, lunchbox.Options{
		Food:      f.food,
		Registry:  f.reg,
		AutoEat:   config.DefaultAutoEat(),
		Observers: []lunchbox.Observer{lunchbox.ObserverFunc(func(ev lunchbox.AutoEatEvent) { f.events = append(f.events, ev) })},
		Logger:    zap.NewNop(),
	})
	require.NoError(t, err)
	var ok bool
	f.behavior, ok = f.manager.Behavior(item.Code)
	require.True(t, ok)

	f.inv = sim.NewInventory("inv-alice", 4, f.player)
	f.bag = itemstack.New(lunchboxItem, 1)
	f.inv.Put(0, f.bag)
	f.food.OnSlotModified = func(s *lunchbox.Slot) {
		require.NoError(t, f.behavior.Store(f.bag, s))
	}
	return f
}

func (f *fixture) materialize(t *testing.T) []*lunchbox.Slot {
	t.Helper()
	slots, err := f.behavior.GetOrCreateSlots(f.bag, f.inv, 0, f.world)
	require.NoError(t, err)
	return slots
}

func (f *fixture) container() *lunchbox.Container {
	return f.behavior.Container(f.bag)
}

func (f *fixture) insert(t *testing.T, slot *lunchbox.Slot, c *itemstack.Collectible, qty int) *itemstack.Stack {
	t.Helper()
	s := itemstack.New(c, qty)
	require.NoError(t, f.behavior.Insert(f.bag, slot, s))
	return s
}

func (f *fixture) hungerListeners(e *sim.Entity) int {
	return e.Attributes().ListenerCount(config.DefaultAutoEat().HungerKey)
}
