package lunchbox_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kasuganosora/lunchbox/config"
	"github.com/kasuganosora/lunchbox/game/itemstack"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/game/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSpoilage_NoMultiplierNeverTags(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	slots := f.materialize(t)
	s := f.insert(t, slots[0], bread, 1)

	assert.False(t, f.container().HasMultiplier())
	assert.Equal(t, uuid.Nil, s.ContainerTag())
	assert.Equal(t, 0, f.inv.ModifierCount())
	assert.Equal(t, 1.0, f.inv.TransitionSpeed(lunchbox.TransitionPerish, s))
}

func TestSpoilage_NoMultiplierRestoreNeverTags(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	stale := itemstack.New(apple, 2)
	stale.SetContainerTag(uuid.New())
	tree := f.bag.Attributes.GetOrCreateTree("backpack").GetOrCreateTree("slots")
	tree.Set("slot-0", &itemstack.Value{Stack: stale})
	tree.Set("slot-1", &itemstack.Value{Stack: itemstack.New(bread, 1)})

	slots := f.materialize(t)
	assert.Equal(t, uuid.Nil, slots[0].Stack.ContainerTag())
	assert.Equal(t, uuid.Nil, slots[1].Stack.ContainerTag())
	assert.Equal(t, 1.0, f.inv.TransitionSpeed(lunchbox.TransitionPerish, stale))
}

func TestSpoilage_NoMultiplierClearsForeignTag(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{})
	slots := f.materialize(t)
	s := itemstack.New(bread, 1)
	s.SetContainerTag(uuid.New())

	require.NoError(t, f.behavior.Insert(f.bag, slots[0], s))
	assert.Equal(t, uuid.Nil, s.ContainerTag())
}

func TestSpoilage_TagsOnInsert(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{SpoilSpeedMult: mult(0.5)})
	slots := f.materialize(t)
	s := f.insert(t, slots[0], bread, 1)

	assert.Equal(t, f.container().ID(), s.ContainerTag())
	assert.Equal(t, 1, f.inv.ModifierCount())
	assert.InDelta(t, 0.5, f.inv.TransitionSpeed(lunchbox.TransitionPerish, s), 1e-9)
}

func TestSpoilage_TagsOnRestore(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{SpoilSpeedMult: mult(0.5)})
	tree := f.bag.Attributes.GetOrCreateTree("backpack").GetOrCreateTree("slots")
	tree.Set("slot-0", &itemstack.Value{Stack: itemstack.New(apple, 2)})

	slots := f.materialize(t)
	assert.Equal(t, f.container().ID(), slots[0].Stack.ContainerTag())
}

func TestSpoilage_QueryPassThrough(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{SpoilSpeedMult: mult(0.5)})
	slots := f.materialize(t)
	inside := f.insert(t, slots[0], bread, 1)
	loose := itemstack.New(bread, 1)
	c := f.container()

	assert.Equal(t, 2.0, c.OnSpoilageRateQuery(lunchbox.TransitionDry, inside, 2.0))
	assert.Equal(t, 2.0, c.OnSpoilageRateQuery(lunchbox.TransitionPerish, loose, 2.0))
	assert.Equal(t, 2.0, c.OnSpoilageRateQuery(lunchbox.TransitionPerish, nil, 2.0))
	assert.Equal(t, 2.0, c.OnSpoilageRateQuery(lunchbox.TransitionPerish, &itemstack.Stack{Code: "bread"}, 2.0))
	assert.Equal(t, 1.0, c.OnSpoilageRateQuery(lunchbox.TransitionPerish, inside, 2.0))
	assert.Equal(t, 1.0, f.inv.TransitionSpeed(lunchbox.TransitionPerish, loose))
}

func TestSpoilage_PerishAgesSlower(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{SpoilSpeedMult: mult(0.25)})
	slots := f.materialize(t)
	inside := f.insert(t, slots[0], bread, 1)
	loose := itemstack.New(bread, 1)
	inside.Attributes.GetOrCreateTree("transitionstate").SetFloat("freshHours", 48)
	loose.Attributes.GetOrCreateTree("transitionstate").SetFloat("freshHours", 48)

	assert.InDelta(t, 46.0, f.inv.Perish(inside, 8), 1e-9)
	assert.InDelta(t, 40.0, f.inv.Perish(loose, 8), 1e-9)
}

// Two differently configured lunchboxes in one inventory only scale
// their own contents.
func TestSpoilage_ContainersIsolated(t *testing.T) {
	reg := itemstack.NewRegistry(lunchboxItem, bread, apple)
	food := sim.NewFoodSystem(reg)
	m, err := lunchbox.NewManager([]config.LunchboxItem{
		{Code: "tin", QuantitySlots: 2, SpoilSpeedMult: mult(0.5)},
		{Code: "icebox", QuantitySlots: 2, SpoilSpeedMult: mult(0.1)},
	}, lunchbox.Options{Food: food, Registry: reg, Logger: zap.NewNop()})
	require.NoError(t, err)
	tin, _ := m.Behavior("tin")
	icebox, _ := m.Behavior("icebox")

	world := sim.NewWorld(true)
	inv := sim.NewInventory("inv", 2, sim.NewPlayer("Alice", 1500))
	tinBag, iceBag := itemstack.New(lunchboxItem, 1), itemstack.New(lunchboxItem, 1)
	inv.Put(0, tinBag)
	inv.Put(1, iceBag)

	tinSlots, err := tin.GetOrCreateSlots(tinBag, inv, 0, world)
	require.NoError(t, err)
	iceSlots, err := icebox.GetOrCreateSlots(iceBag, inv, 1, world)
	require.NoError(t, err)

	a := itemstack.New(bread, 1)
	b := itemstack.New(apple, 1)
	require.NoError(t, tin.Insert(tinBag, tinSlots[0], a))
	require.NoError(t, icebox.Insert(iceBag, iceSlots[0], b))

	assert.Equal(t, 2, inv.ModifierCount())
	assert.NotEqual(t, a.ContainerTag(), b.ContainerTag())
	assert.InDelta(t, 0.5, inv.TransitionSpeed(lunchbox.TransitionPerish, a), 1e-9)
	assert.InDelta(t, 0.1, inv.TransitionSpeed(lunchbox.TransitionPerish, b), 1e-9)

	// Moving the bread into the icebox retags it.
	_, err = tin.Take(tinBag, tinSlots[0])
	require.NoError(t, err)
	assert.Equal(t, 1.0, inv.TransitionSpeed(lunchbox.TransitionPerish, a))
	require.NoError(t, icebox.Insert(iceBag, iceSlots[1], a))
	assert.InDelta(t, 0.1, inv.TransitionSpeed(lunchbox.TransitionPerish, a), 1e-9)
}

type sharedInventory struct {
	inv                  *sim.Inventory
	tin, plain           *lunchbox.Behavior
	tinBag, plainBag     *itemstack.Stack
	tinSlots, plainSlots []*lunchbox.Slot
}

// newSharedInventory puts a 0.5x tin and a plain box side by side.
func newSharedInventory(t *testing.T) *sharedInventory {
	t.Helper()
	reg := itemstack.NewRegistry(lunchboxItem, bread, apple)
	m, err := lunchbox.NewManager([]config.LunchboxItem{
		{Code: "tin", QuantitySlots: 2, SpoilSpeedMult: mult(0.5)},
		{Code: "plain", QuantitySlots: 2},
	}, lunchbox.Options{Food: sim.NewFoodSystem(reg), Registry: reg, Logger: zap.NewNop()})
	require.NoError(t, err)

	sh := &sharedInventory{inv: sim.NewInventory("inv", 2, sim.NewPlayer("Alice", 1500))}
	sh.tin, _ = m.Behavior("tin")
	sh.plain, _ = m.Behavior("plain")
	sh.tinBag, sh.plainBag = itemstack.New(lunchboxItem, 1), itemstack.New(lunchboxItem, 1)
	sh.inv.Put(0, sh.tinBag)
	sh.inv.Put(1, sh.plainBag)

	world := sim.NewWorld(true)
	sh.tinSlots, err = sh.tin.GetOrCreateSlots(sh.tinBag, sh.inv, 0, world)
	require.NoError(t, err)
	sh.plainSlots, err = sh.plain.GetOrCreateSlots(sh.plainBag, sh.inv, 1, world)
	require.NoError(t, err)
	return sh
}

// Moving a stack with plain Store calls, the way a host drags it between
// slots, must not carry the tin's multiplier along.
func TestSpoilage_MoveByStoreClearsTag(t *testing.T) {
	sh := newSharedInventory(t)
	a := itemstack.New(bread, 1)
	require.NoError(t, sh.tin.Insert(sh.tinBag, sh.tinSlots[0], a))
	require.InDelta(t, 0.5, sh.inv.TransitionSpeed(lunchbox.TransitionPerish, a), 1e-9)

	sh.tinSlots[0].Stack = nil
	require.NoError(t, sh.tin.Store(sh.tinBag, sh.tinSlots[0]))
	assert.Equal(t, uuid.Nil, a.ContainerTag())

	sh.plainSlots[0].Stack = a
	require.NoError(t, sh.plain.Store(sh.plainBag, sh.plainSlots[0]))
	assert.Equal(t, uuid.Nil, a.ContainerTag())
	assert.Equal(t, 1.0, sh.inv.TransitionSpeed(lunchbox.TransitionPerish, a))
}

// The plain box clears the tin's tag even when the tin never saw the stack leave.
func TestSpoilage_StoreIntoPlainBeforeLeavingTin(t *testing.T) {
	sh := newSharedInventory(t)
	a := itemstack.New(bread, 1)
	require.NoError(t, sh.tin.Insert(sh.tinBag, sh.tinSlots[0], a))

	sh.plainSlots[0].Stack = a
	require.NoError(t, sh.plain.Store(sh.plainBag, sh.plainSlots[0]))
	assert.Equal(t, uuid.Nil, a.ContainerTag())
	assert.Equal(t, 1.0, sh.inv.TransitionSpeed(lunchbox.TransitionPerish, a))
}

func TestSpoilage_ReplacedStackLosesTag(t *testing.T) {
	sh := newSharedInventory(t)
	a := itemstack.New(bread, 1)
	b := itemstack.New(apple, 1)
	require.NoError(t, sh.tin.Insert(sh.tinBag, sh.tinSlots[0], a))

	sh.tinSlots[0].Stack = b
	require.NoError(t, sh.tin.Store(sh.tinBag, sh.tinSlots[0]))
	assert.Equal(t, uuid.Nil, a.ContainerTag())
	assert.Equal(t, sh.tin.Container(sh.tinBag).ID(), b.ContainerTag())

	// Re-storing the same stack keeps its tag.
	require.NoError(t, sh.tin.Store(sh.tinBag, sh.tinSlots[0]))
	assert.Equal(t, sh.tin.Container(sh.tinBag).ID(), b.ContainerTag())
}

func TestSpoilage_ModifierFollowsInventory(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{SpoilSpeedMult: mult(0.5)})
	f.materialize(t)
	require.Equal(t, 1, f.inv.ModifierCount())

	other := sim.NewInventory("inv-chest", 8, nil)
	f.inv.Put(0, nil)
	other.Put(3, f.bag)
	_, err := f.behavior.GetOrCreateSlots(f.bag, other, 3, f.world)
	require.NoError(t, err)

	assert.Equal(t, 0, f.inv.ModifierCount())
	assert.Equal(t, 1, other.ModifierCount())
	assert.Equal(t, "inv-chest", f.container().Inventory().InventoryID())
}

func TestSpoilage_RematerializeKeepsOneModifier(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{SpoilSpeedMult: mult(0.5)})
	f.materialize(t)
	f.materialize(t)
	assert.Equal(t, 1, f.inv.ModifierCount())
}

func TestRelease_DetachesEverything(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{SpoilSpeedMult: mult(0.5)})
	slots := f.materialize(t)
	s := f.insert(t, slots[0], bread, 1)
	c := f.container()

	c.Release()
	c.Release()

	assert.Equal(t, 0, f.inv.ModifierCount())
	assert.Equal(t, 0, f.hungerListeners(f.player))
	assert.Nil(t, c.Holder())
	assert.Equal(t, uuid.Nil, s.ContainerTag())
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, config.LunchboxItem{QuantitySlots: 2, SpoilSpeedMult: mult(0.5)})
	slots := f.materialize(t)
	f.insert(t, slots[1], apple, 3)

	snap := f.container().Snapshot()
	assert.Equal(t, f.container().ID(), snap.ID)
	assert.Equal(t, "lunchbox", snap.Code)
	assert.Equal(t, 0.5, snap.Multiplier)
	assert.Equal(t, f.player.EntityID(), snap.Holder)
	assert.Equal(t, "inv-alice", snap.Inventory)
	require.Len(t, snap.Slots, 2)
	assert.Empty(t, snap.Slots[0].Code)
	assert.Equal(t, "apple", snap.Slots[1].Code)
	assert.Equal(t, 3, snap.Slots[1].Quantity)
	assert.True(t, snap.Slots[1].Tagged)
	assert.Equal(t, "food", snap.Slots[1].Kind)
}
