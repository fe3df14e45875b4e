package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kasuganosora/lunchbox/config"
	"github.com/kasuganosora/lunchbox/game/itemstack"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/game/sim"
	"github.com/kasuganosora/lunchbox/game/state"
	"github.com/kasuganosora/lunchbox/model"
	"github.com/kasuganosora/lunchbox/scheduler"
	"go.uber.org/zap"
)

const persistTimeout = 5 * time.Second

// bagRef locates one lunchbox stack in the demo world.
type bagRef struct {
	inv   *sim.Inventory
	index int
}

// demoHost wires simulated players carrying one of each lunchbox type.
type demoHost struct {
	cfg     config.SimConfig
	world   *sim.World
	food    *sim.FoodSystem
	reg     *itemstack.Registry
	manager *lunchbox.Manager
	repo    *state.Repository
	sched   *scheduler.Scheduler
	logger  *zap.Logger

	players []*sim.Entity
	bags    []bagRef
}

func newDemoHost(cfg config.SimConfig, world *sim.World, food *sim.FoodSystem, reg *itemstack.Registry,
	m *lunchbox.Manager, repo *state.Repository, sched *scheduler.Scheduler, logger *zap.Logger) *demoHost {
	h := &demoHost{cfg: cfg, world: world, food: food, reg: reg, manager: m, repo: repo, sched: sched, logger: logger}
	food.OnSlotModified = h.slotModified
	return h
}

func inventoryID(player string) string { return "inv-" + player }

// seed creates the players and their lunchboxes, restoring saved contents
// where the database has them.
func (h *demoHost) seed(ctx context.Context) error {
	saved, err := h.repo.List(ctx, "")
	if err != nil {
		return err
	}
	byPos := make(map[string]model.ContainerState, len(saved))
	for _, row := range saved {
		byPos[fmt.Sprintf("%s/%d", row.InventoryID, row.BagIndex)] = row
	}

	codes := h.manager.Codes()
	for _, name := range h.cfg.Players {
		p := sim.NewPlayer(name, h.cfg.MaxSaturation)
		inv := sim.NewInventory(inventoryID(name), len(codes), p)
		h.players = append(h.players, p)

		for i, code := range codes {
			b, _ := h.manager.Behavior(code)
			bag, restored, err := h.openBag(ctx, byPos[fmt.Sprintf("%s/%d", inv.InventoryID(), i)], code)
			if err != nil {
				return err
			}
			var slots []*lunchbox.Slot
			h.world.Do(func() {
				inv.Put(i, bag)
				slots, err = b.GetOrCreateSlots(bag, inv, i, h.world)
				if err == nil && !restored {
					h.fill(b, bag, slots)
				}
			})
			if err != nil {
				return fmt.Errorf("player %s bag %d: %w", name, i, err)
			}
			h.bags = append(h.bags, bagRef{inv: inv, index: i})
		}
	}
	h.logger.Info("demo host seeded", zap.Int("players", len(h.players)), zap.Int("lunchboxes", len(h.bags)))
	return nil
}

func (h *demoHost) openBag(ctx context.Context, row model.ContainerState, code string) (*itemstack.Stack, bool, error) {
	if row.ContainerID != "" && row.Code == code {
		id, err := parseContainerID(row.ContainerID)
		if err != nil {
			return nil, false, err
		}
		loaded, err := h.repo.Load(ctx, id, h.reg)
		if err != nil {
			return nil, false, err
		}
		return loaded.Bag, true, nil
	}
	c, err := h.reg.Resolve(code)
	if err != nil {
		return nil, false, err
	}
	return itemstack.New(c, 1), false, nil
}

// fill places the starter stacks into a fresh lunchbox, one per slot.
func (h *demoHost) fill(b *lunchbox.Behavior, bag *itemstack.Stack, slots []*lunchbox.Slot) {
	for i, st := range h.cfg.Starter {
		if i >= len(slots) {
			return
		}
		c, err := h.reg.Resolve(st.Code)
		if err != nil {
			h.logger.Warn("starter item skipped", zap.String("code", st.Code), zap.Error(err))
			continue
		}
		stack := itemstack.New(c, max(st.Quantity, 1))
		if st.Meal != "" {
			sim.Fill(stack, st.Meal, st.Servings)
		}
		if err := b.Insert(bag, slots[i], stack); err != nil {
			h.logger.Warn("starter item rejected", zap.String("lunchbox", b.Code()), zap.String("code", st.Code), zap.Error(err))
		}
	}
}

// slotModified runs inside World.Do after the food system changes a slot.
func (h *demoHost) slotModified(slot *lunchbox.Slot) {
	inv, ok := slot.Inventory.(*sim.Inventory)
	if !ok {
		return
	}
	bag := inv.Get(slot.BagIndex)
	if bag == nil {
		return
	}
	b, ok := h.manager.Behavior(bag.Code)
	if !ok {
		return
	}
	if err := b.Store(bag, slot); err != nil {
		h.logger.Error("store slot", zap.String("lunchbox", bag.Code), zap.Int("slot", slot.Index), zap.Error(err))
		return
	}
	id, _ := lunchbox.ContainerIDOf(bag)
	ref := bagRef{inv: inv, index: slot.BagIndex}
	h.sched.AddDelay("persist:"+id.String(), h.cfg.PersistDelay, func(ctx context.Context) {
		h.persist(ctx, ref)
	})
}

// decay drains every player's saturation by one tick.
func (h *demoHost) decay(context.Context) {
	h.world.Do(func() {
		for _, p := range h.players {
			p.Decay(h.cfg.HungerPerTick)
		}
	})
}

// persistAll saves every lunchbox.
func (h *demoHost) persistAll(ctx context.Context) {
	for _, ref := range h.bags {
		h.persist(ctx, ref)
	}
}

func (h *demoHost) persist(ctx context.Context, ref bagRef) {
	var snapshot *itemstack.Stack
	h.world.Do(func() {
		snapshot = ref.inv.Get(ref.index).Clone()
	})
	if snapshot == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := h.repo.Save(ctx, snapshot, ref.inv.InventoryID(), ref.index); err != nil {
		h.logger.Error("persist lunchbox", zap.String("inventory", ref.inv.InventoryID()), zap.Int("bag", ref.index), zap.Error(err))
	}
}
