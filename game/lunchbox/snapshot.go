package lunchbox

import "github.com/google/uuid"

// SlotSnapshot is a read-only view of one slot.
type SlotSnapshot struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	BgColor  string `json:"bg_color,omitempty"`
	Code     string `json:"code,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Tagged   bool   `json:"tagged"`
}

// ContainerSnapshot is a read-only view of a container.
type ContainerSnapshot struct {
	ID          uuid.UUID      `json:"id"`
	Code        string         `json:"code"`
	Multiplier  float64        `json:"multiplier"`
	Description string         `json:"description"`
	Holder      string         `json:"holder,omitempty"`
	Inventory   string         `json:"inventory,omitempty"`
	Slots       []SlotSnapshot `json:"slots"`
}

// Snapshot captures the container's current state. Call it from the host's
// callback context.
func (c *Container) Snapshot() ContainerSnapshot {
	b := c.behavior
	snap := ContainerSnapshot{
		ID:          c.id,
		Code:        b.code,
		Multiplier:  b.spoilMul,
		Description: b.HeldItemInfo(),
		Holder:      entityID(c.holder.current()),
		Slots:       make([]SlotSnapshot, 0, len(c.slots)),
	}
	if c.inventory != nil {
		snap.Inventory = c.inventory.InventoryID()
	}
	for _, s := range c.slots {
		ss := SlotSnapshot{Index: s.Index, Kind: s.Kind.String(), BgColor: s.BgColor}
		if s.Stack != nil {
			ss.Code = s.Stack.Code
			ss.Quantity = s.Stack.Quantity
			ss.Tagged = s.Stack.ContainerTag() == c.id
		}
		snap.Slots = append(snap.Slots, ss)
	}
	return snap
}
