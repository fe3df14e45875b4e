package model

import (
	"time"

	"gorm.io/datatypes"
)

// ContainerState is the persisted attribute block of one lunchbox stack.
// Slots holds the slot-<i> map with base64 NBT stacks; empty slots map to "".
type ContainerState struct {
	ContainerID string         `gorm:"primaryKey;size:36" json:"container_id"`
	Code        string         `gorm:"size:64;not null;index:idx_container_code" json:"code"`
	InventoryID string         `gorm:"size:64;index:idx_container_inventory" json:"inventory_id"`
	BagIndex    int            `json:"bag_index"`
	Slots       datatypes.JSON `json:"slots"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime:milli" json:"updated_at"`
}
