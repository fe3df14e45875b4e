package model

import "time"

// ConsumptionLog journals one automatic feeding from a lunchbox.
type ConsumptionLog struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ContainerID  string    `gorm:"size:36;not null;index:idx_consumption_container" json:"container_id"`
	LunchboxCode string    `gorm:"size:64" json:"lunchbox_code"`
	EntityID     string    `gorm:"size:64;index:idx_consumption_entity" json:"entity_id"`
	SlotIndex    int       `json:"slot_index"`
	FoodCode     string    `gorm:"size:64" json:"food_code"`
	Saturation   float64   `json:"saturation"`
	Served       bool      `json:"served"`
	CreatedAt    time.Time `gorm:"index:idx_consumption_created;autoCreateTime:milli" json:"created_at"`
}
