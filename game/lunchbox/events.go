package lunchbox

import (
	"time"

	"github.com/google/uuid"
)

// AutoEatEvent describes one automatic feeding.
type AutoEatEvent struct {
	ContainerID  uuid.UUID
	LunchboxCode string
	EntityID     string
	SlotIndex    int
	FoodCode     string
	Saturation   float64 // before eating
	Served       bool    // meal was served from a cooked container first
	At           time.Time
}

// Observer receives auto-eat events. AutoAte runs inside the host callback
// and must not block.
type Observer interface {
	AutoAte(ev AutoEatEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev AutoEatEvent)

func (f ObserverFunc) AutoAte(ev AutoEatEvent) { f(ev) }
