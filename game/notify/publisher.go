// Package notify fans auto-eat events out to pub/sub subscribers and keeps
// a short ring of recent events in the cache.
package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kasuganosora/lunchbox/cache"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"go.uber.org/zap"
)

const (
	// Channel is the pub/sub channel auto-eat events are published on.
	Channel = "lunchbox.events"
	// RecentKey is the cache list holding the newest events.
	RecentKey = "lunchbox:recent"
	// RecentSize bounds the recent list.
	RecentSize = 50

	publishTimeout = 2 * time.Second
)

// Event is the wire form of lunchbox.AutoEatEvent.
type Event struct {
	ContainerID  string    `json:"container_id"`
	LunchboxCode string    `json:"lunchbox_code"`
	EntityID     string    `json:"entity_id"`
	SlotIndex    int       `json:"slot_index"`
	FoodCode     string    `json:"food_code"`
	Saturation   float64   `json:"saturation"`
	Served       bool      `json:"served"`
	At           time.Time `json:"at"`
}

// FromAutoEat converts a core event to its wire form.
func FromAutoEat(ev lunchbox.AutoEatEvent) Event {
	return Event{
		ContainerID:  ev.ContainerID.String(),
		LunchboxCode: ev.LunchboxCode,
		EntityID:     ev.EntityID,
		SlotIndex:    ev.SlotIndex,
		FoodCode:     ev.FoodCode,
		Saturation:   ev.Saturation,
		Served:       ev.Served,
		At:           ev.At,
	}
}

// Publisher implements lunchbox.Observer. Delivery happens on a background
// goroutine so the host callback never waits on Redis.
type Publisher struct {
	ps     cache.PubSub
	recent cache.Cache
	ch     chan Event
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPublisher starts a Publisher. recent may be nil to skip the ring.
func NewPublisher(ps cache.PubSub, recent cache.Cache, logger *zap.Logger) *Publisher {
	p := &Publisher{
		ps:     ps,
		recent: recent,
		ch:     make(chan Event, 256),
		done:   make(chan struct{}),
		logger: logger,
	}
	p.wg.Add(1)
	go p.worker()
	return p
}

// AutoAte queues ev for delivery.
func (p *Publisher) AutoAte(ev lunchbox.AutoEatEvent) {
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.ch <- FromAutoEat(ev):
	default:
		p.logger.Warn("notify queue full, dropping event", zap.String("container", ev.ContainerID.String()))
	}
}

// Recent returns up to n of the newest events, newest first.
func (p *Publisher) Recent(ctx context.Context, n int) ([]Event, error) {
	if p.recent == nil || n <= 0 {
		return nil, nil
	}
	raw, err := p.recent.LRange(ctx, RecentKey, 0, int64(n-1))
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(raw))
	for _, r := range raw {
		var ev Event
		if err := json.Unmarshal([]byte(r), &ev); err != nil {
			p.logger.Warn("skipping malformed recent event", zap.Error(err))
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// Close delivers queued events and stops the worker.
func (p *Publisher) Close() {
	p.once.Do(func() { close(p.done) })
	p.wg.Wait()
}

func (p *Publisher) worker() {
	defer p.wg.Done()
	for {
		select {
		case ev := <-p.ch:
			p.deliver(ev)
		case <-p.done:
			for {
				select {
				case ev := <-p.ch:
					p.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) deliver(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("encode event", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.ps.Publish(ctx, Channel, string(payload)); err != nil {
		p.logger.Warn("publish event failed", zap.Error(err))
	}
	if p.recent == nil {
		return
	}
	if err := p.recent.LPush(ctx, RecentKey, string(payload)); err != nil {
		p.logger.Warn("record recent event failed", zap.Error(err))
		return
	}
	if err := p.recent.LTrim(ctx, RecentKey, 0, RecentSize-1); err != nil {
		p.logger.Warn("trim recent events failed", zap.Error(err))
	}
}
