package sim

import (
	"context"

	"github.com/google/uuid"
	"github.com/kasuganosora/lunchbox/config"
	"github.com/kasuganosora/lunchbox/game/attr"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/plugin/hook"
)

// WatchedAttributes is an attribute tree whose modifications fire named listeners.
type WatchedAttributes struct {
	tree  *attr.Tree
	hooks *hook.HookCenter
}

func newWatchedAttributes() *WatchedAttributes {
	return &WatchedAttributes{tree: attr.NewTree(), hooks: hook.NewHookCenter()}
}

// Tree returns the root tree.
func (w *WatchedAttributes) Tree() *attr.Tree { return w.tree }

func (w *WatchedAttributes) GetTree(key string) *attr.Tree { return w.tree.GetTree(key) }

func (w *WatchedAttributes) RegisterModifiedListener(key, name string, fn func()) {
	w.hooks.Register(hook.AttributeModified(key), 0, name, func(_ context.Context, _ string, data interface{}) (interface{}, error) {
		fn()
		return data, nil
	})
}

func (w *WatchedAttributes) UnregisterListener(key, name string) {
	w.hooks.Unregister(hook.AttributeModified(key), name)
}

// ListenerCount returns how many listeners watch key.
func (w *WatchedAttributes) ListenerCount(key string) int {
	return w.hooks.Count(hook.AttributeModified(key))
}

// MarkDirty fires the listeners of key.
func (w *WatchedAttributes) MarkDirty(key string) {
	w.hooks.Trigger(context.Background(), hook.AttributeModified(key), nil)
}

// Entity is a player.
type Entity struct {
	id            string
	Name          string
	maxSaturation float64
	keys          config.AutoEatConfig
	attrs         *WatchedAttributes
}

// NewPlayer creates a player at full saturation.
func NewPlayer(name string, maxSaturation float64) *Entity {
	e := &Entity{
		id:            uuid.New().String(),
		Name:          name,
		maxSaturation: maxSaturation,
		keys:          config.DefaultAutoEat(),
		attrs:         newWatchedAttributes(),
	}
	hunger := e.attrs.tree.GetOrCreateTree(e.keys.HungerKey)
	hunger.SetFloat(e.keys.SaturationKey, maxSaturation)
	hunger.SetFloat("maxsaturation", maxSaturation)
	return e
}

// EntityID implements lunchbox.Entity.
func (e *Entity) EntityID() string { return e.id }

// WatchedAttributes implements lunchbox.Entity.
func (e *Entity) WatchedAttributes() lunchbox.WatchedAttributes { return e.attrs }

// Attributes returns the concrete watched attributes.
func (e *Entity) Attributes() *WatchedAttributes { return e.attrs }

// Saturation returns the current saturation.
func (e *Entity) Saturation() float64 {
	return e.attrs.tree.GetTree(e.keys.HungerKey).GetFloat(e.keys.SaturationKey, 0)
}

// SetSaturation clamps v to [0, max], stores it and notifies hunger listeners.
func (e *Entity) SetSaturation(v float64) {
	v = max(0, min(v, e.maxSaturation))
	e.attrs.tree.GetOrCreateTree(e.keys.HungerKey).SetFloat(e.keys.SaturationKey, v)
	e.attrs.MarkDirty(e.keys.HungerKey)
}

// Decay lowers saturation by amount.
func (e *Entity) Decay(amount float64) {
	e.SetSaturation(e.Saturation() - amount)
}
