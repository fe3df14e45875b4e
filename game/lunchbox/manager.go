package lunchbox

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/kasuganosora/lunchbox/config"
	"github.com/kasuganosora/lunchbox/game/itemstack"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Options carries the host collaborators shared by all lunchbox types.
type Options struct {
	Food      FoodSystem
	Registry  *itemstack.Registry
	AutoEat   config.AutoEatConfig
	Lang      language.Tag
	Observers []Observer
	Logger    *zap.Logger
}

// Manager owns the behaviors of every configured lunchbox type.
type Manager struct {
	behaviors map[string]*Behavior
	codes     []string
	logger    *zap.Logger
}

// NewManager builds one Behavior per configured lunchbox item.
func NewManager(items []config.LunchboxItem, opts Options) (*Manager, error) {
	if opts.Food == nil {
		return nil, fmt.Errorf("lunchbox: food system is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.AutoEat.HungerKey == "" {
		opts.AutoEat = config.DefaultAutoEat()
	}
	m := &Manager{behaviors: make(map[string]*Behavior, len(items)), logger: opts.Logger}
	for _, item := range items {
		if _, dup := m.behaviors[item.Code]; dup {
			return nil, fmt.Errorf("lunchbox: duplicate lunchbox code %q", item.Code)
		}
		b, err := newBehavior(item, opts)
		if err != nil {
			return nil, err
		}
		m.behaviors[item.Code] = b
		m.codes = append(m.codes, item.Code)
	}
	sort.Strings(m.codes)
	return m, nil
}

// Behavior returns the behavior for a lunchbox item code.
func (m *Manager) Behavior(code string) (*Behavior, bool) {
	b, ok := m.behaviors[code]
	return b, ok
}

// Codes returns the configured lunchbox codes in lexical order.
func (m *Manager) Codes() []string {
	out := make([]string, len(m.codes))
	copy(out, m.codes)
	return out
}

// Lookup finds a live container by id.
func (m *Manager) Lookup(id uuid.UUID) (*Container, bool) {
	for _, b := range m.behaviors {
		if c, ok := b.containers[id]; ok {
			return c, true
		}
	}
	return nil, false
}

// Containers returns every live container ordered by id.
func (m *Manager) Containers() []*Container {
	var out []*Container
	for _, code := range m.codes {
		for _, c := range m.behaviors[code].containers {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id.String() < out[j].id.String() })
	return out
}

// Behaviors returns the configured behaviors ordered by code.
func (m *Manager) Behaviors() []*Behavior {
	out := make([]*Behavior, 0, len(m.codes))
	for _, code := range m.codes {
		out = append(out, m.behaviors[code])
	}
	return out
}
