// Package state persists lunchbox attribute blocks. Each slot stack is
// stored as base64 NBT inside a JSON object keyed by slot-<i>; empty slots
// are stored as "".
package state

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/kasuganosora/lunchbox/game/attr"
	"github.com/kasuganosora/lunchbox/game/itemstack"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when no state exists for a container id.
	ErrNotFound = errors.New("state: container not found")
	// ErrNotMaterialized is returned when saving a stack that has no id or slots yet.
	ErrNotMaterialized = errors.New("state: lunchbox has no persisted slots")
)

// Loaded is a restored lunchbox stack and where it was last seen.
type Loaded struct {
	Bag         *itemstack.Stack
	InventoryID string
	BagIndex    int
}

// Repository reads and writes model.ContainerState rows.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRepository creates a Repository.
func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Save upserts the state of bagstack, which sits at bagIndex of inventoryID.
func (r *Repository) Save(ctx context.Context, bagstack *itemstack.Stack, inventoryID string, bagIndex int) error {
	id, ok := lunchbox.ContainerIDOf(bagstack)
	slots := lunchbox.PersistedSlots(bagstack)
	if !ok || slots == nil {
		return ErrNotMaterialized
	}
	raw, err := EncodeSlots(slots)
	if err != nil {
		return fmt.Errorf("state: save %s: %w", id, err)
	}
	row := model.ContainerState{
		ContainerID: id.String(),
		Code:        bagstack.Code,
		InventoryID: inventoryID,
		BagIndex:    bagIndex,
		Slots:       raw,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "container_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "inventory_id", "bag_index", "slots", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("state: save %s: %w", id, err)
	}
	r.logger.Debug("container state saved", zap.String("container", row.ContainerID), zap.Int("slots", slots.Len()))
	return nil
}

// Load restores the lunchbox stack saved under id. The slot stacks are left
// unresolved; the next materialisation resolves them.
func (r *Repository) Load(ctx context.Context, id uuid.UUID, reg *itemstack.Registry) (*Loaded, error) {
	var row model.ContainerState
	err := r.db.WithContext(ctx).First(&row, "container_id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	c, err := reg.Resolve(row.Code)
	if err != nil {
		return nil, fmt.Errorf("state: load %s: %w", id, err)
	}
	slots, err := DecodeSlots(row.Slots)
	if err != nil {
		return nil, fmt.Errorf("state: load %s: %w", id, err)
	}
	bag := itemstack.New(c, 1)
	lunchbox.AttachState(bag, id, slots)
	return &Loaded{Bag: bag, InventoryID: row.InventoryID, BagIndex: row.BagIndex}, nil
}

// List returns saved rows, optionally filtered by lunchbox code, newest first.
func (r *Repository) List(ctx context.Context, code string) ([]model.ContainerState, error) {
	q := r.db.WithContext(ctx).Order("updated_at DESC")
	if code != "" {
		q = q.Where("code = ?", code)
	}
	var rows []model.ContainerState
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the state of id. Deleting a missing id is not an error.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ContainerState{}, "container_id = ?", id.String()).Error
}

// EncodeSlots converts a slot-<i> tree to its JSON column form.
func EncodeSlots(slots *attr.Tree) (datatypes.JSON, error) {
	out := make(map[string]string, slots.Len())
	var err error
	slots.Range(func(key string, _ interface{}) bool {
		if _, err = lunchbox.ParseSlotKey(key); err != nil {
			return false
		}
		v, ok := itemstack.StackValue(slots, key)
		if !ok {
			err = fmt.Errorf("slot %s: not a stack value", key)
			return false
		}
		if v == nil || v.Stack.Empty() {
			out[key] = ""
			return true
		}
		var data []byte
		if data, err = itemstack.Encode(v.Stack); err != nil {
			return false
		}
		out[key] = base64.StdEncoding.EncodeToString(data)
		return true
	})
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodeSlots parses the JSON column form back into a slot-<i> tree ordered
// by slot index.
func DecodeSlots(raw datatypes.JSON) (*attr.Tree, error) {
	var in map[string]string
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("slots: %w", err)
	}
	type entry struct {
		index int
		key   string
	}
	entries := make([]entry, 0, len(in))
	for key := range in {
		idx, err := lunchbox.ParseSlotKey(key)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{idx, key})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	tree := attr.NewTree()
	for _, e := range entries {
		enc := in[e.key]
		if enc == "" {
			tree.Set(e.key, &itemstack.Value{})
			continue
		}
		data, err := base64.StdEncoding.DecodeString(enc)
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", e.key, err)
		}
		stack, err := itemstack.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", e.key, err)
		}
		tree.Set(e.key, &itemstack.Value{Stack: stack})
	}
	return tree, nil
}
