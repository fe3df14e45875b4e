package main

import (
	"fmt"
	"strconv"

	"github.com/kasuganosora/lunchbox/config"
	dbadapter "github.com/kasuganosora/lunchbox/db"
	"github.com/kasuganosora/lunchbox/game/itemstack"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/game/state"
	"github.com/kasuganosora/lunchbox/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print persisted lunchbox contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)
			rows, err := state.NewRepository(db, zap.NewNop()).List(cmd.Context(), code)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No saved lunchboxes")
				return nil
			}
			table, err := inspectRows(rows)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Container", "Code", "Inventory", "Bag", "Slot", "Item", "Qty"},
				table,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Only show lunchboxes of this item code")
	return cmd
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// inspectRows flattens saved containers into one table row per slot.
func inspectRows(rows []model.ContainerState) ([][]string, error) {
	var out [][]string
	for _, row := range rows {
		slots, err := state.DecodeSlots(row.Slots)
		if err != nil {
			return nil, fmt.Errorf("container %s: %w", row.ContainerID, err)
		}
		if slots.Len() == 0 {
			out = append(out, []string{row.ContainerID, row.Code, row.InventoryID, strconv.Itoa(row.BagIndex), "-", "", ""})
			continue
		}
		for _, key := range slots.Keys() {
			idx, err := lunchbox.ParseSlotKey(key)
			if err != nil {
				return nil, fmt.Errorf("container %s: %w", row.ContainerID, err)
			}
			item, qty := "", ""
			if v, ok := itemstack.StackValue(slots, key); ok && !v.Stack.Empty() {
				item, qty = v.Stack.Code, strconv.Itoa(v.Stack.Quantity)
			}
			out = append(out, []string{row.ContainerID, row.Code, row.InventoryID, strconv.Itoa(row.BagIndex), strconv.Itoa(idx), item, qty})
		}
	}
	return out, nil
}
