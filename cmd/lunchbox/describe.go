package main

import (
	"fmt"
	"strconv"

	"github.com/kasuganosora/lunchbox/game/sim"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDescribeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "List configured lunchbox types",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reg, err := buildRegistry(cfg)
			if err != nil {
				return err
			}
			m, err := buildManager(cfg, reg, sim.NewFoodSystem(reg), nil, zap.NewNop())
			if err != nil {
				return err
			}
			colors := make(map[string]string, len(cfg.Lunchboxes))
			for _, lb := range cfg.Lunchboxes {
				colors[lb.Code] = lb.SlotBgColor
			}

			behaviors := m.Behaviors()
			if len(behaviors) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No lunchboxes configured")
				return nil
			}
			rows := make([][]string, 0, len(behaviors))
			for _, b := range behaviors {
				rows = append(rows, []string{
					b.Code(),
					strconv.FormatFloat(b.SpoilMultiplier(), 'f', -1, 64),
					b.SlotKind().String(),
					strconv.Itoa(b.SlotCount()),
					colors[b.Code()],
					b.HeldItemInfo(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "Multiplier", "Slot Kind", "Slots", "Color", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
