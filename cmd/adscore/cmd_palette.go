package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adscore-bot/config"
	"adscore-bot/internal/api/render"
	"adscore-bot/internal/domain/palette"
)

func newPaletteCmd(flags *globalFlags) *cobra.Command {
	var (
		k     int
		brand string
	)

	cmd := &cobra.Command{
		Use:   "palette <image>",
		Short: "Extract dominant colours from an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if brand != "" {
				if err := validate.Var(brand, "hexcolor"); err != nil {
					return fmt.Errorf("--brand: %w", err)
				}
			}

			c, err := flags.build(cmd, func(cfg *config.Config) {
				if k > 0 {
					cfg.PaletteK = k
				}
			})
			if err != nil {
				return err
			}

			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			report, err := c.CreativeService.ExtractPalette(cmd.Context(), data)
			if err != nil {
				return err
			}
			if brand != "" {
				accessible := palette.SuggestAccessiblePalette(report.Colors, brand)
				report.Accessible = &accessible
			}

			return flags.print(cmd, report, func() string { return render.Palette(report) })
		},
	}

	cmd.Flags().IntVar(&k, "k", 0, "number of clusters (default from PALETTE_K)")
	cmd.Flags().StringVar(&brand, "brand", "", "brand colour for an accessible palette, e.g. #ff5500")
	return cmd
}
