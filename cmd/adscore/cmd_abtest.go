package main

import (
	"github.com/spf13/cobra"

	"adscore-bot/internal/api/render"
	app "adscore-bot/internal/application"
	"adscore-bot/internal/domain/entity"
)

func newABTestCmd(flags *globalFlags) *cobra.Command {
	var prior int

	cmd := &cobra.Command{
		Use:   "abtest <variants.json>",
		Short: "Forecast an A/B test from per-variant metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variants, err := decodeFile[[]entity.VariantInput](args[0])
			if err != nil {
				return err
			}
			if len(variants) == 0 {
				return app.ErrNoVariants
			}
			if err := validateEach(variants); err != nil {
				return err
			}

			c, err := flags.build(cmd, nil)
			if err != nil {
				return err
			}
			report, err := c.CreativeService.PredictABTest(cmd.Context(), variants, prior)
			if err != nil {
				return err
			}

			return flags.print(cmd, report, func() string { return render.ABTest(report) })
		},
	}

	cmd.Flags().IntVar(&prior, "prior", 0, "pseudo-observations behind each estimate (default from PRIOR_SAMPLES)")
	return cmd
}

func newCompareCmd(flags *globalFlags) *cobra.Command {
	var prior int

	cmd := &cobra.Command{
		Use:   "compare <layouts.json>",
		Short: "Score layout variants and forecast an A/B test between them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variants, err := decodeFile[[]app.NamedDocument](args[0])
			if err != nil {
				return err
			}
			if err := validateEach(variants); err != nil {
				return err
			}

			c, err := flags.build(cmd, nil)
			if err != nil {
				return err
			}
			report, err := c.CreativeService.CompareVariants(cmd.Context(), app.CompareRequest{
				Variants:     variants,
				Industry:     flags.industry,
				PriorSamples: prior,
			})
			if err != nil {
				return err
			}

			return flags.print(cmd, report, func() string { return render.Comparison(report) })
		},
	}

	cmd.Flags().IntVar(&prior, "prior", 0, "pseudo-observations behind each estimate (default from PRIOR_SAMPLES)")
	return cmd
}
