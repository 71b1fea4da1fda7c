package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adscore-bot/internal/api/render"
	app "adscore-bot/internal/application"
	"adscore-bot/internal/domain/entity"
)

func newScoreCmd(flags *globalFlags) *cobra.Command {
	var (
		imagePath string
		brand     string
	)

	cmd := &cobra.Command{
		Use:   "score <layout.json>",
		Short: "Predict attention, CTR and balance of a layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := decodeFile[entity.Document](args[0])
			if err != nil {
				return err
			}
			if err := validate.Struct(doc); err != nil {
				return fmt.Errorf("layout: %w", err)
			}

			req := app.AnalyzeRequest{Document: doc, BrandColor: brand}
			if imagePath != "" {
				if req.Image, err = readInput(imagePath); err != nil {
					return err
				}
			}

			c, err := flags.build(cmd, nil)
			if err != nil {
				return err
			}
			report, err := c.CreativeService.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}

			return flags.print(cmd, report, func() string { return render.Creative(report) })
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "rendered creative for palette extraction")
	cmd.Flags().StringVar(&brand, "brand", "", "brand colour, used together with --image")
	return cmd
}
