package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gonomo/internal/charts"
	"gonomo/internal/config"
)

func newChartsCmd(opts *rootOptions) *cobra.Command {
	var out, x, y, colour string

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Render the dashboard charts to an HTML page",
		Long: `Render the usage/nomophobia scatter, the group box plots, the explorer
scatter and the correlation heatmap for the filtered survey.

Example: gonomo charts --out charts.html --x Edad --y Autoestima --color Sexo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := runPipeline(cmd.Context(), opts, func(cfg *config.Config) {
				if x != "" {
					cfg.Analysis.ExplorerX = x
				}
				if y != "" {
					cfg.Analysis.ExplorerY = y
				}
				if colour != "" {
					cfg.Analysis.ExplorerColor = colour
				}
			})
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()
			if err := charts.Render(f, run.bundle.Charts, run.view()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d charts to %s\n", len(run.bundle.Charts), out)
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "charts.html", "output HTML file")
	cmd.Flags().StringVar(&x, "x", "", "explorer x column (default EXPLORER_X)")
	cmd.Flags().StringVar(&y, "y", "", "explorer y column (default EXPLORER_Y)")
	cmd.Flags().StringVar(&colour, "color", "", "explorer colour column")

	return cmd
}
