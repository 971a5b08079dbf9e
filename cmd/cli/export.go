package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gonomo/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered table, the recommendations and the Markdown report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := runPipeline(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			var tableCSV, recommendations bytes.Buffer
			if err := export.WriteCSV(&tableCSV, run.view()); err != nil {
				return err
			}
			if err := export.WriteRecommendations(&recommendations, run.bundle.Findings); err != nil {
				return err
			}

			files := []struct {
				name string
				data []byte
			}{
				{"filtered_table.csv", tableCSV.Bytes()},
				{"recommendations.txt", recommendations.Bytes()},
				{"report.md", []byte(export.MarkdownReport(run.bundle.Results))},
			}
			for _, f := range files {
				path := filepath.Join(outDir, f.name)
				if err := os.WriteFile(path, f.data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")

	return cmd
}
