package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gonomo/internal/testkit"
)

func newGenerateCmd() *cobra.Command {
	cfg := testkit.DefaultSurveyConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic survey spreadsheet for demos and tests",
		Long: `Generate a deterministic synthetic nomophobia survey. The format follows
the extension of --out: .xlsx or .csv.

Example: gonomo generate --out demo.xlsx --respondents 200 --stratum-shift 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Respondents <= 0 {
				return fmt.Errorf("--respondents must be positive")
			}
			respondents := testkit.NewSurveyGenerator(cfg).Generate()

			switch strings.ToLower(filepath.Ext(out)) {
			case ".xlsx":
				if err := testkit.WriteXLSX(out, respondents); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
			case ".csv":
				data, err := testkit.CSVBytes(respondents)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
			default:
				return fmt.Errorf("unsupported output format %q (want .xlsx or .csv)", filepath.Ext(out))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d respondents to %s\n", len(respondents), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "survey.xlsx", "output file (.xlsx or .csv)")
	cmd.Flags().IntVar(&cfg.Respondents, "respondents", cfg.Respondents, "number of respondents")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	cmd.Flags().Float64Var(&cfg.YesShare, "yes-share", cfg.YesShare, "share of \"Sí\" nomophobia flags")
	cmd.Flags().Float64Var(&cfg.MissingAutoestima, "missing-autoestima", cfg.MissingAutoestima, "share of blank Autoestima cells")
	cmd.Flags().Float64Var(&cfg.StratumShift, "stratum-shift", cfg.StratumShift, "nomophobia points added per stratum")
	cmd.Flags().StringSliceVar(&cfg.Strata, "strata", cfg.Strata, "Estrato labels, assigned round-robin")

	return cmd
}
