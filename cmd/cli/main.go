package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gonomo/domain/dataset"
	"gonomo/internal/config"
	"gonomo/internal/container"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every command
type rootOptions struct {
	configFile  string
	dataFile    string
	sheet       string
	logLevel    string
	filtersFile string
	sexo        []string
	estrato     []string
	nomofobia   []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "gonomo",
		Short:         "Nomophobia survey statistics: filters, descriptives, Spearman and rank tests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file (default ./gonomo.yaml if present)")
	flags.StringVar(&opts.dataFile, "data", "", "survey spreadsheet (.xlsx or .csv), overrides DATA_FILE")
	flags.StringVar(&opts.sheet, "sheet", "", "sheet name, overrides DATA_SHEET")
	flags.StringVar(&opts.logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE")
	flags.StringVar(&opts.filtersFile, "filters", "", "YAML file with sexo/estrato/nomofobia value lists")
	flags.StringSliceVar(&opts.sexo, "sexo", nil, "allowed Sexo values")
	flags.StringSliceVar(&opts.estrato, "estrato", nil, "allowed Estrato values")
	flags.StringSliceVar(&opts.nomofobia, "nomofobia", nil, "allowed Nomofobia? values")

	rootCmd.AddCommand(
		newAnalyzeCmd(opts),
		newExportCmd(opts),
		newChartsCmd(opts),
		newGenerateCmd(),
		newServeCmd(opts),
	)

	return rootCmd
}

// container loads the configuration, applies flag overrides and builds the container
func (o *rootOptions) container(overrides ...func(*config.Config)) (*container.Container, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.dataFile != "" {
		cfg.Data.File = o.dataFile
	}
	if o.sheet != "" {
		cfg.Data.Sheet = o.sheet
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	for _, apply := range overrides {
		apply(cfg)
	}
	return container.New(cfg)
}

// filterSpec reads the --filters file, then lets the per-column flags replace
// the sets they name
func (o *rootOptions) filterSpec() (dataset.FilterSpec, error) {
	var spec dataset.FilterSpec
	if o.filtersFile != "" {
		data, err := os.ReadFile(o.filtersFile)
		if err != nil {
			return spec, fmt.Errorf("failed to read filters file: %w", err)
		}
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return spec, fmt.Errorf("invalid filters file %s: %w", o.filtersFile, err)
		}
	}
	if len(o.sexo) > 0 {
		spec.Sexo = o.sexo
	}
	if len(o.estrato) > 0 {
		spec.Estrato = o.estrato
	}
	if len(o.nomofobia) > 0 {
		spec.Nomofobia = o.nomofobia
	}
	return spec.Normalized(), nil
}
