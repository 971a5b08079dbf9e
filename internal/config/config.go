package config

import (
	stderrors "errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gonomo/domain/dataset"
	"gonomo/domain/stats"
	"gonomo/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Analysis AnalysisConfig
	Server   ServerConfig
	Logging  LoggingConfig
}

// DataConfig holds the input spreadsheet location
type DataConfig struct {
	File  string
	Sheet string // empty selects the first sheet
}

// AnalysisConfig holds statistical settings
type AnalysisConfig struct {
	Alpha         float64
	Correction    stats.Correction
	ExplorerX     string
	ExplorerY     string
	ExplorerColor string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from .env, the environment and an optional YAML
// file. When configFile is empty, ./gonomo.yaml is used if present.
func Load(configFile string) (*Config, error) {
	// A missing .env is fine; variables already set in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to read config file")
		}
	} else {
		v.SetConfigName("gonomo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to read config file")
			}
		}
	}

	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	correction, err := stats.ParseCorrection(v.GetString("posthoc_correction"))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	config := &Config{
		Data: DataConfig{
			File:  strings.TrimSpace(v.GetString("data_file")),
			Sheet: strings.TrimSpace(v.GetString("data_sheet")),
		},
		Analysis: AnalysisConfig{
			Alpha:         v.GetFloat64("alpha"),
			Correction:    correction,
			ExplorerX:     v.GetString("explorer_x"),
			ExplorerY:     v.GetString("explorer_y"),
			ExplorerColor: v.GetString("explorer_color"),
		},
		Server: ServerConfig{
			Port: v.GetString("port"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_file", "DATOS REALES.xlsx")
	v.SetDefault("data_sheet", "")
	v.SetDefault("alpha", stats.DefaultAlpha)
	v.SetDefault("posthoc_correction", string(stats.CorrectionBonferroni))
	v.SetDefault("explorer_x", dataset.ColHorasUso)
	v.SetDefault("explorer_y", dataset.ColNomofobia)
	v.SetDefault("explorer_color", "")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_format", "console")
}

func validateConfig(config *Config) error {
	if config.Analysis.Alpha <= 0 || config.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("alpha must be in (0, 1)")
	}
	schema := dataset.SurveySchema()
	for _, col := range []string{config.Analysis.ExplorerX, config.Analysis.ExplorerY} {
		if kind, ok := schema.KindOf(col); !ok || kind != dataset.KindNumeric {
			return errors.ConfigInvalid("explorer axis must be a numeric survey column: " + col)
		}
	}
	if c := config.Analysis.ExplorerColor; c != "" {
		if kind, ok := schema.KindOf(c); !ok || kind != dataset.KindCategorical {
			return errors.ConfigInvalid("explorer colour must be a categorical survey column: " + c)
		}
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("port is required")
	}
	switch strings.ToLower(config.Logging.Format) {
	case "console", "json":
	default:
		return errors.ConfigInvalid("log format must be console or json")
	}
	return nil
}
