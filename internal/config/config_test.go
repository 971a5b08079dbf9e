package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonomo/domain/stats"
	"gonomo/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "DATOS REALES.xlsx", cfg.Data.File)
	assert.Equal(t, stats.DefaultAlpha, cfg.Analysis.Alpha)
	assert.Equal(t, stats.CorrectionBonferroni, cfg.Analysis.Correction)
	assert.Equal(t, "Horas_Uso", cfg.Analysis.ExplorerX)
	assert.Equal(t, "Nomofobia", cfg.Analysis.ExplorerY)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATA_FILE", "encuesta.csv")
	t.Setenv("POSTHOC_CORRECTION", "none")
	t.Setenv("ALPHA", "0.01")
	t.Setenv("PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "encuesta.csv", cfg.Data.File)
	assert.Equal(t, stats.CorrectionNone, cfg.Analysis.Correction)
	assert.InDelta(t, 0.01, cfg.Analysis.Alpha, 1e-12)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATA_FILE", "")
	require.NoError(t, os.Unsetenv("DATA_FILE"))
	require.NoError(t, os.WriteFile(".env", []byte("DATA_FILE=desde_env.xlsx\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "desde_env.xlsx", cfg.Data.File)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gonomo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_file: otra.xlsx\nexplorer_color: Sexo\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "otra.xlsx", cfg.Data.File)
	assert.Equal(t, "Sexo", cfg.Analysis.ExplorerColor)
}

func TestFromViper_Invalid(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"alpha":      {"alpha": 1.5},
		"correction": {"posthoc_correction": "holm"},
		"explorer":   {"explorer_x": "Sexo"},
		"colour":     {"explorer_color": "Edad"},
		"log format": {"log_format": "xml"},
	}
	for name, overrides := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			for k, val := range overrides {
				v.Set(k, val)
			}
			_, err := FromViper(v)
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.Classify(err))
		})
	}
}
