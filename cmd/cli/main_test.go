package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func generated(t *testing.T, name string) string {
	t.Helper()
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), name)
	out, err := execute(t, "generate", "--out", path, "--respondents", "60", "--stratum-shift", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 60 respondents")
	return path
}

func TestGenerate_RejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "generate", "--out", filepath.Join(t.TempDir(), "survey.ods"))
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestAnalyze_Table(t *testing.T) {
	color.NoColor = true
	path := generated(t, "survey.xlsx")

	out, err := execute(t, "analyze", "--data", path, "--log-level", "ERROR")
	require.NoError(t, err)
	assert.Contains(t, out, "Indicators:")
	assert.Contains(t, out, "Spearman correlations:")
	assert.Contains(t, out, "kruskal_wallis")
	assert.Contains(t, out, "Findings:")
	assert.Contains(t, out, "Filters: none")
}

func TestAnalyze_JSONWithFilters(t *testing.T) {
	path := generated(t, "survey.csv")
	filters := filepath.Join(t.TempDir(), "filters.yaml")
	require.NoError(t, os.WriteFile(filters, []byte("estrato: [\"2\", \"1\"]\nsexo: [Femenino]\n"), 0o600))

	out, err := execute(t, "analyze", "--data", path, "--filters", filters, "--estrato", "3", "--json", "--log-level", "ERROR")
	require.NoError(t, err)

	var got struct {
		Filter struct {
			Sexo    []string `json:"sexo"`
			Estrato []string `json:"estrato"`
		} `json:"filter"`
		Descriptive struct {
			Rows int `json:"rows"`
		} `json:"descriptive"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"Femenino"}, got.Filter.Sexo)
	assert.Equal(t, []string{"3"}, got.Filter.Estrato)
	assert.LessOrEqual(t, got.Descriptive.Rows, 10)
}

func TestAnalyze_MissingDataFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "analyze", "--data", "absent.xlsx", "--log-level", "ERROR")
	assert.ErrorContains(t, err, "absent.xlsx")
}

func TestExport_WritesArtifacts(t *testing.T) {
	path := generated(t, "survey.xlsx")
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := execute(t, "export", "--data", path, "--out", outDir, "--estrato", "1", "--log-level", "ERROR")
	require.NoError(t, err)

	csvData, err := os.ReadFile(filepath.Join(outDir, "filtered_table.csv"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(csvData)), "\n"), 11)

	recs, err := os.ReadFile(filepath.Join(outDir, "recommendations.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(recs), "- "))

	report, err := os.ReadFile(filepath.Join(outDir, "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "|")
}

func TestCharts_WritesHTML(t *testing.T) {
	path := generated(t, "survey.xlsx")
	out := filepath.Join(t.TempDir(), "charts.html")

	stdout, err := execute(t, "charts", "--data", path, "--out", out, "--x", "Edad", "--y", "Autoestima", "--color", "Sexo", "--log-level", "ERROR")
	require.NoError(t, err)
	assert.Contains(t, stdout, "charts to")

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Explorer: Edad vs Autoestima")
}

func TestFilterSpec_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.yaml")
	require.NoError(t, os.WriteFile(path, []byte("estrato: {nope"), 0o600))

	opts := &rootOptions{filtersFile: path}
	_, err := opts.filterSpec()
	assert.ErrorContains(t, err, "invalid filters file")
}
