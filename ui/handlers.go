package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gonomo/adapters/excel"
	"gonomo/app"
	"gonomo/domain/dataset"
	"gonomo/internal/charts"
	apperrors "gonomo/internal/errors"
	"gonomo/internal/export"
	"gonomo/internal/filter"
	"gonomo/internal/session"
)

// datasetInfo describes the dataset sessions currently read from
type datasetInfo struct {
	Source      string   `json:"source"`
	Version     int      `json:"version"`
	Rows        int      `json:"rows"`
	Columns     []string `json:"columns"`
	Unavailable []string `json:"unavailable,omitempty"`
	Cached      bool     `json:"cached,omitempty"`
}

func describeDataset(d session.Dataset) datasetInfo {
	return datasetInfo{
		Source:      d.Table.Source(),
		Version:     d.Version,
		Rows:        d.Table.Len(),
		Columns:     d.Table.Columns(),
		Unavailable: d.Table.Unavailable(),
	}
}

type filterOptions struct {
	Dataset datasetInfo        `json:"dataset"`
	Options dataset.FilterSpec `json:"options"`
}

// handleHealth reports liveness
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIndex renders the landing page
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	d := a.sessions.Dataset()
	data := map[string]interface{}{
		"Title":    "Nomophobia survey dashboard",
		"Dataset":  describeDataset(d),
		"Options":  filter.Options(d.Table),
		"Sessions": a.sessions.Len(),
	}
	a.renderTemplate(w, "index.html", data)
}

// handleFilterOptions lists the selectable values of every filter column
func (a *App) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	d := a.sessions.Dataset()
	writeJSON(w, http.StatusOK, filterOptions{
		Dataset: describeDataset(d),
		Options: filter.Options(d.Table),
	})
}

// handleCreateSession opens a session. The body, if any, is its initial filter spec.
func (a *App) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	spec, err := decodeFilterSpec(r.Body)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a.sessions.Create(spec))
}

func (a *App) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	s, err := a.sessions.Get(id)
	if err != nil {
		a.writeError(w, r, sessionError(id, err))
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *App) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.sessions.Delete(id); err != nil {
		a.writeError(w, r, sessionError(id, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetFilters replaces the session's filter spec
func (a *App) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	spec, err := decodeFilterSpec(r.Body)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	s, err := a.sessions.SetFilters(id, spec)
	if err != nil {
		a.writeError(w, r, sessionError(id, err))
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// handleResults returns the session's results bundle
func (a *App) handleResults(w http.ResponseWriter, r *http.Request) {
	bundle, _, ok := a.results(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

// handleCharts renders every chart of the session as one HTML page
func (a *App) handleCharts(w http.ResponseWriter, r *http.Request) {
	bundle, table, ok := a.results(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := charts.Render(&buf, bundle.Charts, a.service.View(table, bundle.Filter)); err != nil {
		a.writeError(w, r, apperrors.Wrap(err, "failed to render charts"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// handleReport returns the Markdown report, as HTML unless ?format=md
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	bundle, _, ok := a.results(w, r)
	if !ok {
		return
	}
	md := export.MarkdownReport(bundle.Results)
	if strings.EqualFold(r.URL.Query().Get("format"), "md") {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, md)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(reportHTML(md))
}

func (a *App) handleExportTable(w http.ResponseWriter, r *http.Request) {
	bundle, table, ok := a.results(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, a.service.View(table, bundle.Filter)); err != nil {
		a.writeError(w, r, apperrors.Wrap(err, "failed to export table"))
		return
	}
	attachment(w, "text/csv; charset=utf-8", "filtered_table.csv")
	buf.WriteTo(w)
}

func (a *App) handleExportRecommendations(w http.ResponseWriter, r *http.Request) {
	bundle, _, ok := a.results(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteRecommendations(&buf, bundle.Findings); err != nil {
		a.writeError(w, r, apperrors.Wrap(err, "failed to export recommendations"))
		return
	}
	attachment(w, "text/plain; charset=utf-8", "recommendations.txt")
	buf.WriteTo(w)
}

// handleDatasetUpload replaces the shared dataset with an uploaded XLSX or CSV
// file. A file that cannot be read leaves the current dataset in place.
func (a *App) handleDatasetUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.config.MaxUploadBytes); err != nil {
		a.writeError(w, r, apperrors.InvalidInput(fmt.Sprintf("invalid multipart upload: %v", err)))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.writeError(w, r, apperrors.InvalidInput(`multipart field "file" is required`))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.writeError(w, r, apperrors.InvalidInput(fmt.Sprintf("failed to read upload: %v", err)))
		return
	}

	reader := excel.NewUploadReader(header.Filename, data, dataset.SurveySchema()).WithLogger(a.logger)
	loaded, err := a.sources.Load(r.Context(), reader)
	if err != nil {
		a.writeError(w, r, apperrors.DataSource(header.Filename, err))
		return
	}

	a.sessions.ReplaceDataset(loaded.Table, loaded.Identity)
	info := describeDataset(a.sessions.Dataset())
	info.Cached = loaded.Cached
	writeJSON(w, http.StatusOK, info)
}

// results loads the session's bundle, writing the error response on failure
func (a *App) results(w http.ResponseWriter, r *http.Request) (*app.Bundle, *dataset.Table, bool) {
	id, err := sessionID(r)
	if err != nil {
		a.writeError(w, r, err)
		return nil, nil, false
	}
	bundle, table, err := a.sessions.Results(r.Context(), id)
	if err != nil {
		a.writeError(w, r, sessionError(id, err))
		return nil, nil, false
	}
	return bundle, table, true
}

// decodeFilterSpec reads a JSON filter spec; an empty body is the unconstrained spec
func decodeFilterSpec(body io.Reader) (dataset.FilterSpec, error) {
	var spec dataset.FilterSpec
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return dataset.FilterSpec{}, apperrors.InvalidInput(fmt.Sprintf("invalid filter spec: %v", err))
	}
	return spec, nil
}

func reportHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage | mdhtml.HrefTargetBlank,
		Title: "Nomophobia survey report",
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}
