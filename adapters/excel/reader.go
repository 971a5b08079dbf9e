package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"

	"gonomo/domain/core"
	"gonomo/domain/dataset"
	"gonomo/internal"
)

// DataReader reads an Excel or CSV source into a normalized observation table
type DataReader struct {
	name     string // file path, or the original name of an upload
	fileType string // "xlsx" or "csv"
	data     []byte // upload buffer; nil when reading from disk
	sheet    string
	schema   dataset.Schema
	logger   *internal.Logger
}

// NewDataReader creates a reader for a file on disk
func NewDataReader(filePath string, schema dataset.Schema) *DataReader {
	return &DataReader{
		name:     filePath,
		fileType: detectFileType(filePath),
		schema:   schema,
		logger:   internal.DefaultLogger.With("component", "loader"),
	}
}

// NewUploadReader creates a reader for an in-memory upload. The name is only
// used to pick the format and to label the table.
func NewUploadReader(name string, data []byte, schema dataset.Schema) *DataReader {
	return &DataReader{
		name:     name,
		fileType: detectFileType(name),
		data:     data,
		schema:   schema,
		logger:   internal.DefaultLogger.With("component", "loader"),
	}
}

// WithSheet selects a sheet by name; the default is the first sheet
func (r *DataReader) WithSheet(sheet string) *DataReader {
	r.sheet = sheet
	return r
}

// WithLogger replaces the reader's logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	r.logger = logger.With("component", "loader")
	return r
}

// Name returns the source label
func (r *DataReader) Name() string {
	return r.name
}

// Identity fingerprints the source so unchanged sources can be memoized.
// Files are identified by path, size and modification time; uploads by content.
func (r *DataReader) Identity() (core.SourceHash, error) {
	if r.data != nil {
		return core.NewSourceHash(r.data), nil
	}
	info, err := os.Stat(r.name)
	if err != nil {
		return "", core.NewDataSourceError(r.name, err)
	}
	key := fmt.Sprintf("%s|%s|%d|%d", r.name, r.sheet, info.Size(), info.ModTime().UnixNano())
	return core.NewSourceHash([]byte(key)), nil
}

// Load reads the source. Failure to open or parse it at all yields an error
// wrapping core.ErrDataSource; missing declared columns do not fail the load.
func (r *DataReader) Load(ctx context.Context) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("[DataReader] Starting to read %s source: %s", r.fileType, r.name)
	startTime := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		err = fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		r.logger.Warn("[DataReader] Failed to read %s: %v", r.name, err)
		return nil, core.NewDataSourceError(r.name, err)
	}
	if len(rows) == 0 {
		return nil, core.NewDataSourceError(r.name, fmt.Errorf("no header row"))
	}

	table, err := r.processRows(rows)
	if err != nil {
		return nil, core.NewDataSourceError(r.name, err)
	}

	r.logger.Info("[DataReader] %s loaded in %s (%d columns, %d rows)",
		r.name, time.Since(startTime).Round(time.Millisecond), len(table.Columns()), table.Len())
	if missing := table.Unavailable(); len(missing) > 0 {
		r.logger.Warn("[DataReader] %s is missing declared columns: %s", r.name, strings.Join(missing, ", "))
	}

	return table, nil
}

func (r *DataReader) open() (io.ReadCloser, int64, error) {
	if r.data != nil {
		return io.NopCloser(bytes.NewReader(r.data)), int64(len(r.data)), nil
	}
	f, err := os.Open(r.name)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// readExcelRows reads every row of the selected sheet
func (r *DataReader) readExcelRows() ([][]string, error) {
	src, size, err := r.open()
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] %s (%s) sheet %s read in %.2fms (%d rows)",
		r.name, humanize.Bytes(uint64(size)), sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return rows, nil
}

// readCSVRows reads every record of a CSV source
func (r *DataReader) readCSVRows() ([][]string, error) {
	src, size, err := r.open()
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer src.Close()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("[DataReader] %s (%s) read in %.2fms (%d rows)",
		r.name, humanize.Bytes(uint64(size)), float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return rows, nil
}

// processRows normalizes raw string rows into a typed table
func (r *DataReader) processRows(rows [][]string) (*dataset.Table, error) {
	headers := normalizeHeaders(rows[0])

	var data [][]string
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		data = append(data, row)
	}

	table := dataset.NewTable(r.name, len(data))
	for j, header := range headers {
		kind, declared := r.schema.KindOf(header)
		if !declared {
			kind = dataset.KindText
		}

		if kind == dataset.KindNumeric {
			values := make([]float64, len(data))
			for i, row := range data {
				values[i] = CoerceNumeric(cellAt(row, j))
			}
			if err := table.AddNumeric(header, values); err != nil {
				return nil, err
			}
			continue
		}

		values := make([]string, len(data))
		for i, row := range data {
			values[i] = strings.TrimSpace(cellAt(row, j))
		}
		if err := table.AddLabels(header, kind, values); err != nil {
			return nil, err
		}
	}

	for _, col := range r.schema.Declared() {
		if !table.Has(col) {
			table.MarkUnavailable(col)
		}
	}

	return table, nil
}

// normalizeHeaders trims headers, names blank ones and de-duplicates repeats
func normalizeHeaders(row []string) []string {
	headers := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, h := range row {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		}
		seen[name] = 0
		headers[i] = name
	}
	return headers
}

func cellAt(row []string, j int) string {
	if j < len(row) {
		return row[j]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func detectFileType(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return "csv"
	}
	return "xlsx"
}
