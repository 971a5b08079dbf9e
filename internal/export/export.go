// Package export writes pipeline outputs as downloadable artifacts.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"gonomo/domain/dataset"
	"gonomo/domain/stats"
)

// WriteCSV writes the table as comma-separated text: a header row with every
// column in source order, then one line per row. Missing cells are empty.
func WriteCSV(w io.Writer, table *dataset.Table) error {
	cw := csv.NewWriter(w)
	columns := table.Columns()
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(columns))
	for row := 0; row < table.Len(); row++ {
		for j, col := range columns {
			record[j] = table.Cell(col, row)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRecommendations writes one finding per line as "- sentence"
func WriteRecommendations(w io.Writer, findings []stats.Finding) error {
	bw := bufio.NewWriter(w)
	for _, f := range findings {
		if _, err := fmt.Fprintf(bw, "- %s\n", f.Sentence); err != nil {
			return err
		}
	}
	return bw.Flush()
}
