package stats

import (
	"time"

	"gonomo/domain/dataset"
)

// Results is everything the pipeline computes for one table and filter spec
type Results struct {
	Source       string             `json:"source"`
	Filter       dataset.FilterSpec `json:"filter"`
	Alpha        float64            `json:"alpha"`
	Correction   Correction         `json:"correction"`
	Descriptive  Descriptive        `json:"descriptive"`
	Correlations []Correlation      `json:"correlations"`
	Matrix       CorrelationMatrix  `json:"matrix"`
	Groups       GroupComparison    `json:"groups"`
	Findings     []Finding          `json:"findings"`
	Diagnostics  []string           `json:"diagnostics,omitempty"`
	ComputedAt   time.Time          `json:"computed_at"`
}
