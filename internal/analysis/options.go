package analysis

import (
	"gonomo/domain/dataset"
	"gonomo/domain/stats"
)

// Options are the decision parameters shared by every inferential computation
type Options struct {
	Alpha      float64          `json:"alpha" yaml:"alpha"`
	Correction stats.Correction `json:"correction" yaml:"correction"`
}

// DefaultOptions returns α = 0.05 with Bonferroni-corrected post-hoc tests
func DefaultOptions() Options {
	return Options{Alpha: stats.DefaultAlpha, Correction: stats.CorrectionBonferroni}
}

func (o Options) alpha() float64 {
	if o.Alpha <= 0 || o.Alpha >= 1 {
		return stats.DefaultAlpha
	}
	return o.Alpha
}

// Default variables of the nomophobia study
var (
	// CorrelationPrimary is the independent variable every correlation is taken against
	CorrelationPrimary = dataset.ColHorasUso

	// CorrelationTargets are the dependent variables, in report order
	CorrelationTargets = []string{
		dataset.ColNomofobia,
		dataset.ColAnsiedadSocial,
		dataset.ColAutoestima,
		dataset.ColMalUso,
	}

	// MatrixVariables are the columns of the correlation heatmap
	MatrixVariables = []string{
		dataset.ColEdad,
		dataset.ColHorasUso,
		dataset.ColNomofobia,
		dataset.ColAnsiedadSocial,
		dataset.ColAutoestima,
		dataset.ColMalUso,
	}
)
