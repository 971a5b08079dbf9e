package dataset

import (
	"sort"

	"gonomo/domain/core"
)

// FilterSpec holds the allowed values per categorical column.
// An empty set means the column is not filtered on.
type FilterSpec struct {
	Sexo      []string `json:"sexo,omitempty" yaml:"sexo,omitempty"`
	Estrato   []string `json:"estrato,omitempty" yaml:"estrato,omitempty"`
	Nomofobia []string `json:"nomofobia,omitempty" yaml:"nomofobia,omitempty"`
}

// Constraints returns the non-empty constraint sets keyed by column name
func (f FilterSpec) Constraints() map[string][]string {
	out := make(map[string][]string, 3)
	if len(f.Sexo) > 0 {
		out[ColSexo] = f.Sexo
	}
	if len(f.Estrato) > 0 {
		out[ColEstrato] = f.Estrato
	}
	if len(f.Nomofobia) > 0 {
		out[ColNomofobiaFlag] = f.Nomofobia
	}
	return out
}

// IsUnconstrained reports whether every set is empty
func (f FilterSpec) IsUnconstrained() bool {
	return len(f.Sexo) == 0 && len(f.Estrato) == 0 && len(f.Nomofobia) == 0
}

// Hash fingerprints the filter; equal filters hash equally regardless of value order
func (f FilterSpec) Hash() core.FilterHash {
	return core.ComputeFilterHash(f.Constraints())
}

// Normalized returns a copy with sorted, de-duplicated value sets
func (f FilterSpec) Normalized() FilterSpec {
	return FilterSpec{
		Sexo:      normalizeSet(f.Sexo),
		Estrato:   normalizeSet(f.Estrato),
		Nomofobia: normalizeSet(f.Nomofobia),
	}
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
