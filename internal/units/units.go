// Package units provides the standard fines cutoffs and display
// formatting shared by the engine and its callers.
package units

import (
	"fmt"
	"math"
)

// Standard fines cutoff sieves in millimetres. 0.063 mm is the default
// used for mortar fines per NF EN 933-8 practice.
const (
	Cutoff050 = 0.05
	Cutoff063 = 0.063
	Cutoff075 = 0.075
	Cutoff100 = 0.1

	DefaultCutoffMM = Cutoff063
)

// ValidCutoffs contains all accepted fines cutoff sizes.
var ValidCutoffs = []float64{Cutoff050, Cutoff063, Cutoff075, Cutoff100}

// IsValidCutoff checks if the given cutoff is one of the standard sizes.
func IsValidCutoff(cutoffMM float64) bool {
	for _, c := range ValidCutoffs {
		if math.Abs(c-cutoffMM) < 1e-9 {
			return true
		}
	}
	return false
}

// ValidCutoffsString returns a comma-separated string of valid cutoffs for error messages.
func ValidCutoffsString() string {
	return "0.05, 0.063, 0.075, 0.1"
}

// FormatPercent renders a percentage with the dashboard's one-decimal display convention.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatMilli renders a sieve size or cutoff in millimetres without
// trailing zero noise.
func FormatMilli(mm float64) string {
	return fmt.Sprintf("%g mm", mm)
}
