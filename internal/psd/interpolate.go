package psd

import "math"

// Interpolation tolerances. An exact sieve match returns the tabulated
// value untouched; a degenerate bracket (two readings at effectively the
// same size) returns their mean instead of dividing by ~0.
const (
	exactMatchEps = 1e-9
	bracketEps    = 1e-12
)

// PassingAt returns the cumulative passing percent at cutoffMM.
//
// The table must be in canonical descending order. Behaviour, in order:
// an exact sieve match (within 1e-9) returns the tabulated value; a
// cutoff outside the tabulated range returns the nearest endpoint value
// (flat extrapolation, never an error); otherwise the bracketing pair is
// interpolated linearly on sieve size. An empty table yields NaN, which
// callers must treat as unrecoverable for the sample.
func (t Table) PassingAt(cutoffMM float64) float64 {
	if len(t) == 0 {
		return math.NaN()
	}

	for _, r := range t {
		if math.Abs(r.SizeMM-cutoffMM) < exactMatchEps {
			return r.PassingPct
		}
	}

	// Flat extrapolation outside the measured range. The coarsest sieve
	// is first, the finest last.
	if cutoffMM > t[0].SizeMM {
		return t[0].PassingPct
	}
	if cutoffMM < t[len(t)-1].SizeMM {
		return t[len(t)-1].PassingPct
	}

	for i := 0; i < len(t)-1; i++ {
		sHi, sLo := t[i].SizeMM, t[i+1].SizeMM
		if sHi >= cutoffMM && cutoffMM >= sLo {
			pHi, pLo := t[i].PassingPct, t[i+1].PassingPct
			if math.Abs(sHi-sLo) < bracketEps {
				return (pHi + pLo) / 2
			}
			frac := (cutoffMM - sLo) / (sHi - sLo)
			return pLo + frac*(pHi-pLo)
		}
	}

	// Unreachable for a canonically sorted table.
	return math.NaN()
}
