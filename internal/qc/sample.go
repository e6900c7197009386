package qc

import (
	"errors"
	"fmt"
	"math"

	"github.com/graindata/sandqc.report/internal/psd"
	"github.com/graindata/sandqc.report/internal/units"
)

// ErrEmptyPSD is returned when a sample carries no usable PSD table.
// Parsers normally stop this earlier; the check here covers hand-built
// samples.
var ErrEmptyPSD = errors.New("qc: sample has no usable PSD table")

// Sample is one lab measurement set as entered per session: the two
// scalar lab values plus the measured PSD curve and the fines cutoff to
// evaluate it at. Samples are immutable once analysed.
type Sample struct {
	MBV      float64   `json:"mbv_mg_g"`
	SE       int       `json:"se"`
	CutoffMM float64   `json:"fines_cutoff_mm"`
	PSD      psd.Table `json:"psd"`
}

// Analysis is the engine output for one sample.
type Analysis struct {
	FinesPct float64 `json:"fines_pct"`
	Tier     Tier    `json:"-"`
	Guidance string  `json:"guidance"`
}

// Analyze interpolates the fines percent at the sample's cutoff and
// classifies the sample against th. The cutoff must be one of the
// standard sizes; a sample whose table cannot produce a fines figure is
// rejected with ErrEmptyPSD.
func (s Sample) Analyze(th Thresholds) (Analysis, error) {
	if !units.IsValidCutoff(s.CutoffMM) {
		return Analysis{}, fmt.Errorf("qc: cutoff %g mm is not a standard size (valid: %s)",
			s.CutoffMM, units.ValidCutoffsString())
	}

	fines := s.PSD.PassingAt(s.CutoffMM)
	if math.IsNaN(fines) {
		return Analysis{}, ErrEmptyPSD
	}

	return Analysis{
		FinesPct: fines,
		Tier:     Classify(s.MBV, s.SE, fines, th),
		Guidance: SiloGuidance(fines),
	}, nil
}
