package history

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the committed records for the dashboard's trend
// panel. StdDev fields are zero when fewer than two records exist.
type Summary struct {
	Count int `json:"count"`

	MeanFinesPct   float64 `json:"mean_fines_pct"`
	StdDevFinesPct float64 `json:"stddev_fines_pct"`
	MinFinesPct    float64 `json:"min_fines_pct"`
	MaxFinesPct    float64 `json:"max_fines_pct"`

	MeanMBV   float64 `json:"mean_mbv_mg_g"`
	StdDevMBV float64 `json:"stddev_mbv_mg_g"`

	MeanSE float64 `json:"mean_se"`
}

// Summarize computes summary statistics over the whole log. An empty log
// yields a zero Summary.
func (l *Log) Summarize() Summary {
	records := l.Records()
	if len(records) == 0 {
		return Summary{}
	}

	fines := make([]float64, len(records))
	mbv := make([]float64, len(records))
	se := make([]float64, len(records))
	for i, r := range records {
		fines[i] = r.FinesPct
		mbv[i] = r.MBV
		se[i] = float64(r.SE)
	}

	s := Summary{
		Count:        len(records),
		MeanFinesPct: stat.Mean(fines, nil),
		MinFinesPct:  floats.Min(fines),
		MaxFinesPct:  floats.Max(fines),
		MeanMBV:      stat.Mean(mbv, nil),
		MeanSE:       stat.Mean(se, nil),
	}
	if len(records) > 1 {
		s.StdDevFinesPct = stat.StdDev(fines, nil)
		s.StdDevMBV = stat.StdDev(mbv, nil)
	}
	return s
}
