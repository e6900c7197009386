package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{"timestamp", "fines_cutoff_mm", "fines_pct", "MBV_mg_g", "SE", "compatibility"}

// WriteCSV writes the whole log to w in the dashboard's export format.
// Timestamps are second-resolution ISO 8601; fines and MBV carry two
// decimals, matching the committed display values.
func (l *Log) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("history: writing csv header: %w", err)
	}
	for _, r := range l.Records() {
		row := []string{
			r.Timestamp.Format("2006-01-02T15:04:05"),
			strconv.FormatFloat(r.FinesCutoffMM, 'g', -1, 64),
			strconv.FormatFloat(r.FinesPct, 'f', 2, 64),
			strconv.FormatFloat(r.MBV, 'f', 2, 64),
			strconv.Itoa(r.SE),
			r.Compatibility,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("history: writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
