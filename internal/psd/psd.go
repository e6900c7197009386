// Package psd holds the canonical particle-size-distribution table and the
// parsing and interpolation routines that operate on it.
package psd

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// ErrTableTooSmall is returned by the parsers when fewer than two usable
// readings survive the lenient parse. A curve needs at least two points
// before interpolation means anything, so callers must treat this as a
// hard stop for the sample.
var ErrTableTooSmall = errors.New("psd: fewer than 2 usable sieve readings")

// SieveReading is one point on the cumulative passing curve: the sieve
// aperture in millimetres and the percentage of material passing it.
type SieveReading struct {
	SizeMM     float64 `json:"sieve_mm"`
	PassingPct float64 `json:"passing_pct"`
}

// Table is an ordered particle-size distribution, sorted descending by
// sieve size (coarsest first). Parsers always return tables in canonical
// order; code constructing tables by hand should call SortDescending.
type Table []SieveReading

// SortDescending puts the table in canonical order, coarsest sieve first.
func (t Table) SortDescending() {
	sort.Slice(t, func(i, j int) bool { return t[i].SizeMM > t[j].SizeMM })
}

// Text serialises the table back to the line-oriented `size: percent`
// format accepted by ParseText. Floats are rendered with the shortest
// representation that round-trips.
func (t Table) Text() string {
	var b strings.Builder
	for _, r := range t {
		b.WriteString(strconv.FormatFloat(r.SizeMM, 'f', -1, 64))
		b.WriteString(": ")
		b.WriteString(strconv.FormatFloat(r.PassingPct, 'f', -1, 64))
		b.WriteString("\n")
	}
	return b.String()
}

// DefaultText is the reference river-sand PSD used to seed the dashboard,
// 23 sieves from 12.2 mm down to the 0.063 mm fines cutoff.
const DefaultText = `12.2: 100
10: 90
8: 80
6.3: 64
5.2: 61
4: 60
3.2: 52
2.5: 45
2: 42
1.25: 30
1: 30
0.8: 27
0.5: 24
0.4: 22
0.355: 21
0.315: 17
0.250: 17
0.180: 16
0.160: 15
0.125: 14
0.100: 14
0.090: 14
0.063: 13.7`
