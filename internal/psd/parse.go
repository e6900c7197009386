package psd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column name aliases for tabular input, matched case-insensitively.
// Falls back to positional columns when no alias matches.
var (
	sizeAliases    = []string{"sieve_mm", "sieve", "size_mm"}
	passingAliases = []string{"passing_pct", "passing", "%passing"}
)

// ParseText parses line-oriented PSD data in `<size>:<percent>` form.
// Blank lines, lines without a colon, and lines that do not parse as two
// numbers are dropped without comment; the lenient-skip policy means a
// pasted table with a stray header or footer still parses. The returned
// table is sorted descending by sieve size. ErrTableTooSmall is returned
// when fewer than two usable readings remain.
func ParseText(text string) (Table, error) {
	var t Table
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		size, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		t = append(t, SieveReading{SizeMM: size, PassingPct: pct})
	}
	if len(t) < 2 {
		return nil, fmt.Errorf("%w (got %d from text input)", ErrTableTooSmall, len(t))
	}
	t.SortDescending()
	return t, nil
}

// ParseCSV parses tabular PSD data. The first record is treated as a
// header; the sieve-size and passing-percent columns are located by
// case-insensitive alias match, falling back to the first and second
// columns. All other columns are ignored and rows that do not yield two
// numbers are dropped, mirroring the text parser's lenient-skip policy.
func ParseCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("psd: reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w (empty csv)", ErrTableTooSmall)
	}

	sizeCol := resolveColumn(records[0], sizeAliases, 0)
	passCol := resolveColumn(records[0], passingAliases, 1)

	var t Table
	for _, rec := range records[1:] {
		if sizeCol >= len(rec) || passCol >= len(rec) {
			continue
		}
		size, err := strconv.ParseFloat(strings.TrimSpace(rec[sizeCol]), 64)
		if err != nil {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(rec[passCol]), 64)
		if err != nil {
			continue
		}
		t = append(t, SieveReading{SizeMM: size, PassingPct: pct})
	}
	if len(t) < 2 {
		return nil, fmt.Errorf("%w (got %d from csv input)", ErrTableTooSmall, len(t))
	}
	t.SortDescending()
	return t, nil
}

func resolveColumn(header []string, aliases []string, fallback int) int {
	for _, alias := range aliases {
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), alias) {
				return i
			}
		}
	}
	return fallback
}
