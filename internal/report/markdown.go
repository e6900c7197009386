// Package report renders engine output for the dashboard collaborator:
// the markdown QC summary, its HTML form, and PSD curve charts.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/graindata/sandqc.report/internal/psd"
	"github.com/graindata/sandqc.report/internal/qc"
	"github.com/graindata/sandqc.report/internal/units"
)

// Params collects everything a QC report shows. RunID is assigned on
// generation when left empty; GeneratedAt defaults to now.
type Params struct {
	RunID       string
	GeneratedAt time.Time

	CutoffMM float64
	FinesPct float64
	MBV      float64
	SE       int
	Tier     qc.Tier
	PSD      psd.Table
}

// Generate renders the markdown QC summary for one analysed sample.
func Generate(p Params) string {
	if p.RunID == "" {
		p.RunID = uuid.NewString()
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now()
	}

	var b strings.Builder
	b.WriteString("# Sand QC Summary\n\n")
	fmt.Fprintf(&b, "- Run ID: %s\n", p.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", p.GeneratedAt.Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&b, "- Fines cutoff: < %s\n", units.FormatMilli(p.CutoffMM))
	fmt.Fprintf(&b, "- Fines percent: %s\n", units.FormatPercent(p.FinesPct))
	fmt.Fprintf(&b, "- MBV: %.1f mg/g\n", p.MBV)
	fmt.Fprintf(&b, "- Sand Equivalent (NF EN 933-8): %d\n", p.SE)
	fmt.Fprintf(&b, "- Mortar compatibility: %s\n", p.Tier.Label())
	b.WriteString("\n## PSD Table (Cumulative Passing)\n\n")
	b.WriteString(markdownTable(p.PSD))
	return b.String()
}

func markdownTable(t psd.Table) string {
	var b strings.Builder
	b.WriteString("| Sieve (mm) | Passing (%) |\n")
	b.WriteString("| ---: | ---: |\n")
	for _, r := range t {
		fmt.Fprintf(&b, "| %g | %g |\n", r.SizeMM, r.PassingPct)
	}
	return b.String()
}

// md is configured once: the QC summary needs the table extension, plain
// goldmark leaves pipe tables as text.
var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// RenderHTML converts a markdown report to an HTML fragment for the
// dashboard.
func RenderHTML(markdown string) (string, error) {
	var b strings.Builder
	if err := md.Convert([]byte(markdown), &b); err != nil {
		return "", fmt.Errorf("report: rendering markdown: %w", err)
	}
	return b.String(), nil
}
