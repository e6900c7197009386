// qc-report runs one QC analysis from the command line and prints the
// markdown report: paste or pipe PSD lines in, get the fines percent,
// compatibility tier, and table back out.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/graindata/sandqc.report/internal/psd"
	"github.com/graindata/sandqc.report/internal/qc"
	"github.com/graindata/sandqc.report/internal/report"
	"github.com/graindata/sandqc.report/internal/units"
)

var (
	psdPath  = flag.String("psd", "", "PSD input file (text 'size: pct' lines, or CSV with -format=csv); '-' or empty reads stdin; 'default' uses the reference curve")
	format   = flag.String("format", "text", "PSD input format: text or csv")
	mbv      = flag.Float64("mbv", 6.5, "Methylene blue value (mg/g)")
	se       = flag.Int("se", 65, "Sand equivalent (0-100)")
	cutoff   = flag.Float64("cutoff", units.DefaultCutoffMM, "Fines cutoff in mm")
	pngPath  = flag.String("png", "", "Also write the PSD curve as a PNG to this path")
	projFeed = flag.Bool("project", false, "Append a mass-balance projection using -reject-rate and -reject-grade")
	rejRate  = flag.Float64("reject-rate", 15, "Reject rate percent (mass) for the projection")
	rejGrade = flag.Float64("reject-grade", 85, "Reject fines grade percent for the projection")
)

func readPSD() (psd.Table, error) {
	if *psdPath == "default" {
		return psd.ParseText(psd.DefaultText)
	}

	var raw []byte
	var err error
	if *psdPath == "" || *psdPath == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(*psdPath)
	}
	if err != nil {
		return nil, fmt.Errorf("reading PSD input: %w", err)
	}

	if *format == "csv" {
		return psd.ParseCSV(strings.NewReader(string(raw)))
	}
	return psd.ParseText(string(raw))
}

func main() {
	flag.Parse()

	table, err := readPSD()
	if err != nil {
		log.Fatalf("No valid PSD data: %v", err)
	}

	sample := qc.Sample{MBV: *mbv, SE: *se, CutoffMM: *cutoff, PSD: table}
	analysis, err := sample.Analyze(qc.DefaultThresholds())
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	md := report.Generate(report.Params{
		CutoffMM: *cutoff,
		FinesPct: analysis.FinesPct,
		MBV:      *mbv,
		SE:       *se,
		Tier:     analysis.Tier,
		PSD:      table,
	})
	fmt.Print(md)
	fmt.Printf("\n> %s\n", analysis.Guidance)

	if *projFeed {
		product := qc.ProjectMassBalance(qc.MassBalanceInput{
			FeedFinesPct:        analysis.FinesPct,
			RejectRatePct:       *rejRate,
			RejectFinesGradePct: *rejGrade,
		})
		fmt.Printf("\n## Classifier Projection\n\n")
		fmt.Printf("- Reject rate: %s\n", units.FormatPercent(*rejRate))
		fmt.Printf("- Reject fines grade: %s\n", units.FormatPercent(*rejGrade))
		fmt.Printf("- Estimated product fines: %s\n", units.FormatPercent(product))
	}

	if *pngPath != "" {
		f, err := os.Create(*pngPath)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *pngPath, err)
		}
		defer f.Close()
		if err := report.CurvePNG(table, f); err != nil {
			log.Fatalf("Failed to write curve PNG: %v", err)
		}
		log.Printf("Wrote PSD curve to %s", *pngPath)
	}
}
