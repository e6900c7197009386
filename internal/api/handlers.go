package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/graindata/sandqc.report/internal/history"
	"github.com/graindata/sandqc.report/internal/psd"
	"github.com/graindata/sandqc.report/internal/qc"
	"github.com/graindata/sandqc.report/internal/report"
	"github.com/graindata/sandqc.report/internal/units"
)

// analyzeRequest is the common input shape for the analysis endpoints.
// Exactly one of PSDText or PSDCSV carries the curve; CutoffMM of zero
// means the configured default.
type analyzeRequest struct {
	PSDText  string  `json:"psd_text"`
	PSDCSV   string  `json:"psd_csv"`
	MBV      float64 `json:"mbv_mg_g"`
	SE       int     `json:"se"`
	CutoffMM float64 `json:"fines_cutoff_mm"`
}

type analyzeResponse struct {
	RunID        string    `json:"run_id"`
	CutoffMM     float64   `json:"fines_cutoff_mm"`
	FinesPct     float64   `json:"fines_pct"`
	FinesDisplay string    `json:"fines_display"`
	Tier         string    `json:"tier"`
	Label        string    `json:"label"`
	Guidance     string    `json:"guidance"`
	ReportMD     string    `json:"report_md"`
	PSD          psd.Table `json:"psd"`
}

// decodeSample reads an analyzeRequest off r and turns it into an engine
// sample. The PSD parse failure is the only hard stop the engine knows;
// it surfaces as the returned error.
func (s *Server) decodeSample(r *http.Request) (qc.Sample, error) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return qc.Sample{}, fmt.Errorf("invalid request body: %w", err)
	}

	var table psd.Table
	var err error
	if req.PSDCSV != "" {
		table, err = psd.ParseCSV(strings.NewReader(req.PSDCSV))
	} else {
		table, err = psd.ParseText(req.PSDText)
	}
	if err != nil {
		return qc.Sample{}, err
	}

	cutoff := req.CutoffMM
	if cutoff == 0 {
		cutoff = s.cfg.GetDefaultCutoffMM()
	}

	return qc.Sample{MBV: req.MBV, SE: req.SE, CutoffMM: cutoff, PSD: table}, nil
}

// analyze runs the engine for one decoded sample and assembles the full
// response, report included.
func (s *Server) analyze(sample qc.Sample) (analyzeResponse, error) {
	a, err := sample.Analyze(s.thresholds())
	if err != nil {
		return analyzeResponse{}, err
	}

	runID := uuid.NewString()
	md := report.Generate(report.Params{
		RunID:       runID,
		GeneratedAt: s.clock.Now(),
		CutoffMM:    sample.CutoffMM,
		FinesPct:    a.FinesPct,
		MBV:         sample.MBV,
		SE:          sample.SE,
		Tier:        a.Tier,
		PSD:         sample.PSD,
	})

	return analyzeResponse{
		RunID:        runID,
		CutoffMM:     sample.CutoffMM,
		FinesPct:     a.FinesPct,
		FinesDisplay: units.FormatPercent(a.FinesPct),
		Tier:         a.Tier.String(),
		Label:        a.Tier.Label(),
		Guidance:     a.Guidance,
		ReportMD:     md,
		PSD:          sample.PSD,
	}, nil
}

// sampleStatus maps a decode/analyze error to the HTTP status the
// dashboard expects: an unusable PSD table is 422 (the one caller-visible
// engine failure), everything else about the input is 400.
func sampleStatus(err error) int {
	if errors.Is(err, psd.ErrTableTooSmall) || errors.Is(err, qc.ErrEmptyPSD) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sample, err := s.decodeSample(r)
	if err != nil {
		s.writeJSONError(w, sampleStatus(err), err.Error())
		return
	}

	resp, err := s.analyze(sample)
	if err != nil {
		s.writeJSONError(w, sampleStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write analysis")
		return
	}
}

func (s *Server) massBalanceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var in qc.MassBalanceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	product := qc.ProjectMassBalance(in)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"product_fines_pct":     product,
		"product_fines_display": units.FormatPercent(product),
	})
}

// historyHandler lists the session log on GET and commits a freshly
// computed snapshot on POST. Commits re-run the engine so the log only
// ever holds engine output, never client-supplied figures.
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.history.Records()); err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, "Failed to write history")
		}
	case http.MethodPost:
		sample, err := s.decodeSample(r)
		if err != nil {
			s.writeJSONError(w, sampleStatus(err), err.Error())
			return
		}
		a, err := sample.Analyze(s.thresholds())
		if err != nil {
			s.writeJSONError(w, sampleStatus(err), err.Error())
			return
		}

		rec := history.Record{
			Timestamp:     s.clock.Now(),
			FinesCutoffMM: sample.CutoffMM,
			FinesPct:      a.FinesPct,
			MBV:           sample.MBV,
			SE:            sample.SE,
			Compatibility: a.Tier.Label(),
		}
		s.history.Append(rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rec)
	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) historyExportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="qc_history.csv"`)
	if err := s.history.WriteCSV(w); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write history csv")
	}
}

func (s *Server) historySummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.history.Summarize()); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write summary")
	}
}

func (s *Server) reportHTMLHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sample, err := s.decodeSample(r)
	if err != nil {
		s.writeJSONError(w, sampleStatus(err), err.Error())
		return
	}
	resp, err := s.analyze(sample)
	if err != nil {
		s.writeJSONError(w, sampleStatus(err), err.Error())
		return
	}

	html, err := report.RenderHTML(resp.ReportMD)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render report: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// decodeTable pulls just the PSD out of an analyzeRequest for the chart
// endpoints, which ignore the scalar inputs.
func (s *Server) decodeTable(r *http.Request) (psd.Table, error) {
	sample, err := s.decodeSample(r)
	if err != nil {
		return nil, err
	}
	return sample.PSD, nil
}

func (s *Server) psdChartHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	table, err := s.decodeTable(r)
	if err != nil {
		s.writeJSONError(w, sampleStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderCurveHTML(table, w); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
	}
}

func (s *Server) psdPlotHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	table, err := s.decodeTable(r)
	if err != nil {
		s.writeJSONError(w, sampleStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := report.CurvePNG(table, w); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render plot: %v", err))
	}
}
