// Package api exposes the QC engine to the dashboard over a JSON/HTTP
// boundary. The engine stays pure; this layer owns the session history
// log and translates engine errors into status codes.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/graindata/sandqc.report/internal/config"
	"github.com/graindata/sandqc.report/internal/history"
	"github.com/graindata/sandqc.report/internal/qc"
	"github.com/graindata/sandqc.report/internal/timeutil"
	"github.com/graindata/sandqc.report/internal/version"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server wires the engine, the threshold configuration, and the
// session's append-only history log.
type Server struct {
	cfg     *config.QCConfig
	history *history.Log
	clock   timeutil.Clock
}

// NewServer returns a server using cfg for thresholds and hist as the
// session history log.
func NewServer(cfg *config.QCConfig, hist *history.Log) *Server {
	if cfg == nil {
		cfg = config.EmptyQCConfig()
	}
	if hist == nil {
		hist = history.NewLog()
	}
	return &Server{cfg: cfg, history: hist, clock: timeutil.RealClock{}}
}

// thresholds materialises the configured classification gates.
func (s *Server) thresholds() qc.Thresholds {
	return qc.Thresholds{
		SafeMaxMBV:      s.cfg.GetSafeMaxMBV(),
		SafeMinSE:       s.cfg.GetSafeMinSE(),
		SafeMaxFinesPct: s.cfg.GetSafeMaxFinesPct(),

		UnsuitableMinMBV:      s.cfg.GetUnsuitableMinMBV(),
		UnsuitableMaxSE:       s.cfg.GetUnsuitableMaxSE(),
		UnsuitableMinFinesPct: s.cfg.GetUnsuitableMinFinesPct(),
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns the route table for the QC API.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.analyzeHandler)
	mux.HandleFunc("/api/massbalance", s.massBalanceHandler)
	mux.HandleFunc("/api/history", s.historyHandler)
	mux.HandleFunc("/api/history/export", s.historyExportHandler)
	mux.HandleFunc("/api/history/summary", s.historySummaryHandler)
	mux.HandleFunc("/api/report/html", s.reportHTMLHandler)
	mux.HandleFunc("/api/psd/chart", s.psdChartHandler)
	mux.HandleFunc("/api/psd/plot.png", s.psdPlotHandler)
	mux.HandleFunc("/api/config", s.showConfig)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	th := s.thresholds()
	cfg := map[string]interface{}{
		"thresholds":        th,
		"default_cutoff_mm": s.cfg.GetDefaultCutoffMM(),
		"version":           version.String(),
	}
	if err := json.NewEncoder(w).Encode(cfg); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write config")
		return
	}
}
