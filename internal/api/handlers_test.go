package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graindata/sandqc.report/internal/config"
	"github.com/graindata/sandqc.report/internal/history"
	"github.com/graindata/sandqc.report/internal/psd"
	"github.com/graindata/sandqc.report/internal/timeutil"
)

func newTestServer() *Server {
	return NewServer(config.EmptyQCConfig(), history.NewLog())
}

func postJSON(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(w, req)
	return w
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(w, req)
	return w
}

func TestAnalyzeHandler(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, "/api/analyze", map[string]interface{}{
		"psd_text": psd.DefaultText,
		"mbv_mg_g": 6.5,
		"se":       65,
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Cutoff omitted: configured default 0.063 mm applies, which is a
	// tabulated sieve in the default curve.
	assert.Equal(t, 0.063, resp.CutoffMM)
	assert.Equal(t, 13.7, resp.FinesPct)
	assert.Equal(t, "13.7%", resp.FinesDisplay)
	assert.Equal(t, "unsuitable", resp.Tier)
	assert.Equal(t, "Not suitable for tile/self-leveling", resp.Label)
	assert.Contains(t, resp.Guidance, "Moderate fines")
	assert.Contains(t, resp.ReportMD, "# Sand QC Summary")
	assert.NotEmpty(t, resp.RunID)
	assert.Len(t, resp.PSD, 23)
}

func TestAnalyzeHandlerCSVInput(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, "/api/analyze", map[string]interface{}{
		"psd_csv":         "sieve_mm,passing_pct\n2,40\n1,20\n0.5,12\n0.063,6\n",
		"mbv_mg_g":        1.5,
		"se":              82,
		"fines_cutoff_mm": 0.063,
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 6.0, resp.FinesPct)
	assert.Equal(t, "safe", resp.Tier)
}

func TestAnalyzeHandlerErrors(t *testing.T) {
	s := newTestServer()

	t.Run("unusable psd is 422", func(t *testing.T) {
		w := postJSON(t, s, "/api/analyze", map[string]interface{}{
			"psd_text": "no data here",
			"mbv_mg_g": 2.0,
			"se":       80,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "fewer than 2 usable")
	})

	t.Run("non-standard cutoff is 400", func(t *testing.T) {
		w := postJSON(t, s, "/api/analyze", map[string]interface{}{
			"psd_text":        psd.DefaultText,
			"mbv_mg_g":        2.0,
			"se":              80,
			"fines_cutoff_mm": 0.2,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong method is 405", func(t *testing.T) {
		w := get(s, "/api/analyze")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("garbage body is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{"))
		w := httptest.NewRecorder()
		s.ServeMux().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMassBalanceHandler(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, "/api/massbalance", map[string]interface{}{
		"feed_fines_pct":         13.7,
		"reject_rate_pct":        0,
		"reject_fines_grade_pct": 85,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 13.7, resp["product_fines_pct"].(float64), 1e-9)
	assert.Equal(t, "13.7%", resp["product_fines_display"])
}

func commitBody() map[string]interface{} {
	return map[string]interface{}{
		"psd_text": psd.DefaultText,
		"mbv_mg_g": 6.5,
		"se":       65,
	}
}

func TestHistoryCommitListExport(t *testing.T) {
	s := newTestServer()
	s.clock = timeutil.NewFakeClock(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))

	// Empty log lists as an empty array.
	w := get(s, "/api/history")
	require.Equal(t, http.StatusOK, w.Code)
	var records []history.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Empty(t, records)

	// Commit twice; the log keeps both (no dedup).
	for i := 0; i < 2; i++ {
		w = postJSON(t, s, "/api/history", commitBody())
		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	}

	w = get(s, "/api/history")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, 13.7, records[0].FinesPct)
	assert.Equal(t, "Not suitable for tile/self-leveling", records[0].Compatibility)

	// CSV export carries the fixed header and one row per commit.
	w = get(s, "/api/history/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "qc_history.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,fines_cutoff_mm,fines_pct,MBV_mg_g,SE,compatibility", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2026-08-31T09:00:00,"), "line: %s", lines[1])
	assert.Contains(t, lines[1], ",0.063,13.70,6.50,65,")
}

func TestHistorySummaryHandler(t *testing.T) {
	s := newTestServer()
	postJSON(t, s, "/api/history", commitBody())

	w := get(s, "/api/history/summary")
	require.Equal(t, http.StatusOK, w.Code)

	var sum history.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, 1, sum.Count)
	assert.InDelta(t, 13.7, sum.MeanFinesPct, 1e-9)
}

func TestReportHTMLHandler(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, "/api/report/html", commitBody())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<h1>Sand QC Summary</h1>")
	assert.Contains(t, w.Body.String(), "<table>")
}

func TestPSDChartAndPlotHandlers(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, "/api/psd/chart", commitBody())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "echarts")

	w = postJSON(t, s, "/api/psd/plot.png", commitBody())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func TestShowConfig(t *testing.T) {
	s := newTestServer()

	w := get(s, "/api/config")
	require.Equal(t, http.StatusOK, w.Code)

	var cfg struct {
		DefaultCutoffMM float64 `json:"default_cutoff_mm"`
		Thresholds      struct {
			SafeMaxMBV float64
		} `json:"thresholds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, 0.063, cfg.DefaultCutoffMM)
	assert.Equal(t, 2.5, cfg.Thresholds.SafeMaxMBV)
}

func TestCustomThresholdsChangeClassification(t *testing.T) {
	cfg := config.EmptyQCConfig()
	relaxedMBV := 8.0
	cfg.UnsuitableMinMBV = &relaxedMBV
	safeMBV := 7.0
	cfg.SafeMaxMBV = &safeMBV
	relaxedSE := 60
	cfg.UnsuitableMaxSE = &relaxedSE
	require.NoError(t, cfg.Validate())

	s := NewServer(cfg, history.NewLog())
	w := postJSON(t, s, "/api/analyze", commitBody())
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// MBV 6.5 no longer breaches the relaxed gate, but fines 13.7 still
	// misses the Safe ceiling.
	assert.Equal(t, "restricted", resp.Tier)
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	s := newTestServer()
	h := LoggingMiddleware(s.ServeMux())

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
