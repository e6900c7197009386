// Package history keeps the session's append-only QC log. The engine
// itself never touches the log; the service layer appends snapshots of
// engine output on explicit commit. Entries are never mutated, never
// deduplicated, and live only in memory.
package history

import (
	"sync"
	"time"
)

// Record is one committed QC snapshot.
type Record struct {
	Timestamp     time.Time `json:"timestamp"`
	FinesCutoffMM float64   `json:"fines_cutoff_mm"`
	FinesPct      float64   `json:"fines_pct"`
	MBV           float64   `json:"mbv_mg_g"`
	SE            int       `json:"se"`
	Compatibility string    `json:"compatibility"`
}

// Log is an append-only sequence of Records. Safe for concurrent use so
// a serving context can share one per session.
type Log struct {
	mu      sync.Mutex
	records []Record
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds r to the end of the log. Past entries are never revisited.
func (l *Log) Append(r Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

// Records returns a copy of the log in commit order.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of committed records.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
