// Package memory records reports in process, for local runs without a
// spreadsheet and for tests.
package memory

import (
	"context"
	"sync"

	ports "paytrack/internal/sheets"
)

type Recorder struct {
	mu      sync.Mutex
	reports map[string][][]any
	writes  int
}

var _ ports.ReportWriter = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{reports: map[string][][]any{}}
}

// WriteReport replaces the recorded rows of sheet.
func (r *Recorder) WriteReport(_ context.Context, sheet string, rows [][]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([][]any, len(rows))
	for i, row := range rows {
		cp[i] = append([]any(nil), row...)
	}
	r.reports[sheet] = cp
	r.writes++
	return nil
}

// Report returns the last rows written to sheet.
func (r *Recorder) Report(sheet string) ([][]any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows, ok := r.reports[sheet]
	return rows, ok
}

// Writes counts every WriteReport call.
func (r *Recorder) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
