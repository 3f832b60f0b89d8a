// Package worker holds the long-running loops behind cmd/recurring-worker
// and cmd/sheets-worker.
package worker

import (
	"context"
	"log/slog"
	"time"

	"paytrack/internal/core"
	"paytrack/internal/services"
)

// Processor runs a recurring pass for every user.
type Processor interface {
	ProcessAll(ctx context.Context, today core.Date) ([]services.ProcessSummary, error)
}

// RecurringWorker runs the recurring pass once on start and then on every tick.
type RecurringWorker struct {
	processor Processor
	interval  time.Duration
	loc       *time.Location
	now       func() time.Time
}

func NewRecurringWorker(processor Processor, interval time.Duration, loc *time.Location) *RecurringWorker {
	if loc == nil {
		loc = time.UTC
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &RecurringWorker{processor: processor, interval: interval, loc: loc, now: time.Now}
}

// RunOnce processes every user for today in the configured zone and returns
// the number of transactions emitted.
func (w *RecurringWorker) RunOnce(ctx context.Context) (int, error) {
	today := core.Today(w.now(), w.loc)
	results, err := w.processor.ProcessAll(ctx, today)
	emitted, failed, skipped := 0, 0, 0
	for _, r := range results {
		emitted += r.Emitted
		failed += r.Failed
		if r.Skipped {
			skipped++
		}
	}
	slog.InfoContext(ctx, "Recurring pass complete",
		"today", today.String(),
		"users", len(results),
		"skipped", skipped,
		"transactions_created", emitted,
		"failures", failed)
	return emitted, err
}

// Run blocks until ctx is cancelled.
func (w *RecurringWorker) Run(ctx context.Context) {
	slog.InfoContext(ctx, "Running initial recurring processing...")
	if _, err := w.RunOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial processing failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic processing failed", "error", err)
			} else {
				slog.DebugContext(ctx, "Next recurring check", "at", w.now().Add(w.interval).Format("15:04:05"))
			}
		}
	}
}
