package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"paytrack/internal/aggregate"
	"paytrack/internal/calendar"
	"paytrack/internal/core"
	"paytrack/internal/export"
	"paytrack/internal/live"
)

const (
	pastPeriodOptions   = 60
	futurePeriodOptions = 59
)

// DashboardService answers read-side questions from a user's snapshot.
type DashboardService struct {
	loader *live.Loader
	now    func() time.Time
}

func NewDashboardService(loader *live.Loader) *DashboardService {
	return &DashboardService{loader: loader, now: time.Now}
}

// Snapshot returns the user's raw data as last loaded.
func (s *DashboardService) Snapshot(ctx context.Context, userID string) (live.Snapshot, error) {
	return s.loader.Load(ctx, userID)
}

// Summary aggregates the user's data for view around date.
func (s *DashboardService) Summary(ctx context.Context, userID string, view core.View, date core.Date) (aggregate.Summary, error) {
	snap, err := s.loader.Load(ctx, userID)
	if err != nil {
		return aggregate.Summary{}, err
	}
	return aggregate.Summarize(aggregate.SummaryInput{
		Transactions: snap.Transactions,
		Settings:     snap.Settings,
		Income:       snap.Income,
		View:         view,
		Selected:     date,
	})
}

// Periods lists the pay periods around date for a period picker.
func (s *DashboardService) Periods(ctx context.Context, userID string, date core.Date) ([]calendar.Option, error) {
	snap, err := s.loader.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return calendar.PeriodOptions(date, calendar.ResolveAnchor(snap.Settings), pastPeriodOptions, futurePeriodOptions)
}

func (s *DashboardService) History(ctx context.Context, userID string) (aggregate.HistoryReport, error) {
	snap, err := s.loader.Load(ctx, userID)
	if err != nil {
		return aggregate.HistoryReport{}, err
	}
	return aggregate.History(snap.Transactions, calendar.ResolveAnchor(snap.Settings))
}

// ExportCSV writes the transactions of the selected view as a CSV report.
func (s *DashboardService) ExportCSV(ctx context.Context, w io.Writer, userID string, view core.View, date core.Date) error {
	sum, err := s.Summary(ctx, userID, view, date)
	if err != nil {
		return err
	}
	meta := export.Meta{
		Title:       "Spending report",
		Range:       fmt.Sprintf("%s (%s to %s)", sum.Label, sum.Range.Start, sum.Range.End),
		GeneratedAt: s.now(),
	}
	return export.WriteTransactionsCSV(w, sum.Transactions, meta)
}
