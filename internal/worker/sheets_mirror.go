package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paytrack/internal/aggregate"
	"paytrack/internal/amqp"
	"paytrack/internal/core"
	"paytrack/internal/sheets"
	"paytrack/internal/store"
)

// ReportSource builds the dashboard summary a mirror writes out.
type ReportSource interface {
	Summary(ctx context.Context, userID string, view core.View, date core.Date) (aggregate.Summary, error)
}

// SheetsMirror keeps one spreadsheet tab per user in step with the user's
// current pay period.
type SheetsMirror struct {
	source ReportSource
	writer sheets.ReportWriter
	users  store.UserLister
	prefix string
	loc    *time.Location
	now    func() time.Time
}

func NewSheetsMirror(source ReportSource, writer sheets.ReportWriter, users store.UserLister, prefix string, loc *time.Location) *SheetsMirror {
	if loc == nil {
		loc = time.UTC
	}
	return &SheetsMirror{
		source: source,
		writer: writer,
		users:  users,
		prefix: prefix,
		loc:    loc,
		now:    time.Now,
	}
}

// HandleChange rewrites the tab of the user a change message names.
func (m *SheetsMirror) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"user_id", msg.UserID,
		"collection", msg.Collection,
		"op", msg.Op)

	if err := m.MirrorUser(ctx, msg.UserID); err != nil {
		return fmt.Errorf("mirror user: %w", err)
	}
	return nil
}

// MirrorUser writes the pay-period report containing today for userID.
func (m *SheetsMirror) MirrorUser(ctx context.Context, userID string) error {
	today := core.Today(m.now(), m.loc)
	sum, err := m.source.Summary(ctx, userID, core.ViewBiweek, today)
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}

	sheet := sheets.SheetName(m.prefix, userID)
	if err := m.writer.WriteReport(ctx, sheet, sheets.BuildReport(sum)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored report",
		"user_id", userID,
		"sheet", sheet,
		"period", sum.Label,
		"transactions", len(sum.Transactions))
	return nil
}

// StartupSync mirrors every known user. It recovers from change messages
// missed while the worker was down; per-user failures are logged and skipped.
func (m *SheetsMirror) StartupSync(ctx context.Context) error {
	users, err := m.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users for startup sync: %w", err)
	}
	if len(users) == 0 {
		slog.InfoContext(ctx, "No users found on startup")
		return nil
	}

	successCount := 0
	errorCount := 0
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.MirrorUser(ctx, userID); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror user during startup",
				"user_id", userID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(users),
		"synced", successCount,
		"errors", errorCount)
	return nil
}
