// Package sheets mirrors each user's current pay-period report into a
// spreadsheet tab.
package sheets

import (
	"context"
)

// Ports for outbound adapters.
type (
	// ReportWriter replaces the content of a sheet with rows.
	ReportWriter interface {
		WriteReport(ctx context.Context, sheet string, rows [][]any) error
	}
)
