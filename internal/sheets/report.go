package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"paytrack/internal/aggregate"
)

const maxSheetName = 100

// SheetName returns "<prefix> <userID>", trimmed to the 100 characters
// Sheets allows for a tab title.
func SheetName(prefix, userID string) string {
	name := strings.TrimSpace(strings.TrimSpace(prefix) + " " + strings.TrimSpace(userID))
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	return name
}

// BuildReport lays out a summary as spreadsheet rows: a title block, one row
// per transaction, totals by category, then paycheck and remaining.
// Amounts are written as numbers so the sheet can sum them.
func BuildReport(sum aggregate.Summary) [][]any {
	rows := [][]any{
		{sum.Label},
		{"From", sum.Range.Start.String(), "To", sum.Range.End.String()},
		{},
		{"Date", "Category", "Amount", "Note"},
	}
	for _, tx := range sum.Transactions {
		rows = append(rows, []any{tx.Date.String(), string(tx.Category), number(tx.Amount.String()), tx.Note})
	}

	rows = append(rows, []any{}, []any{"Category", "Spent", "Limit", "Status"})
	limits := map[string]aggregate.LimitStatus{}
	for _, l := range sum.Limits {
		limits[string(l.Category)] = l
	}
	for _, e := range sum.Totals.Entries() {
		row := []any{string(e.Name), number(e.Amount.String())}
		if l, ok := limits[string(e.Name)]; ok && l.Level != aggregate.LevelNone {
			row = append(row, number(l.Limit.String()), fmt.Sprintf("%s (%.0f%%)", l.Level, l.Percent))
		}
		rows = append(rows, row)
	}

	rows = append(rows,
		[]any{},
		[]any{"Total", number(sum.Total.String())},
		[]any{"Paycheck", number(sum.Paycheck.String())},
		[]any{"Remaining", number(sum.Remaining.String())},
	)
	return rows
}

// number turns a decimal string into a float for the Sheets API, keeping the
// string when it does not parse.
func number(s string) any {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return f
}
