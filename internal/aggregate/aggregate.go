// Package aggregate filters transactions by view and computes the totals,
// category breakdowns, limit statuses and history buckets shown to the user.
//
// All functions are pure; money is summed in decimal so totals are exact.
package aggregate

import (
	"fmt"
	"strings"

	"paytrack/internal/calendar"
	"paytrack/internal/core"
)

// Totals is a per-category sum that remembers insertion order. Canonical
// categories always come first, in canonical order; unknown categories follow
// in the order they were first seen.
type Totals struct {
	order   []core.Category
	amounts map[core.Category]core.Money
}

// NewTotals returns totals with every canonical category initialised to zero.
func NewTotals() Totals {
	t := Totals{amounts: make(map[core.Category]core.Money, len(core.Categories))}
	for _, c := range core.Categories {
		t.order = append(t.order, c)
		t.amounts[c] = core.Zero
	}
	return t
}

// Add accumulates amount under category.
func (t *Totals) Add(category core.Category, amount core.Money) {
	if t.amounts == nil {
		*t = NewTotals()
	}
	prev, ok := t.amounts[category]
	if !ok {
		t.order = append(t.order, category)
		prev = core.Zero
	}
	t.amounts[category] = prev.Add(amount)
}

// Get returns the total for category, zero when absent.
func (t Totals) Get(category core.Category) core.Money {
	if m, ok := t.amounts[category]; ok {
		return m
	}
	return core.Zero
}

// Categories returns the categories in iteration order.
func (t Totals) Categories() []core.Category {
	return append([]core.Category(nil), t.order...)
}

// Entries returns every category with its amount, zeros included.
func (t Totals) Entries() []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(t.order))
	for _, c := range t.order {
		out = append(out, core.CategoryAmount{Name: c, Amount: t.amounts[c]})
	}
	return out
}

// Filter returns the transactions visible in view.
//
// biweek keeps dates inside [periodStart, periodEnd]; month and year keep
// dates sharing the selected date's month or year key. Transactions with an
// invalid date are never included.
func Filter(txs []core.Transaction, view core.View, selected, periodStart, periodEnd core.Date) ([]core.Transaction, error) {
	var keep func(core.Date) bool
	switch view {
	case core.ViewBiweek:
		if !periodStart.IsValid() || !periodEnd.IsValid() {
			return []core.Transaction{}, nil
		}
		w := calendar.Window{Start: periodStart, End: periodEnd}
		keep = w.Contains
	case core.ViewMonth:
		key := calendar.MonthKey(selected)
		keep = func(d core.Date) bool { return key != "" && calendar.MonthKey(d) == key }
	case core.ViewYear:
		key := calendar.YearKey(selected)
		keep = func(d core.Date) bool { return key != "" && calendar.YearKey(d) == key }
	default:
		return nil, &core.ValidationError{Field: "view", Err: fmt.Errorf("%w: %q", core.ErrInvalidView, view)}
	}

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Date.IsValid() && keep(tx.Date) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// TotalsByCategory sums amounts per category. A blank category counts as Other.
func TotalsByCategory(txs []core.Transaction) Totals {
	t := NewTotals()
	for _, tx := range txs {
		category := tx.Category
		if strings.TrimSpace(string(category)) == "" {
			category = core.Other
		}
		t.Add(category, tx.Amount)
	}
	return t
}

// TotalSpent sums every amount.
func TotalSpent(txs []core.Transaction) core.Money {
	sum := core.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}
	return sum
}

// PieData keeps strictly positive totals, canonical categories first.
func PieData(t Totals) []core.CategoryAmount {
	out := []core.CategoryAmount{}
	for _, c := range t.order {
		if m := t.amounts[c]; m.IsPositive() {
			out = append(out, core.CategoryAmount{Name: c, Amount: m})
		}
	}
	return out
}
