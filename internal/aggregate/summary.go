package aggregate

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"paytrack/internal/calendar"
	"paytrack/internal/core"
	"paytrack/internal/recurrence"
)

// LimitLevel classifies spending against a category limit.
type LimitLevel string

const (
	LevelNone    LimitLevel = "none"
	LevelOK      LimitLevel = "ok"
	LevelWarning LimitLevel = "warning"
	LevelOver    LimitLevel = "over"
)

// warningRatio is the share of a limit at which a category turns to warning.
var warningRatio = decimal.NewFromFloat(0.8)

// LimitStatus is the state of one category against its limit.
type LimitStatus struct {
	Category core.Category `json:"category"`
	Used     core.Money    `json:"used"`
	Limit    core.Money    `json:"limit"`
	Percent  float64       `json:"percent"`
	Level    LimitLevel    `json:"level"`
}

// SummaryInput is everything Summarize needs for one user.
type SummaryInput struct {
	Transactions []core.Transaction
	Settings     core.Settings
	Income       core.IncomeByPeriod
	View         core.View
	Selected     core.Date
}

// Summary is the dashboard for a view and selected date.
type Summary struct {
	View         core.View             `json:"view"`
	Selected     core.Date             `json:"selected"`
	Anchor       core.Date             `json:"anchor"`
	Period       calendar.Window       `json:"period"`
	Range        calendar.Window       `json:"range"`
	Label        string                `json:"label"`
	Transactions []core.Transaction    `json:"transactions"`
	Totals       Totals                `json:"totals"`
	Total        core.Money            `json:"total"`
	Pie          []core.CategoryAmount `json:"pie"`
	Paycheck     core.Money            `json:"paycheck"`
	Remaining    core.Money            `json:"remaining"`
	Limits       []LimitStatus         `json:"limits"`
}

// MarshalJSON writes totals as an ordered list of {name, value}.
func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Entries())
}

// Summarize builds the dashboard summary.
//
// The paycheck is the income override for the pay period containing the
// selected date, or the default paycheck. Remaining never goes below zero.
// Limits are evaluated over Settings.LimitPeriod, independent of the view.
func Summarize(in SummaryInput) (Summary, error) {
	if !in.Selected.IsValid() {
		return Summary{}, &core.CalendarError{Op: "summarize", Input: in.Selected.Date.String(), Err: core.ErrInvalidDate}
	}
	anchor := calendar.ResolveAnchor(in.Settings)
	period, err := calendar.WindowFor(in.Selected, anchor)
	if err != nil {
		return Summary{}, err
	}

	rng, label, err := viewRange(in.View, in.Selected, period, anchor)
	if err != nil {
		return Summary{}, err
	}

	filtered, err := Filter(in.Transactions, in.View, in.Selected, period.Start, period.End)
	if err != nil {
		return Summary{}, err
	}
	totals := TotalsByCategory(filtered)
	spent := TotalSpent(filtered)

	paycheck := in.Income.Paycheck(period.Start, in.Settings.DefaultPaycheck)
	remaining := paycheck.Sub(spent)
	if remaining.IsNegative() {
		remaining = core.Zero
	}

	limitView := core.ViewMonth
	if in.Settings.LimitPeriod == core.LimitBiweek {
		limitView = core.ViewBiweek
	}
	limitTxs, err := Filter(in.Transactions, limitView, in.Selected, period.Start, period.End)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		View:         in.View,
		Selected:     in.Selected,
		Anchor:       anchor,
		Period:       period,
		Range:        rng,
		Label:        label,
		Transactions: filtered,
		Totals:       totals,
		Total:        spent,
		Pie:          PieData(totals),
		Paycheck:     paycheck,
		Remaining:    remaining,
		Limits:       LimitStatuses(TotalsByCategory(limitTxs), in.Settings.CategoryLimits),
	}, nil
}

func viewRange(view core.View, selected core.Date, period calendar.Window, anchor core.Date) (calendar.Window, string, error) {
	switch view {
	case core.ViewBiweek:
		label, err := calendar.PeriodLabel(period.Start, anchor)
		return period, label, err
	case core.ViewMonth:
		first := core.NewDate(selected.Year, int(selected.Month), 1)
		last := recurrence.MonthlyAdvancer{}.Next(first).AddDays(-1)
		return calendar.Window{Start: first, End: last}, calendar.MonthKey(selected), nil
	case core.ViewYear:
		return calendar.Window{
			Start: core.NewDate(selected.Year, 1, 1),
			End:   core.NewDate(selected.Year, 12, 31),
		}, calendar.YearKey(selected), nil
	default:
		return calendar.Window{}, "", &core.ValidationError{Field: "view", Err: fmt.Errorf("%w: %q", core.ErrInvalidView, view)}
	}
}

// LimitStatuses reports every canonical category against its limit.
// Categories without a positive limit get LevelNone.
func LimitStatuses(t Totals, limits map[core.Category]core.Money) []LimitStatus {
	out := make([]LimitStatus, 0, len(core.Categories))
	hundred := decimal.NewFromInt(100)
	for _, c := range core.Categories {
		used := t.Get(c)
		limit, ok := limits[c]
		if !ok {
			limit = core.Zero
		}
		s := LimitStatus{Category: c, Used: used, Limit: limit, Level: LevelNone}
		if limit.IsPositive() {
			pct := used.Div(limit.Decimal).Mul(hundred)
			if pct.GreaterThan(hundred) {
				pct = hundred
			}
			s.Percent = pct.Round(2).InexactFloat64()
			switch {
			case used.GreaterThan(limit.Decimal):
				s.Level = LevelOver
			case used.GreaterThanOrEqual(limit.Mul(warningRatio)):
				s.Level = LevelWarning
			default:
				s.Level = LevelOK
			}
		}
		out = append(out, s)
	}
	return out
}
