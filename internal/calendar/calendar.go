// Package calendar maps calendar dates onto 14-day pay periods anchored at a
// user-chosen reference date.
//
// Day offsets are computed with civil.Date.DaysSince, which counts whole UTC
// days, so results never drift with daylight-saving or the host time zone.
// Period indexes use floor division: the day before the anchor belongs to
// period index -1, not 0.
package calendar

import (
	"fmt"

	"paytrack/internal/core"
)

// PeriodLength is the number of days in a pay period.
const PeriodLength = 14

// Window is an inclusive date range.
type Window struct {
	Start core.Date `json:"start"`
	End   core.Date `json:"end"`
}

// Contains reports whether d falls inside the window, bounds included.
func (w Window) Contains(d core.Date) bool {
	return d.IsValid() && !d.Before(w.Start) && !d.After(w.End)
}

// Option is a selectable pay period.
type Option struct {
	Window
	Index int    `json:"index"`
	Label string `json:"label"`
}

// PeriodIndex returns floor((date - anchor) / 14).
func PeriodIndex(date, anchor core.Date) (int, error) {
	if !anchor.IsValid() {
		return 0, &core.CalendarError{Op: "period index", Input: anchor.Date.String(), Err: core.ErrInvalidDate}
	}
	if !date.IsValid() {
		return 0, &core.CalendarError{Op: "period index", Input: date.Date.String(), Err: core.ErrInvalidDate}
	}
	return floorDiv(date.DaysSince(anchor), PeriodLength), nil
}

// PeriodStart returns the first day of the period containing date.
func PeriodStart(date, anchor core.Date) (core.Date, error) {
	idx, err := PeriodIndex(date, anchor)
	if err != nil {
		return core.Date{}, err
	}
	return anchor.AddDays(idx * PeriodLength), nil
}

// PeriodEnd returns the last day (inclusive) of the period starting at start.
func PeriodEnd(start core.Date) core.Date {
	return start.AddDays(PeriodLength - 1)
}

// WindowFor returns the period window containing date.
func WindowFor(date, anchor core.Date) (Window, error) {
	start, err := PeriodStart(date, anchor)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: PeriodEnd(start)}, nil
}

// PeriodLabel renders "Period N (start → end)". Periods on or after the anchor
// are numbered from 1; earlier ones keep their negative index, so there is no
// period 0.
func PeriodLabel(start, anchor core.Date) (string, error) {
	idx, err := PeriodIndex(start, anchor)
	if err != nil {
		return "", err
	}
	num := idx
	if idx >= 0 {
		num = idx + 1
	}
	return fmt.Sprintf("Period %d (%s → %s)", num, start, PeriodEnd(start)), nil
}

// MonthKey returns YYYY-MM, or "" for an invalid date.
func MonthKey(d core.Date) string {
	if !d.IsValid() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// YearKey returns YYYY, or "" for an invalid date.
func YearKey(d core.Date) string {
	if !d.IsValid() {
		return ""
	}
	return fmt.Sprintf("%04d", d.Year)
}

// AddDays adds n calendar days, rolling over months and years.
func AddDays(d core.Date, n int) (core.Date, error) {
	if !d.IsValid() {
		return core.Date{}, &core.CalendarError{Op: "add days", Input: d.Date.String(), Err: core.ErrInvalidDate}
	}
	return d.AddDays(n), nil
}

// ResolveAnchor returns the configured anchor, or core.DefaultAnchor when the
// configured one is missing or invalid.
func ResolveAnchor(s core.Settings) core.Date {
	if s.AnchorStart.IsValid() {
		return s.AnchorStart
	}
	return core.DefaultAnchor
}

// PeriodOptions lists past periods before and future periods after the one
// containing current, oldest first.
func PeriodOptions(current, anchor core.Date, past, future int) ([]Option, error) {
	if past < 0 || future < 0 {
		return nil, fmt.Errorf("period options: negative range (%d, %d)", past, future)
	}
	start, err := PeriodStart(current, anchor)
	if err != nil {
		return nil, err
	}
	base, _ := PeriodIndex(start, anchor)

	out := make([]Option, 0, past+future+1)
	for offset := -past; offset <= future; offset++ {
		s := start.AddDays(offset * PeriodLength)
		label, _ := PeriodLabel(s, anchor)
		out = append(out, Option{
			Window: Window{Start: s, End: PeriodEnd(s)},
			Index:  base + offset,
			Label:  label,
		})
	}
	return out, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
