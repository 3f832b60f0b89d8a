// Package recurrence advances recurring-rule run dates by cadence.
//
// Each cadence has its own Advancer strategy, looked up through a small
// registry so new cadences can be added without touching callers.
package recurrence

import (
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"paytrack/internal/core"
)

// Advancer computes the run date that follows from.
type Advancer interface {
	Next(from core.Date) core.Date
}

// BiweeklyAdvancer moves a date forward by 14 days.
type BiweeklyAdvancer struct{}

func (BiweeklyAdvancer) Next(from core.Date) core.Date {
	return from.AddDays(14)
}

// MonthlyAdvancer moves a date forward by one calendar month. When the target
// month is shorter, the day is clamped to its last day; the original day is
// not remembered, so Jan 31 -> Feb 28 -> Mar 28.
type MonthlyAdvancer struct{}

func (MonthlyAdvancer) Next(from core.Date) core.Date {
	year, month := from.Year, from.Month+1
	if month > time.December {
		year, month = year+1, time.January
	}
	day := from.Day
	if last := daysIn(year, month); day > last {
		day = last
	}
	return core.Date{Date: civil.Date{Year: year, Month: month, Day: day}}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var (
	mu         sync.RWMutex
	strategies = map[core.Cadence]Advancer{
		core.Biweekly: BiweeklyAdvancer{},
		core.Monthly:  MonthlyAdvancer{},
	}
)

// For returns the advancer registered for cadence.
func For(cadence core.Cadence) (Advancer, error) {
	mu.RLock()
	defer mu.RUnlock()
	a, ok := strategies[cadence]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidCadence, cadence)
	}
	return a, nil
}

// Register installs or replaces the advancer for cadence.
func Register(cadence core.Cadence, a Advancer) {
	mu.Lock()
	defer mu.Unlock()
	strategies[cadence] = a
}

// Advance returns the run date after date for the given cadence.
func Advance(date core.Date, cadence core.Cadence) (core.Date, error) {
	if !date.IsValid() {
		return core.Date{}, &core.CalendarError{Op: "advance", Input: date.Date.String(), Err: core.ErrInvalidDate}
	}
	a, err := For(cadence)
	if err != nil {
		return core.Date{}, err
	}
	return a.Next(date), nil
}
