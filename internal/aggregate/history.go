package aggregate

import (
	"sort"

	"paytrack/internal/calendar"
	"paytrack/internal/core"
)

// HistoryReport groups all spending by pay period, month and year.
type HistoryReport struct {
	Periods []core.BucketTotal `json:"periods"`
	Months  []core.BucketTotal `json:"months"`
	Years   []core.BucketTotal `json:"years"`
}

// History buckets txs by period, month and year, newest first. Transactions
// with an invalid date are skipped.
func History(txs []core.Transaction, anchor core.Date) (HistoryReport, error) {
	periods := map[string]*core.BucketTotal{}
	months := map[string]*core.BucketTotal{}
	years := map[string]*core.BucketTotal{}

	for _, tx := range txs {
		if !tx.Date.IsValid() {
			continue
		}
		start, err := calendar.PeriodStart(tx.Date, anchor)
		if err != nil {
			return HistoryReport{}, err
		}
		p := bucket(periods, start.String())
		if p.Count == 0 {
			p.Start, p.End = start, calendar.PeriodEnd(start)
			p.Label, _ = calendar.PeriodLabel(start, anchor)
		}
		p.Spent = p.Spent.Add(tx.Amount)
		p.Count++

		m := bucket(months, calendar.MonthKey(tx.Date))
		m.Spent = m.Spent.Add(tx.Amount)
		m.Count++

		y := bucket(years, calendar.YearKey(tx.Date))
		y.Spent = y.Spent.Add(tx.Amount)
		y.Count++
	}

	return HistoryReport{
		Periods: newestFirst(periods),
		Months:  newestFirst(months),
		Years:   newestFirst(years),
	}, nil
}

func bucket(m map[string]*core.BucketTotal, key string) *core.BucketTotal {
	b, ok := m[key]
	if !ok {
		b = &core.BucketTotal{Key: key, Spent: core.Zero}
		m[key] = b
	}
	return b
}

// Keys are ISO dates, YYYY-MM or YYYY, so string order is chronological.
func newestFirst(m map[string]*core.BucketTotal) []core.BucketTotal {
	out := make([]core.BucketTotal, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out
}
