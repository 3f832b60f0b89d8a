package calendar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paytrack/internal/core"
)

var anchor = core.NewDate(2026, 1, 2)

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		name  string
		date  core.Date
		start core.Date
		end   core.Date
	}{
		{"anchor day", anchor, anchor, core.NewDate(2026, 1, 15)},
		{"last day of first period", core.NewDate(2026, 1, 15), anchor, core.NewDate(2026, 1, 15)},
		{"second period", core.NewDate(2026, 1, 20), core.NewDate(2026, 1, 16), core.NewDate(2026, 1, 29)},
		{"day before anchor", core.NewDate(2026, 1, 1), core.NewDate(2025, 12, 19), core.NewDate(2026, 1, 1)},
		{"far past", core.NewDate(2025, 12, 18), core.NewDate(2025, 12, 5), core.NewDate(2025, 12, 18)},
		{"year end", core.NewDate(2026, 12, 31), core.NewDate(2026, 12, 18), core.NewDate(2026, 12, 31)},
		{"rolls into next year", core.NewDate(2027, 1, 1), core.NewDate(2027, 1, 1), core.NewDate(2027, 1, 14)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := PeriodStart(tt.date, anchor)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, PeriodEnd(start))
		})
	}
}

func TestPeriodIndexUsesFloorDivision(t *testing.T) {
	idx, err := PeriodIndex(core.NewDate(2026, 1, 1), anchor)
	require.NoError(t, err)
	assert.Equal(t, -1, idx)

	idx, err = PeriodIndex(core.NewDate(2025, 12, 19), anchor)
	require.NoError(t, err)
	assert.Equal(t, -1, idx)

	idx, err = PeriodIndex(core.NewDate(2025, 12, 18), anchor)
	require.NoError(t, err)
	assert.Equal(t, -2, idx)
}

func TestPeriodStartProperties(t *testing.T) {
	anchors := []core.Date{anchor, core.NewDate(2024, 2, 29), core.NewDate(2025, 3, 30)}
	for _, a := range anchors {
		d := a.AddDays(-400)
		for i := 0; i < 800; i++ {
			start, err := PeriodStart(d, a)
			require.NoError(t, err)

			assert.False(t, start.After(d), "start %s after date %s", start, d)
			assert.Less(t, d.DaysSince(start), PeriodLength)
			assert.Zero(t, floorMod(start.DaysSince(a), PeriodLength))

			again, _ := PeriodStart(start, a)
			assert.Equal(t, start, again, "period start must be idempotent")

			d = d.AddDays(1)
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	label, err := PeriodLabel(anchor, anchor)
	require.NoError(t, err)
	assert.Equal(t, "Period 1 (2026-01-02 → 2026-01-15)", label)

	label, err = PeriodLabel(core.NewDate(2026, 1, 16), anchor)
	require.NoError(t, err)
	assert.Equal(t, "Period 2 (2026-01-16 → 2026-01-29)", label)

	label, err = PeriodLabel(core.NewDate(2025, 12, 19), anchor)
	require.NoError(t, err)
	assert.Equal(t, "Period -1 (2025-12-19 → 2026-01-01)", label)
}

func TestKeys(t *testing.T) {
	d := core.NewDate(2026, 3, 7)
	assert.Equal(t, "2026-03", MonthKey(d))
	assert.Equal(t, "2026", YearKey(d))
	assert.Empty(t, MonthKey(core.Date{}))
	assert.Empty(t, YearKey(core.NewDate(2026, 2, 30)))
}

func TestAddDays(t *testing.T) {
	got, err := AddDays(core.NewDate(2025, 12, 25), 14)
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2026, 1, 8), got)

	got, err = AddDays(core.NewDate(2024, 3, 1), -1)
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2024, 2, 29), got)

	_, err = AddDays(core.Date{}, 1)
	assert.True(t, errors.Is(err, core.ErrInvalidDate))
}

func TestInvalidInputs(t *testing.T) {
	_, err := PeriodStart(core.NewDate(2026, 2, 30), anchor)
	var ce *core.CalendarError
	require.ErrorAs(t, err, &ce)

	_, err = PeriodStart(anchor, core.Date{})
	assert.ErrorIs(t, err, core.ErrInvalidDate)
}

func TestResolveAnchor(t *testing.T) {
	s := core.DefaultSettings()
	s.AnchorStart = core.NewDate(2025, 6, 6)
	assert.Equal(t, core.NewDate(2025, 6, 6), ResolveAnchor(s))

	s.AnchorStart = core.Date{}
	assert.Equal(t, core.DefaultAnchor, ResolveAnchor(s))
}

func TestWindowFor(t *testing.T) {
	w, err := WindowFor(core.NewDate(2026, 1, 20), anchor)
	require.NoError(t, err)
	assert.True(t, w.Contains(core.NewDate(2026, 1, 16)))
	assert.True(t, w.Contains(core.NewDate(2026, 1, 29)))
	assert.False(t, w.Contains(core.NewDate(2026, 1, 30)))
	assert.False(t, w.Contains(core.Date{}))
}

func TestPeriodOptions(t *testing.T) {
	opts, err := PeriodOptions(core.NewDate(2026, 1, 20), anchor, 2, 1)
	require.NoError(t, err)

	want := []struct {
		index int
		start core.Date
		end   core.Date
		label string
	}{
		{-1, core.NewDate(2025, 12, 19), core.NewDate(2026, 1, 1), "Period -1 (2025-12-19 → 2026-01-01)"},
		{0, core.NewDate(2026, 1, 2), core.NewDate(2026, 1, 15), "Period 1 (2026-01-02 → 2026-01-15)"},
		{1, core.NewDate(2026, 1, 16), core.NewDate(2026, 1, 29), "Period 2 (2026-01-16 → 2026-01-29)"},
		{2, core.NewDate(2026, 1, 30), core.NewDate(2026, 2, 12), "Period 3 (2026-01-30 → 2026-02-12)"},
	}
	require.Len(t, opts, len(want))
	for i, w := range want {
		assert.Equal(t, w.index, opts[i].Index, "index %d", i)
		assert.Equal(t, w.start, opts[i].Start, "start %d", i)
		assert.Equal(t, w.end, opts[i].End, "end %d", i)
		assert.Equal(t, w.label, opts[i].Label, "label %d", i)
	}

	_, err = PeriodOptions(anchor, anchor, -1, 0)
	assert.Error(t, err)

	// the current period sits after exactly past entries
	current := core.NewDate(2026, 3, 1)
	opts, err = PeriodOptions(current, anchor, 60, 59)
	require.NoError(t, err)
	require.Len(t, opts, 120)
	assert.True(t, opts[60].Contains(current))
	assert.Equal(t, "Period 5 (2026-02-27 → 2026-03-12)", opts[60].Label)
	for i := 1; i < len(opts); i++ {
		assert.Equal(t, opts[i-1].Index+1, opts[i].Index)
		assert.Equal(t, opts[i-1].End.AddDays(1), opts[i].Start)
	}
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
