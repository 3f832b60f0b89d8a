package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paytrack/internal/core"
	"paytrack/internal/store/memory"
)

func newTestApp() (*app, *memory.Store, *bytes.Buffer) {
	st := memory.New()
	out := &bytes.Buffer{}
	return &app{
		store:  st,
		loc:    time.UTC,
		now:    func() time.Time { return time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC) },
		stdout: out,
	}, st, out
}

func TestPeriod(t *testing.T) {
	a, st, out := newTestApp()
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"period"}))
	assert.Equal(t, "Period 1 (2026-01-02 → 2026-01-15)\n", out.String())

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"period", "-date", "2025-12-31"}))
	assert.Equal(t, "Period -1 (2025-12-19 → 2026-01-01)\n", out.String())

	s := core.DefaultSettings()
	s.AnchorStart = core.NewDate(2026, 1, 9)
	require.NoError(t, st.SaveSettings(ctx, "u1", s))
	out.Reset()
	require.NoError(t, a.run(ctx, []string{"period", "-user", "u1", "-date", "2026-01-10"}))
	assert.Equal(t, "Period 1 (2026-01-09 → 2026-01-22)\n", out.String())

	assert.Error(t, a.run(ctx, []string{"period", "-date", "tomorrow"}))
}

func TestExportThenImport(t *testing.T) {
	a, st, out := newTestApp()
	ctx := context.Background()
	require.NoError(t, st.UpsertTransaction(ctx, "u1", core.Transaction{
		ID: "a", Date: core.NewDate(2026, 1, 3), Amount: core.MustMoney("12.50"), Category: core.Food, Note: "lunch, late",
	}))

	require.NoError(t, a.run(ctx, []string{"export", "-user", "u1", "-view", "month", "-date", "2026-01-20"}))
	csv := out.String()
	assert.True(t, strings.HasPrefix(csv, "# Spending report\n"), csv)
	assert.Contains(t, csv, `2026-01-03,Food,12.5,"lunch, late"`)

	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"import", "-user", "u2", "-file", path}))
	assert.Equal(t, "imported 1 transactions for u2\n", out.String())

	txs, err := st.ListTransactions(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "lunch, late", txs[0].Note)
	assert.NotEmpty(t, txs[0].ID)
}

func TestExportToFile(t *testing.T) {
	a, _, out := newTestApp()
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, a.run(context.Background(), []string{"export", "-user", "u1", "-o", path}))
	assert.Empty(t, out.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "total,,0")
}

func TestRunErrors(t *testing.T) {
	a, _, _ := newTestApp()
	ctx := context.Background()

	assert.Error(t, a.run(ctx, nil))
	assert.Error(t, a.run(ctx, []string{"frobnicate"}))
	assert.Error(t, a.run(ctx, []string{"export"}))
	assert.Error(t, a.run(ctx, []string{"export", "-user", "u1", "-view", "week"}))
	assert.Error(t, a.run(ctx, []string{"import", "-user", "u1"}))
	assert.Error(t, a.run(ctx, []string{"import", "-user", "u1", "-file", "/does/not/exist.csv"}))
}
