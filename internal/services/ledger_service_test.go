package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paytrack/internal/core"
	"paytrack/internal/store"
	"paytrack/internal/store/memory"
	"paytrack/internal/store/mocks"
)

func newTestLedger(st store.Store, n Notifier) *LedgerService {
	s := NewLedgerService(st, n)
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return s
}

func TestLedgerService_AddTransaction(t *testing.T) {
	st := memory.New()
	n := &recordingNotifier{}
	s := newTestLedger(st, n)
	ctx := context.Background()

	tx, err := s.AddTransaction(ctx, "u1", core.Transaction{
		Date:     core.MustParseDate("2026-01-03"),
		Amount:   core.MustMoney("12.50"),
		Category: core.Food,
		Note:     "  lunch ",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", tx.ID)
	assert.Equal(t, "lunch", tx.Note)

	stored, err := st.GetTransaction(ctx, "u1", "id-1")
	require.NoError(t, err)
	assert.Equal(t, tx, stored)
	require.Len(t, n.changes, 1)
	assert.Equal(t, core.Change{UserID: "u1", Collection: core.CollectionTransactions, ID: "id-1", Op: core.OpUpsert}, n.changes[0])
}

func TestLedgerService_ValidationBlocksWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl) // any store call fails the test
	s := newTestLedger(st, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		tx    core.Transaction
		field string
	}{
		{"zero amount", core.Transaction{Date: core.MustParseDate("2026-01-03"), Amount: core.Zero, Category: core.Food}, "amount"},
		{"unknown category", core.Transaction{Date: core.MustParseDate("2026-01-03"), Amount: core.MustMoney("1"), Category: "Pets"}, "category"},
		{"missing date", core.Transaction{Amount: core.MustMoney("1"), Category: core.Food}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddTransaction(ctx, "u1", tt.tx)
			var ve *core.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	_, err := s.SaveRule(ctx, "u1", core.RecurringRule{Name: "Gym", Amount: core.MustMoney("30"), Category: core.Bills, Cadence: core.Monthly})
	assert.True(t, core.IsValidation(err), "rule without next run: %v", err)

	_, err = s.SetIncome(ctx, "u1", core.MustParseDate("2026-01-03"), core.MustMoney("-1"))
	assert.True(t, core.IsValidation(err))
}

func TestLedgerService_UpdateTransactionRequiresExisting(t *testing.T) {
	s := newTestLedger(memory.New(), nil)
	_, err := s.UpdateTransaction(context.Background(), "u1", core.Transaction{
		ID: "nope", Date: core.MustParseDate("2026-01-03"), Amount: core.MustMoney("1"), Category: core.Food,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLedgerService_DeleteTransaction(t *testing.T) {
	st := memory.New()
	n := &recordingNotifier{}
	s := newTestLedger(st, n)
	ctx := context.Background()

	tx, err := s.AddTransaction(ctx, "u1", core.Transaction{
		Date: core.MustParseDate("2026-01-03"), Amount: core.MustMoney("3"), Category: core.Drinks,
	})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTransaction(ctx, "u1", tx.ID))
	assert.ErrorIs(t, s.DeleteTransaction(ctx, "u1", tx.ID), store.ErrNotFound)
	assert.Equal(t, core.OpDelete, n.changes[len(n.changes)-1].Op)
}

func TestLedgerService_SaveAndDeleteRule(t *testing.T) {
	st := memory.New()
	s := newTestLedger(st, nil)
	ctx := context.Background()

	r, err := s.SaveRule(ctx, "u1", core.RecurringRule{
		Name: " Streaming ", Amount: core.MustMoney("9.99"), Category: core.Subscriptions,
		Cadence: core.Monthly, NextRun: core.MustParseDate("2026-01-31"),
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", r.ID)
	assert.Equal(t, "Streaming", r.Name)

	rules, err := st.ListRules(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, rules, 1)

	require.NoError(t, s.DeleteRule(ctx, "u1", r.ID))
	rules, err = st.ListRules(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestLedgerService_ImportTransactions(t *testing.T) {
	st := memory.New()
	s := newTestLedger(st, nil)
	ctx := context.Background()

	good := core.Transaction{Date: core.MustParseDate("2026-01-03"), Amount: core.MustMoney("2"), Category: core.Food}
	bad := core.Transaction{Date: core.MustParseDate("2026-01-04"), Amount: core.MustMoney("2"), Category: "Nope"}

	n, err := s.ImportTransactions(ctx, "u1", []core.Transaction{good, bad})
	require.Error(t, err)
	assert.Zero(t, n)
	txs, _ := st.ListTransactions(ctx, "u1")
	assert.Empty(t, txs, "a rejected import writes nothing")

	n, err = s.ImportTransactions(ctx, "u1", []core.Transaction{good, good})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	txs, _ = st.ListTransactions(ctx, "u1")
	assert.Len(t, txs, 2)
}

func TestLedgerService_SetIncomeUsesPeriodStart(t *testing.T) {
	st := memory.New()
	s := newTestLedger(st, nil)
	ctx := context.Background()

	start, err := s.SetIncome(ctx, "u1", core.MustParseDate("2026-01-10"), core.MustMoney("1500"))
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02", start.String())

	income, err := st.GetIncome(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, income[start].Equal(core.MustMoney("1500")))
}

func TestLedgerService_UpdateSettingsRekeysIncome(t *testing.T) {
	st := memory.New()
	n := &recordingNotifier{}
	s := newTestLedger(st, n)
	ctx := context.Background()

	require.NoError(t, st.ReplaceIncome(ctx, "u1", core.IncomeByPeriod{
		core.MustParseDate("2026-01-02"): core.MustMoney("100"),
		core.MustParseDate("2026-01-16"): core.MustMoney("200"),
	}))
	settings := core.DefaultSettings()
	settings.LastAutoGenerate = core.MustParseDate("2026-01-01")
	require.NoError(t, st.SaveSettings(ctx, "u1", settings))

	next := core.DefaultSettings()
	next.AnchorStart = core.MustParseDate("2026-01-09")
	next.DefaultPaycheck = core.MustMoney("1000")
	saved, err := s.UpdateSettings(ctx, "u1", next)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", saved.LastAutoGenerate.String(), "last auto generate is preserved")

	income, err := st.GetIncome(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, income, 2)
	assert.True(t, income[core.MustParseDate("2025-12-26")].Equal(core.MustMoney("100")))
	assert.True(t, income[core.MustParseDate("2026-01-09")].Equal(core.MustMoney("200")))
	assert.Contains(t, n.collections(), core.CollectionIncome)
}

type flakyIncomeStore struct {
	*memory.Store
	replaceErr error
}

func (f *flakyIncomeStore) ReplaceIncome(ctx context.Context, userID string, income core.IncomeByPeriod) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	return f.Store.ReplaceIncome(ctx, userID, income)
}

func TestLedgerService_UpdateSettingsRetryFinishesRekey(t *testing.T) {
	st := &flakyIncomeStore{Store: memory.New(), replaceErr: errors.New("boom")}
	s := newTestLedger(st, nil)
	ctx := context.Background()

	_, err := s.SetIncome(ctx, "u1", core.MustParseDate("2026-01-02"), core.MustMoney("1000"))
	require.NoError(t, err)

	next := core.DefaultSettings()
	next.AnchorStart = core.MustParseDate("2026-01-09")
	_, err = s.UpdateSettings(ctx, "u1", next)
	var se *core.StoreError
	require.ErrorAs(t, err, &se)

	st.replaceErr = nil
	_, err = s.UpdateSettings(ctx, "u1", next)
	require.NoError(t, err)

	income, err := st.GetIncome(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, income, 1)
	assert.True(t, income[core.MustParseDate("2025-12-26")].Equal(core.MustMoney("1000")))
}

func TestLedgerService_UpdateSettingsInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	s := newTestLedger(st, nil)

	bad := core.DefaultSettings()
	bad.LimitPeriod = "fortnight"
	_, err := s.UpdateSettings(context.Background(), "u1", bad)
	assert.ErrorIs(t, err, core.ErrInvalidLimitPeriod)
}

func TestLedgerService_StoreFailureIsWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	boom := errors.New("quota exceeded")
	st.EXPECT().UpsertTransaction(gomock.Any(), "u1", gomock.Any()).Return(boom)

	n := &recordingNotifier{}
	s := newTestLedger(st, n)
	_, err := s.AddTransaction(context.Background(), "u1", core.Transaction{
		Date: core.MustParseDate("2026-01-03"), Amount: core.MustMoney("1"), Category: core.Other,
	})
	var se *core.StoreError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, n.changes, "failed writes are not announced")
}

func TestRekeyIncome(t *testing.T) {
	anchor := core.MustParseDate("2026-01-09")
	income := core.IncomeByPeriod{
		core.MustParseDate("2026-01-09"): core.MustMoney("1"),
		core.MustParseDate("2026-01-16"): core.MustMoney("2"), // same new period, later key
	}
	out, moved := RekeyIncome(income, anchor)
	assert.Equal(t, 1, moved)
	require.Len(t, out, 1)
	assert.True(t, out[anchor].Equal(core.MustMoney("2")))
}
