package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"paytrack/internal/core"
	"paytrack/internal/store"
)

func TestTransactionsUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	tx := core.Transaction{ID: "t1", Date: core.NewDate(2026, 1, 2), Amount: core.MustMoney("5"), Category: core.Food}
	if err := s.UpsertTransaction(ctx, "u1", tx); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	tx.Note = "edited"
	if err := s.UpsertTransaction(ctx, "u1", tx); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	list, _ := s.ListTransactions(ctx, "u1")
	if len(list) != 1 || list[0].Note != "edited" {
		t.Fatalf("expected single edited transaction, got %+v", list)
	}
	if other, _ := s.ListTransactions(ctx, "u2"); len(other) != 0 {
		t.Fatalf("users must be partitioned, got %+v", other)
	}

	if err := s.DeleteTransaction(ctx, "u1", "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, "u1", "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, "u1", "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRules(t *testing.T) {
	ctx := context.Background()
	s := New()
	rule := core.RecurringRule{ID: "r1", Name: "Gym", Amount: core.MustMoney("30"), Category: core.Other, Cadence: core.Monthly, NextRun: core.NewDate(2026, 1, 5)}
	_ = s.UpsertRule(ctx, "u1", rule)

	got, err := s.GetRule(ctx, "u1", "r1")
	if err != nil || got.Name != "Gym" {
		t.Fatalf("unexpected rule %+v err=%v", got, err)
	}
	if err := s.DeleteRule(ctx, "u1", "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rules, _ := s.ListRules(ctx, "u1"); len(rules) != 0 {
		t.Fatalf("expected no rules, got %+v", rules)
	}
}

func TestSettingsDefaultsAndIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()

	got, _ := s.GetSettings(ctx, "u1")
	if got.AnchorStart != core.DefaultAnchor || got.LimitPeriod != core.LimitMonth {
		t.Fatalf("expected defaults, got %+v", got)
	}

	got.CategoryLimits[core.Food] = core.MustMoney("100")
	_ = s.SaveSettings(ctx, "u1", got)
	got.CategoryLimits[core.Food] = core.MustMoney("1")

	again, _ := s.GetSettings(ctx, "u1")
	if !again.CategoryLimits[core.Food].Equal(core.MustMoney("100")) {
		t.Fatalf("stored settings must not alias caller maps: %v", again.CategoryLimits)
	}
}

func TestIncome(t *testing.T) {
	ctx := context.Background()
	s := New()
	start := core.NewDate(2026, 1, 16)
	_ = s.SetIncome(ctx, "u1", start, core.MustMoney("1500"))

	inc, _ := s.GetIncome(ctx, "u1")
	if !inc.Paycheck(start, core.Zero).Equal(core.MustMoney("1500")) {
		t.Fatalf("unexpected income %v", inc)
	}

	_ = s.ReplaceIncome(ctx, "u1", core.IncomeByPeriod{core.NewDate(2026, 1, 2): core.MustMoney("900")})
	inc, _ = s.GetIncome(ctx, "u1")
	if len(inc) != 1 {
		t.Fatalf("replace must drop old keys, got %v", inc)
	}
}

func TestNewFromFileSeedsUsers(t *testing.T) {
	dir := t.TempDir()

	// Missing file -> empty store
	s, err := NewFromFile(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("missing seed should not fail: %v", err)
	}
	if users, _ := s.ListUsers(context.Background()); len(users) != 0 {
		t.Fatalf("expected empty store, got %v", users)
	}

	seed := `{"users":{
		"bob":{"transactions":[{"id":"t1","date":"2026-01-03","amount":12.5,"category":"Food","note":""}]},
		"alice":{"settings":{"anchorStartISO":"2025-12-19","defaultPaycheck":2000,"limitPeriod":"biweek","categoryLimits":{}},
		         "income":{"2026-01-02":1800}}
	}}`
	path := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s, err = NewFromFile(path)
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	users, _ := s.ListUsers(context.Background())
	if len(users) != 2 || users[0] != "alice" || users[1] != "bob" {
		t.Fatalf("unexpected users %v", users)
	}
	settings, _ := s.GetSettings(context.Background(), "alice")
	if settings.AnchorStart != core.NewDate(2025, 12, 19) || settings.LimitPeriod != core.LimitBiweek {
		t.Fatalf("unexpected settings %+v", settings)
	}
	txs, _ := s.ListTransactions(context.Background(), "bob")
	if len(txs) != 1 || !txs[0].Amount.Equal(core.MustMoney("12.5")) {
		t.Fatalf("unexpected transactions %+v", txs)
	}

	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if _, err := NewFromFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}
