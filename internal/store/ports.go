// Package store defines the persistence ports used by the services. Every
// collection is partitioned by user id; writes are last-write-wins upserts.
package store

import (
	"context"
	"errors"

	"paytrack/internal/core"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks paytrack/internal/store Store

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// Ports for outbound adapters.
type (
	TransactionStore interface {
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
		UpsertTransaction(ctx context.Context, userID string, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, userID, id string) error
	}

	RuleStore interface {
		ListRules(ctx context.Context, userID string) ([]core.RecurringRule, error)
		GetRule(ctx context.Context, userID, id string) (core.RecurringRule, error)
		UpsertRule(ctx context.Context, userID string, rule core.RecurringRule) error
		DeleteRule(ctx context.Context, userID, id string) error
	}

	// SettingsStore returns core.DefaultSettings for users that never saved any.
	SettingsStore interface {
		GetSettings(ctx context.Context, userID string) (core.Settings, error)
		SaveSettings(ctx context.Context, userID string, s core.Settings) error
	}

	IncomeStore interface {
		GetIncome(ctx context.Context, userID string) (core.IncomeByPeriod, error)
		SetIncome(ctx context.Context, userID string, periodStart core.Date, amount core.Money) error
		// ReplaceIncome swaps the whole map in one write.
		ReplaceIncome(ctx context.Context, userID string, income core.IncomeByPeriod) error
	}

	// UserLister enumerates every user with stored data.
	UserLister interface {
		ListUsers(ctx context.Context) ([]string, error)
	}

	Store interface {
		TransactionStore
		RuleStore
		SettingsStore
		IncomeStore
		UserLister
	}
)
