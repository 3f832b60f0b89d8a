package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"paytrack/internal/core"
	"paytrack/internal/store"
)

// ProcessSummary reports what one user's pass did.
type ProcessSummary struct {
	UserID    string
	Skipped   bool
	Emitted   int
	Failed    int
	Persisted bool
}

// RecurringProcessor materializes due recurring rules into transactions.
//
// Concurrent passes for the same user and day inside one process collapse
// into one. Two processes can still both run a pass for the same day; since
// generated transactions have deterministic ids the second pass rewrites
// the same documents.
type RecurringProcessor struct {
	store       store.Store
	notifier    Notifier
	concurrency int
	group       singleflight.Group
}

// NewRecurringProcessor creates a processor; notifier may be nil.
func NewRecurringProcessor(st store.Store, notifier Notifier, concurrency int) *RecurringProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &RecurringProcessor{store: st, notifier: notifier, concurrency: concurrency}
}

// ProcessUser runs one due pass for userID and persists it.
func (p *RecurringProcessor) ProcessUser(ctx context.Context, userID string, today core.Date) (ProcessSummary, error) {
	if p.store == nil {
		return ProcessSummary{}, errors.New("processor not properly initialized")
	}
	v, err, _ := p.group.Do(userID+"|"+today.String(), func() (any, error) {
		return p.processUser(ctx, userID, today)
	})
	if err != nil {
		return ProcessSummary{}, err
	}
	return v.(ProcessSummary), nil
}

func (p *RecurringProcessor) processUser(ctx context.Context, userID string, today core.Date) (ProcessSummary, error) {
	sum := ProcessSummary{UserID: userID}

	settings, err := p.store.GetSettings(ctx, userID)
	if err != nil {
		return sum, core.WrapStore("get settings", err)
	}
	if settings.LastAutoGenerate == today {
		sum.Skipped = true
		return sum, nil
	}
	rules, err := p.store.ListRules(ctx, userID)
	if err != nil {
		return sum, core.WrapStore("list rules", err)
	}

	res, err := RunDuePass(userID, today, rules, settings)
	if err != nil {
		return sum, err
	}
	if res.Skipped {
		sum.Skipped = true
		return sum, nil
	}

	for _, f := range res.Failed {
		slog.ErrorContext(ctx, "Failed to advance recurring rule",
			"user_id", userID,
			"rule_id", f.RuleID,
			"error", f.Err)
		sum.Failed++
	}

	for i, tx := range res.Emitted {
		rule := res.UpdatedRules[i]
		if err := p.store.UpsertTransaction(ctx, userID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to create transaction from recurring rule",
				"user_id", userID,
				"rule_id", rule.ID,
				"error", err)
			sum.Failed++
			continue
		}
		p.notify(ctx, core.Change{UserID: userID, Collection: core.CollectionTransactions, ID: tx.ID, Op: core.OpUpsert})

		if err := p.store.UpsertRule(ctx, userID, rule); err != nil {
			// The transaction exists; the next pass re-emits the same id.
			slog.ErrorContext(ctx, "Failed to advance recurring rule",
				"user_id", userID,
				"rule_id", rule.ID,
				"error", err)
			sum.Failed++
			continue
		}
		p.notify(ctx, core.Change{UserID: userID, Collection: core.CollectionRules, ID: rule.ID, Op: core.OpUpsert})

		sum.Emitted++
		slog.InfoContext(ctx, "Created transaction from recurring rule",
			"user_id", userID,
			"rule_id", rule.ID,
			"date", tx.Date.String(),
			"amount", tx.Amount.String(),
			"cadence", rule.Cadence,
			"next_run", rule.NextRun.String())
	}

	settings.LastAutoGenerate = res.NewLastAutoGenerate
	if err := p.store.SaveSettings(ctx, userID, settings); err != nil {
		return sum, core.WrapStore("save last auto generate", err)
	}
	sum.Persisted = true
	p.notify(ctx, core.Change{UserID: userID, Collection: core.CollectionSettings, Op: core.OpUpsert})

	slog.InfoContext(ctx, "Recurring pass complete",
		"user_id", userID,
		"emitted", sum.Emitted,
		"failed", sum.Failed,
		"today", today.String())
	return sum, nil
}

// ProcessAll runs ProcessUser for every known user with bounded concurrency.
// A failing user is logged and counted; the others still run.
func (p *RecurringProcessor) ProcessAll(ctx context.Context, today core.Date) ([]ProcessSummary, error) {
	if p.store == nil {
		return nil, errors.New("processor not properly initialized")
	}
	users, err := p.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", core.WrapStore("list users", err))
	}

	slog.InfoContext(ctx, "Processing recurring rules", "users", len(users), "today", today.String())

	results := make([]ProcessSummary, len(users))
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, userID := range users {
		g.Go(func() error {
			sum, err := p.ProcessUser(ctx, userID, today)
			if err != nil {
				slog.ErrorContext(ctx, "Recurring pass failed", "user_id", userID, "error", err)
				sum = ProcessSummary{UserID: userID, Failed: 1}
			}
			results[i] = sum
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}

func (p *RecurringProcessor) notify(ctx context.Context, change core.Change) {
	if p.notifier != nil {
		p.notifier.Notify(ctx, change)
	}
}
