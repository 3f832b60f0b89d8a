package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"paytrack/internal/calendar"
	"paytrack/internal/core"
	"paytrack/internal/store"
)

// LedgerService validates writes, stores them and announces each committed
// change. Validation failures never reach the store.
type LedgerService struct {
	store    store.Store
	notifier Notifier
	newID    func() string
}

func NewLedgerService(st store.Store, notifier Notifier) *LedgerService {
	return &LedgerService{store: st, notifier: notifier, newID: uuid.NewString}
}

// AddTransaction stores a new transaction; an empty id is generated.
func (s *LedgerService) AddTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	if strings.TrimSpace(tx.ID) == "" {
		tx.ID = s.newID()
	}
	return s.putTransaction(ctx, userID, tx)
}

// UpdateTransaction replaces an existing transaction.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	if _, err := s.store.GetTransaction(ctx, userID, tx.ID); err != nil {
		return core.Transaction{}, core.WrapStore("get transaction", err)
	}
	return s.putTransaction(ctx, userID, tx)
}

func (s *LedgerService) putTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	tx.Note = strings.TrimSpace(tx.Note)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.UpsertTransaction(ctx, userID, tx); err != nil {
		return core.Transaction{}, core.WrapStore("upsert transaction", err)
	}
	s.notify(ctx, core.Change{UserID: userID, Collection: core.CollectionTransactions, ID: tx.ID, Op: core.OpUpsert})
	return tx, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return core.WrapStore("delete transaction", err)
	}
	s.notify(ctx, core.Change{UserID: userID, Collection: core.CollectionTransactions, ID: id, Op: core.OpDelete})
	return nil
}

// ImportTransactions stores every transaction, assigning ids where missing.
// Nothing is written unless all of them validate.
func (s *LedgerService) ImportTransactions(ctx context.Context, userID string, txs []core.Transaction) (int, error) {
	prepared := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if strings.TrimSpace(tx.ID) == "" {
			tx.ID = s.newID()
		}
		tx.Note = strings.TrimSpace(tx.Note)
		if err := tx.Validate(); err != nil {
			return 0, err
		}
		prepared = append(prepared, tx)
	}
	for i, tx := range prepared {
		if err := s.store.UpsertTransaction(ctx, userID, tx); err != nil {
			return i, core.WrapStore("upsert transaction", err)
		}
		s.notify(ctx, core.Change{UserID: userID, Collection: core.CollectionTransactions, ID: tx.ID, Op: core.OpUpsert})
	}
	return len(prepared), nil
}

// SaveRule creates or replaces a recurring rule; new rules get an id.
func (s *LedgerService) SaveRule(ctx context.Context, userID string, rule core.RecurringRule) (core.RecurringRule, error) {
	if strings.TrimSpace(rule.ID) == "" {
		rule.ID = s.newID()
	}
	rule.Name = strings.TrimSpace(rule.Name)
	if err := rule.Validate(); err != nil {
		return core.RecurringRule{}, err
	}
	if err := s.store.UpsertRule(ctx, userID, rule); err != nil {
		return core.RecurringRule{}, core.WrapStore("upsert rule", err)
	}
	s.notify(ctx, core.Change{UserID: userID, Collection: core.CollectionRules, ID: rule.ID, Op: core.OpUpsert})
	return rule, nil
}

func (s *LedgerService) DeleteRule(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteRule(ctx, userID, id); err != nil {
		return core.WrapStore("delete rule", err)
	}
	s.notify(ctx, core.Change{UserID: userID, Collection: core.CollectionRules, ID: id, Op: core.OpDelete})
	return nil
}

// UpdateSettings validates and stores settings.
//
// Stored income overrides are then re-keyed to the start of the period that
// contains their key under the saved anchor. If several old keys land on the
// same new period, the one with the latest old key wins. Keys that already
// are period starts stay put, so repeating an update after a failed re-key
// finishes the move. Transactions are never touched.
func (s *LedgerService) UpdateSettings(ctx context.Context, userID string, next core.Settings) (core.Settings, error) {
	if next.CategoryLimits == nil {
		next.CategoryLimits = map[core.Category]core.Money{}
	}
	if err := next.Validate(); err != nil {
		return core.Settings{}, err
	}

	prev, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return core.Settings{}, core.WrapStore("get settings", err)
	}
	// LastAutoGenerate is owned by the recurring processor
	next.LastAutoGenerate = prev.LastAutoGenerate

	if err := s.store.SaveSettings(ctx, userID, next); err != nil {
		return core.Settings{}, core.WrapStore("save settings", err)
	}
	s.notify(ctx, core.Change{UserID: userID, Collection: core.CollectionSettings, Op: core.OpUpsert})

	if err := s.rekeyIncome(ctx, userID, next.AnchorStart); err != nil {
		return next, err
	}
	return next, nil
}

func (s *LedgerService) rekeyIncome(ctx context.Context, userID string, anchor core.Date) error {
	income, err := s.store.GetIncome(ctx, userID)
	if err != nil {
		return core.WrapStore("get income", err)
	}
	rekeyed, moved := RekeyIncome(income, anchor)
	if moved == 0 {
		return nil
	}
	if err := s.store.ReplaceIncome(ctx, userID, rekeyed); err != nil {
		return core.WrapStore("replace income", err)
	}
	slog.InfoContext(ctx, "Re-keyed income after anchor change",
		"user_id", userID,
		"anchor", anchor.String(),
		"moved", moved,
		"entries", len(rekeyed))
	s.notify(ctx, core.Change{UserID: userID, Collection: core.CollectionIncome, Op: core.OpReplace})
	return nil
}

// RekeyIncome maps every key of income to the period start containing it
// under anchor. It returns the new map and how many keys changed.
func RekeyIncome(income core.IncomeByPeriod, anchor core.Date) (core.IncomeByPeriod, int) {
	out := make(core.IncomeByPeriod, len(income))
	winner := map[core.Date]core.Date{}
	moved := 0
	for oldKey, amount := range income {
		newKey, err := calendar.PeriodStart(oldKey, anchor)
		if err != nil {
			continue
		}
		if newKey != oldKey {
			moved++
		}
		if prev, ok := winner[newKey]; ok && prev.After(oldKey) {
			continue
		}
		winner[newKey] = oldKey
		out[newKey] = amount
	}
	return out, moved
}

// SetIncome stores the income override for the period containing date.
// Returns the canonical period start used as key.
func (s *LedgerService) SetIncome(ctx context.Context, userID string, date core.Date, amount core.Money) (core.Date, error) {
	if amount.IsNegative() {
		return core.Date{}, &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
	}
	settings, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return core.Date{}, core.WrapStore("get settings", err)
	}
	start, err := calendar.PeriodStart(date, calendar.ResolveAnchor(settings))
	if err != nil {
		return core.Date{}, err
	}
	if err := s.store.SetIncome(ctx, userID, start, amount); err != nil {
		return core.Date{}, core.WrapStore("set income", err)
	}
	s.notify(ctx, core.Change{UserID: userID, Collection: core.CollectionIncome, ID: start.String(), Op: core.OpUpsert})
	return start, nil
}

func (s *LedgerService) notify(ctx context.Context, change core.Change) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, change)
	}
}
