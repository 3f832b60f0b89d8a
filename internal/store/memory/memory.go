// Package memory is an in-process store.Store, used for development, tests
// and the CLI when no database is configured.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"paytrack/internal/core"
	"paytrack/internal/store"
)

type userData struct {
	txs      []core.Transaction
	rules    []core.RecurringRule
	settings *core.Settings
	income   core.IncomeByPeriod
}

type Store struct {
	mu    sync.Mutex
	users map[string]*userData
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{users: map[string]*userData{}}
}

// Seed is the on-disk format accepted by NewFromFile.
type Seed struct {
	Users map[string]struct {
		Transactions []core.Transaction   `json:"transactions"`
		Rules        []core.RecurringRule `json:"rules"`
		Settings     *core.Settings       `json:"settings"`
		Income       core.IncomeByPeriod  `json:"income"`
	} `json:"users"`
}

// NewFromFile loads a JSON seed. A missing file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	s := New()
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	for id, u := range seed.Users {
		d := s.user(id)
		d.txs = append(d.txs, u.Transactions...)
		d.rules = append(d.rules, u.Rules...)
		d.settings = u.Settings
		for k, v := range u.Income {
			d.income[k] = v
		}
	}
	return s, nil
}

// user returns the partition for id; callers hold s.mu.
func (s *Store) user(id string) *userData {
	d, ok := s.users[id]
	if !ok {
		d = &userData{income: core.IncomeByPeriod{}}
		s.users[id] = d
	}
	return d
}

// peek is user without creating a partition.
func (s *Store) peek(id string) *userData {
	if d, ok := s.users[id]; ok {
		return d
	}
	return &userData{}
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction{}, s.peek(userID).txs...), nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.peek(userID).txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) UpsertTransaction(_ context.Context, userID string, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.user(userID)
	for i := range d.txs {
		if d.txs[i].ID == tx.ID {
			d.txs[i] = tx
			return nil
		}
	}
	d.txs = append(d.txs, tx)
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.peek(userID)
	for i := range d.txs {
		if d.txs[i].ID == id {
			d.txs = append(d.txs[:i], d.txs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListRules(_ context.Context, userID string) ([]core.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.RecurringRule{}, s.peek(userID).rules...), nil
}

func (s *Store) GetRule(_ context.Context, userID, id string) (core.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.peek(userID).rules {
		if r.ID == id {
			return r, nil
		}
	}
	return core.RecurringRule{}, store.ErrNotFound
}

func (s *Store) UpsertRule(_ context.Context, userID string, rule core.RecurringRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.user(userID)
	for i := range d.rules {
		if d.rules[i].ID == rule.ID {
			d.rules[i] = rule
			return nil
		}
	}
	d.rules = append(d.rules, rule)
	return nil
}

func (s *Store) DeleteRule(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.peek(userID)
	for i := range d.rules {
		if d.rules[i].ID == id {
			d.rules = append(d.rules[:i], d.rules[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) GetSettings(_ context.Context, userID string) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.peek(userID)
	if d.settings == nil {
		return core.DefaultSettings(), nil
	}
	return cloneSettings(*d.settings), nil
}

func (s *Store) SaveSettings(_ context.Context, userID string, settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneSettings(settings)
	s.user(userID).settings = &c
	return nil
}

func (s *Store) GetIncome(_ context.Context, userID string) (core.IncomeByPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := core.IncomeByPeriod{}
	for k, v := range s.peek(userID).income {
		out[k] = v
	}
	return out, nil
}

func (s *Store) SetIncome(_ context.Context, userID string, periodStart core.Date, amount core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user(userID).income[periodStart] = amount
	return nil
}

func (s *Store) ReplaceIncome(_ context.Context, userID string, income core.IncomeByPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := core.IncomeByPeriod{}
	for k, v := range income {
		next[k] = v
	}
	s.user(userID).income = next
	return nil
}

// ListUsers returns user ids in sorted order.
func (s *Store) ListUsers(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.users))
	for id := range s.users {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func cloneSettings(s core.Settings) core.Settings {
	limits := make(map[core.Category]core.Money, len(s.CategoryLimits))
	for k, v := range s.CategoryLimits {
		limits[k] = v
	}
	s.CategoryLimits = limits
	return s
}
