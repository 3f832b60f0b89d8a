// Package live loads complete per-user snapshots and pushes fresh ones to
// subscribers whenever a user's data changes.
package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"paytrack/internal/cache"
	"paytrack/internal/core"
)

// Snapshot is the complete state of one user's data at LoadedAt.
// Snapshots are shared between readers and must not be mutated.
type Snapshot struct {
	UserID       string               `json:"userId"`
	Transactions []core.Transaction   `json:"transactions"`
	Rules        []core.RecurringRule `json:"rules"`
	Settings     core.Settings        `json:"settings"`
	Income       core.IncomeByPeriod  `json:"income"`
	LoadedAt     time.Time            `json:"loadedAt"`

	// Generation is the user's invalidation count when the load started.
	// A snapshot with a lower generation predates a later change.
	Generation uint64 `json:"-"`
}

// Source is the read side of the store a Loader needs.
type Source interface {
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	ListRules(ctx context.Context, userID string) ([]core.RecurringRule, error)
	GetSettings(ctx context.Context, userID string) (core.Settings, error)
	GetIncome(ctx context.Context, userID string) (core.IncomeByPeriod, error)
}

type Loader struct {
	src   Source
	cache cache.Cache[Snapshot]
	group singleflight.Group

	mu   sync.Mutex
	gens map[string]uint64
}

// NewLoader wraps src; a nil cache disables caching.
func NewLoader(src Source, c cache.Cache[Snapshot]) *Loader {
	if c == nil {
		c = cache.NewLRUCache[Snapshot](0, 0)
	}
	return &Loader{src: src, cache: c, gens: map[string]uint64{}}
}

// Load returns the user's snapshot, from cache when fresh. Concurrent loads
// for the same user share one round of store reads. A load that was already
// running when Invalidate was called is returned to its callers but never
// cached.
func (l *Loader) Load(ctx context.Context, userID string) (Snapshot, error) {
	if snap, ok := l.cache.Get(userID); ok {
		return snap, nil
	}
	v, err, _ := l.group.Do(userID, func() (any, error) {
		gen := l.Generation(userID)
		snap, err := l.fetch(ctx, userID)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Generation = gen

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.gens[userID] == gen {
			l.cache.Set(userID, snap)
		}
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

// Invalidate drops the cached snapshot for userID and marks loads already
// in flight as stale.
func (l *Loader) Invalidate(userID string) {
	l.mu.Lock()
	l.gens[userID]++
	l.cache.Delete(userID)
	l.mu.Unlock()
	l.group.Forget(userID)
}

// Generation returns how many times userID has been invalidated.
func (l *Loader) Generation(userID string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gens[userID]
}

func (l *Loader) fetch(ctx context.Context, userID string) (Snapshot, error) {
	snap := Snapshot{UserID: userID}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Transactions, err = l.src.ListTransactions(ctx, userID)
		return core.WrapStore("list transactions", err)
	})
	g.Go(func() (err error) {
		snap.Rules, err = l.src.ListRules(ctx, userID)
		return core.WrapStore("list rules", err)
	})
	g.Go(func() (err error) {
		snap.Settings, err = l.src.GetSettings(ctx, userID)
		return core.WrapStore("get settings", err)
	})
	g.Go(func() (err error) {
		snap.Income, err = l.src.GetIncome(ctx, userID)
		return core.WrapStore("get income", err)
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot for %s: %w", userID, err)
	}
	if snap.Transactions == nil {
		snap.Transactions = []core.Transaction{}
	}
	if snap.Rules == nil {
		snap.Rules = []core.RecurringRule{}
	}
	if snap.Income == nil {
		snap.Income = core.IncomeByPeriod{}
	}
	snap.LoadedAt = time.Now()
	return snap, nil
}
