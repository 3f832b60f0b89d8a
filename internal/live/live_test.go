package live

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paytrack/internal/cache"
	"paytrack/internal/core"
	"paytrack/internal/store/memory"
)

type countingSource struct {
	*memory.Store
	txCalls int
	fail    error
}

func (c *countingSource) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	c.txCalls++
	if c.fail != nil {
		return nil, c.fail
	}
	return c.Store.ListTransactions(ctx, userID)
}

// gatedSource reads the store, then parks the first ListTransactions call
// until release is closed, so that call returns data older than the store.
type gatedSource struct {
	*memory.Store
	hold    atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGatedSource(st *memory.Store) *gatedSource {
	return &gatedSource{Store: st, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedSource) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	txs, err := g.Store.ListTransactions(ctx, userID)
	if g.hold.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.release
	}
	return txs, err
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.New()
	require.NoError(t, s.UpsertTransaction(context.Background(), "u1", core.Transaction{
		ID: "t1", Date: core.NewDate(2026, 1, 2), Amount: core.MustMoney("4"), Category: core.Drinks,
	}))
	return s
}

func TestLoaderCachesAndInvalidates(t *testing.T) {
	src := &countingSource{Store: seededStore(t)}
	loader := NewLoader(src, cache.NewLRUCache[Snapshot](10, time.Minute))
	ctx := context.Background()

	snap, err := loader.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, snap.Transactions, 1)
	assert.Equal(t, core.DefaultAnchor, snap.Settings.AnchorStart)
	assert.NotNil(t, snap.Income)

	_, _ = loader.Load(ctx, "u1")
	assert.Equal(t, 1, src.txCalls, "second load must come from cache")

	loader.Invalidate("u1")
	_, _ = loader.Load(ctx, "u1")
	assert.Equal(t, 2, src.txCalls)
}

func TestLoaderDropsLoadStartedBeforeInvalidate(t *testing.T) {
	src := newGatedSource(memory.New())
	loader := NewLoader(src, cache.NewLRUCache[Snapshot](10, time.Minute))
	ctx := context.Background()

	src.hold.Store(true)
	type result struct {
		snap Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := loader.Load(ctx, "u1")
		done <- result{snap, err}
	}()
	<-src.entered

	require.NoError(t, src.UpsertTransaction(ctx, "u1", core.Transaction{
		ID: "t1", Date: core.NewDate(2026, 1, 2), Amount: core.MustMoney("4"), Category: core.Drinks,
	}))
	loader.Invalidate("u1")
	fresh, err := loader.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, fresh.Transactions, 1)

	close(src.release)
	old := <-done
	require.NoError(t, old.err)
	assert.Empty(t, old.snap.Transactions)
	assert.Less(t, old.snap.Generation, fresh.Generation)

	again, err := loader.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, again.Transactions, 1, "older load must not replace the cached snapshot")
}

func TestLoaderFailureYieldsNoSnapshot(t *testing.T) {
	boom := errors.New("disk on fire")
	src := &countingSource{Store: seededStore(t), fail: boom}
	loader := NewLoader(src, nil)

	_, err := loader.Load(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var se *core.StoreError
	assert.ErrorAs(t, err, &se)
}

func TestHubPushesFreshSnapshots(t *testing.T) {
	st := seededStore(t)
	hub := NewHub(NewLoader(st, cache.NewLRUCache[Snapshot](10, time.Minute)))
	ctx := context.Background()

	ch, cancel, err := hub.Subscribe(ctx, "u1")
	require.NoError(t, err)
	defer cancel()

	first := <-ch
	assert.Len(t, first.Transactions, 1)
	assert.Equal(t, 1, hub.Subscribers("u1"))

	require.NoError(t, st.UpsertTransaction(ctx, "u1", core.Transaction{
		ID: "t2", Date: core.NewDate(2026, 1, 3), Amount: core.MustMoney("6"), Category: core.Food,
	}))
	require.NoError(t, st.UpsertTransaction(ctx, "u1", core.Transaction{
		ID: "t3", Date: core.NewDate(2026, 1, 4), Amount: core.MustMoney("1"), Category: core.Food,
	}))
	hub.Notify(ctx, core.Change{UserID: "u1", Collection: core.CollectionTransactions, ID: "t2", Op: core.OpUpsert})
	hub.Notify(ctx, core.Change{UserID: "u1", Collection: core.CollectionTransactions, ID: "t3", Op: core.OpUpsert})

	// only the newest pending snapshot is kept
	latest := <-ch
	assert.Len(t, latest.Transactions, 3)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra snapshot %+v", extra)
	default:
	}

	// other users are not notified
	hub.Notify(ctx, core.Change{UserID: "u2", Collection: core.CollectionSettings, Op: core.OpUpsert})
	select {
	case extra := <-ch:
		t.Fatalf("unexpected snapshot for other user %+v", extra)
	default:
	}
}

func TestHubDropsOutOfOrderReload(t *testing.T) {
	src := newGatedSource(seededStore(t))
	hub := NewHub(NewLoader(src, cache.NewLRUCache[Snapshot](10, time.Minute)))
	ctx := context.Background()

	ch, cancel, err := hub.Subscribe(ctx, "u1")
	require.NoError(t, err)
	defer cancel()
	<-ch

	src.hold.Store(true)
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Notify(ctx, core.Change{UserID: "u1", Collection: core.CollectionSettings, Op: core.OpUpsert})
	}()
	<-src.entered

	require.NoError(t, src.UpsertTransaction(ctx, "u1", core.Transaction{
		ID: "t2", Date: core.NewDate(2026, 1, 3), Amount: core.MustMoney("6"), Category: core.Food,
	}))
	hub.Notify(ctx, core.Change{UserID: "u1", Collection: core.CollectionTransactions, ID: "t2", Op: core.OpUpsert})
	latest := <-ch
	assert.Len(t, latest.Transactions, 2)

	close(src.release)
	<-done
	select {
	case stale := <-ch:
		t.Fatalf("older reload was pushed after a newer one: %d transactions", len(stale.Transactions))
	default:
	}

	// a late subscriber starts from the newest pushed state
	ch2, cancel2, err := hub.Subscribe(ctx, "u1")
	require.NoError(t, err)
	defer cancel2()
	assert.Len(t, (<-ch2).Transactions, 2)
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub(NewLoader(seededStore(t), nil))
	ch, cancel, err := hub.Subscribe(context.Background(), "u1")
	require.NoError(t, err)
	<-ch

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, hub.Subscribers("u1"))

	// notifying with nobody listening is a no-op
	hub.Notify(context.Background(), core.Change{UserID: "u1", Op: core.OpDelete})
}
