package live

import (
	"context"
	"log/slog"
	"sync"

	"paytrack/internal/core"
)

type subscriber struct {
	ch chan Snapshot
}

// Hub fans fresh snapshots out to per-user subscribers. Each subscriber
// holds at most one pending snapshot; a newer one replaces it, so slow
// readers skip intermediate states but never see a partial one. Snapshots
// are pushed in generation order: a reload that finishes after a newer one
// is dropped.
type Hub struct {
	loader *Loader

	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	latest map[string]Snapshot
}

func NewHub(loader *Loader) *Hub {
	return &Hub{
		loader: loader,
		subs:   map[string]map[*subscriber]struct{}{},
		latest: map[string]Snapshot{},
	}
}

// Subscribe registers for userID's snapshots and sends the current one
// first. The returned cancel func unregisters and closes the channel.
func (h *Hub) Subscribe(ctx context.Context, userID string) (<-chan Snapshot, func(), error) {
	snap, err := h.loader.Load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	sub := &subscriber{ch: make(chan Snapshot, 1)}

	h.mu.Lock()
	if pushed, ok := h.latest[userID]; ok && pushed.Generation > snap.Generation {
		snap = pushed
	}
	sub.ch <- snap
	if h.subs[userID] == nil {
		h.subs[userID] = map[*subscriber]struct{}{}
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[userID], sub)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
				delete(h.latest, userID)
			}
			close(sub.ch)
		})
	}
	return sub.ch, cancel, nil
}

// Subscribers returns the number of live subscriptions for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

// Notify invalidates the user's snapshot and, when anyone is listening,
// reloads it and pushes it to every subscriber.
func (h *Hub) Notify(ctx context.Context, change core.Change) {
	h.loader.Invalidate(change.UserID)
	if h.Subscribers(change.UserID) == 0 {
		return
	}

	snap, err := h.loader.Load(ctx, change.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to reload snapshot after change",
			"user_id", change.UserID,
			"collection", change.Collection,
			"error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.subs[change.UserID]) == 0 {
		return
	}
	if pushed, ok := h.latest[change.UserID]; ok && pushed.Generation > snap.Generation {
		return
	}
	h.latest[change.UserID] = snap
	for sub := range h.subs[change.UserID] {
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snap
	}
}
