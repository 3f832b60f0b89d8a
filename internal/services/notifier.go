package services

import (
	"context"

	"paytrack/internal/core"
)

// Notifier is told about every committed write.
type Notifier interface {
	Notify(ctx context.Context, change core.Change)
}

// Notifiers fans a change out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, change core.Change) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ctx, change)
		}
	}
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, change core.Change)

func (f NotifierFunc) Notify(ctx context.Context, change core.Change) { f(ctx, change) }
