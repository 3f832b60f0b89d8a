// Package backend opens the configured store.Store implementation.
package backend

import (
	"context"

	"paytrack/internal/store"
)

// CleanupFunc releases resources held by a backend
type CleanupFunc func() error

// Result contains the opened store, its health check and an optional cleanup
type Result struct {
	Store   store.Store
	Ping    func(ctx context.Context) error
	Cleanup CleanupFunc
}

// Close runs Cleanup if there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	Open(ctx context.Context, config Config) (*Result, error)
}

type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Memory specific; a missing file starts empty
	SeedFile string
}

type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
