// Package sessionstore persists session checkpoints keyed by session id.
// Two implementations are provided: an in-memory store for tests and
// ephemeral use, and a file store writing one YAML document per session.
package sessionstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get and Delete for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Store is a checkpoint store for one state type. Get returns an
// independent copy; mutating it does not affect the stored checkpoint
// until Put is called again.
type Store[T any] interface {
	Get(ctx context.Context, sessionID string) (T, error)
	Put(ctx context.Context, sessionID string, state T) error
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}
