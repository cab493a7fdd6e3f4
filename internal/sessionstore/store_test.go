package sessionstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testState struct {
	SessionID string    `yaml:"session_id"`
	Stage     string    `yaml:"stage"`
	Scores    []float64 `yaml:"scores"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[*testState]()

	state := &testState{SessionID: "abc", Stage: "warmup", Scores: []float64{0.5, 0.7}}
	require.NoError(t, store.Put(ctx, "abc", state))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[*testState]()

	require.NoError(t, store.Put(ctx, "abc", &testState{Stage: "warmup", Scores: []float64{0.5}}))

	first, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	first.Stage = "technical"
	first.Scores[0] = 0.9

	second, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "warmup", second.Stage)
	assert.Equal(t, 0.5, second.Scores[0])
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[*testState]()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "missing"), ErrNotFound)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore[*testState](t.TempDir())
	require.NoError(t, err)

	state := &testState{SessionID: "abc", Stage: "deep_dive", Scores: []float64{0.3, 0.4, 0.55}}
	require.NoError(t, store.Put(ctx, "abc", state))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestFileStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore[*testState](t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "abc", &testState{Stage: "warmup"}))
	require.NoError(t, store.Put(ctx, "abc", &testState{Stage: "technical"}))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "technical", got.Stage)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, ids)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore[*testState](t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "abc", &testState{Stage: "warmup"}))
	require.NoError(t, store.Delete(ctx, "abc"))

	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirLockExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	first := NewDirLock(path)
	require.NoError(t, first.Acquire())
	t.Cleanup(func() { _ = first.Release() })

	// A second handle opens its own file description, so the flock conflicts.
	second := NewDirLock(path)
	err := second.Acquire()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked by PID")

	require.NoError(t, first.Release())
	require.NoError(t, second.Acquire())
	require.NoError(t, second.Release())
}
