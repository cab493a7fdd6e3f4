package sessionstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileStore persists each session as one YAML file under a base directory.
// Writes go through a temp file followed by an atomic rename, so a crash
// mid-write never corrupts an existing checkpoint.
type FileStore[T any] struct {
	dir string
}

// NewFileStore creates the base directory if needed and returns a store.
func NewFileStore[T any](dir string) (*FileStore[T], error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &FileStore[T]{dir: dir}, nil
}

func (f *FileStore[T]) path(sessionID string) string {
	return filepath.Join(f.dir, sessionID+".yaml")
}

func (f *FileStore[T]) Get(ctx context.Context, sessionID string) (T, error) {
	var zero T
	data, err := os.ReadFile(f.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("read session file: %w", err)
	}
	var state T
	if err := yaml.Unmarshal(data, &state); err != nil {
		return zero, fmt.Errorf("unmarshal session: %w", err)
	}
	return state, nil
}

func (f *FileStore[T]) Put(ctx context.Context, sessionID string, state T) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, sessionID+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path(sessionID)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename session file: %w", err)
	}
	return nil
}

func (f *FileStore[T]) Delete(ctx context.Context, sessionID string) error {
	if err := os.Remove(f.path(sessionID)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (f *FileStore[T]) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read session directory: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".yaml"))
	}
	return ids, nil
}
