package sessionstore

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"
	"time"
)

// lockStaleAfter is the age past which a lock from a dead or stuck
// process is stolen.
const lockStaleAfter = 30 * time.Minute

// lockInfo is the metadata stored in the lock file.
type lockInfo struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	Timestamp time.Time `json:"timestamp"`
}

// DirLock serializes FileStore access across processes with an advisory
// flock on a lock file inside the store directory. In-process callers are
// already serialized by the engine's per-session locks; this guards
// against a second hireloop process pointed at the same directory.
type DirLock struct {
	path string
	file *os.File
}

// NewDirLock creates a lock for the given lock file path.
func NewDirLock(path string) *DirLock {
	return &DirLock{path: path}
}

// Acquire takes the exclusive lock, stealing it if the holder is stale.
func (l *DirLock) Acquire() error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()

		existing, readErr := l.readLockInfo()
		if readErr == nil && isStale(existing) {
			_ = os.Remove(l.path)
			return l.Acquire()
		}
		if readErr == nil {
			age := time.Since(existing.Timestamp).Round(time.Second)
			return fmt.Errorf("session directory locked by PID %d on %s (%v ago)",
				existing.PID, existing.Hostname, age)
		}
		return fmt.Errorf("acquire lock: %w", err)
	}

	l.file = file

	hostname, _ := os.Hostname()
	data, _ := json.MarshalIndent(lockInfo{
		PID:       os.Getpid(),
		Hostname:  hostname,
		Timestamp: time.Now(),
	}, "", "  ")
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write lock metadata: %w", err)
	}
	return nil
}

// Release drops the flock and removes the lock file.
func (l *DirLock) Release() error {
	if l.file == nil {
		return nil
	}
	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
	return os.Remove(l.path)
}

func (l *DirLock) readLockInfo() (*lockInfo, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var info lockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// isStale reports whether the holding process is gone or the lock too old.
func isStale(info *lockInfo) bool {
	process, err := os.FindProcess(info.PID)
	if err != nil {
		return true
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return true
	}
	return time.Since(info.Timestamp) > lockStaleAfter
}
