// Package lock keeps two summary runs from working on one document at once.
package lock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

var (
	// ErrLockTimeout is returned when acquiring a lock times out.
	ErrLockTimeout = errors.New("timeout acquiring lock")
	// ErrFilenameRequired is returned when a filename is empty.
	ErrFilenameRequired = errors.New("filename is required")
	// ErrBusy is returned when a run is already in flight for a key.
	ErrBusy = errors.New("summary already in progress")
)

const shortPollInterval = 10 * time.Millisecond

// Lock files live here rather than beside the documents. They are left in
// place after Unlock: removing one could let a waiter that already opened it
// and a newcomer that recreates it both hold "the" lock.
var lockDir = filepath.Join(os.TempDir(), "tldr-locks")

// FileLock is a held OS-level lock for one document.
type FileLock struct {
	Path  string
	flock *flock.Flock
}

// lockFile names the lock for path, keyed by its absolute form so relative
// and absolute spellings share one lock.
func lockFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:12])+".lock"), nil
}

// AcquireFile takes an exclusive lock for path, waiting at most timeout.
func AcquireFile(ctx context.Context, path string, timeout time.Duration) (*FileLock, error) {
	if path == "" {
		return nil, ErrFilenameRequired
	}
	name, err := lockFile(path)
	if err != nil {
		return nil, fmt.Errorf("resolve lock for %s: %w", path, err)
	}
	if err := os.MkdirAll(lockDir, 0o700); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fl := flock.New(name)
	locked, err := fl.TryLockContext(ctx, shortPollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLockTimeout
		}
		return nil, fmt.Errorf("error acquiring file lock for %s: %w", path, err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}
	return &FileLock{Path: path, flock: fl}, nil
}

func (l *FileLock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}

// Busy tracks in-flight runs by key within one process.
type Busy struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewBusy() *Busy {
	return &Busy{keys: make(map[string]struct{})}
}

// Acquire marks key busy and returns the function that clears it.
func (b *Busy) Acquire(key string) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.keys[key]; ok {
		return nil, ErrBusy
	}
	b.keys[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.keys, key)
			b.mu.Unlock()
		})
	}, nil
}
