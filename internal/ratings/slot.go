package ratings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// SlotName is the name of the single persisted slot.
const SlotName = "myMovieRatings"

const lockRetryDelay = 25 * time.Millisecond

// Slot is one named durable location holding the serialized collection.
// Write must replace the content atomically: after a failed Write, Read
// returns the previous bytes.
type Slot interface {
	Read(ctx context.Context) (data []byte, exists bool, err error)
	Write(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
	Describe() string
}

// Locker is implemented by slots shared between processes. The returned
// function releases the lock.
type Locker interface {
	Lock(ctx context.Context) (func(), error)
}

// Backend names accepted by OpenSlot.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// OpenSlot constructs the slot for backend at path.
func OpenSlot(backend, path string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileSlot(path)
	case BackendSQLite:
		return OpenSQLiteSlot(path)
	case BackendMemory:
		return NewMemorySlot(nil), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}

func acquire(ctx context.Context, lock *flock.Flock) (func(), error) {
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lock.Path(), err)
	}
	if !ok {
		return nil, errors.New("acquire lock " + lock.Path() + ": not acquired")
	}
	return func() { _ = lock.Unlock() }, nil
}
