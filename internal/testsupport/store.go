package testsupport

import (
	"context"
	"testing"

	"marquee/internal/ratings"
)

// NewMemoryStore returns an empty in-memory rating store and its slot.
func NewMemoryStore(t testing.TB) (*ratings.Store, *ratings.MemorySlot) {
	t.Helper()
	slot := ratings.NewMemorySlot(nil)
	return ratings.NewStore(slot, nil), slot
}

// MustUpsert saves rec and fails the test on error.
func MustUpsert(t testing.TB, store *ratings.Store, rec ratings.Record) ratings.Record {
	t.Helper()
	saved, err := store.Upsert(context.Background(), rec)
	if err != nil {
		t.Fatalf("Upsert(%d): %v", rec.MediaID, err)
	}
	return saved
}
