package ratings

import (
	"context"
	"sync"
)

// MemorySlot keeps the collection in process memory.
type MemorySlot struct {
	mu     sync.Mutex
	data   []byte
	exists bool
}

var _ Slot = (*MemorySlot)(nil)

// NewMemorySlot returns a slot seeded with initial. A nil initial value means
// the slot starts absent.
func NewMemorySlot(initial []byte) *MemorySlot {
	s := &MemorySlot{}
	if initial != nil {
		s.data = append([]byte(nil), initial...)
		s.exists = true
	}
	return s
}

func (s *MemorySlot) Read(context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists {
		return nil, false, nil
	}
	return append([]byte(nil), s.data...), true, nil
}

func (s *MemorySlot) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.exists = true
	return nil
}

func (s *MemorySlot) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.exists = false
	return nil
}

// Bytes returns a copy of the current slot content.
func (s *MemorySlot) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

func (s *MemorySlot) Describe() string { return "memory" }
