package ratings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"marquee/internal/logging"
	"marquee/internal/services"
)

// Store is the rating collection over one Slot.
type Store struct {
	slot   Slot
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore wraps slot. A nil logger discards output.
func NewStore(slot Slot, logger *slog.Logger) *Store {
	return &Store{slot: slot, logger: logging.NewComponentLogger(logger, "ratings")}
}

// Describe names the backing slot for status output.
func (s *Store) Describe() string { return s.slot.Describe() }

// Slot exposes the backing slot.
func (s *Store) Slot() Slot { return s.slot }

// Close releases the slot when it holds resources.
func (s *Store) Close() error {
	if closer, ok := s.slot.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// GetAll returns every saved record in persisted order. It never fails: an
// unreadable slot yields an empty slice and a Diagnostic.
func (s *Store) GetAll(ctx context.Context) ([]Record, *Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, diag := s.load(ctx)
	if diag != nil {
		return []Record{}, diag
	}
	return records, nil
}

// FindByMediaID returns the record for id, if any.
func (s *Store) FindByMediaID(ctx context.Context, id int64) (Record, bool, *Diagnostic) {
	records, diag := s.GetAll(ctx)
	for _, rec := range records {
		if rec.MediaID == id {
			return rec, true, diag
		}
	}
	return Record{}, false, diag
}

// Upsert inserts rec or fully replaces the record with the same media id,
// keeping its position. The returned record is what was persisted.
func (s *Store) Upsert(ctx context.Context, rec Record) (Record, error) {
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	rec = rec.clone()

	var replaced bool
	err := s.mutate(ctx, "save rating", func(records []Record) ([]Record, bool) {
		for i := range records {
			if records[i].MediaID == rec.MediaID {
				records[i] = rec
				replaced = true
				return records, true
			}
		}
		return append(records, rec), true
	})
	if err != nil {
		return Record{}, err
	}

	logging.WithContext(services.WithMediaID(ctx, rec.MediaID), s.logger).InfoContext(ctx, "rating saved",
		logging.Int("my_rating", rec.PersonalRating),
		logging.Bool("replaced", replaced),
	)
	return rec.clone(), nil
}

// Delete removes the record for id. It reports false, and writes nothing,
// when no such record exists.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := s.mutate(ctx, "delete rating", func(records []Record) ([]Record, bool) {
		out := records[:0]
		for _, rec := range records {
			if rec.MediaID == id {
				removed = true
				continue
			}
			out = append(out, rec)
		}
		return out, removed
	})
	if err != nil {
		return false, err
	}
	if removed {
		logging.WithContext(services.WithMediaID(ctx, id), s.logger).InfoContext(ctx, "rating deleted")
	}
	return removed, nil
}

// Reset clears the slot, including a corrupt one.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlock, err := s.lock(ctx)
	if err != nil {
		return services.Wrap(services.ErrStorage, "reset ratings", "", err)
	}
	defer unlock()
	if err := s.slot.Clear(ctx); err != nil {
		return services.Wrap(services.ErrStorage, "reset ratings", "", err)
	}
	s.logger.InfoContext(ctx, "rating slot cleared", logging.String("slot", s.slot.Describe()))
	return nil
}

// mutate runs a read-modify-write cycle under the store and slot locks. fn
// reports whether the collection changed; unchanged collections are not
// written.
func (s *Store) mutate(ctx context.Context, operation string, fn func([]Record) ([]Record, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock(ctx)
	if err != nil {
		return services.Wrap(services.ErrStorage, operation, "", err)
	}
	defer unlock()

	records, diag := s.load(ctx)
	if diag != nil {
		return services.Wrap(services.ErrStorage, operation,
			"Saved ratings are unreadable and were left untouched. Run `marquee ratings reset` to start over.",
			diagError(diag))
	}

	next, changed := fn(records)
	if !changed {
		return nil
	}
	return s.write(ctx, operation, next)
}

func (s *Store) write(ctx context.Context, operation string, records []Record) error {
	data, err := encode(records)
	if err != nil {
		return services.Wrap(services.ErrStorage, operation, "", err)
	}
	if err := s.slot.Write(ctx, data); err != nil {
		logging.ErrorWithContext(s.logger, "rating slot write failed", "ratings_write_failed",
			logging.String("slot", s.slot.Describe()),
			logging.Error(err),
		)
		return services.Wrap(services.ErrStorage, operation, "", err)
	}
	return nil
}

func (s *Store) lock(ctx context.Context) (func(), error) {
	if locker, ok := s.slot.(Locker); ok {
		return locker.Lock(ctx)
	}
	return func() {}, nil
}

func (s *Store) load(ctx context.Context) ([]Record, *Diagnostic) {
	data, exists, err := s.slot.Read(ctx)
	if err != nil {
		diag := &Diagnostic{Slot: s.slot.Describe(), Reason: "slot unreadable", Err: err}
		s.warnDegraded(ctx, diag)
		return nil, diag
	}
	if !exists {
		return []Record{}, nil
	}
	records, err := decode(data)
	if err != nil {
		diag := &Diagnostic{Slot: s.slot.Describe(), Reason: "slot content is not a rating list", Err: err}
		s.warnDegraded(ctx, diag)
		return nil, diag
	}
	return records, nil
}

func (s *Store) warnDegraded(ctx context.Context, diag *Diagnostic) {
	logging.WarnWithContext(logging.WithContext(ctx, s.logger), "rating slot could not be read", "ratings_read_degraded",
		logging.String("slot", diag.Slot),
		logging.String("reason", diag.Reason),
		logging.Error(diag.Err),
		logging.String(logging.FieldImpact, "saved ratings are hidden until the slot is repaired or reset"),
		logging.String(logging.FieldErrorHint, "run `marquee ratings reset` to start over"),
	)
}

func diagError(d *Diagnostic) error {
	if d.Err != nil {
		return fmt.Errorf("%s: %w", d.Reason, d.Err)
	}
	return errors.New(d.Reason)
}

func decode(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}
