package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"marquee/internal/logging"
	"marquee/internal/services"
)

// ImportResult summarizes an Import call.
type ImportResult struct {
	Added    int  `json:"added"`
	Updated  int  `json:"updated"`
	Replaced bool `json:"replaced"`
	Total    int  `json:"total"`
}

// Export writes the collection to w as an indented JSON array and returns the
// number of records written. A corrupt slot is reported as a storage error
// rather than exported as an empty list.
func (s *Store) Export(ctx context.Context, w io.Writer) (int, error) {
	s.mu.Lock()
	records, diag := s.load(ctx)
	s.mu.Unlock()
	if diag != nil {
		return 0, services.Wrap(services.ErrStorage, "export ratings", diag.Message(), diagError(diag))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return 0, fmt.Errorf("encode export: %w", err)
	}
	return len(records), nil
}

// Import reads a JSON array of records from r. Every record is validated
// before anything is written; one invalid record rejects the whole batch.
// In merge mode each record is upserted by media id. With replace the slot is
// overwritten with the batch, which also recovers a corrupt slot.
func (s *Store) Import(ctx context.Context, r io.Reader, replace bool) (ImportResult, error) {
	var batch []Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&batch); err != nil {
		return ImportResult{}, services.Wrap(services.ErrValidation, "import ratings", "Import file is not a JSON rating list.", err)
	}

	var problems []string
	for i, rec := range batch {
		if err := rec.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("record %d (id %d): %s", i+1, rec.MediaID, services.UserMessage(err)))
		}
	}
	if len(problems) > 0 {
		return ImportResult{}, services.Wrap(services.ErrValidation, "import ratings",
			"Import rejected: "+strings.Join(problems, "; "), nil)
	}

	result := ImportResult{Replaced: replace}
	merge := func(records []Record) []Record {
		for _, rec := range batch {
			rec = rec.clone()
			found := false
			for i := range records {
				if records[i].MediaID == rec.MediaID {
					records[i] = rec
					found = true
					break
				}
			}
			if found {
				result.Updated++
			} else {
				records = append(records, rec)
				result.Added++
			}
		}
		return records
	}

	var err error
	if replace {
		err = s.overwrite(ctx, "import ratings", func() []Record { return merge([]Record{}) })
	} else {
		err = s.mutate(ctx, "import ratings", func(records []Record) ([]Record, bool) {
			next := merge(records)
			result.Total = len(next)
			return next, len(batch) > 0
		})
	}
	if err != nil {
		return ImportResult{}, err
	}
	if replace {
		result.Total = result.Added + result.Updated
	}

	s.logger.InfoContext(ctx, "ratings imported",
		logging.Int("added", result.Added),
		logging.Int("updated", result.Updated),
		logging.Bool("replace", replace),
	)
	return result, nil
}

// overwrite writes build() without reading the current slot content.
func (s *Store) overwrite(ctx context.Context, operation string, build func() []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlock, err := s.lock(ctx)
	if err != nil {
		return services.Wrap(services.ErrStorage, operation, "", err)
	}
	defer unlock()
	return s.write(ctx, operation, build())
}
