package web

import (
	"context"
	"sync"

	"marquee/internal/catalog"
)

// popularCache keeps the first successful popular listing for the server's
// lifetime. Failures are not cached.
type popularCache struct {
	mu      sync.Mutex
	records []catalog.MediaRecord
	loaded  bool
}

func (c *popularCache) get(ctx context.Context, cat catalog.Catalog, pages, minVotes int) ([]catalog.MediaRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.records, nil
	}
	records, err := cat.GetPopular(ctx, pages, minVotes)
	if err != nil {
		return nil, err
	}
	c.records = records
	c.loaded = true
	return records, nil
}

func (s *Server) popularRecords(ctx context.Context) ([]catalog.MediaRecord, error) {
	return s.popular.get(ctx, s.catalog, s.popularPages, s.minVoteCount)
}
