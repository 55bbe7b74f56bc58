package testsupport

import (
	"context"
	"sync"

	"marquee/internal/catalog"
	"marquee/internal/services"
)

// FakeCatalog is an in-memory catalog.Catalog. Search results are keyed by
// query; detail lookups consult Details. Hooks, when set, run before a call
// returns and may block to simulate latency.
type FakeCatalog struct {
	mu         sync.Mutex
	Search     map[string][]catalog.MediaRecord
	Popular    []catalog.MediaRecord
	Details    map[int64]catalog.MediaRecord
	Err        error
	SearchHook func(query string)
	calls      []string
}

var _ catalog.Catalog = (*FakeCatalog)(nil)

// NewFakeCatalog returns an empty fake.
func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{
		Search:  map[string][]catalog.MediaRecord{},
		Details: map[int64]catalog.MediaRecord{},
	}
}

func (f *FakeCatalog) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

// Calls lists the operations performed, in order.
func (f *FakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeCatalog) SearchMulti(_ context.Context, query string) ([]catalog.MediaRecord, error) {
	f.record("search:" + query)
	if f.SearchHook != nil {
		f.SearchHook(query)
	}
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.MediaRecord{}, f.Search[query]...), nil
}

func (f *FakeCatalog) GetPopular(context.Context, int, int) ([]catalog.MediaRecord, error) {
	f.record("popular")
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.MediaRecord{}, f.Popular...), nil
}

func (f *FakeCatalog) GetDetail(_ context.Context, id int64) (catalog.MediaRecord, error) {
	f.record("detail")
	if f.Err != nil {
		return catalog.MediaRecord{}, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.Details[id]
	if !ok {
		return catalog.MediaRecord{}, services.Wrap(services.ErrNotFound, "detail", "", nil)
	}
	return rec, nil
}

// Media builds a movie record with a poster.
func Media(id int64, title string) catalog.MediaRecord {
	poster := "/" + title + ".jpg"
	return catalog.MediaRecord{
		ID:               id,
		Title:            title,
		PosterPath:       &poster,
		Overview:         title + " overview",
		ReleaseDate:      "1999-03-31",
		VoteAverage:      7.5,
		VoteCount:        1000,
		OriginalLanguage: "en",
		Kind:             catalog.KindMovie,
	}
}
