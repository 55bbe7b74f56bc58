// Package browse holds the home view's state machine: the popular listing,
// debounced search as the query changes, and ordering of search responses.
package browse

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/debounce"
	"marquee/internal/logging"
	"marquee/internal/services"
)

// Defaults mirror the configuration defaults.
const (
	DefaultPopularPages = 16
	DefaultMinVoteCount = 700
	DefaultDebounce     = 500 * time.Millisecond
)

// Options configures a Model.
type Options struct {
	PopularPages int
	MinVoteCount int
	Debounce     time.Duration
	Clock        debounce.Clock
	Logger       *slog.Logger
}

// Model is the browse view. All state changes go through it and are
// published to subscribers as State snapshots.
type Model struct {
	catalog catalog.Catalog
	opts    Options
	logger  *slog.Logger
	timer   *debounce.Timer
	baseCtx context.Context
	cancel  context.CancelFunc

	mu             sync.Mutex
	state          State
	seq            uint64
	applied        uint64
	searchPending  bool
	pending        *debounce.Handle
	scheduled      uint64
	popular        []catalog.MediaRecord
	popularLoaded  bool
	popularLoading bool
	popularErr     error
	listeners      map[int]func(State)
	nextListener   int
}

// New creates a Model in popular mode. ctx bounds every request the model
// issues; Close cancels it.
func New(ctx context.Context, cat catalog.Catalog, opts Options) *Model {
	if opts.PopularPages <= 0 {
		opts.PopularPages = DefaultPopularPages
	}
	if opts.MinVoteCount < 0 {
		opts.MinVoteCount = DefaultMinVoteCount
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	var timerOpts []debounce.Option
	if opts.Clock != nil {
		timerOpts = append(timerOpts, debounce.WithClock(opts.Clock))
	}
	base, cancel := context.WithCancel(services.WithView(ctx, "browse"))
	return &Model{
		catalog:   cat,
		opts:      opts,
		logger:    logging.NewComponentLogger(opts.Logger, "browse"),
		timer:     debounce.New(timerOpts...),
		baseCtx:   base,
		cancel:    cancel,
		state:     State{Mode: ModePopular},
		listeners: map[int]func(State){},
	}
}

// State returns the current snapshot.
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// OnChange registers fn to receive every new State. The returned function
// unsubscribes. fn runs on the goroutine that caused the change and must not
// call back into the Model synchronously.
func (m *Model) OnChange(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// LoadPopular fetches the popular listing unless it was already loaded
// successfully. A failure is kept in state and retried on the next call.
func (m *Model) LoadPopular(ctx context.Context) error {
	m.mu.Lock()
	if m.popularLoaded || m.popularLoading {
		m.mu.Unlock()
		return nil
	}
	m.popularLoading = true
	m.popularErr = nil
	if m.state.Mode == ModePopular {
		m.state.Loading = true
		m.state.Err = nil
	}
	m.publishLocked()
	m.mu.Unlock()

	records, err := m.catalog.GetPopular(ctx, m.opts.PopularPages, m.opts.MinVoteCount)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.popularLoading = false
	if err != nil {
		m.popularErr = err
		logging.WarnWithContext(m.logger, "popular listing failed", "browse_popular_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "home view shows an error instead of popular titles"),
		)
	} else {
		m.popular = records
		m.popularLoaded = true
	}
	if m.state.Mode == ModePopular {
		m.showPopularLocked()
		m.publishLocked()
	}
	return err
}

// SetQuery records new query text. Blank text returns to the popular
// listing and cancels any pending search. Otherwise a search is scheduled
// after the debounce window; each call restarts the window.
func (m *Model) SetQuery(q string) {
	trimmed := strings.TrimSpace(q)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setQueryLocked(trimmed)
}

func (m *Model) setQueryLocked(trimmed string) {
	if trimmed == "" {
		m.pending.Cancel()
		m.pending = nil
		m.searchPending = false
		// A search whose timer already fired must not dispatch.
		m.scheduled++
		// Invalidate any in-flight search response.
		m.seq++
		m.applied = m.seq
		m.state.Query = ""
		m.state.Mode = ModePopular
		m.state.Seq = m.applied
		m.showPopularLocked()
		m.publishLocked()
		return
	}

	m.state.Query = trimmed
	m.state.Mode = ModeSearch
	m.state.Loading = true
	m.state.Err = nil
	m.searchPending = true
	m.scheduled++
	gen := m.scheduled
	m.pending = m.timer.Schedule(m.opts.Debounce, func() { m.dispatch(gen, trimmed) })
	m.publishLocked()
}

// Flush sends a pending search immediately, as when the user presses enter.
func (m *Model) Flush() bool {
	return m.timer.Flush()
}

// Close cancels pending and in-flight work. The Model must not be used after.
func (m *Model) Close() {
	m.mu.Lock()
	m.timer.Stop()
	m.listeners = map[int]func(State){}
	m.mu.Unlock()
	m.cancel()
}

func (m *Model) dispatch(gen uint64, query string) {
	m.mu.Lock()
	if gen != m.scheduled {
		// Superseded by a newer query or cleared.
		m.mu.Unlock()
		return
	}
	m.seq++
	seq := m.seq
	m.searchPending = false
	m.pending = nil
	m.mu.Unlock()

	m.logger.DebugContext(m.baseCtx, "search dispatched", logging.String("query", query), logging.Any("seq", seq))
	results, err := m.catalog.SearchMulti(m.baseCtx, query)
	m.apply(seq, query, results, err)
}

func (m *Model) apply(seq uint64, query string, results []catalog.MediaRecord, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if seq <= m.applied || m.state.Mode != ModeSearch {
		m.logger.DebugContext(m.baseCtx, "discarding stale search response",
			logging.String("query", query),
			logging.Any("seq", seq),
			logging.Any("applied", m.applied),
		)
		return
	}
	m.applied = seq
	m.state.Seq = seq
	if err != nil {
		m.state.Results = nil
		m.state.Err = err
	} else {
		m.state.Results = results
		m.state.Err = nil
	}
	m.state.Loading = m.searchPending || m.applied < m.seq
	m.publishLocked()
}

func (m *Model) showPopularLocked() {
	m.state.Loading = m.popularLoading
	m.state.Err = m.popularErr
	if m.popularLoaded {
		m.state.Results = append([]catalog.MediaRecord(nil), m.popular...)
	} else {
		m.state.Results = nil
	}
}

func (m *Model) publishLocked() {
	if len(m.listeners) == 0 {
		return
	}
	snapshot := m.state.clone()
	for _, fn := range m.listeners {
		fn(snapshot)
	}
}
