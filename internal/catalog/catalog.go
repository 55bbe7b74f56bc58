package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"marquee/internal/catalog/tmdb"
	"marquee/internal/logging"
	"marquee/internal/services"
	"marquee/internal/validation"
)

// MissingKeyMessage is shown wherever a catalog operation runs without a key.
const MissingKeyMessage = "TMDB API key is not configured. Set tmdb.api_key in config.toml or TMDB_API_KEY."

// Catalog is the read-only view of the remote media catalog used by the views.
type Catalog interface {
	SearchMulti(ctx context.Context, query string) ([]MediaRecord, error)
	GetPopular(ctx context.Context, pageCount, minVoteCount int) ([]MediaRecord, error)
	GetDetail(ctx context.Context, id int64) (MediaRecord, error)
}

// Options configures a Client built from application settings.
type Options struct {
	APIKey            string
	BaseURL           string
	Language          string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client normalizes and validates TMDB responses into MediaRecord values.
type Client struct {
	api    tmdb.API
	logger *slog.Logger
}

var _ Catalog = (*Client)(nil)

// New builds a Client. A blank API key is accepted; every operation then fails
// with a configuration error before touching the network.
func New(opts Options, logger *slog.Logger, extra ...tmdb.Option) (*Client, error) {
	c := &Client{logger: logging.NewComponentLogger(logger, "catalog")}
	if strings.TrimSpace(opts.APIKey) == "" {
		return c, nil
	}
	tmdbOpts := []tmdb.Option{tmdb.WithRateLimit(opts.RequestsPerSecond)}
	if opts.Timeout > 0 {
		tmdbOpts = append(tmdbOpts, tmdb.WithTimeout(opts.Timeout))
	}
	tmdbOpts = append(tmdbOpts, extra...)
	api, err := tmdb.New(opts.APIKey, opts.BaseURL, opts.Language, tmdbOpts...)
	if err != nil {
		return nil, err
	}
	c.api = api
	return c, nil
}

// NewWithAPI wraps an existing TMDB API implementation. A nil api behaves as
// an unconfigured client.
func NewWithAPI(api tmdb.API, logger *slog.Logger) *Client {
	return &Client{api: api, logger: logging.NewComponentLogger(logger, "catalog")}
}

// Configured reports whether the client holds credentials.
func (c *Client) Configured() bool {
	return c != nil && c.api != nil
}

func (c *Client) ensureConfigured(operation string) error {
	if c.Configured() {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, operation, MissingKeyMessage, nil)
}

// SearchMulti searches movies and TV shows. A blank query returns an empty
// slice without a network call. People and unknown kinds are dropped.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]MediaRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []MediaRecord{}, nil
	}
	if err := c.ensureConfigured("search"); err != nil {
		return nil, err
	}

	resp, err := c.api.SearchMulti(ctx, query)
	if err != nil {
		return nil, upstreamError("search", err)
	}
	records := c.collect(ctx, resp.Results, "")
	c.logger.DebugContext(ctx, "search completed",
		logging.String("query", query),
		logging.Int("upstream_results", len(resp.Results)),
		logging.Int("results", len(records)),
	)
	return records, nil
}

// GetPopular fetches pageCount pages of popular movies one after another and
// concatenates them in page order. Only records with a poster and strictly
// more than minVoteCount votes are kept. The server-side filter is sent as
// vote_count.gte=minVoteCount+1 so both sides apply the same comparison.
func (c *Client) GetPopular(ctx context.Context, pageCount, minVoteCount int) ([]MediaRecord, error) {
	if err := c.ensureConfigured("popular"); err != nil {
		return nil, err
	}
	if pageCount <= 0 {
		return []MediaRecord{}, nil
	}

	start := time.Now()
	out := make([]MediaRecord, 0, pageCount*20)
	for page := 1; page <= pageCount; page++ {
		resp, err := c.api.Popular(ctx, page, minVoteCount+1)
		if err != nil {
			return nil, upstreamError("popular", err)
		}
		for _, rec := range c.collect(ctx, resp.Results, KindMovie) {
			if rec.PosterPath == nil || rec.VoteCount <= int64(minVoteCount) {
				continue
			}
			out = append(out, rec)
		}
	}
	c.logger.InfoContext(ctx, "popular listing loaded",
		logging.Int("pages", pageCount),
		logging.Int("results", len(out)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// GetDetail resolves id as a movie first and as a TV show when no movie
// exists. Failures other than not-found on the movie lookup are returned
// without trying TV.
func (c *Client) GetDetail(ctx context.Context, id int64) (MediaRecord, error) {
	ctx = services.WithMediaID(ctx, id)
	if err := c.ensureConfigured("detail"); err != nil {
		return MediaRecord{}, err
	}
	if id <= 0 {
		return MediaRecord{}, services.Wrap(services.ErrValidation, "detail", "Invalid movie ID.", nil)
	}

	result, err := c.api.MovieDetails(ctx, id)
	if err != nil {
		if !errors.Is(err, tmdb.ErrNotFound) {
			return MediaRecord{}, upstreamError("movie detail", err)
		}
		logging.WithContext(ctx, c.logger).DebugContext(ctx, "movie not found, trying tv")
		result, err = c.api.TVDetails(ctx, id)
		if err != nil {
			if errors.Is(err, tmdb.ErrNotFound) {
				return MediaRecord{}, services.Wrap(services.ErrNotFound, "detail", upstreamMessage(err), err)
			}
			return MediaRecord{}, upstreamError("tv detail", err)
		}
	}

	rec, ok := normalizeResult(*result, "")
	if !ok {
		return MediaRecord{}, services.Wrap(services.ErrUpstream, "detail", "", errors.New("unsupported media type "+result.MediaType))
	}
	if errs := validation.Struct(rec); errs != nil {
		return MediaRecord{}, services.Wrap(services.ErrUpstream, "detail", "The catalog returned an invalid record.", errors.New(validation.Summary(errs)))
	}
	return rec, nil
}

func (c *Client) collect(ctx context.Context, results []tmdb.Result, fallback MediaKind) []MediaRecord {
	out := make([]MediaRecord, 0, len(results))
	for _, r := range results {
		rec, ok := normalizeResult(r, fallback)
		if !ok {
			continue
		}
		if errs := validation.Struct(rec); errs != nil {
			c.logger.DebugContext(ctx, "dropping invalid catalog record",
				logging.Int64(logging.FieldMediaID, r.ID),
				logging.String("reason", validation.Summary(errs)),
			)
			continue
		}
		out = append(out, rec)
	}
	return out
}

func upstreamError(operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrUpstream, operation, "The catalog request was cancelled or timed out.", err)
	}
	return services.Wrap(services.ErrUpstream, operation, upstreamMessage(err), err)
}

func upstreamMessage(err error) string {
	var statusErr *tmdb.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusMessage
	}
	return ""
}
