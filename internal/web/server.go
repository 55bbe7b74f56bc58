package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/detail"
	"marquee/internal/logging"
	"marquee/internal/ratings"
)

// Server hosts the HTML views and the JSON API.
type Server struct {
	bind         string
	imageBaseURL string
	popularPages int
	minVoteCount int

	catalog catalog.Catalog
	store   *ratings.Store
	detail  *detail.Model
	popular *popularCache
	pages   *renderer
	logger  *slog.Logger

	handler http.Handler
}

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.bind }

// New wires a Server from configuration and its dependencies.
func New(cfg *config.Config, cat catalog.Catalog, store *ratings.Store, logger *slog.Logger) (*Server, error) {
	if cfg == nil || cat == nil || store == nil {
		return nil, errors.New("web: config, catalog and store are required")
	}
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}
	logger = logging.NewComponentLogger(logger, "web")
	s := &Server{
		bind:         strings.TrimSpace(cfg.Server.Bind),
		imageBaseURL: cfg.TMDB.ImageBaseURL,
		popularPages: cfg.Browse.PopularPages,
		minVoteCount: cfg.Browse.MinVoteCount,
		catalog:      cat,
		store:        store,
		detail:       detail.New(cat, store, logger),
		popular:      &popularCache{},
		pages:        pages,
		logger:       logger,
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /media/{id}", s.handleDetail)
	mux.HandleFunc("POST /media/{id}/rating", s.handleSaveRating)
	mux.HandleFunc("POST /media/{id}/rating/delete", s.handleDeleteRating)

	mux.HandleFunc("GET /api/search", s.handleAPISearch)
	mux.HandleFunc("GET /api/popular", s.handleAPIPopular)
	mux.HandleFunc("GET /api/media/{id}", s.handleAPIMedia)
	mux.HandleFunc("GET /api/ratings", s.handleAPIRatings)
	mux.HandleFunc("PUT /api/ratings/{id}", s.handleAPIPutRating)
	mux.HandleFunc("DELETE /api/ratings/{id}", s.handleAPIDeleteRating)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return withRequestID(s.withAccessLog(mux))
}

// Serve serves on listener until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	s.logger.Info("web server listening", logging.String("address", "http://"+listener.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web shutdown: %w", err)
	}
	s.logger.Info("web server stopped")
	return nil
}
