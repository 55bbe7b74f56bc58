package api

import (
	"fmt"
	"log/slog"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/ratings"
)

// NewCatalog builds the catalog client described by cfg. A missing API key
// yields a client whose operations fail with a configuration error.
func NewCatalog(cfg *config.Config, logger *slog.Logger) (*catalog.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	return catalog.New(catalog.Options{
		APIKey:            cfg.TMDB.APIKey,
		BaseURL:           cfg.TMDB.BaseURL,
		Language:          cfg.TMDB.Language,
		RequestsPerSecond: cfg.TMDB.RequestsPerSecond,
		Timeout:           cfg.RequestTimeout(),
	}, logger)
}

// OpenRatingStore opens the configured slot and wraps it in a Store. Callers
// must Close the store to release sqlite handles.
func OpenRatingStore(cfg *config.Config, logger *slog.Logger) (*ratings.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	slot, err := ratings.OpenSlot(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open rating slot: %w", err)
	}
	return ratings.NewStore(slot, logger), nil
}
