package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"marquee/internal/api"
	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/ratings"
	"marquee/internal/services"
)

type commandContext struct {
	configFlag  *string
	jsonFlag    *bool
	verboseFlag *bool
	// ephemeral swaps the configured rating slot for an in-memory one.
	ephemeral bool

	configOnce  sync.Once
	config      *config.Config
	configPath  string
	configFound bool
	configErr   error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		jsonFlag:    jsonFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, found, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.ephemeral {
			cfg.Storage.Backend = config.StorageMemory
			cfg.Storage.Path = ""
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configFound = found
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// log returns the process logger. Construction failures fall back to stderr
// only so a bad log directory never blocks a command.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg, c.verbose())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
			logger, _ = logging.NewFromConfig(nil, c.verbose())
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) newCatalog() (*catalog.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return api.NewCatalog(cfg, c.log())
}

func (c *commandContext) withStore(fn func(*ratings.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := api.OpenRatingStore(cfg, c.log())
	if err != nil {
		return services.Wrap(services.ErrStorage, "open ratings", "Could not open saved ratings at "+cfg.Storage.Path+".", err)
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) imageBaseURL() string {
	if c.config == nil {
		return ""
	}
	return c.config.TMDB.ImageBaseURL
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// userMessage renders err for the terminal. Classified errors show the text
// meant for users; anything else shows the full chain.
func userMessage(err error) string {
	if services.Kind(err) != nil {
		return services.UserMessage(err)
	}
	return err.Error()
}
