package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottomeasure/internal/config"
	"github.com/hammamikhairi/ottomeasure/internal/density"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/engine"
	"github.com/hammamikhairi/ottomeasure/internal/ingredient"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
	"github.com/hammamikhairi/ottomeasure/internal/recipe"
	"github.com/hammamikhairi/ottomeasure/internal/storage"
)

type commandContext struct {
	configFlag *string
	envFlag    *string
	systemFlag *string
	verbose    *bool
	quiet      *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	log     *logger.Logger
	closers []io.Closer
}

func newCommandContext(configFlag, envFlag, systemFlag *string, verbose, quiet *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		envFlag:    envFlag,
		systemFlag: systemFlag,
		verbose:    verbose,
		quiet:      quiet,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := config.LoadEnvFile(strings.TrimSpace(*c.envFlag)); err != nil {
			c.configErr = err
			return
		}
		cfg, _, _, err := config.Load(strings.TrimSpace(*c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger builds the application logger from config and flags. Logs go to
// the configured file when one is set so command output stays clean.
func (c *commandContext) logger(cmd *cobra.Command) *logger.Logger {
	if c.log != nil {
		return c.log
	}

	level := logger.LevelNormal
	var out io.Writer = cmd.ErrOrStderr()
	if cfg := c.config; cfg != nil {
		if l, err := logger.ParseLevel(cfg.Logging.Level); err == nil {
			level = l
		}
		if path := cfg.Logging.File; path != "" {
			if dir := filepath.Dir(path); dir != "" && dir != "." {
				_ = os.MkdirAll(dir, 0o755)
			}
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
			} else {
				out = f
				c.closers = append(c.closers, f)
			}
		}
	}
	if *c.verbose {
		level = logger.LevelVerbose
	}
	if *c.quiet {
		level = logger.LevelOff
	}

	c.log = logger.New(level, out)
	return c.log
}

// target is the display system: the --system flag, else the config.
func (c *commandContext) target() (domain.Target, error) {
	if s := strings.TrimSpace(*c.systemFlag); s != "" {
		return domain.ParseTarget(s)
	}
	if c.config == nil {
		return domain.TargetOriginal, nil
	}
	return c.config.Target(), nil
}

// openStore opens the SQLite density database named in the config. An
// empty database is seeded with the built-in catalog.
func (c *commandContext) openStore(ctx context.Context, cmd *cobra.Command) (*storage.SQLiteStore, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log := c.logger(cmd)
	store, err := storage.OpenSQLite(ctx, cfg.Density.DatabasePath, log)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, store)

	count, err := store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if err := storage.Seed(ctx, store, density.DefaultCatalog()); err != nil {
			return nil, fmt.Errorf("seed density database: %w", err)
		}
		log.Info("seeded %s with the built-in density catalog", store.Path())
	}
	return store, nil
}

// resolver builds the density resolver selected by density.source. The
// builtin and file catalogs are staged through an in-memory store so every
// source gets the same entry normalization as the database.
func (c *commandContext) resolver(ctx context.Context, cmd *cobra.Command) (*density.Table, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log := c.logger(cmd)

	var entries []domain.DensityEntry
	switch cfg.Density.Source {
	case config.DensityDatabase:
		store, err := c.openStore(ctx, cmd)
		if err != nil {
			return nil, err
		}
		return density.FromStore(ctx, store)
	case config.DensityFile:
		entries, err = density.LoadCatalogFile(cfg.Density.CatalogFile)
		if err != nil {
			return nil, err
		}
		log.Debug("loaded %d densities from %s", len(entries), cfg.Density.CatalogFile)
	default:
		entries = density.DefaultCatalog()
	}

	store := storage.NewMemoryStore(log)
	if err := storage.Seed(ctx, store, entries); err != nil {
		return nil, fmt.Errorf("stage density catalog: %w", err)
	}
	return density.FromStore(ctx, store)
}

// recipes loads recipes from the configured directory, or the built-in set.
func (c *commandContext) recipes(ctx context.Context, cmd *cobra.Command) (*recipe.MemorySource, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log := c.logger(cmd)
	if dir := cfg.Recipes.Directory; dir != "" {
		return recipe.LoadDir(ctx, dir, ingredient.NewLineParser(log), log)
	}
	return recipe.NewMemorySource(log), nil
}

func (c *commandContext) engine(ctx context.Context, cmd *cobra.Command) (*engine.Engine, error) {
	resolver, err := c.resolver(ctx, cmd)
	if err != nil {
		return nil, err
	}
	recipes, err := c.recipes(ctx, cmd)
	if err != nil {
		return nil, err
	}
	target, err := c.target()
	if err != nil {
		return nil, err
	}
	return engine.New(recipes, resolver, c.logger(cmd),
		engine.WithDefaultTarget(target),
		engine.WithPrecision(c.config.Display.Precision),
	), nil
}

func (c *commandContext) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i].Close()
	}
	c.closers = nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
