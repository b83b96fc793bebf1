// Package cli implements the stackbom command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackbom/pkg/buildinfo"
	"github.com/matzehuels/stackbom/pkg/cache"
	"github.com/matzehuels/stackbom/pkg/config"
	"github.com/matzehuels/stackbom/pkg/integrations"
	"github.com/matzehuels/stackbom/pkg/integrations/maven"
	"github.com/matzehuels/stackbom/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stackbom"

	// parseCacheDir and httpCacheDir are the subdirectories of the cache
	// directory holding parsed descriptors and fetched remote descriptors.
	parseCacheDir = "parse"
	httpCacheDir  = "http"

	// redisPrefix scopes parse cache keys in a shared Redis instance.
	redisPrefix = "stackbom:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stackbom builds CycloneDX SBOMs from Maven projects",
		Long:         `Stackbom scans a directory for pom.xml files, resolves every declared dependency to a concrete version through parent inheritance, properties and dependency management, and emits a CycloneDX SBOM.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.diffCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner whose parse cache follows cfg.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	store, keyer, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the parse cache backend. A file cache that cannot be
// created degrades to no caching.
func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, cache.Keyer, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil, nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisPrefix), nil
	}
	dir := cfg.Dir
	if dir == "" {
		base, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil, nil
		}
		dir = filepath.Join(base, parseCacheDir)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache(), nil, nil
	}
	return fc, nil, nil
}

// newFetcher builds the remote descriptor client, or returns nil when remote
// parents are disabled.
func newFetcher(cfg config.Config) (pipeline.POMFetcher, error) {
	if !cfg.Remote.Enabled {
		return nil, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	httpCache, err := integrations.NewCacheWithNamespace(filepath.Join(dir, httpCacheDir), "maven:", cfg.Cache.TTL)
	if err != nil {
		return nil, err
	}
	client, err := maven.NewClient(httpCache, cfg.Remote.RepositoryURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stackbom/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
