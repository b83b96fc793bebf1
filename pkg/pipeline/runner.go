package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackbom/pkg/cache"
	"github.com/matzehuels/stackbom/pkg/discover"
	"github.com/matzehuels/stackbom/pkg/maven"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// results. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute discovers, parses and resolves every descriptor under opts.Base.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	walker, err := discover.New(opts.Discover)
	if err != nil {
		return nil, err
	}
	paths, err := walker.Walk(ctx, opts.Base)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	logger.Debug("discovered descriptors", "count", len(paths), "base", opts.Base)

	parser, err := maven.NewParser()
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	builder, err := maven.NewRegistryBuilder(opts.Base)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	result.Stats.Discovered = len(paths)

	// Stage 1: Parse
	parseStart := time.Now()
	slots, err := r.parseAll(ctx, parser, paths, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	for i, slot := range slots {
		if slot.hit {
			result.CacheInfo.ParseHits++
		} else if slot.err == nil {
			result.CacheInfo.ParseMisses++
		}
		if slot.err == nil {
			slot.err = builder.Insert(slot.file)
		}
		if slot.err != nil {
			result.Errors = append(result.Errors, FileError{Path: paths[i], Err: slot.err})
			continue
		}
		result.Stats.Parsed++
	}
	result.Stats.ParseTime = time.Since(parseStart)

	logger.Info("parsed descriptors",
		"parsed", result.Stats.Parsed,
		"failed", len(result.Errors),
		"cached", result.CacheInfo.ParseHits,
		"duration", result.Stats.ParseTime)

	// Optional: remote parents
	if opts.Fetcher != nil {
		remoteStart := time.Now()
		fetched, err := r.fetchParents(ctx, parser, builder, opts)
		if err != nil {
			return nil, fmt.Errorf("remote parents: %w", err)
		}
		result.Stats.Remote = fetched
		result.Stats.RemoteTime = time.Since(remoteStart)
		logger.Info("fetched remote parents", "count", fetched, "duration", result.Stats.RemoteTime)
	}

	// Stage 2: Resolve
	result.Registry = builder.Build()
	resolveStart := time.Now()
	if err := r.resolveAll(ctx, result, opts); err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Stats.ResolveTime = time.Since(resolveStart)

	logger.Info("resolved dependencies",
		"files", len(result.Files),
		"dependencies", result.Stats.Dependencies,
		"skipped", result.Stats.Skipped,
		"duration", result.Stats.ResolveTime)

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
