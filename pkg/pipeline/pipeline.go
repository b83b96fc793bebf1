// Package pipeline runs the descriptor-to-dependency pipeline for stackbom.
//
// The CLI and tests share this package so every entry point discovers,
// parses and resolves the same way.
//
// # Architecture
//
// A run has two passes separated by a barrier:
//
//  1. Parse: discovered descriptors are parsed in parallel (through the parse
//     cache) and then registered sequentially in path order. With remote
//     parents enabled, missing ancestors are fetched and registered by
//     coordinate before the registry is frozen.
//  2. Resolve: every scanned descriptor is resolved in parallel against the
//     frozen registry.
//
// Per-file failures are collected in [Result.Errors] and never stop the batch.
// The exception is [Options.StrictParentPath]: an unresolvable parent path
// aborts the run.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	defer runner.Close()
//	result, err := runner.Execute(ctx, pipeline.Options{Base: "."})
//	for _, dep := range result.Dependencies() {
//	    fmt.Println(dep.Name, dep.Version)
//	}
package pipeline

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackbom/pkg/discover"
	"github.com/matzehuels/stackbom/pkg/errors"
	"github.com/matzehuels/stackbom/pkg/maven"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxRemoteDepth bounds how many rounds of remote parent fetching
	// a run performs.
	DefaultMaxRemoteDepth = 8

	// DefaultCacheTTL is how long a parsed descriptor stays in the cache.
	DefaultCacheTTL = 24 * time.Hour
)

// POMFetcher downloads a descriptor by coordinate.
type POMFetcher interface {
	FetchPOM(ctx context.Context, groupID, artifactID, version string, refresh bool) ([]byte, error)
}

// =============================================================================
// Options
// =============================================================================

// Options configures a run.
type Options struct {
	// Base is the directory to scan. Every descriptor must live under it.
	Base string

	// Workers bounds parallelism in both passes. Zero uses the CPU count.
	Workers int

	// StrictParentPath turns an unresolvable parent relativePath into a
	// run-aborting error instead of a coordinate fallback.
	StrictParentPath bool

	// SkipScopes drops resolved dependencies with these scopes.
	SkipScopes map[maven.Scope]bool

	// Discover holds exclude patterns for the directory walk.
	Discover discover.Options

	// Refresh bypasses cached parse results and cached remote descriptors.
	Refresh bool

	// CacheTTL is the lifetime of a cached parse result. Zero uses
	// DefaultCacheTTL.
	CacheTTL time.Duration

	// Fetcher enables remote parents when non-nil.
	Fetcher POMFetcher

	// MaxRemoteDepth bounds fetch rounds. Zero uses DefaultMaxRemoteDepth.
	MaxRemoteDepth int

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Base == "" {
		return errors.New(errors.ErrCodeInvalidInput, "base directory is required")
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers cannot be negative")
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.MaxRemoteDepth == 0 {
		o.MaxRemoteDepth = DefaultMaxRemoteDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a run.
type Result struct {
	// Files holds one entry per successfully resolved descriptor, in path
	// order.
	Files []FileResult

	// Errors holds per-file failures from either pass, in path order within
	// each pass.
	Errors []FileError

	// Registry is the frozen registry the run resolved against.
	Registry *maven.Registry

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks parse cache usage.
	CacheInfo CacheInfo
}

// FileResult is the resolved output of one descriptor.
type FileResult struct {
	// File is the descriptor path relative to the base directory.
	File         string
	Coordinate   maven.Coordinate
	Dependencies []maven.ResolvedDependency
}

// FileError is a failure scoped to one descriptor.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e FileError) Unwrap() error { return e.Err }

// Stats contains run statistics.
type Stats struct {
	Discovered   int
	Parsed       int
	Remote       int
	Dependencies int
	Skipped      int
	ParseTime    time.Duration
	RemoteTime   time.Duration
	ResolveTime  time.Duration
}

// CacheInfo counts parse cache lookups.
type CacheInfo struct {
	ParseHits   int
	ParseMisses int
}

// Dependencies flattens every file's dependencies in file order.
func (r *Result) Dependencies() []maven.ResolvedDependency {
	var out []maven.ResolvedDependency
	for _, f := range r.Files {
		out = append(out, f.Dependencies...)
	}
	return out
}
