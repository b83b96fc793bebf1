package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackbom/pkg/config"
	"github.com/matzehuels/stackbom/pkg/discover"
	"github.com/matzehuels/stackbom/pkg/observability"
	"github.com/matzehuels/stackbom/pkg/pipeline"
)

// scanOpts holds the flags shared by commands that run the pipeline.
// Flags that are set on the command line override stackbom.toml.
type scanOpts struct {
	config  string // explicit config file
	workers int    // parallelism for both passes
	strict  bool   // abort on unresolvable parent paths
	remote  bool   // fetch missing parents from the repository
	noCache bool   // disable the parse cache
	refresh bool   // bypass cached entries
	trace   bool   // log per-file pipeline events
}

// addFlags registers the scan flags on cmd.
func (o *scanOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.config, "config", "c", "", "config file (default: <dir>/stackbom.toml)")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "parallel workers (default: config or CPU count)")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "fail when a parent relativePath does not exist")
	cmd.Flags().BoolVar(&o.remote, "remote", false, "fetch parents missing from the scan from the repository")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the parse cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "bypass cached parse results and descriptors")
	cmd.Flags().BoolVar(&o.trace, "trace", false, "log every file, fetch and cache lookup")
}

// loadConfig finds the configuration for dir and applies flag overrides.
func (o *scanOpts) loadConfig(cmd *cobra.Command, dir string) (config.Config, string, error) {
	cfg, path, err := config.Find(dir, o.config)
	if err != nil {
		return config.Config{}, "", err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("strict") {
		cfg.StrictParentPath = o.strict
	}
	if flags.Changed("remote") {
		cfg.Remote.Enabled = o.remote
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", err
	}
	return cfg, path, nil
}

// pipelineOptions converts a configuration into runner options.
func pipelineOptions(base string, cfg config.Config, refresh bool) pipeline.Options {
	return pipeline.Options{
		Base:             base,
		Workers:          cfg.Workers,
		StrictParentPath: cfg.StrictParentPath,
		SkipScopes:       cfg.SkippedScopes(),
		Discover: discover.Options{
			ExcludeDirs:  cfg.Discover.ExcludeDirs,
			ExcludeFiles: cfg.Discover.ExcludeFiles,
		},
		Refresh:        refresh,
		CacheTTL:       cfg.Cache.TTL,
		MaxRemoteDepth: cfg.Remote.MaxDepth,
	}
}

// scan runs the pipeline over dir and reports per-file failures as warnings.
func (c *CLI) scan(cmd *cobra.Command, o *scanOpts, dir string) (*pipeline.Result, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	base, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	cfg, cfgPath, err := o.loadConfig(cmd, base)
	if err != nil {
		return nil, err
	}
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	if o.trace {
		hooks := observability.NewLogHooks(logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
	}

	runner, err := c.newRunner(ctx, cfg, o.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	opts := pipelineOptions(base, cfg, o.refresh)
	opts.Logger = logger
	if opts.Fetcher, err = newFetcher(cfg); err != nil {
		return nil, err
	}

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Scanned %d descriptors", result.Stats.Discovered),
		"resolved", len(result.Files),
		"failed", len(result.Errors))

	for _, fe := range result.Errors {
		logger.Warnf("%s: %v", relPath(base, fe.Path), fe.Err)
	}
	return result, nil
}

// relPath shortens path relative to base for display.
func relPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
