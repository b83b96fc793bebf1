package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackbom/pkg/errors"
	"github.com/matzehuels/stackbom/pkg/maven"
	"github.com/matzehuels/stackbom/pkg/observability"
)

type resolveSlot struct {
	deps []maven.ResolvedDependency
	err  error
}

// resolveAll runs pass 2. Results land in per-file slots and are collected
// in registry order after the barrier.
func (r *Runner) resolveAll(ctx context.Context, result *Result, opts Options) error {
	registry := result.Registry
	files := registry.Files()
	resolver := maven.NewResolver(registry, maven.ResolverOptions{
		StrictParentPath: opts.StrictParentPath,
		Logger:           opts.Logger,
	})

	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, len(files))
	start := time.Now()

	slots := make([]resolveSlot, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			deps, err := resolver.Resolve(f)
			if err != nil && opts.StrictParentPath && errors.Is(err, errors.ErrCodeParentPathUnresolvable) {
				return err
			}
			slots[i] = resolveSlot{deps: deps, err: err}
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		hooks.OnResolveComplete(ctx, len(files), 0, time.Since(start), err)
		return err
	}

	for i, f := range files {
		slot := slots[i]
		if slot.err != nil {
			result.Errors = append(result.Errors, FileError{Path: f.Path, Err: slot.err})
			continue
		}
		var kept []maven.ResolvedDependency
		for _, d := range slot.deps {
			if opts.SkipScopes[d.Scope] {
				result.Stats.Skipped++
				continue
			}
			kept = append(kept, d)
		}
		file, err := registry.Relative(f.Path)
		if err != nil {
			file = f.Path
		}
		result.Files = append(result.Files, FileResult{
			File:         file,
			Coordinate:   f.Coordinate,
			Dependencies: kept,
		})
		result.Stats.Dependencies += len(kept)
	}

	hooks.OnResolveComplete(ctx, len(files), result.Stats.Dependencies, time.Since(start), nil)
	return nil
}
