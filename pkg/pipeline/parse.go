package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackbom/pkg/errors"
	"github.com/matzehuels/stackbom/pkg/maven"
	"github.com/matzehuels/stackbom/pkg/observability"
)

// parseSlot holds the pass-1 outcome of one path. Workers write only their
// own slot, so no locking is needed.
type parseSlot struct {
	file *maven.ProjectFile
	hit  bool
	err  error
}

func (r *Runner) parseAll(ctx context.Context, parser *maven.Parser, paths []string, opts Options) ([]parseSlot, error) {
	slots := make([]parseSlot, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = r.parseOne(gctx, parser, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, slot := range slots {
		if slot.err != nil && !errors.FileScoped(slot.err) {
			return nil, slot.err
		}
	}
	return slots, nil
}

func (r *Runner) parseOne(ctx context.Context, parser *maven.Parser, path string, opts Options) parseSlot {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, path)
	start := time.Now()

	f, hit, err := r.parseCached(ctx, parser, path, opts)

	var deps int
	if f != nil {
		deps = len(f.Dependencies)
	}
	hooks.OnParseComplete(ctx, path, deps, time.Since(start), err)
	return parseSlot{file: f, hit: hit, err: err}
}

// parseCached parses path, consulting the cache by path and content hash.
// Cache failures degrade to a plain parse.
func (r *Runner) parseCached(ctx context.Context, parser *maven.Parser, path string, opts Options) (*maven.ProjectFile, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeUnreadableFile, err, "read %s", path)
	}

	hooks := observability.Cache()
	key := r.Keyer.DescriptorKey(path, content)

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Debug("parse cache unavailable", "path", path, "err", err)
		}
		if err == nil && hit {
			var f maven.ProjectFile
			if err := json.Unmarshal(data, &f); err == nil {
				hooks.OnCacheHit(ctx, "descriptor")
				return &f, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, "descriptor")
	}

	f, err := parser.Parse(path, content)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(f); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err == nil {
			hooks.OnCacheSet(ctx, "descriptor", len(data))
		} else {
			opts.Logger.Debug("parse cache write failed", "path", path, "err", err)
		}
	}
	return f, false, nil
}
