package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackbom/pkg/errors"
	"github.com/matzehuels/stackbom/pkg/maven"
	"github.com/matzehuels/stackbom/pkg/observability"
)

// fetchParents fetches ancestors that the scan did not find, one round per
// level of the chain, and registers them by coordinate. Each coordinate is
// attempted at most once. Fetch failures are logged and the parent stays
// unregistered.
func (r *Runner) fetchParents(ctx context.Context, parser *maven.Parser, builder *maven.RegistryBuilder, opts Options) (int, error) {
	attempted := make(map[maven.Coordinate]bool)
	pending := append([]*maven.ProjectFile(nil), builder.Snapshot().Files()...)
	var fetched int

	for round := 0; round < opts.MaxRemoteDepth && len(pending) > 0; round++ {
		resolver := maven.NewResolver(builder.Snapshot(), maven.ResolverOptions{Logger: opts.Logger})

		var wanted []maven.Coordinate
		for _, f := range pending {
			coord, ok := missingParent(resolver, f)
			if !ok || attempted[coord] {
				continue
			}
			attempted[coord] = true
			wanted = append(wanted, coord)
		}
		if len(wanted) == 0 {
			break
		}
		opts.Logger.Debug("fetching parents", "round", round+1, "count", len(wanted))

		slots := make([]*maven.ProjectFile, len(wanted))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i, coord := range wanted {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				slots[i] = r.fetchOne(gctx, parser, coord, opts)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fetched, err
		}

		pending = pending[:0]
		for _, f := range slots {
			if f == nil {
				continue
			}
			if err := builder.InsertRemote(f); err != nil {
				return fetched, err
			}
			pending = append(pending, f)
			fetched++
		}
	}
	return fetched, nil
}

// missingParent returns the parent coordinate of f when f names one and
// nothing registered so far satisfies it.
func missingParent(resolver *maven.Resolver, f *maven.ProjectFile) (maven.Coordinate, bool) {
	if f.Parent == nil {
		return maven.Coordinate{}, false
	}
	coord, ok := f.Parent.Coordinate()
	if !ok {
		return maven.Coordinate{}, false
	}
	lookup, err := resolver.LocateParent(f)
	if err != nil || lookup.Kind != maven.NotFound {
		return maven.Coordinate{}, false
	}
	return coord, true
}

// fetchOne downloads and parses one ancestor. The fetched descriptor is
// registered under the coordinate it was requested by: a repository path
// fixes group and version even when the descriptor inherits them.
func (r *Runner) fetchOne(ctx context.Context, parser *maven.Parser, coord maven.Coordinate, opts Options) *maven.ProjectFile {
	hooks := observability.Pipeline()
	hooks.OnRemoteStart(ctx, coord.String())
	start := time.Now()

	f, err := r.fetchAndParse(ctx, parser, coord, opts)
	hooks.OnRemoteComplete(ctx, coord.String(), time.Since(start), err)
	if err != nil {
		opts.Logger.Warn("remote parent unavailable", "coordinate", coord, "err", errors.UserMessage(err))
		return nil
	}
	return f
}

func (r *Runner) fetchAndParse(ctx context.Context, parser *maven.Parser, coord maven.Coordinate, opts Options) (*maven.ProjectFile, error) {
	content, err := opts.Fetcher.FetchPOM(ctx, coord.GroupID, coord.ArtifactID, coord.Version, opts.Refresh)
	if err != nil {
		return nil, err
	}
	f, err := parser.Parse(coord.String(), content)
	if err != nil {
		return nil, err
	}
	if f.Coordinate.ArtifactID != coord.ArtifactID {
		return nil, errors.New(errors.ErrCodeMalformedContent,
			"%s: repository returned artifact %q", coord, f.Coordinate.ArtifactID)
	}
	f.Coordinate = coord
	f.Remote = true
	return f, nil
}
