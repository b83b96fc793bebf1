// Package discover finds project descriptors under a directory.
package discover

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	bomerrors "github.com/matzehuels/stackbom/pkg/errors"
	"github.com/matzehuels/stackbom/pkg/maven"
)

// Options configures a walk. Patterns use glob syntax with '/' as separator
// and are matched against both the entry's base name and its slash-separated
// path relative to the root.
type Options struct {
	ExcludeDirs  []string
	ExcludeFiles []string
}

// Walker finds descriptors. Construct with [New].
type Walker struct {
	dirGlobs  []glob.Glob
	fileGlobs []glob.Glob
}

// New compiles the exclude patterns.
func New(opts Options) (*Walker, error) {
	dirGlobs, err := compile(opts.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compile(opts.ExcludeFiles)
	if err != nil {
		return nil, err
	}
	return &Walker{dirGlobs: dirGlobs, fileGlobs: fileGlobs}, nil
}

func compile(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, bomerrors.Wrap(bomerrors.ErrCodeInvalidInput, err, "invalid exclude pattern %q", p)
		}
		out = append(out, g)
	}
	return out, nil
}

// Walk returns the absolute paths of every descriptor under root, sorted.
// A file is a descriptor when its name equals pom.xml ignoring case.
// .git directories and symbolic links are never followed, and unreadable
// subdirectories are skipped.
func (w *Walker) Walk(ctx context.Context, root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, bomerrors.Wrap(bomerrors.ErrCodeInvalidPath, err, "resolve %s", root)
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != abs && errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		rel, _ := filepath.Rel(abs, path)
		rel = filepath.ToSlash(rel)
		base := d.Name()

		if d.IsDir() {
			if path == abs {
				return nil
			}
			if base == ".git" || matchAny(w.dirGlobs, base, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(base, maven.DescriptorName) || matchAny(w.fileGlobs, base, rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, bomerrors.Wrap(bomerrors.ErrCodeInvalidPath, err, "walk %s", root)
	}

	sort.Strings(files)
	return files, nil
}

func matchAny(globs []glob.Glob, base, rel string) bool {
	for _, g := range globs {
		if g.Match(base) || g.Match(rel) {
			return true
		}
	}
	return false
}
