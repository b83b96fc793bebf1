package maven

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/stackbom/pkg/errors"
)

// RegistryBuilder collects ProjectFiles during the parse pass. It is not safe
// for concurrent use; callers insert from a single goroutine.
type RegistryBuilder struct {
	reg   *Registry
	built bool
}

// Registry indexes every ProjectFile of one run by path relative to the base
// directory and by coordinate. It is read-only and safe for concurrent use.
type Registry struct {
	base          string
	canonicalBase string
	byPath        map[string]*ProjectFile
	byCoordinate  map[Coordinate]*ProjectFile
	files         []*ProjectFile
	remote        []*ProjectFile
}

// NewRegistryBuilder starts a registry rooted at base.
func NewRegistryBuilder(base string) (*RegistryBuilder, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "base directory %s", base)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		canonical = abs
	}
	return &RegistryBuilder{reg: &Registry{
		base:          abs,
		canonicalBase: canonical,
		byPath:        make(map[string]*ProjectFile),
		byCoordinate:  make(map[Coordinate]*ProjectFile),
	}}, nil
}

// Insert registers a scanned descriptor by relative path and coordinate. A
// later file with the same coordinate replaces the earlier one in the
// coordinate index.
func (b *RegistryBuilder) Insert(f *ProjectFile) error {
	if b.built {
		return errors.New(errors.ErrCodeInternal, "registry already built")
	}
	rel, err := b.reg.Relative(f.Path)
	if err != nil {
		return err
	}
	b.reg.byPath[rel] = f
	b.reg.byCoordinate[f.Coordinate] = f
	b.reg.files = append(b.reg.files, f)
	return nil
}

// InsertRemote registers a fetched ancestor by coordinate only. An existing
// local file with the same coordinate is kept.
func (b *RegistryBuilder) InsertRemote(f *ProjectFile) error {
	if b.built {
		return errors.New(errors.ErrCodeInternal, "registry already built")
	}
	if existing, ok := b.reg.byCoordinate[f.Coordinate]; ok && !existing.Remote {
		return nil
	}
	remote := *f
	remote.Remote = true
	b.reg.byCoordinate[f.Coordinate] = &remote
	b.reg.remote = append(b.reg.remote, &remote)
	return nil
}

// Snapshot returns a read-only view of what has been inserted so far. The
// builder stays usable; the snapshot must not be used concurrently with
// further inserts.
func (b *RegistryBuilder) Snapshot() *Registry {
	return b.reg
}

// Build freezes the builder and returns the registry.
func (b *RegistryBuilder) Build() *Registry {
	b.built = true
	return b.reg
}

// Base returns the absolute base directory.
func (r *Registry) Base() string { return r.base }

// Files returns the scanned descriptors in insertion order.
func (r *Registry) Files() []*ProjectFile { return r.files }

// Remote returns fetched ancestors in insertion order.
func (r *Registry) Remote() []*ProjectFile { return r.remote }

// Len returns the number of scanned descriptors.
func (r *Registry) Len() int { return len(r.files) }

// LookupByPath finds a scanned descriptor by base-relative path.
func (r *Registry) LookupByPath(rel string) (*ProjectFile, bool) {
	f, ok := r.byPath[filepath.Clean(rel)]
	return f, ok
}

// LookupByCoordinate finds a descriptor by its verbatim coordinate.
func (r *Registry) LookupByCoordinate(c Coordinate) (*ProjectFile, bool) {
	f, ok := r.byCoordinate[c]
	return f, ok
}

// Relative expresses an absolute path relative to the base directory. Both
// the base as given and its symlink-resolved form are accepted.
func (r *Registry) Relative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "%s", path)
	}
	for _, base := range []string{r.base, r.canonicalBase} {
		if rel, ok := within(base, abs); ok {
			return rel, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidPath, "%s is outside %s", path, r.base)
}

func within(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
