package maven

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackbom/pkg/errors"
)

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// StrictParentPath makes a relativePath that does not exist on disk a
	// hard error. By default the resolver falls back to the parent
	// coordinate instead.
	StrictParentPath bool

	// Logger receives debug output about ancestor lookups. Nil discards.
	Logger *log.Logger
}

// Resolver computes effective properties, effective dependency management
// and emitted dependencies against a frozen Registry. It keeps no state
// between calls and is safe for concurrent use.
type Resolver struct {
	registry *Registry
	opts     ResolverOptions
	logger   *log.Logger
}

// NewResolver creates a Resolver over registry.
func NewResolver(registry *Registry, opts ResolverOptions) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{registry: registry, opts: opts, logger: logger}
}

// LookupKind says how a parent was found.
type LookupKind int

const (
	NotFound LookupKind = iota
	FoundByPath
	FoundByCoordinate
)

func (k LookupKind) String() string {
	switch k {
	case FoundByPath:
		return "path"
	case FoundByCoordinate:
		return "coordinate"
	default:
		return "not found"
	}
}

// ParentLookup is the result of locating a parent. File is nil when Kind is
// NotFound.
type ParentLookup struct {
	Kind LookupKind
	File *ProjectFile
}

// LocateParentPath returns the base-relative path named by the parent's
// relativePath. The descriptor file name is appended unless the path already
// ends in it. ok is false when the parent has no relativePath.
func (r *Resolver) LocateParentPath(f *ProjectFile) (rel string, ok bool, err error) {
	if f.Parent == nil || f.Parent.RelativePath == "" || f.Remote {
		return "", false, nil
	}

	target := filepath.Join(filepath.Dir(f.Path), filepath.FromSlash(f.Parent.RelativePath))
	if !strings.EqualFold(filepath.Base(target), DescriptorName) {
		target = filepath.Join(target, DescriptorName)
	}

	canonical, err := filepath.EvalSymlinks(target)
	if err != nil {
		return "", true, errors.Wrap(errors.ErrCodeParentPathUnresolvable, err,
			"%s: parent %s", f.Path, f.Parent.RelativePath)
	}
	rel, err = r.registry.Relative(canonical)
	if err != nil {
		return "", true, err
	}
	return rel, true, nil
}

// LocateParent finds the parent of f by relative path, then by coordinate.
// A parent outside the registry is NotFound, not an error. With
// StrictParentPath an unresolvable relativePath is returned as an error.
func (r *Resolver) LocateParent(f *ProjectFile) (ParentLookup, error) {
	if f.Parent == nil {
		return ParentLookup{}, nil
	}

	rel, ok, err := r.LocateParentPath(f)
	switch {
	case err != nil && r.opts.StrictParentPath && errors.Is(err, errors.ErrCodeParentPathUnresolvable):
		return ParentLookup{}, err
	case err != nil:
		r.logger.Debug("parent path unusable, trying coordinate", "file", f.Path, "err", err)
	case ok:
		if parent, found := r.registry.LookupByPath(rel); found {
			return ParentLookup{Kind: FoundByPath, File: parent}, nil
		}
	}

	if c, ok := f.Parent.Coordinate(); ok {
		if parent, found := r.registry.LookupByCoordinate(c); found {
			return ParentLookup{Kind: FoundByCoordinate, File: parent}, nil
		}
	}
	return ParentLookup{}, nil
}

// Ancestry returns f followed by its ancestors, nearest first. A chain that
// revisits a file fails with CYCLIC_PARENT_CHAIN.
func (r *Resolver) Ancestry(f *ProjectFile) ([]*ProjectFile, error) {
	chain := []*ProjectFile{f}
	seen := map[*ProjectFile]bool{f: true}

	for cur := f; ; {
		lookup, err := r.LocateParent(cur)
		if err != nil {
			return nil, err
		}
		if lookup.Kind == NotFound {
			return chain, nil
		}
		if seen[lookup.File] {
			return nil, errors.New(errors.ErrCodeCyclicParentChain, "%s: %s", f.Path, describeChain(append(chain, lookup.File)))
		}
		seen[lookup.File] = true
		chain = append(chain, lookup.File)
		cur = lookup.File
	}
}

func describeChain(chain []*ProjectFile) string {
	parts := make([]string, len(chain))
	for i, f := range chain {
		parts[i] = f.Coordinate.String()
	}
	return strings.Join(parts, " -> ")
}

// EffectiveProperties merges properties from the root of the chain down to
// f. At each level the file's own properties overlay the inherited ones and
// one substitution pass runs over the result.
func (r *Resolver) EffectiveProperties(f *ProjectFile) (map[string]string, error) {
	chain, err := r.Ancestry(f)
	if err != nil {
		return nil, err
	}
	return effectiveProperties(chain), nil
}

func effectiveProperties(chain []*ProjectFile) map[string]string {
	merged := map[string]string{}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].Properties {
			merged[k] = v
		}
		merged = substituteProperties(merged)
	}
	return merged
}

// EffectiveDependencyManagement lists managed entries of the whole chain,
// root entries first. Duplicates are kept.
func (r *Resolver) EffectiveDependencyManagement(f *ProjectFile) ([]Dependency, error) {
	chain, err := r.Ancestry(f)
	if err != nil {
		return nil, err
	}
	return effectiveDependencyManagement(chain), nil
}

func effectiveDependencyManagement(chain []*ProjectFile) []Dependency {
	var out []Dependency
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].DependencyManagement...)
	}
	return out
}

// Resolve returns the dependencies of f that are fully concrete after
// substitution. A dependency without a version takes the first managed entry
// with the same unsubstituted group and artifact. Dependencies that stay
// unversioned-and-unmanaged or keep a placeholder are dropped.
func (r *Resolver) Resolve(f *ProjectFile) ([]ResolvedDependency, error) {
	chain, err := r.Ancestry(f)
	if err != nil {
		return nil, err
	}
	props := effectiveProperties(chain)

	var managed []Dependency
	if hasUnversioned(f.Dependencies) {
		managed = effectiveDependencyManagement(chain)
	}

	file, err := r.registry.Relative(f.Path)
	if err != nil {
		file = f.Path
	}

	var out []ResolvedDependency
	for _, dep := range f.Dependencies {
		source := dep
		if dep.Version == "" {
			entry, ok := findManaged(managed, dep.GroupID, dep.ArtifactID)
			if !ok {
				r.logger.Debug("no managed version", "file", file, "dependency", dep.GroupID+":"+dep.ArtifactID)
				continue
			}
			source = entry
		}

		group := interpolate(source.GroupID, props)
		artifact := interpolate(source.ArtifactID, props)
		version := interpolate(source.Version, props)
		if !concrete(group) || !concrete(artifact) || !concrete(version) {
			r.logger.Debug("unresolved placeholder", "file", file, "dependency", group+":"+artifact, "version", version)
			continue
		}

		scope := dep.Scope
		if scope == "" {
			scope = source.Scope
		}
		out = append(out, ResolvedDependency{
			Name:       group + ":" + artifact,
			GroupID:    group,
			ArtifactID: artifact,
			Version:    version,
			Scope:      scope,
			File:       file,
			Location:   dep.Location,
		})
	}
	return out, nil
}

func hasUnversioned(deps []Dependency) bool {
	for _, d := range deps {
		if d.Version == "" {
			return true
		}
	}
	return false
}

func findManaged(managed []Dependency, group, artifact string) (Dependency, bool) {
	for _, m := range managed {
		if m.GroupID == group && m.ArtifactID == artifact {
			return m, true
		}
	}
	return Dependency{}, false
}
