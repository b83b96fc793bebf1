package maven

import "strings"

// DescriptorName is the conventional descriptor file name.
const DescriptorName = "pom.xml"

// Scope is a recognized dependency scope. The zero value means no scope.
type Scope string

const (
	ScopeImport   Scope = "import"
	ScopeTest     Scope = "test"
	ScopeProvided Scope = "provided"
)

// ParseScope recognizes scope text case-insensitively. Unknown text yields
// the zero Scope.
func ParseScope(s string) Scope {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeImport:
		return ScopeImport
	case ScopeTest:
		return ScopeTest
	case ScopeProvided:
		return ScopeProvided
	}
	return ""
}

// DependencyType is a recognized dependency packaging type. The zero value
// means no type.
type DependencyType string

const TypePOM DependencyType = "pom"

// ParseDependencyType recognizes type text case-insensitively.
func ParseDependencyType(s string) DependencyType {
	if strings.EqualFold(strings.TrimSpace(s), string(TypePOM)) {
		return TypePOM
	}
	return ""
}

// Coordinate identifies a project. Empty GroupID or Version means the
// descriptor did not declare it. Coordinates are compared verbatim, without
// placeholder substitution.
type Coordinate struct {
	GroupID    string `json:"group_id,omitempty"`
	ArtifactID string `json:"artifact_id"`
	Version    string `json:"version,omitempty"`
}

func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// ParentReference points from a descriptor to its ancestor, by relative path,
// by coordinate, or both.
type ParentReference struct {
	RelativePath string `json:"relative_path,omitempty"`
	GroupID      string `json:"group_id,omitempty"`
	ArtifactID   string `json:"artifact_id,omitempty"`
	Version      string `json:"version,omitempty"`
}

// Coordinate returns the explicit parent coordinate, if all three fields are
// present.
func (p ParentReference) Coordinate() (Coordinate, bool) {
	if p.GroupID == "" || p.ArtifactID == "" || p.Version == "" {
		return Coordinate{}, false
	}
	return Coordinate{GroupID: p.GroupID, ArtifactID: p.ArtifactID, Version: p.Version}, true
}

// normalizeParent accepts a relative path alone, a full coordinate alone, or
// both. Every other combination means no parent.
func normalizeParent(p ParentReference) *ParentReference {
	_, full := p.Coordinate()
	none := p.GroupID == "" && p.ArtifactID == "" && p.Version == ""
	switch {
	case p.RelativePath != "" && (none || full):
		return &p
	case p.RelativePath == "" && full:
		return &p
	}
	return nil
}

// Position is a 1-indexed line and column. Columns count grapheme clusters.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Location is a span of a descriptor file.
type Location struct {
	File  string   `json:"file"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// DependencyLocation records where a dependency was declared: the whole
// <dependency> element, its artifactId value and its version value.
type DependencyLocation struct {
	Block   Location  `json:"block"`
	Name    Location  `json:"name"`
	Version *Location `json:"version,omitempty"`
}

// Dependency is one <dependency> element, as declared.
type Dependency struct {
	GroupID    string              `json:"group_id"`
	ArtifactID string              `json:"artifact_id"`
	Version    string              `json:"version,omitempty"`
	Type       DependencyType      `json:"type,omitempty"`
	Scope      Scope               `json:"scope,omitempty"`
	Location   *DependencyLocation `json:"location,omitempty"`
}

// ProjectFile is one parsed descriptor. It is never mutated after parsing.
type ProjectFile struct {
	Coordinate           Coordinate        `json:"coordinate"`
	Path                 string            `json:"path"`
	Properties           map[string]string `json:"properties"`
	DependencyManagement []Dependency      `json:"dependency_management,omitempty"`
	Dependencies         []Dependency      `json:"dependencies,omitempty"`
	Parent               *ParentReference  `json:"parent,omitempty"`

	// Remote marks an ancestor fetched from a repository rather than found
	// on disk. Remote files take part in resolution but are never emitted.
	Remote bool `json:"remote,omitempty"`
}

// ResolvedDependency is a dependency of a scanned descriptor with every field
// concrete.
type ResolvedDependency struct {
	Name       string              `json:"name"`
	GroupID    string              `json:"group_id"`
	ArtifactID string              `json:"artifact_id"`
	Version    string              `json:"version,omitempty"`
	Scope      Scope               `json:"scope,omitempty"`
	File       string              `json:"file"`
	Location   *DependencyLocation `json:"location,omitempty"`
}
