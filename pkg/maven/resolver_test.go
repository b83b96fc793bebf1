package maven

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/stackbom/pkg/errors"
)

// build registers files under base and returns a resolver over them.
func build(t *testing.T, base string, opts ResolverOptions, files ...*ProjectFile) *Resolver {
	t.Helper()
	b := newTestBuilder(t, base)
	for _, f := range files {
		if err := b.Insert(f); err != nil {
			t.Fatalf("Insert(%s): %v", f.Path, err)
		}
	}
	return NewResolver(b.Build(), opts)
}

func dep(group, artifact, version string) Dependency {
	return Dependency{GroupID: group, ArtifactID: artifact, Version: version}
}

func names(deps []ResolvedDependency) map[string]string {
	out := make(map[string]string, len(deps))
	for _, d := range deps {
		out[d.Name] = d.Version
	}
	return out
}

func TestResolve_ConcreteVersionsUnchanged(t *testing.T) {
	base := t.TempDir()
	f := &ProjectFile{
		Path:         touch(t, base, "pom.xml"),
		Coordinate:   Coordinate{GroupID: "g", ArtifactID: "app", Version: "1"},
		Properties:   map[string]string{"1.0": "changed"},
		Dependencies: []Dependency{dep("org.a", "a", "1.0"), dep("org.b", "b", "2.5-jre")},
	}
	r := build(t, base, ResolverOptions{}, f)

	got, err := r.Resolve(f)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := map[string]string{"org.a:a": "1.0", "org.b:b": "2.5-jre"}
	if !reflect.DeepEqual(names(got), want) {
		t.Errorf("Resolve = %v, want %v", names(got), want)
	}
	if got[0].File != "pom.xml" {
		t.Errorf("File = %q, want pom.xml", got[0].File)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	base := t.TempDir()
	root := &ProjectFile{
		Path:       touch(t, base, "pom.xml"),
		Coordinate: Coordinate{GroupID: "g", ArtifactID: "root", Version: "1"},
		Properties: map[string]string{"v": "2.0", "w": "${v}"},
		DependencyManagement: []Dependency{
			dep("io.grp", "art", "${v}"),
			dep("io.grp", "other", "${w}"),
		},
	}
	child := &ProjectFile{
		Path:         touch(t, base, "child/pom.xml"),
		Coordinate:   Coordinate{GroupID: "g", ArtifactID: "child", Version: "1"},
		Parent:       &ParentReference{RelativePath: ".."},
		Dependencies: []Dependency{dep("io.grp", "art", ""), dep("io.grp", "other", ""), dep("x", "y", "${w}")},
	}
	r := build(t, base, ResolverOptions{}, root, child)

	first, err := r.Resolve(child)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := r.Resolve(child)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second run differs:\n%+v\n%+v", first, second)
	}
	if len(first) != 3 {
		t.Errorf("got %d dependencies, want 3: %+v", len(first), first)
	}
}

func TestEffectiveProperties_InheritedViaRelativePath(t *testing.T) {
	base := t.TempDir()
	a := &ProjectFile{
		Path:       touch(t, base, "pom.xml"),
		Coordinate: Coordinate{GroupID: "g", ArtifactID: "a", Version: "1"},
		Properties: map[string]string{"x": "1", "y": "parent"},
	}
	b := &ProjectFile{
		Path:       touch(t, base, "b/pom.xml"),
		Coordinate: Coordinate{GroupID: "g", ArtifactID: "b", Version: "1"},
		Parent:     &ParentReference{RelativePath: "../pom.xml"},
		Properties: map[string]string{"y": "child"},
	}
	r := build(t, base, ResolverOptions{}, a, b)

	props, err := r.EffectiveProperties(b)
	if err != nil {
		t.Fatalf("EffectiveProperties: %v", err)
	}
	if props["x"] != "1" {
		t.Errorf("x = %q, want 1", props["x"])
	}
	if props["y"] != "child" {
		t.Errorf("y = %q, want the child's value", props["y"])
	}
}

func TestResolve_DependencyManagementSubstitution(t *testing.T) {
	base := t.TempDir()
	a := &ProjectFile{
		Path:                 touch(t, base, "pom.xml"),
		Coordinate:           Coordinate{GroupID: "g", ArtifactID: "a", Version: "1"},
		Properties:           map[string]string{"v": "2.0"},
		DependencyManagement: []Dependency{{GroupID: "io.grp", ArtifactID: "art", Version: "${v}", Scope: ScopeProvided}},
	}
	b := &ProjectFile{
		Path:         touch(t, base, "b/pom.xml"),
		Coordinate:   Coordinate{GroupID: "g", ArtifactID: "b", Version: "1"},
		Parent:       &ParentReference{GroupID: "g", ArtifactID: "a", Version: "1"},
		Dependencies: []Dependency{dep("io.grp", "art", "")},
	}
	r := build(t, base, ResolverOptions{}, a, b)

	got, err := r.Resolve(b)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0].Name != "io.grp:art" || got[0].Version != "2.0" {
		t.Fatalf("Resolve = %+v, want io.grp:art 2.0", got)
	}
	if got[0].Scope != ScopeProvided {
		t.Errorf("Scope = %q, want the managed scope", got[0].Scope)
	}
	if got[0].File != filepath.Join("b", "pom.xml") {
		t.Errorf("File = %q", got[0].File)
	}
}

func TestResolve_ConcretenessGuard(t *testing.T) {
	base := t.TempDir()
	f := &ProjectFile{
		Path:       touch(t, base, "pom.xml"),
		Coordinate: Coordinate{GroupID: "g", ArtifactID: "app", Version: "1"},
		Properties: map[string]string{"a": "${b}", "b": "${c}", "c": "3", "scala": "2.13"},
		DependencyManagement: []Dependency{
			dep("m", "managed-unresolved", "${nope}"),
			{GroupID: "m", ArtifactID: "managed-unversioned", Scope: ScopeTest},
		},
		Dependencies: []Dependency{
			dep("org.ok", "ok", "${c}"),
			dep("org.ok", "akka_${scala}", "1"),
			dep("org.bad", "missing", "${nope}"),
			dep("org.bad", "two-hops", "${a}"),
			dep("${nope}", "bad-group", "1"),
			dep("m", "managed-unresolved", ""),
			dep("m", "managed-unversioned", ""),
			dep("m", "unmanaged", ""),
		},
	}
	r := build(t, base, ResolverOptions{}, f)

	got, err := r.Resolve(f)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for _, d := range got {
		if strings.Contains(d.Name, "${") || strings.Contains(d.Version, "${") {
			t.Errorf("emitted non-concrete dependency %+v", d)
		}
	}
	want := map[string]string{
		"org.ok:ok":             "3",
		"org.ok:akka_2.13":      "1",
		"m:managed-unversioned": "",
	}
	if !reflect.DeepEqual(names(got), want) {
		t.Errorf("Resolve = %v, want %v", names(got), want)
	}
}

func TestResolve_UnregisteredParent(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "pom.xml") // exists on disk, never registered

	tests := []struct {
		name   string
		parent *ParentReference
	}{
		{"by path", &ParentReference{RelativePath: ".."}},
		{"by coordinate", &ParentReference{GroupID: "org.external", ArtifactID: "parent", Version: "9"}},
		{"by both", &ParentReference{RelativePath: "..", GroupID: "org.external", ArtifactID: "parent", Version: "9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &ProjectFile{
				Path:                 touch(t, base, "b/pom.xml"),
				Coordinate:           Coordinate{GroupID: "g", ArtifactID: "b", Version: "1"},
				Parent:               tt.parent,
				Properties:           map[string]string{"v": "1.1"},
				DependencyManagement: []Dependency{dep("io.grp", "art", "${v}")},
				Dependencies:         []Dependency{dep("io.grp", "art", ""), dep("x", "y", "${v}")},
			}
			r := build(t, base, ResolverOptions{StrictParentPath: true}, b)

			lookup, err := r.LocateParent(b)
			if err != nil || lookup.Kind != NotFound {
				t.Fatalf("LocateParent = %v, %v, want NotFound", lookup.Kind, err)
			}
			got, err := r.Resolve(b)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			want := map[string]string{"io.grp:art": "1.1", "x:y": "1.1"}
			if !reflect.DeepEqual(names(got), want) {
				t.Errorf("Resolve = %v, want %v", names(got), want)
			}
		})
	}
}

func TestResolve_Wiremock(t *testing.T) {
	p := newTestParser(t)
	base := t.TempDir()
	path := filepath.Join(base, "pom.xml")
	if err := os.WriteFile(path, []byte(quarkusPOM), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := p.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	r := build(t, base, ResolverOptions{}, f)

	got, err := r.Resolve(f)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	var matches []ResolvedDependency
	for _, d := range got {
		if d.Name == "org.wiremock:wiremock" {
			matches = append(matches, d)
		}
	}
	if len(matches) != 1 {
		t.Fatalf("got %d wiremock records, want 1: %+v", len(matches), got)
	}
	if matches[0].Version != "3.3.1" {
		t.Errorf("Version = %q, want 3.3.1", matches[0].Version)
	}
	if matches[0].Scope != ScopeTest {
		t.Errorf("Scope = %q, want test", matches[0].Scope)
	}
	if matches[0].Location == nil || matches[0].Location.Version == nil {
		t.Errorf("Location = %+v, want declaration spans", matches[0].Location)
	}
	if len(got) != 1 {
		t.Errorf("unmanaged quarkus dependencies should be dropped, got %+v", got)
	}
}

func TestResolve_RootManagedEntryWins(t *testing.T) {
	base := t.TempDir()
	root := &ProjectFile{
		Path:                 touch(t, base, "pom.xml"),
		Coordinate:           Coordinate{GroupID: "g", ArtifactID: "root", Version: "1"},
		DependencyManagement: []Dependency{dep("io.grp", "art", "1.0-root")},
	}
	mid := &ProjectFile{
		Path:                 touch(t, base, "mid/pom.xml"),
		Coordinate:           Coordinate{GroupID: "g", ArtifactID: "mid", Version: "1"},
		Parent:               &ParentReference{RelativePath: ".."},
		DependencyManagement: []Dependency{dep("io.grp", "art", "2.0-mid")},
	}
	leaf := &ProjectFile{
		Path:                 touch(t, base, "mid/leaf/pom.xml"),
		Coordinate:           Coordinate{GroupID: "g", ArtifactID: "leaf", Version: "1"},
		Parent:               &ParentReference{RelativePath: ".."},
		DependencyManagement: []Dependency{dep("io.grp", "art", "3.0-leaf")},
		Dependencies:         []Dependency{dep("io.grp", "art", "")},
	}
	r := build(t, base, ResolverOptions{}, root, mid, leaf)

	managed, err := r.EffectiveDependencyManagement(leaf)
	if err != nil {
		t.Fatalf("EffectiveDependencyManagement: %v", err)
	}
	var versions []string
	for _, m := range managed {
		versions = append(versions, m.Version)
	}
	if want := []string{"1.0-root", "2.0-mid", "3.0-leaf"}; !reflect.DeepEqual(versions, want) {
		t.Errorf("managed order = %v, want %v", versions, want)
	}

	got, err := r.Resolve(leaf)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0].Version != "1.0-root" {
		t.Errorf("Resolve = %+v, want the root's managed version", got)
	}
}

func TestEffectiveProperties_OnePassPerLevel(t *testing.T) {
	base := t.TempDir()
	root := &ProjectFile{
		Path:       touch(t, base, "pom.xml"),
		Coordinate: Coordinate{GroupID: "g", ArtifactID: "root", Version: "1"},
		Properties: map[string]string{"a": "${b}", "b": "${c}", "c": "1"},
	}
	child := &ProjectFile{
		Path:       touch(t, base, "child/pom.xml"),
		Coordinate: Coordinate{GroupID: "g", ArtifactID: "child", Version: "1"},
		Parent:     &ParentReference{RelativePath: ".."},
	}
	r := build(t, base, ResolverOptions{}, root, child)

	rootProps, err := r.EffectiveProperties(root)
	if err != nil {
		t.Fatalf("EffectiveProperties: %v", err)
	}
	if rootProps["a"] != "${c}" || rootProps["b"] != "1" {
		t.Errorf("root props = %v, want a=${c} b=1", rootProps)
	}

	childProps, err := r.EffectiveProperties(child)
	if err != nil {
		t.Fatalf("EffectiveProperties: %v", err)
	}
	if childProps["a"] != "1" {
		t.Errorf("child a = %q, want 1 after the second level's pass", childProps["a"])
	}
}

func TestAncestry_Cycle(t *testing.T) {
	base := t.TempDir()
	a := &ProjectFile{
		Path:         touch(t, base, "a/pom.xml"),
		Coordinate:   Coordinate{GroupID: "g", ArtifactID: "a", Version: "1"},
		Parent:       &ParentReference{GroupID: "g", ArtifactID: "b", Version: "1"},
		Dependencies: []Dependency{dep("x", "y", "1")},
	}
	b := &ProjectFile{
		Path:       touch(t, base, "b/pom.xml"),
		Coordinate: Coordinate{GroupID: "g", ArtifactID: "b", Version: "1"},
		Parent:     &ParentReference{RelativePath: "../a"},
	}
	self := &ProjectFile{
		Path:       touch(t, base, "self/pom.xml"),
		Coordinate: Coordinate{GroupID: "g", ArtifactID: "self", Version: "1"},
		Parent:     &ParentReference{RelativePath: "."},
	}
	r := build(t, base, ResolverOptions{}, a, b, self)

	for _, f := range []*ProjectFile{a, b, self} {
		if _, err := r.Resolve(f); !errors.Is(err, errors.ErrCodeCyclicParentChain) {
			t.Errorf("Resolve(%s) error = %v, want CYCLIC_PARENT_CHAIN", f.Coordinate.ArtifactID, err)
		}
		if _, err := r.EffectiveProperties(f); !errors.Is(err, errors.ErrCodeCyclicParentChain) {
			t.Errorf("EffectiveProperties(%s) error = %v", f.Coordinate.ArtifactID, err)
		}
		if _, err := r.EffectiveDependencyManagement(f); !errors.Is(err, errors.ErrCodeCyclicParentChain) {
			t.Errorf("EffectiveDependencyManagement(%s) error = %v", f.Coordinate.ArtifactID, err)
		}
	}
}

func TestLocateParent_MissingRelativePath(t *testing.T) {
	base := t.TempDir()
	parent := &ProjectFile{
		Path:       touch(t, base, "pom.xml"),
		Coordinate: Coordinate{GroupID: "g", ArtifactID: "parent", Version: "1"},
		Properties: map[string]string{"v": "5"},
	}
	child := &ProjectFile{
		Path:         touch(t, base, "child/pom.xml"),
		Coordinate:   Coordinate{GroupID: "g", ArtifactID: "child", Version: "1"},
		Parent:       &ParentReference{RelativePath: "../does-not-exist", GroupID: "g", ArtifactID: "parent", Version: "1"},
		Dependencies: []Dependency{dep("x", "y", "${v}")},
	}

	t.Run("hardened falls back to coordinate", func(t *testing.T) {
		r := build(t, base, ResolverOptions{}, parent, child)
		lookup, err := r.LocateParent(child)
		if err != nil {
			t.Fatalf("LocateParent: %v", err)
		}
		if lookup.Kind != FoundByCoordinate || lookup.File != parent {
			t.Errorf("LocateParent = %v, want FoundByCoordinate", lookup.Kind)
		}
		got, err := r.Resolve(child)
		if err != nil || len(got) != 1 || got[0].Version != "5" {
			t.Errorf("Resolve = %+v, %v", got, err)
		}
	})

	t.Run("strict fails", func(t *testing.T) {
		r := build(t, base, ResolverOptions{StrictParentPath: true}, parent, child)
		if _, err := r.LocateParent(child); !errors.Is(err, errors.ErrCodeParentPathUnresolvable) {
			t.Errorf("LocateParent error = %v, want PARENT_PATH_UNRESOLVABLE", err)
		}
		if _, err := r.Resolve(child); !errors.Is(err, errors.ErrCodeParentPathUnresolvable) {
			t.Errorf("Resolve error = %v, want PARENT_PATH_UNRESOLVABLE", err)
		}
	})
}

func TestLocateParent_Kinds(t *testing.T) {
	base := t.TempDir()
	root := &ProjectFile{
		Path:       touch(t, base, "pom.xml"),
		Coordinate: Coordinate{GroupID: "g", ArtifactID: "root", Version: "1"},
	}
	other := &ProjectFile{
		Path:       touch(t, base, "other/pom.xml"),
		Coordinate: Coordinate{GroupID: "g", ArtifactID: "other", Version: "1"},
	}
	r := build(t, base, ResolverOptions{}, root, other)

	tests := []struct {
		name   string
		parent *ParentReference
		kind   LookupKind
		file   *ProjectFile
	}{
		{"no parent", nil, NotFound, nil},
		{"directory path", &ParentReference{RelativePath: ".."}, FoundByPath, root},
		{"explicit file", &ParentReference{RelativePath: "../POM.XML"}, NotFound, nil},
		{"path wins over coordinate", &ParentReference{RelativePath: "../other", GroupID: "g", ArtifactID: "root", Version: "1"}, FoundByPath, other},
		{"coordinate", &ParentReference{GroupID: "g", ArtifactID: "other", Version: "1"}, FoundByCoordinate, other},
		{"path miss falls back", &ParentReference{RelativePath: "../child", GroupID: "g", ArtifactID: "root", Version: "1"}, FoundByCoordinate, root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &ProjectFile{
				Path:       touch(t, base, "child/pom.xml"),
				Coordinate: Coordinate{GroupID: "g", ArtifactID: "child", Version: "1"},
				Parent:     tt.parent,
			}
			lookup, err := r.LocateParent(f)
			if err != nil {
				t.Fatalf("LocateParent: %v", err)
			}
			if lookup.Kind != tt.kind || lookup.File != tt.file {
				t.Errorf("LocateParent = %v (%v), want %v (%v)", lookup.Kind, lookup.File, tt.kind, tt.file)
			}
		})
	}
}

func TestLocateParentPath(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "parent/pom.xml")
	r := build(t, base, ResolverOptions{})

	tests := []struct {
		rel  string
		want string
		ok   bool
	}{
		{"../parent", filepath.Join("parent", "pom.xml"), true},
		{"../parent/", filepath.Join("parent", "pom.xml"), true},
		{"../parent/pom.xml", filepath.Join("parent", "pom.xml"), true},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			f := &ProjectFile{Path: filepath.Join(base, "child", "pom.xml"), Parent: &ParentReference{RelativePath: tt.rel}}
			got, ok, err := r.LocateParentPath(f)
			if err != nil {
				t.Fatalf("LocateParentPath: %v", err)
			}
			if got != tt.want || ok != tt.ok {
				t.Errorf("LocateParentPath(%q) = %q, %v, want %q, %v", tt.rel, got, ok, tt.want, tt.ok)
			}
		})
	}

	remote := &ProjectFile{Path: "https://repo.example/p.pom", Remote: true, Parent: &ParentReference{RelativePath: "../parent"}}
	if _, ok, err := r.LocateParentPath(remote); ok || err != nil {
		t.Errorf("remote files have no parent path, got ok=%v err=%v", ok, err)
	}
}

func TestResolve_RemoteAncestor(t *testing.T) {
	base := t.TempDir()
	b := newTestBuilder(t, base)

	child := &ProjectFile{
		Path:         touch(t, base, "pom.xml"),
		Coordinate:   Coordinate{GroupID: "g", ArtifactID: "app", Version: "1"},
		Parent:       &ParentReference{GroupID: "org.springframework.boot", ArtifactID: "spring-boot-dependencies", Version: "3.2.0"},
		Dependencies: []Dependency{dep("org.slf4j", "slf4j-api", "")},
	}
	remote := &ProjectFile{
		Path:                 "https://repo.example/spring-boot-dependencies-3.2.0.pom",
		Coordinate:           Coordinate{GroupID: "org.springframework.boot", ArtifactID: "spring-boot-dependencies", Version: "3.2.0"},
		Properties:           map[string]string{"slf4j.version": "2.0.9"},
		DependencyManagement: []Dependency{dep("org.slf4j", "slf4j-api", "${slf4j.version}")},
	}
	if err := b.Insert(child); err != nil {
		t.Fatal(err)
	}
	if err := b.InsertRemote(remote); err != nil {
		t.Fatal(err)
	}
	r := NewResolver(b.Build(), ResolverOptions{})

	got, err := r.Resolve(child)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0].Version != "2.0.9" {
		t.Errorf("Resolve = %+v, want slf4j-api 2.0.9", got)
	}
}

func TestLookupKind_String(t *testing.T) {
	for kind, want := range map[LookupKind]string{NotFound: "not found", FoundByPath: "path", FoundByCoordinate: "coordinate"} {
		if kind.String() != want {
			t.Errorf("%d.String() = %q, want %q", kind, kind.String(), want)
		}
	}
}
