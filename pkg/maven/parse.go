package maven

import (
	"os"
	"sort"
	"strings"

	"github.com/matzehuels/stackbom/pkg/errors"
	"github.com/matzehuels/stackbom/pkg/xmlquery"
)

// Document is a parsed descriptor that can run the fixed descriptor queries.
type Document interface {
	Matches(query string) []xmlquery.Match
}

// Parser turns descriptor content into ProjectFiles. It is safe for
// concurrent use.
type Parser struct {
	engine *xmlquery.Engine
}

// NewParser compiles the descriptor queries.
func NewParser() (*Parser, error) {
	engine, err := xmlquery.NewEngine(queries)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "compile descriptor queries")
	}
	return &Parser{engine: engine}, nil
}

// Close releases the compiled queries.
func (p *Parser) Close() { p.engine.Close() }

// ParseFile reads and parses the descriptor at path.
func (p *Parser) ParseFile(path string) (*ProjectFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreadableFile, err, "read %s", path)
	}
	return p.Parse(path, content)
}

// Parse parses descriptor content read from path.
func (p *Parser) Parse(path string, content []byte) (*ProjectFile, error) {
	doc, err := p.engine.Parse(content)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedContent, err, "parse %s", path)
	}
	defer doc.Close()
	return ParseDocument(path, content, doc)
}

// ParseDocument builds a ProjectFile from the query matches of doc. The only
// content-shape failure is a missing artifactId.
func ParseDocument(path string, content []byte, doc Document) (*ProjectFile, error) {
	identity := leafValues(doc.Matches(queryIdentity))
	artifactID := identity["artifactId"]
	if artifactID == "" {
		return nil, errors.New(errors.ErrCodeMissingIdentity, "%s: project has no artifactId", path)
	}

	pf := &ProjectFile{
		Coordinate: Coordinate{
			GroupID:    identity["groupId"],
			ArtifactID: artifactID,
			Version:    identity["version"],
		},
		Path:       path,
		Properties: make(map[string]string),
	}

	if v := identity["version"]; v != "" {
		pf.Properties["project.version"] = v
	}
	for _, m := range doc.Matches(queryProperties) {
		key, kok := m.Capture("key")
		value, vok := m.Capture("value")
		if kok && vok {
			pf.Properties[key.Text] = strings.TrimSpace(value.Text)
		}
	}

	parent := leafValues(doc.Matches(queryParent))
	pf.Parent = normalizeParent(ParentReference{
		RelativePath: parent["relativePath"],
		GroupID:      parent["groupId"],
		ArtifactID:   parent["artifactId"],
		Version:      parent["version"],
	})

	lines := newLineIndex(content)
	pf.Dependencies = dependencies(path, lines, doc.Matches(queryDependencies), false)
	pf.DependencyManagement = dependencies(path, lines, doc.Matches(queryDependencyManagement), true)

	return pf, nil
}

// leafValues collects @key/@value matches into a map; later elements win.
func leafValues(matches []xmlquery.Match) map[string]string {
	out := make(map[string]string)
	for _, m := range matches {
		key, kok := m.Capture("key")
		value, vok := m.Capture("value")
		if !kok || !vok {
			continue
		}
		if v := strings.TrimSpace(value.Text); v != "" {
			out[key.Text] = v
		}
	}
	return out
}

// dependencyField is one recognized child of a <dependency> element.
type dependencyField struct {
	tag   xmlquery.Capture
	value xmlquery.Capture
}

// dependencies groups per-child matches by their <dependency> element and
// builds one Dependency per element, in document order. Elements without a
// groupId or artifactId are skipped. Type is only read for managed entries.
func dependencies(path string, lines *lineIndex, matches []xmlquery.Match, managed bool) []Dependency {
	type group struct {
		element xmlquery.Capture
		fields  []dependencyField
	}

	groups := make(map[int]*group)
	for _, m := range matches {
		element, eok := m.Capture("element")
		tag, tok := m.Capture("tag")
		value, vok := m.Capture("value")
		if !eok || !tok || !vok {
			continue
		}
		g, ok := groups[element.Start]
		if !ok {
			g = &group{element: element}
			groups[element.Start] = g
		}
		g.fields = append(g.fields, dependencyField{tag: tag, value: value})
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].element.Start < ordered[j].element.Start })

	var out []Dependency
	for _, g := range ordered {
		sort.SliceStable(g.fields, func(i, j int) bool { return g.fields[i].tag.Start < g.fields[j].tag.Start })

		var dep Dependency
		var name, version *xmlquery.Capture
		for i := range g.fields {
			f := &g.fields[i]
			text := strings.TrimSpace(f.value.Text)
			switch f.tag.Text {
			case "groupId":
				dep.GroupID = text
			case "artifactId":
				dep.ArtifactID = text
				name = &f.value
			case "version":
				dep.Version = text
				version = &f.value
			case "scope":
				dep.Scope = ParseScope(text)
			case "type":
				if managed {
					dep.Type = ParseDependencyType(text)
				}
			}
		}
		if dep.GroupID == "" || dep.ArtifactID == "" {
			continue
		}
		dep.Location = dependencyLocation(path, lines, g.element, name, version)
		out = append(out, dep)
	}
	return out
}

// dependencyLocation returns nil when any span cannot be translated.
func dependencyLocation(path string, lines *lineIndex, element xmlquery.Capture, name, version *xmlquery.Capture) *DependencyLocation {
	if name == nil {
		return nil
	}
	block, err := lines.location(path, element.Start, element.End)
	if err != nil {
		return nil
	}
	nameLoc, err := lines.location(path, name.Start, name.End)
	if err != nil {
		return nil
	}
	loc := &DependencyLocation{Block: block, Name: nameLoc}
	if version != nil {
		v, err := lines.location(path, version.Start, version.End)
		if err != nil {
			return nil
		}
		loc.Version = &v
	}
	return loc
}
