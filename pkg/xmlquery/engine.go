package xmlquery

import (
	"errors"
	"fmt"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_xml "github.com/tree-sitter-grammars/tree-sitter-xml/bindings/go"
)

// ErrNoTree is returned by [Engine.Parse] when the grammar produced no
// usable syntax tree for the content.
var ErrNoTree = errors.New("xmlquery: no syntax tree")

// Capture is one captured node of a match.
type Capture struct {
	Name  string // capture name without the leading @
	Start int    // byte offset of the first covered byte
	End   int    // byte offset one past the last covered byte
	Text  string // covered substring of the document
}

// Match is one match of a query, captures ordered by start offset.
type Match struct {
	Captures []Capture
}

// Capture returns the first capture with the given name.
func (m Match) Capture(name string) (Capture, bool) {
	for _, c := range m.Captures {
		if c.Name == name {
			return c, true
		}
	}
	return Capture{}, false
}

// All returns every capture with the given name, in document order.
func (m Match) All(name string) []Capture {
	var out []Capture
	for _, c := range m.Captures {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Engine holds the XML grammar, a parser pool and a set of compiled queries.
type Engine struct {
	lang    *sitter.Language
	parsers *parserPool
	queries map[string]*sitter.Query
}

// NewEngine compiles every pattern in patterns under its map key. Compilation
// errors name the offending query.
func NewEngine(patterns map[string]string) (*Engine, error) {
	lang := sitter.NewLanguage(tree_sitter_xml.LanguageXML())

	e := &Engine{
		lang:    lang,
		parsers: newParserPool(lang),
		queries: make(map[string]*sitter.Query, len(patterns)),
	}
	for name, src := range patterns {
		q, qerr := sitter.NewQuery(lang, src)
		if qerr != nil {
			e.Close()
			return nil, fmt.Errorf("compile query %q: %v", name, qerr)
		}
		e.queries[name] = q
	}
	return e, nil
}

// Close releases the compiled queries.
func (e *Engine) Close() {
	for name, q := range e.queries {
		q.Close()
		delete(e.queries, name)
	}
}

// Queries returns the names of the compiled queries, sorted.
func (e *Engine) Queries() []string {
	names := make([]string, 0, len(e.queries))
	for name := range e.queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse builds the syntax tree for content. The caller must Close the
// returned document.
func (e *Engine) Parse(content []byte) (*Document, error) {
	sp := e.parsers.get()
	defer e.parsers.put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, ErrNoTree
	}
	if tree.RootNode().ChildCount() == 0 {
		tree.Close()
		return nil, ErrNoTree
	}
	return &Document{engine: e, tree: tree, content: content}, nil
}

// Document is a parsed XML document bound to the engine that parsed it.
type Document struct {
	engine  *Engine
	tree    *sitter.Tree
	content []byte
}

// Close releases the syntax tree.
func (d *Document) Close() {
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
}

// HasErrors reports whether the grammar had to recover from syntax errors.
func (d *Document) HasErrors() bool {
	return d.tree != nil && d.tree.RootNode().HasError()
}

// Matches runs the named query over the whole document. Unknown query names
// yield no matches.
func (d *Document) Matches(query string) []Match {
	q, ok := d.engine.queries[query]
	if !ok || d.tree == nil {
		return nil
	}

	names := q.CaptureNames()
	qc := sitter.NewQueryCursor()
	defer qc.Close()

	var out []Match
	matches := qc.Matches(q, d.tree.RootNode(), d.content)
	for m := matches.Next(); m != nil; m = matches.Next() {
		match := Match{Captures: make([]Capture, 0, len(m.Captures))}
		for _, c := range m.Captures {
			start, end := int(c.Node.StartByte()), int(c.Node.EndByte())
			match.Captures = append(match.Captures, Capture{
				Name:  names[c.Index],
				Start: start,
				End:   end,
				Text:  string(d.content[start:end]),
			})
		}
		sort.SliceStable(match.Captures, func(i, j int) bool {
			return match.Captures[i].Start < match.Captures[j].Start
		})
		out = append(out, match)
	}
	return out
}
