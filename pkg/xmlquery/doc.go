// Package xmlquery runs fixed structural queries over XML documents.
//
// It wraps tree-sitter and the tree-sitter XML grammar: an [Engine] compiles
// a set of named query patterns once, parses document content into a
// [Document], and returns each query's matches as ordered capture lists with
// byte spans and the text they cover.
//
// # Usage
//
//	engine, err := xmlquery.NewEngine(map[string]string{
//	    "identity": `(element (STag (Name) @tag) (content) @value)`,
//	})
//	doc, err := engine.Parse(content)
//	defer doc.Close()
//	for _, m := range doc.Matches("identity") {
//	    tag, _ := m.Capture("tag")
//	    fmt.Println(tag.Text)
//	}
//
// An Engine is safe for concurrent use. A Document is not; each goroutine
// parses its own.
package xmlquery
