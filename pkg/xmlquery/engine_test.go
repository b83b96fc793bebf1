package xmlquery

import (
	"errors"
	"sync"
	"testing"
)

const childValues = `
(document
  root: (element
    (STag (Name) @root)
    (content
      (element
        (STag (Name) @key)
        (content) @value))
    (#eq? @root "project")))
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(map[string]string{"children": childValues})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEngine_Matches(t *testing.T) {
	e := newTestEngine(t)

	content := []byte("<project>\n  <groupId>org.example</groupId>\n  <artifactId>demo</artifactId>\n</project>\n")
	doc, err := e.Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer doc.Close()

	matches := doc.Matches("children")
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}

	want := map[string]string{"groupId": "org.example", "artifactId": "demo"}
	for _, m := range matches {
		key, ok := m.Capture("key")
		if !ok {
			t.Fatal("missing @key capture")
		}
		value, ok := m.Capture("value")
		if !ok {
			t.Fatal("missing @value capture")
		}
		if want[key.Text] != value.Text {
			t.Errorf("%s = %q, want %q", key.Text, value.Text, want[key.Text])
		}
		if got := string(content[value.Start:value.End]); got != value.Text {
			t.Errorf("span text = %q, want %q", got, value.Text)
		}
		if key.Start > value.Start {
			t.Error("captures not ordered by start offset")
		}
	}
}

func TestEngine_PredicateFilters(t *testing.T) {
	e := newTestEngine(t)

	doc, err := e.Parse([]byte("<settings><groupId>x</groupId></settings>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer doc.Close()

	if got := doc.Matches("children"); len(got) != 0 {
		t.Errorf("got %d matches for non-project root, want 0", len(got))
	}
}

func TestEngine_UnknownQuery(t *testing.T) {
	e := newTestEngine(t)

	doc, err := e.Parse([]byte("<project/>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer doc.Close()

	if got := doc.Matches("nope"); got != nil {
		t.Errorf("Matches(unknown) = %v, want nil", got)
	}
}

func TestEngine_EmptyContent(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Parse(nil)
	if !errors.Is(err, ErrNoTree) {
		t.Errorf("Parse(nil) error = %v, want ErrNoTree", err)
	}
}

func TestNewEngine_InvalidPattern(t *testing.T) {
	_, err := NewEngine(map[string]string{"broken": "(element"})
	if err == nil {
		t.Fatal("expected compile error")
	}
}

func TestEngine_Queries(t *testing.T) {
	e, err := NewEngine(map[string]string{"b": childValues, "a": childValues})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	got := e.Queries()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Queries() = %v, want [a b]", got)
	}
}

func TestEngine_ConcurrentParse(t *testing.T) {
	e := newTestEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := e.Parse([]byte("<project><version>1</version></project>"))
			if err != nil {
				t.Errorf("Parse: %v", err)
				return
			}
			defer doc.Close()
			if n := len(doc.Matches("children")); n != 1 {
				t.Errorf("got %d matches, want 1", n)
			}
		}()
	}
	wg.Wait()
}

func TestMatch_All(t *testing.T) {
	m := Match{Captures: []Capture{
		{Name: "tag", Start: 0, Text: "a"},
		{Name: "value", Start: 1, Text: "1"},
		{Name: "tag", Start: 2, Text: "b"},
	}}

	tags := m.All("tag")
	if len(tags) != 2 || tags[0].Text != "a" || tags[1].Text != "b" {
		t.Errorf("All(tag) = %v", tags)
	}
	if _, ok := m.Capture("missing"); ok {
		t.Error("Capture(missing) found a capture")
	}
}
