package maven

import (
	"fmt"
	"sort"

	"github.com/rivo/uniseg"
)

// lineIndex translates byte offsets of one document into positions.
type lineIndex struct {
	content []byte
	starts  []int // byte offset of each line start
}

func newLineIndex(content []byte) *lineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{content: content, starts: starts}
}

// position returns the 1-indexed line and grapheme column of offset. An
// offset inside a multi-byte grapheme reports the column after it. Offsets at
// or past the end of content are out of range.
func (li *lineIndex) position(offset int) (Position, error) {
	if offset < 0 || offset >= len(li.content) {
		return Position{}, fmt.Errorf("offset %d out of range [0,%d)", offset, len(li.content))
	}

	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	start := li.starts[line]
	end := len(li.content)
	if line+1 < len(li.starts) {
		end = li.starts[line+1]
	}

	col := 1
	g := uniseg.NewGraphemes(string(li.content[start:end]))
	for g.Next() {
		from, to := g.Positions()
		switch {
		case offset == start+from:
			return Position{Line: line + 1, Column: col}, nil
		case offset > start+from && offset < start+to:
			return Position{Line: line + 1, Column: col + 1}, nil
		}
		col++
	}
	return Position{}, fmt.Errorf("offset %d not found", offset)
}

// location returns the span [start, end) of path as a Location.
func (li *lineIndex) location(path string, start, end int) (Location, error) {
	s, err := li.position(start)
	if err != nil {
		return Location{}, err
	}
	e, err := li.position(end)
	if err != nil {
		return Location{}, err
	}
	return Location{File: path, Start: s, End: e}, nil
}
