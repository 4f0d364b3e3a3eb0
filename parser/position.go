package parser

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Position is a location in the original snippet. Line and Column are
// 1-based; Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// lineIndex holds the byte offset of every line start. It remembers the last
// position it resolved so offsets requested in increasing order on one long
// line cost only the runes between them.
type lineIndex struct {
	starts []int
	last   Position
}

func newLineIndex(src string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) position(src string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	from, col := li.starts[line], 1
	if li.last.Line == line+1 && li.last.Offset <= offset {
		from, col = li.last.Offset, li.last.Column
	}
	li.last = Position{
		Offset: offset,
		Line:   line + 1,
		Column: col + utf8.RuneCountInString(src[from:offset]),
	}
	return li.last
}
