package parser

import (
	"strings"

	"github.com/dhamidi/sdkconf/dialect"
)

type scanState int

const (
	stateNormal scanState = iota
	stateString
	stateLineComment
	stateBlockComment
)

// Cleaned is the comment-free view of a snippet. Text has the same length as
// Source; comment bytes are replaced by spaces, newlines are kept, and string
// literals are left untouched.
type Cleaned struct {
	Source string
	Text   string

	inString  []bool
	lines     *lineIndex
	exprStops []int32
}

// plain wraps text that needs no scanning, such as a value already cut from a
// Cleaned, so the matching helpers can run on it.
func plain(text string) *Cleaned {
	return &Cleaned{Source: text, Text: text}
}

// InString reports whether byte i belongs to a string literal, delimiters
// included.
func (c *Cleaned) InString(i int) bool {
	return i >= 0 && i < len(c.inString) && c.inString[i]
}

func (c *Cleaned) Position(offset int) Position {
	if c.lines == nil {
		c.lines = newLineIndex(c.Source)
	}
	return c.lines.position(c.Source, offset)
}

func (c *Cleaned) pos(offset int) *Position {
	p := c.Position(offset)
	return &p
}

type scanner struct {
	src   string
	table *dialect.Table
	out   []byte
	mask  []bool
	pos   int

	state scanState
	quote dialect.Quote
	block dialect.BlockComment
	start int
}

// Scan strips comments from source in one forward pass. The returned Cleaned
// is usable even when errors are reported.
func Scan(source string, table *dialect.Table) (*Cleaned, []*ParseError) {
	s := &scanner{
		src:   source,
		table: table,
		out:   []byte(source),
		mask:  make([]bool, len(source)),
	}
	for s.pos < len(s.src) {
		switch s.state {
		case stateNormal:
			s.scanNormal()
		case stateString:
			s.scanString()
		case stateLineComment:
			s.scanLineComment()
		case stateBlockComment:
			s.scanBlockComment()
		}
	}

	c := &Cleaned{
		Source:   source,
		Text:     string(s.out),
		inString: s.mask,
		lines:    newLineIndex(source),
	}

	var errs []*ParseError
	switch s.state {
	case stateString:
		errs = append(errs, newError(KindLex, ErrUnterminatedString, c.pos(s.start),
			"unterminated string literal, expected closing %s", s.quote.Delim))
	case stateBlockComment:
		errs = append(errs, newError(KindLex, ErrUnterminatedComment, c.pos(s.start),
			"unterminated block comment, expected %s", s.block.Close))
	}
	return c, errs
}

func (s *scanner) atLineStart() bool {
	return s.pos == 0 || s.src[s.pos-1] == '\n'
}

func (s *scanner) scanNormal() {
	rest := s.src[s.pos:]
	for _, b := range s.table.BlockComments {
		if strings.HasPrefix(rest, b.Open) && (!b.LineStart || s.atLineStart()) {
			s.state, s.block, s.start = stateBlockComment, b, s.pos
			s.blank(len(b.Open))
			return
		}
	}
	for _, m := range s.table.LineComments {
		if strings.HasPrefix(rest, m) {
			s.state, s.start = stateLineComment, s.pos
			s.blank(len(m))
			return
		}
	}
	if q, n, ok := literalAt(s.src, s.pos, s.table); ok {
		s.state, s.quote, s.start = stateString, q, s.pos
		s.mark(n + len(q.Delim))
		return
	}
	s.pos++
}

func (s *scanner) scanString() {
	rest := s.src[s.pos:]
	if strings.HasPrefix(rest, s.quote.Delim) {
		s.mark(len(s.quote.Delim))
		s.state = stateNormal
		return
	}
	if rest[0] == '\\' && !s.quote.Raw {
		s.mark(2)
		return
	}
	s.mark(1)
}

func (s *scanner) scanLineComment() {
	if s.src[s.pos] == '\n' {
		s.state = stateNormal
		s.pos++
		return
	}
	s.blank(1)
}

func (s *scanner) scanBlockComment() {
	if strings.HasPrefix(s.src[s.pos:], s.block.Close) && (!s.block.LineStart || s.atLineStart()) {
		s.blank(len(s.block.Close))
		s.state = stateNormal
		return
	}
	s.blank(1)
}

// mark flags the next n bytes as string content.
func (s *scanner) mark(n int) {
	for ; n > 0 && s.pos < len(s.src); n-- {
		s.mask[s.pos] = true
		s.pos++
	}
}

// blank erases the next n bytes, keeping line breaks.
func (s *scanner) blank(n int) {
	for ; n > 0 && s.pos < len(s.src); n-- {
		if s.out[s.pos] != '\n' {
			s.out[s.pos] = ' '
		}
		s.pos++
	}
}
