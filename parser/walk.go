package parser

import (
	"slices"
	"strings"

	"github.com/dhamidi/sdkconf/dialect"
)

const (
	placeholderParam = "{param}"
	placeholderExpr  = "{expr}"
)

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isIdentByte accepts every byte of a multi-byte rune so identifiers in any
// script stay whole.
func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || isDigit(b) || (b|0x20 >= 'a' && b|0x20 <= 'z') || b >= 0x80
}

func isOpenBracket(b byte) bool  { return b == '(' || b == '[' || b == '{' }
func isCloseBracket(b byte) bool { return b == ')' || b == ']' || b == '}' }

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

// trimBounds narrows [a, b) of s to exclude surrounding whitespace.
func trimBounds(s string, a, b int) (int, int) {
	for a < b && isSpace(s[a]) {
		a++
	}
	for b > a && isSpace(s[b-1]) {
		b--
	}
	return a, b
}

func identEnd(s string, i int) int {
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	return i
}

type match struct {
	End   int
	Param string
}

// match tries pattern at offset at. Whitespace is optional around
// punctuation, a space in the pattern stands for optional whitespace, and
// identifier characters at either end of the pattern must sit on a word
// boundary. Bytes inside string literals never match.
func (c *Cleaned) match(at int, pattern string, t *dialect.Table) (match, bool) {
	var m match
	text := c.Text
	if at > len(text) || pattern == "" {
		return m, false
	}
	if isIdentByte(pattern[0]) && at > 0 && isIdentByte(text[at-1]) {
		return m, false
	}

	i, p := at, 0
	for p < len(pattern) {
		switch {
		case pattern[p] == ' ':
			i = skipSpace(text, i)
			p++
			continue
		case strings.HasPrefix(pattern[p:], placeholderParam):
			i = skipSpace(text, i)
			end := identEnd(text, i)
			if end == i || c.InString(i) {
				return m, false
			}
			m.Param = text[i:end]
			i = end
			p += len(placeholderParam)
			continue
		case strings.HasPrefix(pattern[p:], placeholderExpr):
			end := c.skipExpr(i, t)
			if skipSpace(text[:end], i) == end {
				return m, false
			}
			i = end
			p += len(placeholderExpr)
			continue
		}

		pb := pattern[p]
		if p > 0 && (!isIdentByte(pb) || !isIdentByte(pattern[p-1])) {
			i = skipSpace(text, i)
		}
		if i >= len(text) || text[i] != pb || c.InString(i) {
			return m, false
		}
		i++
		p++
	}

	last := pattern[len(pattern)-1]
	if isIdentByte(last) && i < len(text) && isIdentByte(text[i]) && !strings.HasSuffix(pattern, placeholderParam) {
		return m, false
	}
	m.End = i
	return m, true
}

// step reports how the token at i changes the nesting depth and how many
// bytes it spans. Brackets count, and so do the keyword blocks a dialect
// declares.
func (c *Cleaned) step(i int, t *dialect.Table) (delta, width int) {
	if c.InString(i) {
		return 0, 1
	}
	b := c.Text[i]
	switch {
	case isOpenBracket(b):
		return 1, 1
	case isCloseBracket(b):
		return -1, 1
	}
	if t == nil || t.Blocks == nil || !isIdentByte(b) || isDigit(b) {
		return 0, 1
	}
	if i > 0 && isIdentByte(c.Text[i-1]) {
		return 0, 1
	}
	end := identEnd(c.Text, i)
	word := c.Text[i:end]
	if i > 0 && (c.Text[i-1] == '.' || c.Text[i-1] == ':') {
		return 0, len(word)
	}
	switch {
	case word == t.Blocks.Close:
		return -1, len(word)
	case slices.Contains(t.Blocks.Open, word):
		return 1, len(word)
	case slices.Contains(t.Blocks.Statement, word) && c.statementStart(i):
		return 1, len(word)
	}
	return 0, len(word)
}

// statementStart reports whether only a statement boundary precedes i.
func (c *Cleaned) statementStart(i int) bool {
	j := i - 1
	for j >= 0 && (c.Text[j] == ' ' || c.Text[j] == '\t' || c.Text[j] == '\r') {
		j--
	}
	if j < 0 {
		return true
	}
	return strings.IndexByte("\n;=({[", c.Text[j]) >= 0
}

// skipExpr advances from i over one call argument and stops before the
// top-level ',' or closing bracket that ends it.
func (c *Cleaned) skipExpr(i int, t *dialect.Table) int {
	if c.exprStops == nil {
		c.exprStops = c.indexExprStops(t)
	}
	if i >= 0 && i < len(c.exprStops) && c.exprStops[i] >= 0 {
		return int(c.exprStops[i])
	}
	return c.walkExpr(i, t)
}

// indexExprStops answers skipExpr for every offset the depth walk visits, in
// one forward and one backward pass. Nested calls would otherwise rescan the
// same tail once per call.
func (c *Cleaned) indexExprStops(t *dialect.Table) []int32 {
	n := len(c.Text)
	stops := make([]int32, n+1)
	for i := range stops {
		stops[i] = -1
	}
	stops[n] = int32(n)

	var (
		visited []int32
		depths  []int32
		ends    []bool
	)
	depth := int32(0)
	for i := 0; i < n; {
		d, w := c.step(i, t)
		visited = append(visited, int32(i))
		depths = append(depths, depth)
		ends = append(ends, d < 0 || (!c.InString(i) && c.Text[i] == ','))
		depth += int32(d)
		i += w
	}

	// nearest ending offset to the right, per depth
	nearest := make(map[int32]int32)
	for k := len(visited) - 1; k >= 0; k-- {
		if ends[k] {
			nearest[depths[k]] = visited[k]
		}
		stop, ok := nearest[depths[k]]
		if !ok {
			stop = int32(n)
		}
		stops[visited[k]] = stop
	}
	return stops
}

func (c *Cleaned) walkExpr(i int, t *dialect.Table) int {
	depth := 0
	for i < len(c.Text) {
		if !c.InString(i) && depth == 0 && (c.Text[i] == ',' || isCloseBracket(c.Text[i])) {
			return i
		}
		d, w := c.step(i, t)
		depth += d
		if depth < 0 {
			return i
		}
		i += w
	}
	return i
}

// matchClose returns the offset of the bracket that closes the one at open,
// or -1.
func (c *Cleaned) matchClose(open int, t *dialect.Table) int {
	depth := 0
	for i := open; i < len(c.Text); {
		d, w := c.step(i, t)
		depth += d
		if depth == 0 {
			return i
		}
		i += w
	}
	return -1
}

// hasTopLevel reports whether b occurs in [from, to) outside strings and
// brackets.
func (c *Cleaned) hasTopLevel(from, to int, b byte, t *dialect.Table) bool {
	depth := 0
	for i := from; i < to; {
		if depth == 0 && !c.InString(i) && c.Text[i] == b {
			return true
		}
		d, w := c.step(i, t)
		depth += d
		i += w
	}
	return false
}

// literalAt finds a string literal opening at i. A prefix only counts at the
// start of a word, so the r in bar"x" is not one.
func literalAt(s string, i int, t *dialect.Table) (dialect.Quote, int, bool) {
	if i > 0 && isIdentByte(s[i-1]) {
		q, ok := t.QuoteAt(s[i:])
		return q, 0, ok
	}
	return t.LiteralAt(s[i:])
}

// quoteEnd returns the offset just past the string literal that starts at i
// in s, or -1 when it is not closed.
func quoteEnd(s string, i int, q dialect.Quote) int {
	j := i + len(q.Delim)
	for j < len(s) {
		if strings.HasPrefix(s[j:], q.Delim) {
			return j + len(q.Delim)
		}
		if s[j] == '\\' && !q.Raw {
			j += 2
			continue
		}
		j++
	}
	return -1
}

// scanPlain builds a Cleaned for text that was already stripped of comments,
// marking its string literals so bracket matching skips them.
func scanPlain(text string, t *dialect.Table) *Cleaned {
	c := plain(text)
	for i := 0; i < len(text); {
		q, n, ok := literalAt(text, i, t)
		if !ok {
			i++
			continue
		}
		if c.inString == nil {
			c.inString = make([]bool, len(text))
		}
		end := quoteEnd(text, i+n, q)
		if end < 0 {
			end = len(text)
		}
		for j := i; j < end; j++ {
			c.inString[j] = true
		}
		i = end
	}
	return c
}
