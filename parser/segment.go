package parser

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/sdkconf/dialect"
)

// RawPair is one key/value candidate in source order. Value is cleaned text,
// Raw the same span of the original source.
type RawPair struct {
	Key         string
	Value       string
	Raw         string
	Offset      int
	ValueOffset int
}

type segmenter struct {
	c        *Cleaned
	t        *dialect.Table
	prefixes []string
	pairs    []RawPair
	warnings []*ParseError

	// last is the offset of the last non-space byte of the current
	// statement; ahead caches the next non-space byte after a newline run.
	last  int
	ahead int
}

// Segment splits the container body into key/value candidates. Statements
// that assign nothing are skipped and reported as warnings.
func Segment(c *Cleaned, ct *Container, t *dialect.Table) ([]RawPair, []*ParseError) {
	s := &segmenter{c: c, t: t}

	start := ct.Start
	param := ct.Param
	if t.Binding != nil && param == "" {
		at := skipSpace(c.Text, start)
		for _, tmpl := range t.Binding.Body {
			if at >= ct.End {
				break
			}
			if m, ok := c.match(at, tmpl, t); ok && m.End <= ct.End {
				param, start = m.Param, m.End
				break
			}
		}
	}
	switch {
	case param != "":
		s.prefixes = []string{param}
	case t.Binding != nil:
		s.prefixes = t.Binding.Positional
	}

	s.split(start, ct.End)
	return s.pairs, s.warnings
}

func (s *segmenter) split(from, to int) {
	c, t := s.c, s.t
	var header *dialect.ClosureHeader
	depth := 0
	seg := from
	s.last, s.ahead = -1, -1
	for i := from; i < to; {
		if c.InString(i) {
			s.last = i
			i++
			continue
		}
		if depth == 0 {
			if header != nil {
				if strings.HasPrefix(c.Text[i:to], header.Close) {
					i += len(header.Close)
					s.last = i - 1
					header = nil
					continue
				}
			} else {
				if h, end := s.closureHeader(seg, i); h != nil {
					header = h
					s.last = end - 1
					i = end
					continue
				}
				if n := s.separatorAt(seg, i, to); n > 0 {
					s.candidate(seg, i)
					i += n
					seg = i
					s.last = -1
					continue
				}
			}
		}
		d, w := c.step(i, t)
		depth += d
		if depth < 0 {
			depth = 0
		}
		if !isSpace(c.Text[i]) {
			s.last = i + w - 1
		}
		i += w
	}
	s.candidate(seg, to)
}

// tail returns the current statement up to its last non-space byte.
func (s *segmenter) tail(seg int) string {
	if s.last < seg {
		return ""
	}
	return s.c.Text[seg : s.last+1]
}

// closureHeader detects an unbracketed closure parameter list at the start of
// a value.
func (s *segmenter) closureHeader(seg, i int) (*dialect.ClosureHeader, int) {
	t := s.t
	if len(t.ClosureHeaders) == 0 || t.Assign == "" {
		return nil, 0
	}
	if !strings.HasSuffix(s.tail(seg), t.Assign) {
		return nil, 0
	}
	for k := range t.ClosureHeaders {
		h := &t.ClosureHeaders[k]
		if m, ok := s.c.match(i, h.Open, t); ok {
			return h, m.End
		}
	}
	return nil, 0
}

// separatorAt returns the length of the separator at i, or 0. A newline does
// not separate a statement that visibly continues on the next line.
func (s *segmenter) separatorAt(seg, i, to int) int {
	text := s.c.Text
	for _, sep := range s.t.Separators {
		if !strings.HasPrefix(text[i:to], sep) {
			continue
		}
		if sep == "\n" && s.continued(seg, i, to) {
			return 0
		}
		return len(sep)
	}
	return 0
}

func (s *segmenter) continued(seg, i, to int) bool {
	text := s.c.Text
	prev := s.tail(seg)
	if prev == "" {
		return false
	}
	if s.t.Assign != "" && strings.HasSuffix(prev, s.t.Assign) {
		return true
	}
	if strings.IndexByte("+-*/%&|=.,(:?", prev[len(prev)-1]) >= 0 {
		return true
	}
	// every newline of a blank run sees the same next token
	if s.ahead <= i {
		s.ahead = skipSpace(text[:to], i)
	}
	next := text[s.ahead:to]
	return strings.HasPrefix(next, ".") || strings.HasPrefix(next, "&&") || strings.HasPrefix(next, "||") ||
		strings.HasPrefix(next, "?")
}

func (s *segmenter) warn(at int, format string, args ...any) {
	s.warnings = append(s.warnings, newError(KindWarning, nil, s.c.pos(at), format, args...))
}

// candidate turns the statement in [a, b) into a pair.
func (s *segmenter) candidate(a, b int) {
	c, t := s.c, s.t
	a, b = trimBounds(c.Text, a, b)
	if a >= b {
		return
	}

	if op := s.assignAt(a, b); op >= 0 {
		s.pair(a, op, op+len(t.Assign), b)
		return
	}
	if s.setter(a, b) || s.methodShorthand(a, b) {
		return
	}
	log.Debug("skipping statement without assignment", "offset", a)
	s.warn(a, "skipped statement without an option assignment: %s", abbreviate(c.Source[a:b]))
}

// assignAt finds the first top-level assignment operator in [a, b).
func (s *segmenter) assignAt(a, b int) int {
	c, t := s.c, s.t
	if t.Assign == "" {
		return -1
	}
	depth := 0
	for i := a; i < b; {
		if depth == 0 && !c.InString(i) && isAssignOp(c.Text, i, b, t.Assign) {
			return i
		}
		d, w := c.step(i, t)
		depth += d
		i += w
	}
	return -1
}

func isAssignOp(text string, i, end int, op string) bool {
	if !strings.HasPrefix(text[i:end], op) {
		return false
	}
	var prev, next byte
	if i > 0 {
		prev = text[i-1]
	}
	if i+len(op) < end {
		next = text[i+len(op)]
	}
	switch op {
	case "=":
		return strings.IndexByte("=!<>", prev) < 0 && next != '=' && next != '>'
	case ":":
		return prev != ':' && next != ':'
	case "=>":
		return prev != '='
	}
	return true
}

func (s *segmenter) pair(a, opStart, opEnd, b int) {
	c := s.c
	ka, kb := trimBounds(c.Text, a, opStart)
	va, vb := trimBounds(c.Text, opEnd, b)
	key, ok := s.key(c.Text[ka:kb])
	if !ok {
		s.warn(a, "skipped assignment to %s: not an option key", abbreviate(c.Source[ka:kb]))
		return
	}
	if va >= vb {
		s.warn(a, "option %q has no value", key)
		return
	}
	s.pairs = append(s.pairs, RawPair{
		Key:         key,
		Value:       c.Text[va:vb],
		Raw:         c.Source[va:vb],
		Offset:      ka,
		ValueOffset: va,
	})
}

// key normalizes the left-hand side of an assignment.
func (s *segmenter) key(text string) (string, bool) {
	if q, ok := s.t.QuoteAt(text); ok {
		if quoteEnd(text, 0, q) != len(text) {
			return "", false
		}
		return unquote(text, q), true
	}
	if len(s.prefixes) > 0 {
		rest, ok := s.stripPrefix(text)
		if !ok {
			return "", false
		}
		text = rest
	}
	if !validKey(text) {
		return "", false
	}
	return text, true
}

func (s *segmenter) stripPrefix(text string) (string, bool) {
	for _, p := range s.prefixes {
		if rest, ok := strings.CutPrefix(text, p); ok {
			rest = strings.TrimLeft(rest, " \t")
			if rest, ok = strings.CutPrefix(rest, "."); ok {
				return strings.TrimSpace(rest), true
			}
		}
	}
	return "", false
}

func validKey(key string) bool {
	if key == "" || key[0] == '.' || key[len(key)-1] == '.' || isDigit(key[0]) {
		return false
	}
	for i := 0; i < len(key); i++ {
		if !isIdentByte(key[i]) && key[i] != '.' {
			return false
		}
	}
	return true
}

// setter recognizes options.setDsn("...") style statements.
func (s *segmenter) setter(a, b int) bool {
	c, t := s.c, s.t
	if t.Setter == "" || c.Text[b-1] != ')' {
		return false
	}
	text := c.Text[a:b]
	if len(s.prefixes) > 0 {
		rest, ok := s.stripPrefix(text)
		if !ok {
			return false
		}
		a = b - len(rest)
		text = rest
	}
	name, ok := strings.CutPrefix(text, t.Setter)
	if !ok || name == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) {
		return false
	}
	nameEnd := identEnd(name, 0)
	open := skipSpace(c.Text, a+len(t.Setter)+nameEnd)
	if open >= b || c.Text[open] != '(' || c.matchClose(open, t) != b-1 {
		return false
	}
	key := string(unicode.ToLower(first)) + name[utf8.RuneLen(first):nameEnd]
	va, vb := trimBounds(c.Text, open+1, b-1)
	if va >= vb {
		s.warn(a, "setter for %q has no argument", key)
		return true
	}
	s.pairs = append(s.pairs, RawPair{
		Key:         key,
		Value:       c.Text[va:vb],
		Raw:         c.Source[va:vb],
		Offset:      a,
		ValueOffset: va,
	})
	return true
}

// methodShorthand recognizes object-literal methods such as
// beforeSend(event) { ... } and async tracesSampler(ctx) { ... }.
func (s *segmenter) methodShorthand(a, b int) bool {
	c, t := s.c, s.t
	if !t.MethodShorthand {
		return false
	}
	i := a
	for {
		end := identEnd(c.Text, i)
		if end == i || end >= b {
			return false
		}
		word := c.Text[i:end]
		next := skipSpace(c.Text, end)
		if next >= b {
			return false
		}
		if c.Text[next] == '(' {
			end := c.matchClose(next, t)
			if end < 0 || end >= b {
				return false
			}
			body := skipSpace(c.Text, end+1)
			if body >= b || c.Text[body] != '{' {
				return false
			}
			s.pairs = append(s.pairs, RawPair{
				Key:         word,
				Value:       c.Text[next:b],
				Raw:         c.Source[next:b],
				Offset:      i,
				ValueOffset: next,
			})
			return true
		}
		if !isModifier(t, word) {
			return false
		}
		i = next
		if i < b && c.Text[i] == '*' {
			i = skipSpace(c.Text, i+1)
		}
	}
}

func isModifier(t *dialect.Table, word string) bool {
	return slices.Contains(t.KeyModifiers, word)
}

func abbreviate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= 40 {
		return s
	}
	r := []rune(s)
	return string(r[:37]) + "..."
}
