package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/sdkconf/dialect"
)

// maxUnwrap bounds nested wrapper unwrapping such as Some(String::from("x")).
const maxUnwrap = 8

// Classify turns the right-hand side of one assignment into a typed value.
// The first rule that matches wins: wrappers around a literal, strings,
// booleans, numbers, arrays, functions, and finally unknown.
func Classify(text string, t *dialect.Table) Value {
	return classify(strings.TrimSpace(text), t, 0)
}

func classify(text string, t *dialect.Table, depth int) Value {
	if depth < maxUnwrap {
		if inner, ok := unwrap(text, t); ok {
			if v := classify(inner, t, depth+1); v.IsScalar() {
				v.RawText = text
				return v
			}
		}
	}
	if s, ok := decodeString(text, t); ok {
		return Value{Type: TypeString, Value: s, RawText: text}
	}
	switch {
	case t.IsTrue(text):
		return Value{Type: TypeBoolean, Value: true, RawText: text}
	case t.IsFalse(text):
		return Value{Type: TypeBoolean, Value: false, RawText: text}
	}
	if f, ok := parseNumber(text, t); ok {
		return Value{Type: TypeNumber, Value: f, RawText: text}
	}
	if isArray(text, t) {
		return Value{Type: TypeArray, Value: true, RawText: text}
	}
	if isFunction(text, t) {
		return Value{Type: TypeFunction, Value: text, RawText: text}
	}
	return Value{Type: TypeUnknown, Value: text, RawText: text}
}

// decodeString accepts text that is exactly one string literal.
func decodeString(text string, t *dialect.Table) (string, bool) {
	q, n, ok := t.LiteralAt(text)
	if !ok || len(text)-n < 2*len(q.Delim) || quoteEnd(text, n, q) != len(text) {
		return "", false
	}
	return unquote(text[n:], q), true
}

func unquote(text string, q dialect.Quote) string {
	body := text[len(q.Delim) : len(text)-len(q.Delim)]
	if q.Raw || strings.IndexByte(body, '\\') < 0 {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i+1 == len(body) {
			b.WriteByte(ch)
			continue
		}
		i++
		e := body[i]
		if q.SimpleEscapes {
			if e != '\\' && !strings.HasPrefix(body[i:], q.Delim) {
				b.WriteByte('\\')
			}
			b.WriteByte(e)
			continue
		}
		switch e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case 'u':
			r, n := unicodeEscape(body[i+1:])
			if n == 0 {
				b.WriteString(`\u`)
				continue
			}
			b.WriteRune(r)
			i += n
		case 'x':
			if i+3 <= len(body) {
				if v, err := strconv.ParseUint(body[i+1:i+3], 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 2
					continue
				}
			}
			b.WriteString(`\x`)
		default:
			b.WriteByte(e)
		}
	}
	return b.String()
}

// unicodeEscape decodes the XXXX or {X...} following \u and returns the rune
// and the number of bytes consumed.
func unicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 || end > 9 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if len(s) < 4 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, 0
	}
	return rune(v), 4
}

// parseNumber accepts -?digits(.digits)? after dropping digit separators and
// a type suffix. Dialects that allow it also take a bare trailing dot.
func parseNumber(text string, t *dialect.Table) (float64, bool) {
	s := text
	if s == "" || (s[0] != '-' && !isDigit(s[0])) {
		return 0, false
	}
	if sep := t.Numbers.Separator; sep != "" {
		s = strings.ReplaceAll(s, sep, "")
	}
	for _, suffix := range t.Numbers.Suffixes {
		if len(s) > len(suffix) && strings.HasSuffix(s, suffix) {
			s = s[:len(s)-len(suffix)]
			break
		}
	}
	if !numeric(s, t.Numbers.TrailingDot) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func numeric(s string, trailingDot bool) bool {
	s = strings.TrimPrefix(s, "-")
	intEnd := 0
	for intEnd < len(s) && isDigit(s[intEnd]) {
		intEnd++
	}
	if intEnd == 0 {
		return false
	}
	if intEnd == len(s) {
		return true
	}
	if s[intEnd] != '.' {
		return false
	}
	if intEnd+1 == len(s) {
		return trailingDot
	}
	for i := intEnd + 1; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isArray(text string, t *dialect.Table) bool {
	for _, open := range t.Arrays {
		if strings.HasPrefix(text, open) {
			return true
		}
	}
	return false
}

// isFunction recognizes closure introducers, "(params) {" or "(params) =>"
// and "param =>".
func isFunction(text string, t *dialect.Table) bool {
	c := scanPlain(text, t)
	for _, intro := range t.Closures {
		if _, ok := c.match(0, intro, t); ok {
			return true
		}
	}

	rest := ""
	if strings.HasPrefix(text, "(") {
		end := c.matchClose(0, t)
		if end < 0 {
			return false
		}
		rest = strings.TrimSpace(text[end+1:])
		if strings.HasPrefix(rest, "{") {
			return true
		}
	} else if end := identEnd(text, 0); end > 0 {
		rest = strings.TrimSpace(text[end:])
	}
	for _, arrow := range t.Arrows {
		if strings.HasPrefix(rest, arrow) {
			return true
		}
	}
	return false
}
