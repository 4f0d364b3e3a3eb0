package parser

import (
	"fmt"
	"strings"

	"github.com/dhamidi/sdkconf/dialect"
)

// unwrapFunc returns the literal boxed by text, if text has the shape the
// predicate knows.
type unwrapFunc func(c *Cleaned, t *dialect.Table) (string, bool)

// unwrappers are the named predicates a dialect table may list under
// "unwrap" for wrapper shapes that are not a plain Name(literal) call.
var unwrappers = map[string]unwrapFunc{
	// NumberWrapper(value: 0.1)
	"labeled-value": unwrapLabeled,
	// "https://...".into(), 0.5.toDouble()
	"postfix-conversion": unwrapConversion,
	// (double) 0.5, (float)'0.25'
	"cast": unwrapCast,
}

func checkUnwrappers(t *dialect.Table) error {
	for _, name := range t.Unwrap {
		if _, ok := unwrappers[name]; !ok {
			return fmt.Errorf("%w: %s: unknown unwrap predicate %q", dialect.ErrInvalidTable, t.Name, name)
		}
	}
	return nil
}

func unwrap(text string, t *dialect.Table) (string, bool) {
	if len(t.Wrappers) == 0 && len(t.Unwrap) == 0 {
		return "", false
	}
	c := scanPlain(text, t)
	for _, w := range t.Wrappers {
		if inner, ok := unwrapCall(c, w, t); ok {
			return inner, true
		}
	}
	for _, name := range t.Unwrap {
		if fn, ok := unwrappers[name]; ok {
			if inner, ok := fn(c, t); ok {
				return inner, true
			}
		}
	}
	return "", false
}

// callArgs returns the argument text of a call that spans all of c, given the
// offset just past the callee name.
func callArgs(c *Cleaned, at int, t *dialect.Table) (string, bool) {
	open := skipSpace(c.Text, at)
	if open >= len(c.Text) || c.Text[open] != '(' || c.InString(open) {
		return "", false
	}
	if c.matchClose(open, t) != len(c.Text)-1 {
		return "", false
	}
	if c.hasTopLevel(open+1, len(c.Text)-1, ',', t) {
		return "", false
	}
	args := strings.TrimSpace(c.Text[open+1 : len(c.Text)-1])
	return args, args != ""
}

// unwrapCall matches Name(literal) for a wrapper listed by the table.
func unwrapCall(c *Cleaned, name string, t *dialect.Table) (string, bool) {
	m, ok := c.match(0, name, t)
	if !ok {
		return "", false
	}
	return callArgs(c, m.End, t)
}

func unwrapLabeled(c *Cleaned, t *dialect.Table) (string, bool) {
	end := 0
	for end < len(c.Text) && (isIdentByte(c.Text[end]) || c.Text[end] == '.') {
		end++
	}
	if end == 0 {
		return "", false
	}
	args, ok := callArgs(c, end, t)
	if !ok {
		return "", false
	}
	label := identEnd(args, 0)
	if label == 0 {
		return "", false
	}
	rest := strings.TrimLeft(args[label:], " \t")
	if !strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "::") {
		return "", false
	}
	return strings.TrimSpace(rest[1:]), true
}

func unwrapConversion(c *Cleaned, t *dialect.Table) (string, bool) {
	text := c.Text
	for _, conv := range t.Conversions {
		if len(text) > len(conv) && strings.HasSuffix(text, conv) && !c.InString(len(text)-len(conv)) {
			return strings.TrimSpace(text[:len(text)-len(conv)]), true
		}
	}
	return "", false
}

func unwrapCast(c *Cleaned, t *dialect.Table) (string, bool) {
	text := c.Text
	if !strings.HasPrefix(text, "(") {
		return "", false
	}
	end := c.matchClose(0, t)
	if end < 0 {
		return "", false
	}
	typ := strings.TrimSpace(text[1:end])
	if typ == "" {
		return "", false
	}
	for i := 0; i < len(typ); i++ {
		if !isIdentByte(typ[i]) && typ[i] != '.' && typ[i] != '?' {
			return "", false
		}
	}
	inner := strings.TrimSpace(text[end+1:])
	return inner, inner != ""
}
