// Package dialect holds the token tables that teach the shared option parser
// one host language's SDK bootstrap idiom.
//
// A Table is plain data: quote and comment markers, the call shapes that
// anchor the option container, the assignment operator and separators of the
// option block, and the literal spellings the value classifier recognizes.
// Tables are decoded from YAML; the built-in set is embedded in the binary and
// more can be registered at runtime with Register or LoadFile.
package dialect

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrInvalidTable = errors.New("invalid dialect table")
)

// Quote is one string delimiter.
type Quote struct {
	Delim string `yaml:"delim"`
	// Raw strings have no escape sequences (Go backticks, Kotlin raw strings).
	Raw bool `yaml:"raw"`
	// SimpleEscapes strings only unescape the delimiter and the backslash
	// (PHP and Ruby single quotes).
	SimpleEscapes bool `yaml:"simple_escapes"`
	// Prefixes may precede Delim as part of the literal (Python f"", C# $"").
	// RawPrefixes do too and make the literal raw (Python r"", C# @"").
	// Both match regardless of case.
	Prefixes    []string `yaml:"prefixes"`
	RawPrefixes []string `yaml:"raw_prefixes"`
}

type BlockComment struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
	// LineStart markers only open a comment as the first thing on a line.
	LineStart bool `yaml:"line_start"`
}

// Call is one recognized bootstrap call shape.
//
// Name is matched whitespace-tolerantly. It may contain the placeholder
// {expr}, which skips one call argument (SentryAndroid.init({expr}) skips the
// context argument). After the name, one of Open must follow; when ScanArgs is
// set the opener may appear anywhere inside the call's argument list instead.
//
// A Bare name such as init( is the imported function itself. Reached through
// a receiver (i18n.init, $hub->init) it only counts when the receiver starts
// with one of Receivers.
type Call struct {
	Name      string   `yaml:"name"`
	Open      []string `yaml:"open"`
	ScanArgs  bool     `yaml:"scan_args"`
	Bare      bool     `yaml:"bare"`
	Receivers []string `yaml:"receivers"`
}

// Binding describes how a closure-style container names its receiver.
//
// Templates use {param} for the bound identifier. Prefix templates are
// matched between the call and the container opener (C# "o => {"), Body
// templates at the start of the container (Swift "{ options in").
// Positional names apply when no template matched (Swift $0, Kotlin it).
type Binding struct {
	Prefix     []string `yaml:"prefix"`
	Body       []string `yaml:"body"`
	Positional []string `yaml:"positional"`
}

// Blocks are keyword-delimited nesting constructs (Ruby do/end).
type Blocks struct {
	Open []string `yaml:"open"`
	// Statement keywords only open a block at the start of a statement, so
	// trailing modifiers like "x = 1 if y" are not counted.
	Statement []string `yaml:"statement"`
	Close     string   `yaml:"close"`
}

// ClosureHeader is a closure parameter list that is not bracketed, such as
// Python "lambda a, b:" or Rust "|a, b|". Separators inside it do not split
// pairs.
type ClosureHeader struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

type Booleans struct {
	True  []string `yaml:"true"`
	False []string `yaml:"false"`
}

type Numbers struct {
	// Separator is a digit group separator that is dropped before parsing.
	Separator string   `yaml:"separator"`
	Suffixes  []string `yaml:"suffixes"`
	// TrailingDot accepts a float written without fraction digits ("1.").
	TrailingDot bool `yaml:"trailing_dot"`
}

type Table struct {
	Name        string   `yaml:"name"`
	Title       string   `yaml:"title"`
	Aliases     []string `yaml:"aliases"`
	Extensions  []string `yaml:"extensions"`
	LanguageIDs []string `yaml:"language_ids"`

	Quotes        []Quote        `yaml:"quotes"`
	LineComments  []string       `yaml:"line_comments"`
	BlockComments []BlockComment `yaml:"block_comments"`

	Calls    []Call   `yaml:"calls"`
	Fallback []string `yaml:"fallback"`
	Binding  *Binding `yaml:"binding"`
	Blocks   *Blocks  `yaml:"blocks"`

	Assign          string          `yaml:"assign"`
	Separators      []string        `yaml:"separators"`
	Setter          string          `yaml:"setter"`
	MethodShorthand bool            `yaml:"method_shorthand"`
	KeyModifiers    []string        `yaml:"key_modifiers"`
	ClosureHeaders  []ClosureHeader `yaml:"closure_headers"`

	Booleans    Booleans `yaml:"booleans"`
	Numbers     Numbers  `yaml:"numbers"`
	Closures    []string `yaml:"closures"`
	Arrows      []string `yaml:"arrows"`
	Arrays      []string `yaml:"arrays"`
	Wrappers    []string `yaml:"wrappers"`
	Conversions []string `yaml:"conversions"`
	Unwrap      []string `yaml:"unwrap"`
}

// Validate reports whether the table can drive a parser.
func (t *Table) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTable)
	}
	if t.Assign == "" && t.Setter == "" {
		return fmt.Errorf("%w: %s: missing assign operator", ErrInvalidTable, t.Name)
	}
	if len(t.Calls) == 0 && len(t.Fallback) == 0 {
		return fmt.Errorf("%w: %s: no call shapes or fallback containers", ErrInvalidTable, t.Name)
	}
	if len(t.Separators) == 0 {
		return fmt.Errorf("%w: %s: missing separators", ErrInvalidTable, t.Name)
	}
	for i, c := range t.Calls {
		if strings.TrimSpace(c.Name) == "" || len(c.Open) == 0 {
			return fmt.Errorf("%w: %s: call %d needs a name and at least one opener", ErrInvalidTable, t.Name, i)
		}
	}
	for _, q := range t.Quotes {
		if q.Delim == "" {
			return fmt.Errorf("%w: %s: empty quote delimiter", ErrInvalidTable, t.Name)
		}
	}
	for _, b := range t.BlockComments {
		if b.Open == "" || b.Close == "" {
			return fmt.Errorf("%w: %s: block comment needs open and close", ErrInvalidTable, t.Name)
		}
	}
	if t.Blocks != nil && t.Blocks.Close == "" {
		return fmt.Errorf("%w: %s: keyword blocks need a close keyword", ErrInvalidTable, t.Name)
	}
	return nil
}

// prepare orders multi-character markers longest first so the scanner and
// classifier always try """ before ".
func (t *Table) prepare() {
	t.Name = strings.ToLower(strings.TrimSpace(t.Name))
	if t.Title == "" {
		t.Title = t.Name
	}
	for i, a := range t.Aliases {
		t.Aliases[i] = strings.ToLower(strings.TrimSpace(a))
	}
	for i, e := range t.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		t.Extensions[i] = e
	}
	slices.SortStableFunc(t.Quotes, func(a, b Quote) int { return len(b.Delim) - len(a.Delim) })
	byLen := func(a, b string) int { return len(b) - len(a) }
	slices.SortStableFunc(t.LineComments, byLen)
	slices.SortStableFunc(t.Numbers.Suffixes, byLen)
	slices.SortStableFunc(t.Conversions, byLen)
	slices.SortStableFunc(t.Arrows, byLen)
	slices.SortStableFunc(t.Separators, byLen)
}

// QuoteAt returns the delimiter that starts at the beginning of s.
func (t *Table) QuoteAt(s string) (Quote, bool) {
	for _, q := range t.Quotes {
		if strings.HasPrefix(s, q.Delim) {
			return q, true
		}
	}
	return Quote{}, false
}

// LiteralAt is QuoteAt for literals that may start with a prefix. It returns
// the prefix length, and the quote is raw when the prefix made it so.
func (t *Table) LiteralAt(s string) (Quote, int, bool) {
	if q, ok := t.QuoteAt(s); ok {
		return q, 0, true
	}
	for _, q := range t.Quotes {
		if n := prefixLen(s, q.Delim, q.RawPrefixes); n > 0 {
			q.Raw = true
			return q, n, true
		}
		if n := prefixLen(s, q.Delim, q.Prefixes); n > 0 {
			return q, n, true
		}
	}
	return Quote{}, 0, false
}

func prefixLen(s, delim string, prefixes []string) int {
	for _, p := range prefixes {
		if len(s) > len(p) && strings.EqualFold(s[:len(p)], p) && strings.HasPrefix(s[len(p):], delim) {
			return len(p)
		}
	}
	return 0
}

func (t *Table) IsTrue(s string) bool  { return slices.Contains(t.Booleans.True, s) }
func (t *Table) IsFalse(s string) bool { return slices.Contains(t.Booleans.False, s) }

// Names returns the dialect name followed by its aliases.
func (t *Table) Names() []string {
	return append([]string{t.Name}, t.Aliases...)
}
