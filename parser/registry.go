package parser

import (
	"fmt"

	"github.com/dhamidi/sdkconf/dialect"
)

// For returns the parser for a dialect name or alias.
func For(name string) (*Parser, error) {
	t, ok := dialect.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
	return New(t)
}

// ForFile picks the parser by the extension of path.
func ForFile(path string) (*Parser, error) {
	t, ok := dialect.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: no dialect for %s", ErrUnknownDialect, path)
	}
	return New(t)
}

// Parse is a shortcut for For(name) followed by Parse.
func Parse(name, source string) (*Result, error) {
	p, err := For(name)
	if err != nil {
		return nil, err
	}
	return p.Parse(source), nil
}

func Validate(name, source string) (Validation, error) {
	p, err := For(name)
	if err != nil {
		return Validation{}, err
	}
	return p.Validate(source), nil
}
