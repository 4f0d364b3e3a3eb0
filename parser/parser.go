package parser

import (
	"fmt"

	"github.com/dhamidi/sdkconf/dialect"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("sdkconf.parser")

// Parser extracts options for one dialect. It holds no per-call state and is
// safe for concurrent use.
type Parser struct {
	table *dialect.Table
}

// New builds a parser driven by table.
func New(table *dialect.Table) (*Parser, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", dialect.ErrInvalidTable)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if err := checkUnwrappers(table); err != nil {
		return nil, err
	}
	return &Parser{table: table}, nil
}

func (p *Parser) Dialect() string {
	return p.table.Name
}

func (p *Parser) Table() *dialect.Table {
	return p.table
}

// Parse extracts the options of the bootstrap call in source. It never
// panics; every failure is reported through the result.
func (p *Parser) Parse(source string) (res *Result) {
	res = newResult(p.table.Name)
	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic", "dialect", p.table.Name, "panic", r)
			res = newResult(p.table.Name)
			res.fail(newError(KindStructural, ErrInternal, nil, "internal parser error: %v", r))
		}
	}()

	cleaned, ct, errs := p.locate(source)
	if len(errs) > 0 {
		res.fail(errs...)
		return res
	}

	pairs, warnings := Segment(cleaned, ct, p.table)
	for _, w := range warnings {
		res.warn(w)
	}
	for _, pair := range pairs {
		v := p.classifyPair(pair)
		if res.Options.set(pair.Key, v) {
			res.warn(newError(KindWarning, nil, cleaned.pos(pair.Offset),
				"option %q is set more than once, the last value wins", pair.Key))
		}
	}
	res.Valid = true

	log.Debug("parsed snippet", "dialect", p.table.Name, "options", res.Options.Len(), "warnings", len(res.Warnings))
	return res
}

// Validate runs only the scanner and locator, which is enough to know whether
// Parse would succeed.
func (p *Parser) Validate(source string) (v Validation) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic", "dialect", p.table.Name, "panic", r)
			v = Validation{Errors: []*ParseError{
				newError(KindStructural, ErrInternal, nil, "internal parser error: %v", r),
			}}
		}
	}()

	_, _, errs := p.locate(source)
	if errs == nil {
		errs = []*ParseError{}
	}
	return Validation{Valid: len(errs) == 0, Errors: errs}
}

func (p *Parser) locate(source string) (*Cleaned, *Container, []*ParseError) {
	cleaned, errs := Scan(source, p.table)
	if len(errs) > 0 {
		return cleaned, nil, errs
	}
	ct, err := Locate(cleaned, p.table)
	if err != nil {
		return cleaned, nil, []*ParseError{err}
	}
	return cleaned, ct, nil
}

// classifyPair keeps the original source as the raw text, so comments inside
// a function body survive in the reported value.
func (p *Parser) classifyPair(pair RawPair) Value {
	v := Classify(pair.Value, p.table)
	v.RawText = pair.Raw
	if v.Type == TypeFunction || v.Type == TypeUnknown {
		v.Value = pair.Raw
	}
	return v
}
