package format

import (
	"encoding"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/sdkconf/parser"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(res *parser.Result) error
}

// Names lists the formats NewEncoder accepts.
func Names() []string {
	return []string{"json", "line", "text"}
}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	case "text", "":
		return NewTextEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (expected one of %s)", name, strings.Join(Names(), ", "))
	}
}

// ValueText renders v on a single line.
func ValueText(v parser.Value) string {
	switch v.Type {
	case parser.TypeString:
		return strconv.Quote(v.String())
	case parser.TypeNumber:
		return strconv.FormatFloat(v.Number(), 'g', -1, 64)
	case parser.TypeBoolean:
		return strconv.FormatBool(v.Bool())
	default:
		return strings.Join(strings.Fields(v.RawText), " ")
	}
}

func position(e *parser.ParseError) string {
	if !e.Localized() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", *e.Line, *e.Column)
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
