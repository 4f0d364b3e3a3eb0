package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/sdkconf/parser"
)

// LineEncoder writes one tab separated record per line:
//
//	result   <dialect> valid|invalid
//	option   <key> <type> <value>
//	error    <line:col> <kind> <message>
//	warning  <line:col> <kind> <message>
type LineEncoder struct {
	w   io.Writer
	res *parser.Result
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(res *parser.Result) error {
	e.res = res
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	r := e.res

	status := "invalid"
	if r.Valid {
		status = "valid"
	}
	fmt.Fprintf(&sb, "result\t%s\t%s\n", r.Dialect, status)

	if r.Options != nil {
		for key, v := range r.Options.All() {
			fmt.Fprintf(&sb, "option\t%s\t%s\t%s\n", key, v.Type, ValueText(v))
		}
	}
	for _, err := range r.Errors {
		fmt.Fprintf(&sb, "error\t%s\t%s\t%s\n", position(err), err.Kind, err.Message)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "warning\t%s\t%s\t%s\n", position(w), w.Kind, w.Message)
	}

	return []byte(sb.String()), nil
}
