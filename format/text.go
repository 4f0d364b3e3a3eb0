package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/sdkconf/parser"
	"github.com/fatih/color"
)

var (
	validFmt   = color.New(color.FgGreen, color.Bold).SprintFunc()
	invalidFmt = color.New(color.FgRed, color.Bold).SprintFunc()
	keyFmt     = color.New(color.FgCyan).SprintfFunc()
	typeFmt    = color.New(color.Faint).SprintfFunc()
	errorFmt   = color.New(color.Bold, color.FgRed).SprintFunc()
	warnFmt    = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// TextEncoder writes a human readable report. Colors follow
// color.NoColor, which is set automatically when the output is not a
// terminal.
type TextEncoder struct {
	w   io.Writer
	res *parser.Result
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(res *parser.Result) error {
	e.res = res
	return write(e.w, e)
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	r := e.res

	count := 0
	if r.Options != nil {
		count = r.Options.Len()
	}
	if r.Valid {
		fmt.Fprintf(&sb, "%s: %s, %s\n", r.Dialect, validFmt("valid"), plural(count, "option"))
	} else {
		fmt.Fprintf(&sb, "%s: %s\n", r.Dialect, invalidFmt("invalid"))
	}

	if count > 0 {
		width := 0
		for _, key := range r.Options.Keys() {
			width = max(width, len(key))
		}
		for key, v := range r.Options.All() {
			fmt.Fprintf(&sb, "  %s  %s  %s\n", keyFmt("%-*s", width, key), typeFmt("%-8s", v.Type), ValueText(v))
		}
	}

	for _, err := range r.Errors {
		fmt.Fprintf(&sb, "  %s %s: %s\n", errorFmt("error"), position(err), err.Message)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "  %s %s: %s\n", warnFmt("warning"), position(w), w.Message)
	}

	return []byte(sb.String()), nil
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
