package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/sdkconf/parser"
)

type JSONEncoder struct {
	w   io.Writer
	res *parser.Result
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(res *parser.Result) error {
	e.res = res
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := json.MarshalIndent(e.res, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
