package parser

import (
	"bytes"
	"encoding/json"
	"iter"
	"strings"

	"golang.org/x/text/cases"
)

type ValueType string

const (
	TypeString   ValueType = "string"
	TypeNumber   ValueType = "number"
	TypeBoolean  ValueType = "boolean"
	TypeArray    ValueType = "array"
	TypeFunction ValueType = "function"
	TypeUnknown  ValueType = "unknown"
)

// Value is the typed right-hand side of one option.
//
// Value holds a string, float64 or bool for scalars, true for arrays (the
// elements are not parsed), and the raw source text for functions and
// anything unrecognized.
type Value struct {
	Type    ValueType `json:"type"`
	Value   any       `json:"value"`
	RawText string    `json:"rawText"`
}

func (v Value) IsScalar() bool {
	return v.Type == TypeString || v.Type == TypeNumber || v.Type == TypeBoolean
}

func (v Value) String() string {
	s, _ := v.Value.(string)
	return s
}

func (v Value) Number() float64 {
	f, _ := v.Value.(float64)
	return f
}

func (v Value) Bool() bool {
	b, _ := v.Value.(bool)
	return b
}

// Options is an ordered set of options. Keys keep the position of their first
// appearance; a repeated key replaces the earlier value.
type Options struct {
	keys   []string
	values map[string]Value
}

func newOptions() *Options {
	return &Options{values: make(map[string]Value)}
}

// set stores v under key and reports whether an earlier value was replaced.
func (o *Options) set(key string, v Value) bool {
	_, exists := o.values[key]
	if !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return exists
}

func (o *Options) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.values[key]
	return v, ok
}

func (o *Options) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Options) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// All iterates the options in source order.
func (o *Options) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// Canonical looks an option up by its canonical name, so traces_sample_rate,
// tracesSampleRate and TracesSampleRate all find the same entry.
func (o *Options) Canonical(name string) (string, Value, bool) {
	if o == nil {
		return "", Value{}, false
	}
	want := CanonicalName(name)
	for _, k := range o.keys {
		if CanonicalName(k) == want {
			return k, o.values[k], true
		}
	}
	return "", Value{}, false
}

// CanonicalName folds case and drops word separators.
func CanonicalName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || r == ' ' {
			return -1
		}
		return r
	}, name)
	return cases.Fold().String(name)
}

// MarshalJSON writes the options as a JSON object in source order.
func (o *Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if o != nil {
		for i, k := range o.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := json.Marshal(o.values[k])
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object written by MarshalJSON, keeping key order.
func (o *Options) UnmarshalJSON(data []byte) error {
	*o = Options{values: make(map[string]Value)}
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v Value
		if err := dec.Decode(&v); err != nil {
			return err
		}
		o.set(key, v)
	}
	_, err := dec.Token()
	return err
}
