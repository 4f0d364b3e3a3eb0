package parser

// Result is the outcome of one Parse call.
type Result struct {
	Dialect  string        `json:"dialect"`
	Valid    bool          `json:"valid"`
	Options  *Options      `json:"options"`
	Errors   []*ParseError `json:"parseErrors"`
	Warnings []*ParseError `json:"warnings,omitempty"`
}

// Validation is the outcome of Validate: Parse without the options.
type Validation struct {
	Valid  bool          `json:"valid"`
	Errors []*ParseError `json:"errors"`
}

func newResult(dialect string) *Result {
	return &Result{
		Dialect: dialect,
		Options: newOptions(),
		Errors:  []*ParseError{},
	}
}

// fail records fatal errors. Options found before the failure are dropped.
func (r *Result) fail(errs ...*ParseError) {
	r.Valid = false
	r.Options = newOptions()
	r.Errors = append(r.Errors, errs...)
}

func (r *Result) warn(w *ParseError) {
	r.Warnings = append(r.Warnings, w)
}

// Diagnostics returns the errors followed by the warnings.
func (r *Result) Diagnostics() []*ParseError {
	out := make([]*ParseError, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}

// Validation drops the options from r.
func (r *Result) Validation() Validation {
	errs := r.Errors
	if errs == nil {
		errs = []*ParseError{}
	}
	return Validation{Valid: r.Valid, Errors: errs}
}
