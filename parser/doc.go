// Package parser extracts the options of an SDK bootstrap call from a pasted
// source snippet without executing it.
//
// # Overview
//
// A snippet such as
//
//	\Sentry\init([
//	    'dsn' => 'https://key@o0.ingest.sentry.io/0',
//	    'traces_sample_rate' => 0.1,
//	]);
//
// becomes an ordered map of typed values:
//
//	dsn                 string  "https://key@o0.ingest.sentry.io/0"
//	traces_sample_rate  number  0.1
//
// Only the narrow grammar of an option block is understood. Options nested in
// conditionals or loops are not recovered.
//
// # Architecture
//
// One engine serves every dialect. Each stage is a forward scan driven by a
// dialect.Table:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│    Scan     │────▶│   Locate    │────▶│   Segment   │────▶│  Classify   │
//	│ (comments)  │     │ (container) │     │   (pairs)   │     │  (values)   │
//	└─────────────┘     └─────────────┘     └─────────────┘     └─────────────┘
//
// Scan blanks comments in place, so every later offset is also an offset
// into the original source. Locate finds the earliest recognized bootstrap
// call and the balanced container after it. Segment splits the container at
// top-level separators and cuts each statement at its assignment operator.
// Classify types each right-hand side.
//
// # Errors
//
// Parse never panics and never returns an error. Unterminated strings and
// comments, a missing or unbalanced container, and snippets without any
// bootstrap call make the result invalid and are listed in Result.Errors.
// Each *ParseError unwraps to one of the package sentinels:
//
//	res := p.Parse(src)
//	for _, e := range res.Errors {
//	    if errors.Is(e, parser.ErrNoBootstrapCall) {
//	        // nothing to analyze
//	    }
//	}
//
// Non-fatal findings such as duplicate keys or skipped statements are listed
// in Result.Warnings. A repeated key keeps its first position and takes its
// last value.
//
// # Usage
//
//	p, err := parser.For("php")
//	if err != nil {
//	    return err
//	}
//	res := p.Parse(src)
//	if v, ok := res.Options.Get("dsn"); ok {
//	    fmt.Println(v.String())
//	}
package parser
