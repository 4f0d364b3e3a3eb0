package parser

import (
	"strings"

	"github.com/dhamidi/sdkconf/dialect"
)

// Container is the balanced span holding the option assignments. The body is
// Text[Start:End]; Open is the offset of the opener and Close the offset just
// past the closer.
type Container struct {
	Call  string
	Param string
	Open  int
	Start int
	End   int
	Close int
}

func (ct *Container) Body(c *Cleaned) string {
	return c.Text[ct.Start:ct.End]
}

// Fallback reports whether the container was found without a bootstrap call.
func (ct *Container) Fallback() bool {
	return ct.Call == ""
}

// Locate finds the bootstrap call and its option container. The earliest call
// in the source wins; when several shapes match at the same offset the first
// listed one is tried first. A bare shape reached through a receiver, as in
// i18n.init, only counts when the receiver is one the call names.
func Locate(c *Cleaned, t *dialect.Table) (*Container, *ParseError) {
	missing := -1
	var missingCall dialect.Call
	var missingEnd int

	// scanned[k] is where the last failed argument scan of call k stopped.
	// Any later candidate of the same shape that starts inside that span
	// sees a subset of the same arguments.
	scanned := make([]int, len(t.Calls))
	for i := 0; i < len(c.Text); i++ {
		if c.InString(i) || isSpace(c.Text[i]) {
			continue
		}
		for k, call := range t.Calls {
			m, ok := c.match(i, call.Name, t)
			if !ok || (call.Bare && !acceptsReceiver(c.Text, i, call)) {
				continue
			}
			var ct *Container
			var err *ParseError
			if call.ScanArgs {
				if m.End < scanned[k] {
					continue
				}
				var stop int
				ct, stop, err = c.scanArgs(m.End, call, t)
				if ct == nil && err == nil {
					scanned[k] = stop
				}
			} else {
				ct, err = c.openContainer(m.End, call, t)
			}
			if err != nil {
				return nil, err
			}
			if ct != nil {
				ct.Call = strings.TrimSpace(c.Source[i:m.End])
				return ct, nil
			}
			if missing < 0 {
				missing, missingEnd, missingCall = i, m.End, call
			}
		}
	}

	start := skipSpace(c.Text, 0)
	for _, open := range t.Fallback {
		if m, ok := c.match(start, open, t); ok {
			return c.balance("", "", start, m.End, t)
		}
	}

	if missing >= 0 {
		name := strings.TrimSpace(c.Source[missing:missingEnd])
		if missingCall.ScanArgs {
			return nil, newError(KindStructural, ErrMissingContainer, c.pos(missing),
				"%s has no option container among its arguments", abbreviate(name))
		}
		return nil, newError(KindStructural, ErrMissingContainer, c.pos(missing),
			"%s is not followed by an option container", abbreviate(name))
	}
	return nil, newError(KindStructural, ErrNoBootstrapCall, nil,
		"no %s SDK bootstrap call or option container found", t.Title)
}

// receiverOf returns the receiver a member call at i is reached through, as
// in i18n.init or $hub->init. ok is false when the word at i stands alone.
func receiverOf(text string, i int) (name string, ok bool) {
	j := i - 1
	for j >= 0 && (text[j] == ' ' || text[j] == '\t') {
		j--
	}
	switch {
	case j < 0:
		return "", false
	case text[j] == '.':
		if j > 0 && text[j-1] == '.' {
			return "", false
		}
	case j > 0 && text[j] == ':' && text[j-1] == ':', j > 0 && text[j] == '>' && text[j-1] == '-':
		j--
	default:
		return "", false
	}
	j--
	for j >= 0 && (text[j] == ' ' || text[j] == '\t') {
		j--
	}
	end := j + 1
	for j >= 0 && isIdentByte(text[j]) {
		j--
	}
	return text[j+1 : end], true
}

// acceptsReceiver reports whether a bare call shape may match at i.
func acceptsReceiver(text string, i int, call dialect.Call) bool {
	recv, ok := receiverOf(text, i)
	if !ok {
		return true
	}
	for _, p := range call.Receivers {
		if strings.HasPrefix(recv, p) {
			return true
		}
	}
	return false
}

// scanArgs looks for an opener anywhere in the argument list that starts at
// end. When none is found it returns the offset where the scan stopped.
func (c *Cleaned) scanArgs(end int, call dialect.Call, t *dialect.Table) (*Container, int, *ParseError) {
	depth := 0
	i := end
	for i < len(c.Text) && depth >= 0 {
		if !c.InString(i) {
			for _, open := range call.Open {
				if m, ok := c.match(i, open, t); ok {
					ct, err := c.balance("", "", i, m.End, t)
					return ct, i, err
				}
			}
		}
		d, w := c.step(i, t)
		depth += d
		i += w
	}
	return nil, i, nil
}

// openContainer matches an optional binding prefix and then an opener right
// after the call name. It returns nil, nil when neither is there.
func (c *Cleaned) openContainer(end int, call dialect.Call, t *dialect.Table) (*Container, *ParseError) {
	j := skipSpace(c.Text, end)
	param := ""
	if t.Binding != nil {
		for _, tmpl := range t.Binding.Prefix {
			if m, ok := c.match(j, tmpl, t); ok {
				param = m.Param
				j = skipSpace(c.Text, m.End)
				break
			}
		}
	}
	for _, open := range call.Open {
		if m, ok := c.match(j, open, t); ok {
			return c.balance("", param, j, m.End, t)
		}
	}
	return nil, nil
}

// balance walks from just past the opener until the depth returns to zero.
func (c *Cleaned) balance(call, param string, open, start int, t *dialect.Table) (*Container, *ParseError) {
	depth := 1
	for i := start; i < len(c.Text); {
		d, w := c.step(i, t)
		depth += d
		if depth == 0 {
			return &Container{
				Call:  call,
				Param: param,
				Open:  open,
				Start: start,
				End:   i,
				Close: i + w,
			}, nil
		}
		i += w
	}
	return nil, newError(KindStructural, ErrUnbalancedContainer, c.pos(open),
		"option container opened here is never closed")
}
