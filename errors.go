package xmss

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrorKind classifies the errors this package returns, per the error
// handling design: malformed input is always a ParameterError, an
// unimplemented address format is UnsupportedFormat, a used-up signing
// key is KeyExhausted, and a state the algorithm should never reach is
// InternalInvariant.
type ErrorKind uint8

const (
	ParameterError ErrorKind = iota
	UnsupportedFormat
	KeyExhausted
	InternalInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case ParameterError:
		return "ParameterError"
	case UnsupportedFormat:
		return "UnsupportedFormat"
	case KeyExhausted:
		return "KeyExhausted"
	case InternalInvariant:
		return "InternalInvariant"
	default:
		return "UnknownError"
	}
}

// Error is the typed error returned at every package boundary. No
// function in this package returns a bare error: callers can always
// switch on Kind() instead of matching error strings.
type Error interface {
	error
	Kind() ErrorKind
	Unwrap() error
}

type xmssError struct {
	kind  ErrorKind
	msg   string
	inner error
}

func (e *xmssError) Kind() ErrorKind { return e.kind }
func (e *xmssError) Unwrap() error   { return e.inner }

func (e *xmssError) Error() string {
	if e.inner != nil {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.msg, e.inner.Error())
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func errorf(kind ErrorKind, format string, a ...interface{}) *xmssError {
	return &xmssError{kind: kind, msg: fmt.Sprintf(format, a...)}
}

func wrapErrorf(kind ErrorKind, err error, format string, a ...interface{}) *xmssError {
	return &xmssError{kind: kind, msg: fmt.Sprintf(format, a...), inner: err}
}

// validateAll runs every check and, if one or more fail, combines them
// with multierror into a single ParameterError so a caller that passed
// several bad parameters at once (e.g. a bogus height and a bogus w)
// sees all of the problems, not just the first one we happened upon.
func validateAll(checks ...func() error) error {
	var merr *multierror.Error
	for _, check := range checks {
		if err := check(); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if merr == nil {
		return nil
	}
	merr.ErrorFormat = func(es []error) string {
		if len(es) == 1 {
			return es[0].Error()
		}
		msgs := make([]string, len(es))
		for i, e := range es {
			msgs[i] = e.Error()
		}
		return fmt.Sprintf("%d parameter errors occurred: %v", len(es), msgs)
	}
	return errorf(ParameterError, "%s", merr.Error())
}
