package eval

import (
	"github.com/strand-sh/strand/pkg/diag"
)

// Exception is an evaluation failure: a cause, the source range it
// originates from, and optional help text. The engine guarantees the cause
// and range survive unmodified until a presentation layer consumes them; it
// never formats them itself.
type Exception struct {
	Cause error
	Span  diag.Ranging
	Help  string
}

// Error returns the message of the cause.
func (e *Exception) Error() string { return e.Cause.Error() }

// Unwrap returns the cause.
func (e *Exception) Unwrap() error { return e.Cause }

// Range returns the source range of the failure.
func (e *Exception) Range() diag.Ranging { return e.Span }

// errorp attaches a range to an error. A nil error or an existing Exception
// passes through unchanged, so the innermost range wins.
func errorp(r diag.Ranger, err error) error {
	switch err := err.(type) {
	case nil:
		return nil
	case *Exception:
		return err
	default:
		return &Exception{Cause: err, Span: r.Range()}
	}
}
