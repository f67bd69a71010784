package eval

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval/errs"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// ExternalStream is the output of a spawned external process that is still
// in flight: the stdout and stderr pipes plus a future for the exit code.
type ExternalStream struct {
	Stdout io.ReadCloser
	Stderr io.ReadCloser

	span     diag.Ranging
	waitOnce sync.Once
	waitFn   func() (int, error)
	code     int
	waitErr  error
}

// NewExternalStream wraps process pipes and an exit-code future.
func NewExternalStream(r diag.Ranging, stdout, stderr io.ReadCloser, wait func() (int, error)) *ExternalStream {
	return &ExternalStream{Stdout: stdout, Stderr: stderr, span: r, waitFn: wait}
}

// Wait waits for the process to exit and returns its exit code. It is
// idempotent.
func (e *ExternalStream) Wait() (int, error) {
	e.waitOnce.Do(func() {
		e.code, e.waitErr = e.waitFn()
	})
	return e.code, e.waitErr
}

// ExternalExitError reports an external command that exited with a nonzero
// code.
type ExternalExitError struct {
	Cmd  string
	Code int
}

func (e ExternalExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Cmd, e.Code)
}

// Lines returns a lazy stream of the process's stdout lines. A read failure
// or a nonzero exit is emitted as a trailing error element.
func (e *ExternalStream) Lines(r diag.Ranging, interrupt *Interrupt) *ListStream {
	reader := bufio.NewReader(e.Stdout)
	done := false
	return NewListStream(r, interrupt, func() (vals.Value, bool) {
		if done {
			return nil, false
		}
		line, err := reader.ReadString('\n')
		if line != "" {
			return vals.String{S: strings.TrimSuffix(line, "\n"), Ranging: r}, true
		}
		done = true
		if err != nil && err != io.EOF {
			return vals.Error{Err: errs.IOError{What: "reading external output", Err: err}, Ranging: r}, true
		}
		code, err := e.Wait()
		if err != nil {
			return vals.Error{Err: errs.IOError{What: "waiting for external command", Err: err}, Ranging: r}, true
		}
		if code != 0 {
			return vals.Error{Err: ExternalExitError{Cmd: "external command", Code: code}, Ranging: r}, true
		}
		return nil, false
	})
}

// IntoValue collects the process's stdout into a string and waits for the
// exit code. Read and wait failures map to IOError; a nonzero exit code is
// reported as an ExternalExitError.
func (e *ExternalStream) IntoValue(r diag.Ranging) (vals.Value, error) {
	out, err := io.ReadAll(e.Stdout)
	if err != nil {
		return nil, errs.IOError{What: "reading external output", Err: err}
	}
	code, err := e.Wait()
	if err != nil {
		return nil, errs.IOError{What: "waiting for external command", Err: err}
	}
	if code != 0 {
		return nil, ExternalExitError{Cmd: "external command", Code: code}
	}
	return vals.String{S: strings.TrimSuffix(string(out), "\n"), Ranging: r}, nil
}
