// Package errs declares error types used as exception causes by the
// evaluator and the builtin commands.
package errs

import (
	"errors"
	"fmt"
)

// TypeMismatch is thrown when a value does not match the type a command or
// an operator declared for it.
type TypeMismatch struct {
	What   string
	Valid  string
	Actual string
}

// Error implements the error interface.
func (e TypeMismatch) Error() string {
	return fmt.Sprintf("wrong type: %v must be %v, but is %v",
		e.What, e.Valid, e.Actual)
}

// ArityMismatch is thrown when a callable is called with the wrong number of
// arguments. ValidHigh == -1 means that there is no upper bound.
type ArityMismatch struct {
	What      string
	ValidLow  int
	ValidHigh int
	Actual    int
}

func (e ArityMismatch) Error() string {
	switch {
	case e.ValidHigh == e.ValidLow:
		return fmt.Sprintf("arity mismatch: %v must be %v, but is %v",
			e.What, nValues(e.ValidLow), nValues(e.Actual))
	case e.ValidHigh == -1:
		return fmt.Sprintf("arity mismatch: %v must be %v or more, but is %v",
			e.What, nValues(e.ValidLow), nValues(e.Actual))
	default:
		return fmt.Sprintf("arity mismatch: %v must be %v to %v, but is %v",
			e.What, nValues(e.ValidLow), e.ValidHigh, nValues(e.Actual))
	}
}

func nValues(n int) string {
	if n == 1 {
		return "1 value"
	}
	return fmt.Sprintf("%d values", n)
}

// OutOfRange is thrown when a value is out of its valid range.
type OutOfRange struct {
	What      string
	ValidLow  string
	ValidHigh string
	Actual    string
}

func (e OutOfRange) Error() string {
	return fmt.Sprintf("out of range: %v must be from %v to %v, but is %v",
		e.What, e.ValidLow, e.ValidHigh, e.Actual)
}

// MissingData is thrown when a cell path or a lookup names a column, field
// or index that the data does not have.
type MissingData struct {
	What string
}

func (e MissingData) Error() string {
	return fmt.Sprintf("cannot find %v", e.What)
}

// IOError is thrown when reading from or writing to an external process or
// file fails.
type IOError struct {
	What string
	Err  error
}

func (e IOError) Error() string {
	return fmt.Sprintf("i/o error: %v: %v", e.What, e.Err)
}

// Unwrap returns the underlying error.
func (e IOError) Unwrap() error { return e.Err }

// ControlError is thrown by "error make"; it carries user-supplied payload.
type ControlError struct {
	Message string
	Label   string
}

func (e ControlError) Error() string {
	if e.Label == "" {
		return e.Message
	}
	return e.Message + ": " + e.Label
}

// PluginProtocol is thrown when a plugin misbehaves at the protocol level,
// including handshake and version failures.
type PluginProtocol struct {
	Plugin string
	Reason string
}

func (e PluginProtocol) Error() string {
	return fmt.Sprintf("plugin %v: %v", e.Plugin, e.Reason)
}

var (
	// Interrupted is thrown when a blocking wait observes the interrupt
	// flag. Stream iteration never throws it; streams end silently instead.
	Interrupted = errors.New("interrupted")
	// Timeout is thrown by a timed mailbox wait that elapses with no
	// matching message.
	Timeout = errors.New("timed out")
	// Disconnected is thrown when waiting on a mailbox that has been torn
	// down. It takes precedence over Timeout.
	Disconnected = errors.New("disconnected")
)
