package errs

import (
	"testing"
)

var errorMessageTests = []struct {
	err     error
	wantMsg string
}{
	{
		TypeMismatch{What: "predicate output", Valid: "bool", Actual: "string"},
		"wrong type: predicate output must be bool, but is string",
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: 2, Actual: 3},
		"arity mismatch: arguments must be 2 values, but is 3 values",
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: -1, Actual: 1},
		"arity mismatch: arguments must be 2 values or more, but is 1 value",
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: 3, Actual: 1},
		"arity mismatch: arguments must be 2 values to 3, but is 1 value",
	},
	{
		OutOfRange{What: "list index", ValidLow: "0", ValidHigh: "2", Actual: "3"},
		"out of range: list index must be from 0 to 2, but is 3",
	},
	{
		MissingData{What: "column \"name\""},
		`cannot find column "name"`,
	},
	{
		ControlError{Message: "boom"},
		"boom",
	},
	{
		ControlError{Message: "boom", Label: "bad input"},
		"boom: bad input",
	},
	{
		PluginProtocol{Plugin: "inc", Reason: "unsupported protocol version 9"},
		"plugin inc: unsupported protocol version 9",
	},
}

func TestErrorMessages(t *testing.T) {
	for _, test := range errorMessageTests {
		if gotMsg := test.err.Error(); gotMsg != test.wantMsg {
			t.Errorf("got message %v, want %v", gotMsg, test.wantMsg)
		}
	}
}
