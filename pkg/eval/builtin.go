package eval

import (
	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// BuiltinCommands returns the commands registered into the default overlay
// of every new engine.
func BuiltinCommands() []Command {
	return []Command{
		// Control flow and iteration.
		ifCmd{}, forCmd{}, eachCmd{}, whereCmd{}, reduceCmd{}, foldCmd{},
		skipWhileCmd{}, takeUntilCmd{}, doCmd{}, parEachCmd{},
		// Streams.
		seqCmd{}, takeCmd{"take"}, takeCmd{"first"}, skipCmd{}, collectCmd{},
		lengthCmd{},
		// Core data and environment.
		putCmd{"put"}, putCmd{"echo"}, getCmd{}, rejectCmd{}, errorMakeCmd{},
		withEnvCmd{}, loadEnvCmd{}, hideEnvCmd{},
		// External processes.
		runExternalCmd{},
	}
}

// RegisterBuiltins merges the builtin commands into the engine's default
// overlay.
func RegisterBuiltins(es *EngineState) {
	d := es.NewDelta()
	for _, cmd := range BuiltinCommands() {
		d.AddDecl(DefaultOverlay, cmd)
	}
	es.Merge(d)
}

// runClosureOn calls a closure on one element and materializes the result.
// The element is cloned first, so closure side effects can never mutate the
// source sequence.
func runClosureOn(es *EngineState, st *Stack, c vals.Closure, elem vals.Value, r diag.Ranging) (vals.Value, error) {
	out, err := CallClosure(es, st, c, []vals.Value{elem.Clone()}, Empty)
	if err != nil {
		return nil, err
	}
	return out.IntoValue(r)
}

// predicateOn evaluates a closure as a predicate on one element.
func predicateOn(es *EngineState, st *Stack, c vals.Closure, elem vals.Value, r diag.Ranging) (bool, error) {
	v, err := runClosureOn(es, st, c, elem, r)
	if err != nil {
		return false, err
	}
	return vals.Truth(v), nil
}
