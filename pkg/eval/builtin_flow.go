package eval

import (
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// Control flow and iteration commands. They share one skeleton — bind,
// evaluate, re-emit — and differ in iteration and termination policy.

type ifCmd struct{}

func (ifCmd) Name() string { return "if" }

func (ifCmd) Signature() *Signature {
	return &Signature{
		Name: "if",
		Desc: "Run a block if a condition holds, otherwise an optional else block.",
		Positional: []PositionalArg{
			{Name: "condition", Shape: ShapeBool},
			{Name: "then", Shape: ShapeClosure},
			{Name: "else", Shape: ShapeClosure, Optional: true},
		},
	}
}

func (ifCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	cond, err := call.Req(es, st, 0)
	if err != nil {
		return nil, err
	}
	if vals.Truth(cond) {
		then, err := call.ReqClosure(es, st, 1)
		if err != nil {
			return nil, err
		}
		return CallClosure(es, st, then, nil, input)
	}
	if len(call.Args) > 2 {
		alt, err := call.ReqClosure(es, st, 2)
		if err != nil {
			return nil, err
		}
		return CallClosure(es, st, alt, nil, input)
	}
	return Empty, nil
}

type forCmd struct{}

func (forCmd) Name() string { return "for" }

func (forCmd) Signature() *Signature {
	return &Signature{
		Name: "for",
		Desc: "Run a block once per element of a sequence.",
		Positional: []PositionalArg{
			{Name: "sequence", Shape: ShapeList},
			{Name: "body", Shape: ShapeClosure},
		},
	}
}

// Run drains the sequence eagerly. Each iteration binds the element in a
// fresh child scope; the body's output is drained and discarded.
func (forCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	seq, err := call.Req(es, st, 0)
	if err != nil {
		return nil, err
	}
	body, err := call.ReqClosure(es, st, 1)
	if err != nil {
		return nil, err
	}
	src := (ValueData{Val: seq}).Iter(call.Ranging, es.Interrupt())
	for {
		elem, ok := src.Next()
		if !ok {
			return Empty, nil
		}
		if _, err := runClosureOn(es, st, body, elem, call.Ranging); err != nil {
			return nil, err
		}
	}
}

type eachCmd struct{}

func (eachCmd) Name() string { return "each" }

func (eachCmd) Signature() *Signature {
	return &Signature{
		Name: "each",
		Desc: "Lazily map a closure over the input elements, preserving order.",
		Positional: []PositionalArg{
			{Name: "body", Shape: ShapeClosure},
		},
		InOut: []InOut{{In: ShapeList, Out: ShapeList}},
	}
}

func (eachCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	body, err := call.ReqClosure(es, st, 0)
	if err != nil {
		return nil, err
	}
	src := input.Iter(call.Ranging, es.Interrupt())
	failed := false
	out := NewListStream(call.Ranging, es.Interrupt(), func() (vals.Value, bool) {
		if failed {
			return nil, false
		}
		elem, ok := src.Next()
		if !ok {
			return nil, false
		}
		if _, isErr := elem.(vals.Error); isErr {
			return elem, true
		}
		res, err := runClosureOn(es, st, body, elem, call.Ranging)
		if err != nil {
			failed = true
			return vals.Error{Err: err, Ranging: elem.Range()}, true
		}
		return res, true
	})
	return StreamData{Stream: out, Meta: input.Metadata()}, nil
}

type whereCmd struct{}

func (whereCmd) Name() string { return "where" }

func (whereCmd) Signature() *Signature {
	return &Signature{
		Name: "where",
		Desc: "Lazily keep the input elements for which the predicate is truthy.",
		Positional: []PositionalArg{
			{Name: "predicate", Shape: ShapeClosure},
		},
		InOut: []InOut{{In: ShapeList, Out: ShapeList}},
	}
}

func (whereCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	pred, err := call.ReqClosure(es, st, 0)
	if err != nil {
		return nil, err
	}
	return FilterData(input, call.Ranging, es.Interrupt(), func(elem vals.Value) (bool, error) {
		return predicateOn(es, st, pred, elem, call.Ranging)
	}), nil
}

type skipWhileCmd struct{}

func (skipWhileCmd) Name() string { return "skip-while" }

func (skipWhileCmd) Signature() *Signature {
	return &Signature{
		Name: "skip-while",
		Desc: "Skip input elements while the predicate is truthy, then pass the rest through.",
		Positional: []PositionalArg{
			{Name: "predicate", Shape: ShapeClosure},
		},
		InOut: []InOut{{In: ShapeList, Out: ShapeList}},
	}
}

func (skipWhileCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	pred, err := call.ReqClosure(es, st, 0)
	if err != nil {
		return nil, err
	}
	src := input.Iter(call.Ranging, es.Interrupt())
	skipping := true
	failed := false
	out := NewListStream(call.Ranging, es.Interrupt(), func() (vals.Value, bool) {
		for {
			if failed {
				return nil, false
			}
			elem, ok := src.Next()
			if !ok {
				return nil, false
			}
			if !skipping {
				return elem, true
			}
			if _, isErr := elem.(vals.Error); isErr {
				return elem, true
			}
			keep, err := predicateOn(es, st, pred, elem, call.Ranging)
			if err != nil {
				failed = true
				return vals.Error{Err: err, Ranging: elem.Range()}, true
			}
			if !keep {
				skipping = false
				return elem, true
			}
		}
	})
	return StreamData{Stream: out, Meta: input.Metadata()}, nil
}

type takeUntilCmd struct{}

func (takeUntilCmd) Name() string { return "take-until" }

func (takeUntilCmd) Signature() *Signature {
	return &Signature{
		Name: "take-until",
		Desc: "Pass input elements through until the predicate first becomes truthy.",
		Positional: []PositionalArg{
			{Name: "predicate", Shape: ShapeClosure},
		},
		InOut: []InOut{{In: ShapeList, Out: ShapeList}},
	}
}

func (takeUntilCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	pred, err := call.ReqClosure(es, st, 0)
	if err != nil {
		return nil, err
	}
	src := input.Iter(call.Ranging, es.Interrupt())
	done := false
	out := NewListStream(call.Ranging, es.Interrupt(), func() (vals.Value, bool) {
		if done {
			return nil, false
		}
		elem, ok := src.Next()
		if !ok {
			return nil, false
		}
		if _, isErr := elem.(vals.Error); isErr {
			return elem, true
		}
		stop, err := predicateOn(es, st, pred, elem, call.Ranging)
		if err != nil {
			done = true
			return vals.Error{Err: err, Ranging: elem.Range()}, true
		}
		if stop {
			done = true
			return nil, false
		}
		return elem, true
	})
	return StreamData{Stream: out, Meta: input.Metadata()}, nil
}

type reduceCmd struct{}

func (reduceCmd) Name() string { return "reduce" }

func (reduceCmd) Signature() *Signature {
	return &Signature{
		Name: "reduce",
		Desc: "Thread an accumulator through the input; without --fold the first element seeds it.",
		Positional: []PositionalArg{
			{Name: "body", Shape: ShapeClosure},
		},
		Named: []Flag{
			{Long: "fold", Short: "f", Shape: ShapeAny, Desc: "initial accumulator value"},
		},
		InOut: []InOut{{In: ShapeList, Out: ShapeAny}},
	}
}

func (reduceCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	body, err := call.ReqClosure(es, st, 0)
	if err != nil {
		return nil, err
	}
	init, _, err := call.GetFlag(es, st, "fold")
	if err != nil {
		return nil, err
	}
	return foldStream(es, st, call, input, body, init)
}

type foldCmd struct{}

func (foldCmd) Name() string { return "fold" }

func (foldCmd) Signature() *Signature {
	return &Signature{
		Name: "fold",
		Desc: "Thread an accumulator through the input, starting from an initial value.",
		Positional: []PositionalArg{
			{Name: "init", Shape: ShapeAny},
			{Name: "body", Shape: ShapeClosure},
		},
		InOut: []InOut{{In: ShapeList, Out: ShapeAny}},
	}
}

func (foldCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	init, err := call.Req(es, st, 0)
	if err != nil {
		return nil, err
	}
	body, err := call.ReqClosure(es, st, 1)
	if err != nil {
		return nil, err
	}
	return foldStream(es, st, call, input, body, init)
}

// foldStream threads the accumulator through each element. The accumulator
// is rebound between steps, never mutated in place: a failing step
// propagates the error and the previous accumulator is lost with it. A nil
// init means the first element seeds the accumulator.
func foldStream(es *EngineState, st *Stack, call *Call, input PipelineData, body vals.Closure, init vals.Value) (PipelineData, error) {
	src := input.Iter(call.Ranging, es.Interrupt())
	acc := init
	for {
		elem, ok := src.Next()
		if !ok {
			break
		}
		if errv, isErr := elem.(vals.Error); isErr {
			return nil, errorp(elem, errv.Err)
		}
		if acc == nil {
			acc = elem
			continue
		}
		out, err := CallClosure(es, st, body,
			[]vals.Value{acc.Clone(), elem.Clone()}, Empty)
		if err != nil {
			return nil, err
		}
		acc, err = out.IntoValue(call.Ranging)
		if err != nil {
			return nil, err
		}
	}
	if acc == nil {
		return Empty, nil
	}
	return ValueData{Val: acc}, nil
}

type doCmd struct{}

func (doCmd) Name() string { return "do" }

func (doCmd) Signature() *Signature {
	return &Signature{
		Name: "do",
		Desc: "Call a closure, passing the pipeline input through to its body.",
		Positional: []PositionalArg{
			{Name: "closure", Shape: ShapeClosure},
		},
		Rest: &PositionalArg{Name: "args", Shape: ShapeAny},
	}
}

func (doCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	closure, err := call.ReqClosure(es, st, 0)
	if err != nil {
		return nil, err
	}
	args, err := call.Rest(es, st, 1)
	if err != nil {
		return nil, err
	}
	return CallClosure(es, st, closure, args, input)
}
