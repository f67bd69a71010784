package eval

import (
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// Stream manipulation commands.

type seqCmd struct{}

func (seqCmd) Name() string { return "seq" }

func (seqCmd) Signature() *Signature {
	return &Signature{
		Name: "seq",
		Desc: "Produce a lazy arithmetic sequence; without an end it is unbounded.",
		Positional: []PositionalArg{
			{Name: "from", Shape: ShapeInt},
			{Name: "to", Shape: ShapeInt, Optional: true},
		},
		Named: []Flag{
			{Long: "step", Short: "s", Shape: ShapeInt, Desc: "increment, defaults to 1"},
		},
		InOut: []InOut{{In: ShapeNothing, Out: ShapeList}},
	}
}

func (seqCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	from, err := call.ReqInt(es, st, 0)
	if err != nil {
		return nil, err
	}
	r := vals.Range{From: from, Step: 1, Unbounded: true, Ranging: call.Ranging}
	if to, ok, err := call.Opt(es, st, 1); err != nil {
		return nil, err
	} else if ok {
		n, err := vals.ToInt("end of seq", to)
		if err != nil {
			return nil, errorp(call, err)
		}
		r.To = n
		r.Unbounded = false
	}
	if step, ok, err := call.GetFlag(es, st, "step"); err != nil {
		return nil, err
	} else if ok {
		n, err := vals.ToInt("step of seq", step)
		if err != nil {
			return nil, errorp(call, err)
		}
		r.Step = n
	}
	return StreamData{Stream: NewListStream(call.Ranging, es.Interrupt(), r.Iterator())}, nil
}

// takeCmd implements both "take" and its alias "first".
type takeCmd struct {
	name string
}

func (c takeCmd) Name() string { return c.name }

func (c takeCmd) Signature() *Signature {
	return &Signature{
		Name: c.name,
		Desc: "Pass through at most n elements, then stop pulling from the source.",
		Positional: []PositionalArg{
			{Name: "n", Shape: ShapeInt},
		},
		InOut: []InOut{{In: ShapeList, Out: ShapeList}},
	}
}

func (c takeCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	n, err := call.ReqInt(es, st, 0)
	if err != nil {
		return nil, err
	}
	src := input.Iter(call.Ranging, es.Interrupt())
	taken := int64(0)
	out := NewListStream(call.Ranging, es.Interrupt(), func() (vals.Value, bool) {
		if taken >= n {
			return nil, false
		}
		elem, ok := src.Next()
		if !ok {
			return nil, false
		}
		taken++
		return elem, true
	})
	return StreamData{Stream: out, Meta: input.Metadata()}, nil
}

type skipCmd struct{}

func (skipCmd) Name() string { return "skip" }

func (skipCmd) Signature() *Signature {
	return &Signature{
		Name: "skip",
		Desc: "Discard the first n elements and pass the rest through.",
		Positional: []PositionalArg{
			{Name: "n", Shape: ShapeInt},
		},
		InOut: []InOut{{In: ShapeList, Out: ShapeList}},
	}
}

func (skipCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	n, err := call.ReqInt(es, st, 0)
	if err != nil {
		return nil, err
	}
	src := input.Iter(call.Ranging, es.Interrupt())
	skipped := int64(0)
	out := NewListStream(call.Ranging, es.Interrupt(), func() (vals.Value, bool) {
		for skipped < n {
			if _, ok := src.Next(); !ok {
				return nil, false
			}
			skipped++
		}
		return src.Next()
	})
	return StreamData{Stream: out, Meta: input.Metadata()}, nil
}

type collectCmd struct{}

func (collectCmd) Name() string { return "collect" }

func (collectCmd) Signature() *Signature {
	return &Signature{
		Name:  "collect",
		Desc:  "Materialize the input into a single value.",
		InOut: []InOut{{In: ShapeAny, Out: ShapeAny}},
	}
}

func (collectCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	v, err := input.IntoValue(call.Ranging)
	if err != nil {
		return nil, err
	}
	return ValueData{Val: v, Meta: input.Metadata()}, nil
}

type lengthCmd struct{}

func (lengthCmd) Name() string { return "length" }

func (lengthCmd) Signature() *Signature {
	return &Signature{
		Name:  "length",
		Desc:  "Count the input elements, draining the input.",
		InOut: []InOut{{In: ShapeList, Out: ShapeInt}},
	}
}

func (lengthCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	src := input.Iter(call.Ranging, es.Interrupt())
	n := int64(0)
	for {
		elem, ok := src.Next()
		if !ok {
			break
		}
		if errv, isErr := elem.(vals.Error); isErr {
			return nil, errorp(elem, errv.Err)
		}
		n++
	}
	return ValueData{Val: vals.Int{I: n, Ranging: call.Ranging}}, nil
}
