package eval

import (
	"github.com/strand-sh/strand/pkg/eval/errs"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// Core data commands.

// putCmd implements both "put" and its alias "echo".
type putCmd struct {
	name string
}

func (c putCmd) Name() string { return c.name }

func (c putCmd) Signature() *Signature {
	return &Signature{
		Name: c.name,
		Desc: "Output the arguments as pipeline values.",
		Rest: &PositionalArg{Name: "values", Shape: ShapeAny},
	}
}

func (putCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	values, err := call.Rest(es, st, 0)
	if err != nil {
		return nil, err
	}
	if len(values) == 1 {
		return ValueData{Val: values[0]}, nil
	}
	return ValueData{Val: vals.List{Items: values, Ranging: call.Ranging}}, nil
}

type getCmd struct{}

func (getCmd) Name() string { return "get" }

func (getCmd) Signature() *Signature {
	return &Signature{
		Name: "get",
		Desc: "Follow a cell path into the input value.",
		Rest: &PositionalArg{Name: "path", Shape: ShapeCellPath},
		Named: []Flag{
			{Long: "ignore-errors", Short: "i", Desc: "missing members yield nothing instead of failing"},
		},
		InOut: []InOut{{In: ShapeAny, Out: ShapeAny}},
	}
}

func (getCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	path, err := cellPathFromArgs(es, st, call, call.HasFlag("ignore-errors"))
	if err != nil {
		return nil, err
	}
	v, err := input.IntoValue(call.Ranging)
	if err != nil {
		return nil, err
	}
	out, err := vals.Follow(v, path)
	if err != nil {
		return nil, errorp(call, err)
	}
	return ValueData{Val: out}, nil
}

type rejectCmd struct{}

func (rejectCmd) Name() string { return "reject" }

func (rejectCmd) Signature() *Signature {
	return &Signature{
		Name: "reject",
		Desc: "Remove the column named by a cell path from the input.",
		Rest: &PositionalArg{Name: "path", Shape: ShapeCellPath},
		Named: []Flag{
			{Long: "ignore-errors", Short: "i", Desc: "missing members are ignored"},
		},
		InOut: []InOut{{In: ShapeAny, Out: ShapeAny}},
	}
}

func (rejectCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	path, err := cellPathFromArgs(es, st, call, call.HasFlag("ignore-errors"))
	if err != nil {
		return nil, err
	}
	v, err := input.IntoValue(call.Ranging)
	if err != nil {
		return nil, err
	}
	out, err := vals.Reject(v, path)
	if err != nil {
		return nil, errorp(call, err)
	}
	return ValueData{Val: out}, nil
}

// cellPathFromArgs builds a cell path from the call's positional arguments:
// strings become column members, ints become index members.
func cellPathFromArgs(es *EngineState, st *Stack, call *Call, optional bool) (vals.Path, error) {
	args, err := call.Rest(es, st, 0)
	if err != nil {
		return vals.Path{}, err
	}
	members := make([]vals.PathMember, 0, len(args))
	for _, a := range args {
		var m vals.PathMember
		switch a := a.(type) {
		case vals.String:
			m = vals.KeyMember(a.S, a.Ranging)
		case vals.Int:
			m = vals.IndexMember(int(a.I), a.Ranging)
		default:
			return vals.Path{}, errorp(call, errs.TypeMismatch{
				What: "cell path member", Valid: "string or int", Actual: a.Kind()})
		}
		if optional {
			m = m.AsOptional()
		}
		members = append(members, m)
	}
	return vals.Path{Members: members, Ranging: call.Ranging}, nil
}

type errorMakeCmd struct{}

func (errorMakeCmd) Name() string { return "error make" }

func (errorMakeCmd) Signature() *Signature {
	return &Signature{
		Name: "error make",
		Desc: "Raise an error built from a record with msg and optional label fields.",
		Positional: []PositionalArg{
			{Name: "error", Shape: ShapeRecord},
		},
	}
}

func (errorMakeCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	spec, err := call.Req(es, st, 0)
	if err != nil {
		return nil, err
	}
	msg, label, r := "error", "", call.Ranging
	switch spec := spec.(type) {
	case vals.Record:
		if v, ok := spec.Get("msg"); ok {
			if s, err := vals.ToString("msg field", v); err == nil {
				msg = s
			}
		}
		if v, ok := spec.Get("label"); ok {
			if s, err := vals.ToString("label field", v); err == nil {
				label = s
			}
		}
		r = spec.Ranging
	case vals.String:
		msg = spec.S
		r = spec.Ranging
	default:
		return nil, errorp(call, errs.TypeMismatch{
			What: "argument to error make", Valid: "record or string", Actual: spec.Kind()})
	}
	return nil, &Exception{
		Cause: errs.ControlError{Message: msg, Label: label},
		Span:  r,
	}
}
