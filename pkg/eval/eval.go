package eval

import (
	"fmt"

	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval/errs"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// EvalBlock evaluates a block against the given stack. The input feeds the
// block's first statement; within a statement, each pipeline element's
// output feeds the next element. The last statement's output is the block's
// result; earlier statements are drained, surfacing any embedded error
// values. The first failing expression aborts the block.
func EvalBlock(es *EngineState, st *Stack, b *Block, input PipelineData) (PipelineData, error) {
	out := Empty
	for i, pl := range b.Pipelines {
		in := Empty
		if i == 0 {
			in = input
		}
		var err error
		out, err = evalPipeline(es, st, pl, in)
		if err != nil {
			return nil, err
		}
		if i < len(b.Pipelines)-1 {
			if _, err := out.IntoValue(pl.Ranging); err != nil {
				return nil, errorp(pl, err)
			}
			out = Empty
		}
	}
	return out, nil
}

func evalPipeline(es *EngineState, st *Stack, pl *Pipeline, input PipelineData) (PipelineData, error) {
	data := input
	for _, e := range pl.Elements {
		var err error
		data, err = evalElement(es, st, e, data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// evalElement evaluates one pipeline element. A call dispatches to its
// command with the incoming data; any other expression produces its value,
// ignoring the incoming data.
func evalElement(es *EngineState, st *Stack, e Expr, input PipelineData) (PipelineData, error) {
	call, ok := e.(CallExpr)
	if !ok {
		v, err := evalExpr(es, st, e)
		if err != nil {
			return nil, err
		}
		return ValueData{Val: v}, nil
	}
	cmd := es.Command(call.Decl)
	callSt := st
	if !cmd.Signature().MutatesStack {
		callSt = st.EnterScope()
	}
	c := &Call{Decl: call.Decl, Name: call.Name, Args: call.Args, Named: call.Named, Ranging: call.Ranging}
	out, err := cmd.Run(es, callSt, c, input)
	if err != nil {
		return nil, errorp(call, err)
	}
	return out, nil
}

// evalExpr evaluates an expression to a single value. A call expression is
// run with empty input and its output materialized.
func evalExpr(es *EngineState, st *Stack, e Expr) (vals.Value, error) {
	switch e := e.(type) {
	case LiteralExpr:
		return e.Val, nil
	case VarExpr:
		if v, ok := st.GetVar(e.ID); ok {
			return v, nil
		}
		return nil, errorp(e, errs.MissingData{What: "variable $" + e.Name})
	case EnvExpr:
		if v, ok := st.GetEnv(es, e.Name); ok {
			return v, nil
		}
		if e.Optional {
			return vals.Nothing{Ranging: e.Ranging}, nil
		}
		return nil, errorp(e, errs.MissingData{What: "environment variable $env." + e.Name})
	case ListExpr:
		items := make([]vals.Value, len(e.Items))
		for i, item := range e.Items {
			v, err := evalExpr(es, st, item)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return vals.List{Items: items, Ranging: e.Ranging}, nil
	case RecordExpr:
		rec := vals.Record{Ranging: e.Ranging}
		for i, key := range e.Keys {
			v, err := evalExpr(es, st, e.Values[i])
			if err != nil {
				return nil, err
			}
			rec = rec.With(key, v)
		}
		return rec, nil
	case BlockExpr:
		return makeClosure(es, st, e)
	case CallExpr:
		out, err := evalElement(es, st, e, Empty)
		if err != nil {
			return nil, err
		}
		v, err := out.IntoValue(e.Ranging)
		return v, errorp(e, err)
	case PathExpr:
		inner, err := evalExpr(es, st, e.Inner)
		if err != nil {
			return nil, err
		}
		v, err := vals.Follow(inner, e.Path)
		return v, errorp(e, err)
	case BinaryExpr:
		return evalBinary(es, st, e)
	}
	return nil, errorp(e, fmt.Errorf("unknown expression type %T", e))
}

// makeClosure snapshots the block's free variables from the current stack.
// The captures are value copies taken now; later rebinding or mutation in
// the defining scope does not affect the closure.
func makeClosure(es *EngineState, st *Stack, e BlockExpr) (vals.Value, error) {
	block := es.Block(e.Block)
	captures := make([]vals.Capture, 0, len(block.Captures))
	for _, id := range block.Captures {
		v, ok := st.GetVar(id)
		if !ok {
			return nil, errorp(e, errs.MissingData{What: fmt.Sprintf("captured variable #%d", id)})
		}
		captures = append(captures, vals.Capture{ID: id, Val: v.Clone()})
	}
	return vals.Closure{Block: e.Block, Captures: captures, Ranging: e.Ranging}, nil
}

// CallClosure invokes a closure: a fresh stack is built from the capture
// snapshot plus the caller's environment, the arguments are bound to the
// block's parameters, and the block is evaluated with the given input.
//
// A block without parameters may be called with any number of arguments,
// which are ignored; otherwise the argument count must match the parameter
// count exactly.
func CallClosure(es *EngineState, caller *Stack, c vals.Closure, args []vals.Value, input PipelineData) (PipelineData, error) {
	block := es.Block(c.Block)
	if len(block.Params) > 0 && len(args) != len(block.Params) {
		return nil, errorp(c, errs.ArityMismatch{
			What:     "arguments to closure",
			ValidLow: len(block.Params), ValidHigh: len(block.Params), Actual: len(args)})
	}
	st := caller.CapturesToStack(c.Captures)
	for i, p := range block.Params {
		st.SetVar(p.ID, args[i])
	}
	return EvalBlock(es, st, block, input)
}

func evalBinary(es *EngineState, st *Stack, e BinaryExpr) (vals.Value, error) {
	left, err := evalExpr(es, st, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := evalExpr(es, st, e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case OpEq:
		return vals.Bool{B: vals.Equal(left, right), Ranging: e.Ranging}, nil
	case OpNe:
		return vals.Bool{B: !vals.Equal(left, right), Ranging: e.Ranging}, nil
	}
	return arith(e, left, right)
}

func arith(e BinaryExpr, left, right vals.Value) (vals.Value, error) {
	r := e.Ranging
	// String concatenation.
	if ls, ok := left.(vals.String); ok && e.Op == OpAdd {
		rs, err := vals.ToString("right operand of +", right)
		if err != nil {
			return nil, errorp(e.Right, err)
		}
		return vals.String{S: ls.S + rs, Ranging: r}, nil
	}
	if isFloat(left) || isFloat(right) {
		lf, err := vals.ToFloat("left operand", left)
		if err != nil {
			return nil, errorp(e.Left, err)
		}
		rf, err := vals.ToFloat("right operand", right)
		if err != nil {
			return nil, errorp(e.Right, err)
		}
		return floatOp(e, r, lf, rf)
	}
	li, err := vals.ToInt("left operand", left)
	if err != nil {
		return nil, errorp(e.Left, err)
	}
	ri, err := vals.ToInt("right operand", right)
	if err != nil {
		return nil, errorp(e.Right, err)
	}
	return intOp(e, r, li, ri)
}

func isFloat(v vals.Value) bool {
	_, ok := v.(vals.Float)
	return ok
}

func intOp(e BinaryExpr, r diag.Ranging, a, b int64) (vals.Value, error) {
	switch e.Op {
	case OpAdd:
		return vals.Int{I: a + b, Ranging: r}, nil
	case OpSub:
		return vals.Int{I: a - b, Ranging: r}, nil
	case OpMul:
		return vals.Int{I: a * b, Ranging: r}, nil
	case OpDiv:
		if b == 0 {
			return nil, errorp(e, errs.OutOfRange{
				What: "divisor", ValidLow: "nonzero", ValidHigh: "nonzero", Actual: "0"})
		}
		return vals.Int{I: a / b, Ranging: r}, nil
	case OpLt:
		return vals.Bool{B: a < b, Ranging: r}, nil
	case OpLe:
		return vals.Bool{B: a <= b, Ranging: r}, nil
	case OpGt:
		return vals.Bool{B: a > b, Ranging: r}, nil
	case OpGe:
		return vals.Bool{B: a >= b, Ranging: r}, nil
	}
	return nil, errorp(e, fmt.Errorf("unknown operator %d", e.Op))
}

func floatOp(e BinaryExpr, r diag.Ranging, a, b float64) (vals.Value, error) {
	switch e.Op {
	case OpAdd:
		return vals.Float{F: a + b, Ranging: r}, nil
	case OpSub:
		return vals.Float{F: a - b, Ranging: r}, nil
	case OpMul:
		return vals.Float{F: a * b, Ranging: r}, nil
	case OpDiv:
		return vals.Float{F: a / b, Ranging: r}, nil
	case OpLt:
		return vals.Bool{B: a < b, Ranging: r}, nil
	case OpLe:
		return vals.Bool{B: a <= b, Ranging: r}, nil
	case OpGt:
		return vals.Bool{B: a > b, Ranging: r}, nil
	case OpGe:
		return vals.Bool{B: a >= b, Ranging: r}, nil
	}
	return nil, errorp(e, fmt.Errorf("unknown operator %d", e.Op))
}
