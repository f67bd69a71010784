// Package evaltest provides a framework for testing the evaluator.
//
// The evaluator consumes compiled blocks, so tests build small programs with
// the expression and block helpers here and run them through a Fixture,
// asserting on the materialized output or the failure:
//
//	f := evaltest.NewFixture(t)
//	f.That(evaltest.Pipe(
//		f.Cmd("seq", evaltest.Int(1), evaltest.Int(3)),
//	)).Puts(evaltest.Ints(1, 2, 3))
package evaltest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/strand-sh/strand/pkg/eval"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// Fixture is one engine instance with the builtin commands registered, plus
// a top-level stack for the program under test.
type Fixture struct {
	t  *testing.T
	ES *eval.EngineState
	St *eval.Stack

	vars    map[string]vals.VarID
	nextVar vals.VarID
}

// NewFixture creates a fresh engine with the builtins registered.
func NewFixture(t *testing.T) *Fixture {
	es := eval.NewEngineState()
	eval.RegisterBuiltins(es)
	return &Fixture{t: t, ES: es, St: eval.NewStack(), vars: make(map[string]vals.VarID)}
}

// VarID returns a stable variable ID for the name, allocating on first use.
func (f *Fixture) VarID(name string) vals.VarID {
	if id, ok := f.vars[name]; ok {
		return id
	}
	id := f.nextVar
	f.nextVar++
	f.vars[name] = id
	return id
}

// Set binds a variable on the top-level stack.
func (f *Fixture) Set(name string, v vals.Value) {
	f.St.SetVar(f.VarID(name), v)
}

// Var reads a variable.
func (f *Fixture) Var(name string) eval.Expr {
	return eval.VarExpr{ID: f.VarID(name), Name: name}
}

// Cmd builds a call to a registered command. Unknown names fail the test.
func (f *Fixture) Cmd(name string, args ...eval.Expr) eval.CallExpr {
	id, ok := f.ES.FindDecl(name, f.St.ActiveOverlays())
	if !ok {
		f.t.Fatalf("no command %q", name)
	}
	return eval.CallExpr{Decl: id, Name: name, Args: args}
}

// Flag adds a valued flag to a call.
func Flag(call eval.CallExpr, name string, value eval.Expr) eval.CallExpr {
	call.Named = append(call.Named, eval.NamedArg{Name: name, Value: value})
	return call
}

// Switch adds a boolean switch to a call.
func Switch(call eval.CallExpr, name string) eval.CallExpr {
	call.Named = append(call.Named, eval.NamedArg{Name: name})
	return call
}

// Block compiles a block with the given parameter and capture names and
// merges it into the engine.
func (f *Fixture) Block(params, captures []string, pipelines ...*eval.Pipeline) vals.BlockID {
	b := &eval.Block{Pipelines: pipelines}
	for _, p := range params {
		b.Params = append(b.Params, eval.Param{Name: p, ID: f.VarID(p)})
	}
	for _, c := range captures {
		b.Captures = append(b.Captures, f.VarID(c))
	}
	d := f.ES.NewDelta()
	id := d.AddBlock(b)
	f.ES.Merge(d)
	return id
}

// Closure builds a closure-producing expression over a new block.
func (f *Fixture) Closure(params, captures []string, pipelines ...*eval.Pipeline) eval.Expr {
	return eval.BlockExpr{Block: f.Block(params, captures, pipelines...)}
}

// Eval wraps the pipelines in a block and runs it on the fixture's stack,
// materializing the output.
func (f *Fixture) Eval(pipelines ...*eval.Pipeline) (vals.Value, error) {
	return f.EvalWith(eval.Empty, pipelines...)
}

// EvalWith is Eval with explicit input for the first statement.
func (f *Fixture) EvalWith(input eval.PipelineData, pipelines ...*eval.Pipeline) (vals.Value, error) {
	b := &eval.Block{Pipelines: pipelines}
	d := f.ES.NewDelta()
	d.AddBlock(b)
	f.ES.Merge(d)
	out, err := eval.EvalBlock(f.ES, f.St, b, input)
	if err != nil {
		return nil, err
	}
	return out.IntoValue(b.Ranging)
}

// Pipe builds one statement from its elements.
func Pipe(elems ...eval.Expr) *eval.Pipeline {
	return &eval.Pipeline{Elements: elems}
}

// Expression shorthands.

func Int(i int64) eval.Expr      { return eval.LiteralExpr{Val: vals.Int{I: i}} }
func Float(x float64) eval.Expr  { return eval.LiteralExpr{Val: vals.Float{F: x}} }
func Str(s string) eval.Expr     { return eval.LiteralExpr{Val: vals.String{S: s}} }
func Bool(b bool) eval.Expr      { return eval.LiteralExpr{Val: vals.Bool{B: b}} }
func NothingLit() eval.Expr      { return eval.LiteralExpr{Val: vals.Nothing{}} }
func Lit(v vals.Value) eval.Expr { return eval.LiteralExpr{Val: v} }

// ListOf builds a list expression.
func ListOf(items ...eval.Expr) eval.Expr { return eval.ListExpr{Items: items} }

// Bin builds a binary operator expression.
func Bin(op eval.BinaryOp, left, right eval.Expr) eval.Expr {
	return eval.BinaryExpr{Op: op, Left: left, Right: right}
}

// Env reads an environment variable, failing if absent.
func Env(name string) eval.Expr { return eval.EnvExpr{Name: name} }

// EnvOpt reads an environment variable, yielding nothing if absent.
func EnvOpt(name string) eval.Expr { return eval.EnvExpr{Name: name, Optional: true} }

// Ints builds a list value of integers, the most common expected output.
func Ints(is ...int64) vals.Value {
	items := make([]vals.Value, len(is))
	for i, n := range is {
		items[i] = vals.Int{I: n}
	}
	return vals.List{Items: items}
}

// Strs builds a list value of strings.
func Strs(ss ...string) vals.Value {
	items := make([]vals.Value, len(ss))
	for i, s := range ss {
		items[i] = vals.String{S: s}
	}
	return vals.List{Items: items}
}

// Result is the outcome of running a program under test.
type Result struct {
	t   *testing.T
	got vals.Value
	err error
}

// That runs the pipelines and returns the outcome for assertion.
func (f *Fixture) That(pipelines ...*eval.Pipeline) *Result {
	f.t.Helper()
	got, err := f.Eval(pipelines...)
	return &Result{t: f.t, got: got, err: err}
}

// ThatWith is That with explicit input for the first statement.
func (f *Fixture) ThatWith(input eval.PipelineData, pipelines ...*eval.Pipeline) *Result {
	f.t.Helper()
	got, err := f.EvalWith(input, pipelines...)
	return &Result{t: f.t, got: got, err: err}
}

// Puts asserts that the program succeeded with the given output. Values are
// compared structurally, ignoring source ranges.
func (r *Result) Puts(want vals.Value) {
	r.t.Helper()
	if r.err != nil {
		r.t.Errorf("got error %v, want value %s", r.err, vals.Repr(want))
		return
	}
	if !vals.Equal(r.got, want) {
		r.t.Errorf("output mismatch (-want +got):\n%s",
			cmp.Diff(vals.Repr(want), vals.Repr(r.got)))
	}
}

// Throws asserts that the program failed with an error matching want per
// errors.Is.
func (r *Result) Throws(want error) {
	r.t.Helper()
	if r.err == nil {
		r.t.Errorf("got value %s, want error %v", vals.Repr(r.got), want)
		return
	}
	if !errors.Is(r.err, want) {
		r.t.Errorf("got error %v, want %v", r.err, want)
	}
}

// ThrowsAs asserts failure with an error assignable to target, which must be
// a non-nil pointer as for errors.As.
func (r *Result) ThrowsAs(target any) {
	r.t.Helper()
	if r.err == nil {
		r.t.Errorf("got value %s, want error as %T", vals.Repr(r.got), target)
		return
	}
	if !errors.As(r.err, target) {
		r.t.Errorf("got error %v (%T), want error as %T", r.err, r.err, target)
	}
}

// ThrowsAny asserts failure and returns the error for further checks.
func (r *Result) ThrowsAny() error {
	r.t.Helper()
	if r.err == nil {
		r.t.Errorf("got value %s, want an error", vals.Repr(r.got))
	}
	return r.err
}
