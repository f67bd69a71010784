package eval_test

import (
	"strings"
	"testing"

	"github.com/strand-sh/strand/pkg/eval"
	"github.com/strand-sh/strand/pkg/eval/errs"
	. "github.com/strand-sh/strand/pkg/eval/evaltest"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

func TestIf(t *testing.T) {
	f := NewFixture(t)
	then := f.Closure(nil, nil, Pipe(Str("then")))
	alt := f.Closure(nil, nil, Pipe(Str("else")))

	f.That(Pipe(f.Cmd("if", Bool(true), then, alt))).Puts(vals.String{S: "then"})
	f.That(Pipe(f.Cmd("if", Bool(false), then, alt))).Puts(vals.String{S: "else"})
	f.That(Pipe(f.Cmd("if", Bool(false), then))).Puts(vals.Nothing{})
	// Non-boolean conditions: nothing is falsy, everything else truthy.
	f.That(Pipe(f.Cmd("if", NothingLit(), then, alt))).Puts(vals.String{S: "else"})
	f.That(Pipe(f.Cmd("if", Int(0), then, alt))).Puts(vals.String{S: "then"})
}

func TestIf_PassesInputThrough(t *testing.T) {
	f := NewFixture(t)
	double := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpMul, f.Var("x"), Int(2))))
	then := f.Closure(nil, nil, Pipe(f.Cmd("each", double)))
	f.That(Pipe(ListOf(Int(1), Int(2)), f.Cmd("if", Bool(true), then))).Puts(Ints(2, 4))
}

func TestEach(t *testing.T) {
	f := NewFixture(t)
	double := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpMul, f.Var("x"), Int(2))))
	f.That(Pipe(ListOf(Int(1), Int(2), Int(3)), f.Cmd("each", double))).Puts(Ints(2, 4, 6))
	// Empty input maps to an empty list.
	f.That(Pipe(ListOf(), f.Cmd("each", double))).Puts(Ints())
}

func TestEach_BodyErrorSurfacesOnMaterialize(t *testing.T) {
	f := NewFixture(t)
	boom := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpDiv, Int(1), Int(0))))
	f.That(Pipe(ListOf(Int(1)), f.Cmd("each", boom))).ThrowsAs(&errs.OutOfRange{})
}

func TestWhere(t *testing.T) {
	f := NewFixture(t)
	big := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpGt, f.Var("x"), Int(2))))
	f.That(Pipe(ListOf(Int(1), Int(2), Int(3), Int(4)), f.Cmd("where", big))).Puts(Ints(3, 4))
}

func TestFor(t *testing.T) {
	f := NewFixture(t)
	body := f.Closure([]string{"x"}, nil, Pipe(f.Var("x")))
	// The body output is discarded; for produces no data.
	f.That(Pipe(f.Cmd("for", ListOf(Int(1), Int(2)), body))).Puts(vals.Nothing{})

	boom := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpDiv, f.Var("x"), Int(0))))
	f.That(Pipe(f.Cmd("for", ListOf(Int(1)), boom))).ThrowsAs(&errs.OutOfRange{})
}

func TestSkipWhile(t *testing.T) {
	f := NewFixture(t)
	small := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpLt, f.Var("x"), Int(3))))
	// Once the predicate fails it is never consulted again: the trailing 1
	// and 2 pass through.
	f.That(Pipe(
		ListOf(Int(1), Int(2), Int(3), Int(1), Int(2)),
		f.Cmd("skip-while", small),
	)).Puts(Ints(3, 1, 2))
	f.That(Pipe(ListOf(Int(1), Int(2)), f.Cmd("skip-while", small))).Puts(Ints())
}

func TestTakeUntil(t *testing.T) {
	f := NewFixture(t)
	big := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpGt, f.Var("x"), Int(2))))
	// The element that triggers the predicate is excluded.
	f.That(Pipe(
		ListOf(Int(1), Int(2), Int(3), Int(1)),
		f.Cmd("take-until", big),
	)).Puts(Ints(1, 2))
	f.That(Pipe(ListOf(Int(1), Int(2)), f.Cmd("take-until", big))).Puts(Ints(1, 2))
}

func TestReduce(t *testing.T) {
	f := NewFixture(t)
	sum := f.Closure([]string{"acc", "elem"}, nil,
		Pipe(Bin(eval.OpAdd, f.Var("acc"), f.Var("elem"))))

	// Without --fold the first element seeds the accumulator.
	f.That(Pipe(ListOf(Int(1), Int(2), Int(3)), f.Cmd("reduce", sum))).Puts(vals.Int{I: 6})
	// With --fold the given value seeds it.
	f.That(Pipe(
		ListOf(Int(1), Int(2), Int(3)),
		Flag(f.Cmd("reduce", sum), "fold", Int(10)),
	)).Puts(vals.Int{I: 16})
	// Empty input without a seed produces nothing.
	f.That(Pipe(ListOf(), f.Cmd("reduce", sum))).Puts(vals.Nothing{})
	// A singleton without a seed is returned as-is, body never called.
	boom := f.Closure([]string{"acc", "elem"}, nil, Pipe(Bin(eval.OpDiv, Int(1), Int(0))))
	f.That(Pipe(ListOf(Int(7)), f.Cmd("reduce", boom))).Puts(vals.Int{I: 7})
}

func TestFold(t *testing.T) {
	f := NewFixture(t)
	sum := f.Closure([]string{"acc", "elem"}, nil,
		Pipe(Bin(eval.OpAdd, f.Var("acc"), f.Var("elem"))))
	f.That(Pipe(ListOf(Int(1), Int(2), Int(3)), f.Cmd("fold", Int(10), sum))).Puts(vals.Int{I: 16})
	// Empty input returns the seed untouched.
	f.That(Pipe(ListOf(), f.Cmd("fold", Int(5), sum))).Puts(vals.Int{I: 5})
	// The accumulator can change type between steps.
	stringify := f.Closure([]string{"acc", "elem"}, nil,
		Pipe(Bin(eval.OpAdd, f.Var("acc"), Str("."))))
	f.That(Pipe(ListOf(Int(1), Int(2)), f.Cmd("fold", Str("x"), stringify))).
		Puts(vals.String{S: "x.."})
}

func TestFold_StepError(t *testing.T) {
	f := NewFixture(t)
	boom := f.Closure([]string{"acc", "elem"}, nil, Pipe(Bin(eval.OpDiv, f.Var("acc"), Int(0))))
	f.That(Pipe(ListOf(Int(1), Int(2)), f.Cmd("fold", Int(10), boom))).
		ThrowsAs(&errs.OutOfRange{})
}

func TestDo(t *testing.T) {
	f := NewFixture(t)
	inc := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpAdd, f.Var("x"), Int(1))))
	f.That(Pipe(f.Cmd("do", inc, Int(4)))).Puts(vals.Int{I: 5})

	// Input flows through to the closure body.
	double := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpMul, f.Var("x"), Int(2))))
	mapper := f.Closure(nil, nil, Pipe(f.Cmd("each", double)))
	f.That(Pipe(ListOf(Int(1), Int(2)), f.Cmd("do", mapper))).Puts(Ints(2, 4))
}

func TestErrorMake(t *testing.T) {
	f := NewFixture(t)
	spec := eval.RecordExpr{
		Keys:   []string{"msg", "label"},
		Values: []eval.Expr{Str("it broke"), Str("here")},
	}
	err := f.That(Pipe(f.Cmd("error make", spec))).ThrowsAny()
	if err == nil {
		return
	}
	if !strings.Contains(err.Error(), "it broke") {
		t.Errorf("error %q does not carry the message", err)
	}
	f.That(Pipe(f.Cmd("error make", Str("plain")))).ThrowsAs(&errs.ControlError{})
}
