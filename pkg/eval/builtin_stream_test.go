package eval_test

import (
	"testing"

	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval"
	"github.com/strand-sh/strand/pkg/eval/errs"
	. "github.com/strand-sh/strand/pkg/eval/evaltest"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

func TestSeq(t *testing.T) {
	f := NewFixture(t)
	f.That(Pipe(f.Cmd("seq", Int(1), Int(5)))).Puts(Ints(1, 2, 3, 4, 5))
	f.That(Pipe(Flag(f.Cmd("seq", Int(1), Int(7)), "step", Int(3)))).Puts(Ints(1, 4, 7))
	f.That(Pipe(f.Cmd("seq", Int(3), Int(3)))).Puts(Ints(3))
	f.That(Pipe(f.Cmd("seq", Int(3), Int(1)))).Puts(Ints())
}

func TestLaziness_UnboundedSourceBoundedSink(t *testing.T) {
	f := NewFixture(t)
	double := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpMul, f.Var("x"), Int(2))))
	// seq without an end is infinite; the pipeline only terminates if each
	// element flows through on demand and first stops pulling after five.
	f.That(Pipe(
		f.Cmd("seq", Int(1)),
		f.Cmd("each", double),
		f.Cmd("first", Int(5)),
	)).Puts(Ints(2, 4, 6, 8, 10))
}

func TestTakeAndSkip(t *testing.T) {
	f := NewFixture(t)
	f.That(Pipe(ListOf(Int(1), Int(2), Int(3)), f.Cmd("take", Int(2)))).Puts(Ints(1, 2))
	f.That(Pipe(ListOf(Int(1), Int(2)), f.Cmd("take", Int(5)))).Puts(Ints(1, 2))
	f.That(Pipe(ListOf(Int(1), Int(2)), f.Cmd("take", Int(0)))).Puts(Ints())
	f.That(Pipe(f.Cmd("seq", Int(1), Int(5)), f.Cmd("skip", Int(2)))).Puts(Ints(3, 4, 5))
	f.That(Pipe(ListOf(Int(1)), f.Cmd("skip", Int(5)))).Puts(Ints())
}

func TestCollectAndLength(t *testing.T) {
	f := NewFixture(t)
	f.That(Pipe(f.Cmd("seq", Int(1), Int(3)), f.Cmd("collect"))).Puts(Ints(1, 2, 3))
	f.That(Pipe(f.Cmd("seq", Int(1), Int(4)), f.Cmd("length"))).Puts(vals.Int{I: 4})
	f.That(Pipe(ListOf(), f.Cmd("length"))).Puts(vals.Int{I: 0})
	// A scalar counts as one element.
	f.That(Pipe(Str("solo"), f.Cmd("length"))).Puts(vals.Int{I: 1})

	boom := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpDiv, Int(1), Int(0))))
	f.That(Pipe(ListOf(Int(1)), f.Cmd("each", boom), f.Cmd("length"))).
		ThrowsAs(&errs.OutOfRange{})
}

func TestPut(t *testing.T) {
	f := NewFixture(t)
	f.That(Pipe(f.Cmd("put", Int(7)))).Puts(vals.Int{I: 7})
	f.That(Pipe(f.Cmd("put", Int(1), Int(2), Int(3)))).Puts(Ints(1, 2, 3))
}

func TestGet(t *testing.T) {
	f := NewFixture(t)
	rec := eval.RecordExpr{
		Keys:   []string{"name", "size"},
		Values: []eval.Expr{Str("a.txt"), Int(42)},
	}
	f.That(Pipe(rec, f.Cmd("get", Str("size")))).Puts(vals.Int{I: 42})
	f.That(Pipe(rec, f.Cmd("get", Str("absent")))).ThrowsAs(&errs.MissingData{})
	f.That(Pipe(rec, Switch(f.Cmd("get", Str("absent")), "ignore-errors"))).
		Puts(vals.Nothing{})

	// A key member on a list of records maps over the rows.
	rows := ListOf(rec, eval.RecordExpr{
		Keys:   []string{"name", "size"},
		Values: []eval.Expr{Str("b.txt"), Int(7)},
	})
	f.That(Pipe(rows, f.Cmd("get", Str("size")))).Puts(Ints(42, 7))
	// An index member picks a row.
	f.That(Pipe(rows, f.Cmd("get", Int(1), Str("name")))).Puts(vals.String{S: "b.txt"})
}

func TestReject(t *testing.T) {
	f := NewFixture(t)
	rec := eval.RecordExpr{
		Keys:   []string{"name", "size"},
		Values: []eval.Expr{Str("a.txt"), Int(42)},
	}
	f.That(Pipe(rec, f.Cmd("reject", Str("size")))).
		Puts(vals.MakeRecord(diag.Unknown, "name", vals.String{S: "a.txt"}))
	f.That(Pipe(rec, f.Cmd("reject", Str("absent")))).ThrowsAs(&errs.MissingData{})
	f.That(Pipe(rec, Switch(f.Cmd("reject", Str("absent")), "ignore-errors"))).
		Puts(vals.MakeRecord(diag.Unknown,
			"name", vals.String{S: "a.txt"}, "size", vals.Int{I: 42}))
}

func TestInterrupt_EndsPipelineSilently(t *testing.T) {
	f := NewFixture(t)
	f.ES.Interrupt().Set()
	// Interruption ends iteration without an error; the pipeline yields what
	// was produced so far, here nothing.
	f.That(Pipe(f.Cmd("seq", Int(1), Int(100)), f.Cmd("collect"))).Puts(Ints())
	f.ES.Interrupt().Reset()
	f.That(Pipe(f.Cmd("seq", Int(1), Int(3)))).Puts(Ints(1, 2, 3))
}
