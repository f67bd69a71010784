package eval_test

import (
	"testing"

	"github.com/strand-sh/strand/pkg/eval"
	"github.com/strand-sh/strand/pkg/eval/errs"
	. "github.com/strand-sh/strand/pkg/eval/evaltest"
)

func TestParEach_PreservesInputOrder(t *testing.T) {
	f := NewFixture(t)
	double := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpMul, f.Var("x"), Int(2))))
	want := make([]int64, 32)
	for i := range want {
		want[i] = int64(2 * (i + 1))
	}
	// Whatever order the workers finish in, the output order is the input
	// order. Run a few times to shake out scheduling luck.
	for i := 0; i < 5; i++ {
		f.That(Pipe(
			f.Cmd("seq", Int(1), Int(32)),
			Flag(f.Cmd("par-each", double), "threads", Int(4)),
		)).Puts(Ints(want...))
	}
}

func TestParEach_DefaultThreads(t *testing.T) {
	f := NewFixture(t)
	double := f.Closure([]string{"x"}, nil, Pipe(Bin(eval.OpMul, f.Var("x"), Int(2))))
	f.That(Pipe(f.Cmd("seq", Int(1), Int(3)), f.Cmd("par-each", double))).Puts(Ints(2, 4, 6))
	f.That(Pipe(ListOf(), f.Cmd("par-each", double))).Puts(Ints())
}

func TestParEach_BodyError(t *testing.T) {
	f := NewFixture(t)
	boomOnThree := f.Closure([]string{"x"}, nil,
		Pipe(f.Cmd("if",
			Bin(eval.OpEq, f.Var("x"), Int(3)),
			f.Closure(nil, nil, Pipe(Bin(eval.OpDiv, Int(1), Int(0)))),
			f.Closure(nil, []string{"x"}, Pipe(f.Var("x"))))))
	f.That(Pipe(
		f.Cmd("seq", Int(1), Int(8)),
		Flag(f.Cmd("par-each", boomOnThree), "threads", Int(2)),
	)).ThrowsAs(&errs.OutOfRange{})
}
