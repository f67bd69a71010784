package eval_test

import (
	"testing"

	"github.com/strand-sh/strand/pkg/eval"
	"github.com/strand-sh/strand/pkg/eval/errs"
	. "github.com/strand-sh/strand/pkg/eval/evaltest"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

func envRec(pairs ...string) eval.Expr {
	e := eval.RecordExpr{}
	for i := 0; i < len(pairs); i += 2 {
		e.Keys = append(e.Keys, pairs[i])
		e.Values = append(e.Values, Str(pairs[i+1]))
	}
	return e
}

func TestWithEnv(t *testing.T) {
	f := NewFixture(t)
	f.St.SetEnv("X", vals.String{S: "outer"})

	read := f.Closure(nil, nil, Pipe(Env("X")))
	f.That(Pipe(f.Cmd("with-env", envRec("X", "inner"), read))).
		Puts(vals.String{S: "inner"})
	// The override is gone once the block returns.
	f.That(Pipe(Env("X"))).Puts(vals.String{S: "outer"})

	// Overrides also come as a flat name-value list.
	f.That(Pipe(f.Cmd("with-env", ListOf(Str("X"), Str("listed")), read))).
		Puts(vals.String{S: "listed"})
	f.That(Pipe(f.Cmd("with-env", ListOf(Str("X")), read))).
		ThrowsAs(&errs.ArityMismatch{})
	f.That(Pipe(f.Cmd("with-env", Int(3), read))).ThrowsAs(&errs.TypeMismatch{})
}

func TestWithEnv_RestoresOnError(t *testing.T) {
	f := NewFixture(t)
	f.St.SetEnv("X", vals.String{S: "outer"})

	boom := f.Closure(nil, nil, Pipe(f.Cmd("error make", Str("boom"))))
	f.That(Pipe(f.Cmd("with-env", envRec("X", "inner"), boom))).
		ThrowsAs(&errs.ControlError{})
	// The failing block must not leave its override behind.
	f.That(Pipe(Env("X"))).Puts(vals.String{S: "outer"})
}

func TestLoadEnv(t *testing.T) {
	f := NewFixture(t)
	f.That(Pipe(f.Cmd("load-env", envRec("A", "1", "B", "2")))).Puts(vals.Nothing{})
	// load-env mutates the caller's scope, so the variables persist.
	f.That(Pipe(Env("A"))).Puts(vals.String{S: "1"})
	f.That(Pipe(Env("B"))).Puts(vals.String{S: "2"})
}

func TestLoadEnv_InsideClosureDoesNotLeak(t *testing.T) {
	f := NewFixture(t)
	setter := f.Closure(nil, nil, Pipe(f.Cmd("load-env", envRec("TMP", "x"))))
	f.That(Pipe(f.Cmd("do", setter))).Puts(vals.Nothing{})
	// The closure ran on its own stack; the caller never sees TMP.
	f.That(Pipe(EnvOpt("TMP"))).Puts(vals.Nothing{})
}

func TestHideEnv(t *testing.T) {
	f := NewFixture(t)
	d := f.ES.NewDelta()
	d.SetEnv(eval.DefaultOverlay, "SECRET", vals.String{S: "hunter2"})
	f.ES.Merge(d)

	f.That(Pipe(Env("SECRET"))).Puts(vals.String{S: "hunter2"})
	f.That(Pipe(f.Cmd("hide-env", Str("SECRET")))).Puts(vals.Nothing{})
	f.That(Pipe(Env("SECRET"))).ThrowsAs(&errs.MissingData{})
	f.That(Pipe(EnvOpt("SECRET"))).Puts(vals.Nothing{})
}
