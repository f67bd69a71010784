package eval

import (
	"testing"

	"github.com/strand-sh/strand/pkg/eval/vals"
)

func TestStack_ScopeIsolation(t *testing.T) {
	parent := NewStack()
	parent.SetVar(0, vals.Int{I: 1})
	parent.SetEnv("HOME", vals.String{S: "/outer"})

	child := parent.EnterScope()
	if v, ok := child.GetVar(0); !ok || !vals.Equal(v, vals.Int{I: 1}) {
		t.Errorf("child does not see parent variable")
	}
	child.SetVar(0, vals.Int{I: 2})
	child.SetVar(1, vals.Int{I: 3})
	child.SetEnv("HOME", vals.String{S: "/inner"})

	if v, _ := parent.GetVar(0); !vals.Equal(v, vals.Int{I: 1}) {
		t.Errorf("child write leaked into parent variable")
	}
	if _, ok := parent.GetVar(1); ok {
		t.Errorf("child-only variable visible in parent")
	}
	es := NewEngineState()
	if v, _ := parent.GetEnv(es, "HOME"); !vals.Equal(v, vals.String{S: "/outer"}) {
		t.Errorf("child env write leaked into parent")
	}
	if v, _ := child.GetEnv(es, "HOME"); !vals.Equal(v, vals.String{S: "/inner"}) {
		t.Errorf("child does not see its own env write")
	}
}

func TestStack_CapturesToStack(t *testing.T) {
	caller := NewStack()
	caller.SetVar(0, vals.Int{I: 10})
	caller.SetVar(1, vals.Int{I: 20})
	caller.SetEnv("PATH", vals.String{S: "/bin"})

	st := caller.CapturesToStack([]vals.Capture{{ID: 1, Val: vals.Int{I: 99}}})

	// Only the capture is inherited, never the caller's locals.
	if _, ok := st.GetVar(0); ok {
		t.Errorf("caller local visible through closure stack")
	}
	if v, ok := st.GetVar(1); !ok || !vals.Equal(v, vals.Int{I: 99}) {
		t.Errorf("capture not bound: got %v", v)
	}
	// The environment is dynamic and flows through.
	es := NewEngineState()
	if v, _ := st.GetEnv(es, "PATH"); !vals.Equal(v, vals.String{S: "/bin"}) {
		t.Errorf("caller env not visible through closure stack")
	}
}

func TestStack_HideEnv(t *testing.T) {
	es := NewEngineState()
	d := es.NewDelta()
	d.SetEnv(DefaultOverlay, "SECRET", vals.String{S: "hunter2"})
	es.Merge(d)

	outer := NewStack()
	outer.SetEnv("LOCAL", vals.String{S: "x"})

	inner := outer.EnterScope()
	inner.HideEnv("SECRET")
	inner.HideEnv("LOCAL")

	if _, ok := inner.GetEnv(es, "SECRET"); ok {
		t.Errorf("hidden overlay env still visible")
	}
	if _, ok := inner.GetEnv(es, "LOCAL"); ok {
		t.Errorf("hidden scope env still visible")
	}
	// Hiding in the fork leaves the outer scope untouched.
	if _, ok := outer.GetEnv(es, "SECRET"); !ok {
		t.Errorf("hide leaked into outer scope for overlay env")
	}
	if _, ok := outer.GetEnv(es, "LOCAL"); !ok {
		t.Errorf("hide leaked into outer scope for scope env")
	}
}

func TestStack_OverlayPrecedence(t *testing.T) {
	es := NewEngineState()
	d := es.NewDelta()
	d.SetEnv(DefaultOverlay, "X", vals.String{S: "base"})
	d.SetEnv("extra", "X", vals.String{S: "extra"})
	es.Merge(d)

	st := NewStack()
	if v, _ := st.GetEnv(es, "X"); !vals.Equal(v, vals.String{S: "base"}) {
		t.Errorf("inactive overlay consulted")
	}
	st.ActivateOverlay("extra")
	if v, _ := st.GetEnv(es, "X"); !vals.Equal(v, vals.String{S: "extra"}) {
		t.Errorf("most recently activated overlay does not win")
	}
}
