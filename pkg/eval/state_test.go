package eval

import (
	"testing"

	"github.com/strand-sh/strand/pkg/eval/vals"
)

type fakeCmd struct{ name string }

func (c fakeCmd) Name() string          { return c.name }
func (c fakeCmd) Signature() *Signature { return &Signature{Name: c.name} }
func (c fakeCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	return Empty, nil
}

func TestStateDelta_InvisibleUntilMerge(t *testing.T) {
	es := NewEngineState()
	d := es.NewDelta()
	d.AddDecl(DefaultOverlay, fakeCmd{"hello"})
	blockID := d.AddBlock(&Block{})

	if _, ok := es.FindDecl("hello", []string{DefaultOverlay}); ok {
		t.Errorf("unmerged decl visible")
	}
	es.Merge(d)
	id, ok := es.FindDecl("hello", []string{DefaultOverlay})
	if !ok {
		t.Fatal("merged decl not found")
	}
	if got := es.Command(id).Name(); got != "hello" {
		t.Errorf("Command(%v).Name() = %q", id, got)
	}
	if es.Block(blockID) == nil {
		t.Errorf("merged block not found")
	}
}

func TestStateDelta_IDsStableAcrossDeltas(t *testing.T) {
	es := NewEngineState()
	d1 := es.NewDelta()
	id1 := d1.AddDecl(DefaultOverlay, fakeCmd{"one"})
	es.Merge(d1)

	d2 := es.NewDelta()
	id2 := d2.AddDecl(DefaultOverlay, fakeCmd{"two"})
	es.Merge(d2)

	if id1 == id2 {
		t.Fatalf("both decls got ID %v", id1)
	}
	if es.Command(id1).Name() != "one" || es.Command(id2).Name() != "two" {
		t.Errorf("decl IDs shifted across merges")
	}
}

func TestFindDecl_OverlayShadowing(t *testing.T) {
	es := NewEngineState()
	d := es.NewDelta()
	baseID := d.AddDecl(DefaultOverlay, fakeCmd{"ls"})
	customID := d.AddDecl("custom", fakeCmd{"ls"})
	es.Merge(d)

	if id, _ := es.FindDecl("ls", []string{DefaultOverlay}); id != baseID {
		t.Errorf("base-only lookup got %v, want %v", id, baseID)
	}
	// The most recently activated overlay shadows earlier ones.
	if id, _ := es.FindDecl("ls", []string{DefaultOverlay, "custom"}); id != customID {
		t.Errorf("shadowed lookup got %v, want %v", id, customID)
	}
	if _, ok := es.FindDecl("missing", []string{DefaultOverlay, "custom"}); ok {
		t.Errorf("found a declaration that was never added")
	}
}

func TestStateDelta_OverlayEnv(t *testing.T) {
	es := NewEngineState()
	d := es.NewDelta()
	d.SetEnv("tools", "ROOT", vals.String{S: "/opt"})
	es.Merge(d)

	ov := es.Overlay("tools")
	if ov == nil {
		t.Fatal("overlay not created on merge")
	}
	if !vals.Equal(ov.Env["ROOT"], vals.String{S: "/opt"}) {
		t.Errorf("overlay env = %v", ov.Env)
	}
}

func TestStateDelta_Files(t *testing.T) {
	es := NewEngineState()
	d := es.NewDelta()
	d.AddFile(&SourceFile{Name: "std/list", Code: "..."})
	es.Merge(d)
	if es.File("std/list") == nil {
		t.Errorf("merged file not found")
	}
	if es.File("std/absent") != nil {
		t.Errorf("found a file that was never added")
	}
}
