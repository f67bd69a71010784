package eval

import (
	"io"
	"os"

	"github.com/strand-sh/strand/pkg/eval/vals"
)

// Stack is the mutable execution context of one call: variable bindings,
// environment-variable scopes, the active overlay list and output
// redirection targets. Entering a scope forks the stack in O(1); reads fall
// through to the parent while writes land in the child, so a child's writes
// are invisible to the parent once the child is discarded.
//
// A Stack is never shared between concurrently running branches; parallel
// iteration gives every worker its own fork.
type Stack struct {
	parent *Stack
	vars   map[vals.VarID]vals.Value

	// Environment scopes, innermost last. Only the innermost scope is
	// written; outer scopes are shared with the parent stack.
	env []map[string]vals.Value
	// Per-overlay names hidden from the engine-level environment.
	envHidden map[string]map[string]bool

	activeOverlays []string

	// Redirection targets for byte output not travelling through the
	// pipeline (external stderr, diagnostics).
	OutFile io.Writer
	ErrFile io.Writer
}

// NewStack creates a top-level Stack with the default overlay active.
func NewStack() *Stack {
	return &Stack{
		vars:           make(map[vals.VarID]vals.Value),
		env:            []map[string]vals.Value{make(map[string]vals.Value)},
		envHidden:      make(map[string]map[string]bool),
		activeOverlays: []string{DefaultOverlay},
		OutFile:        os.Stdout,
		ErrFile:        os.Stderr,
	}
}

// EnterScope forks the stack for a nested scope. The child shares the
// parent's frames structurally; its own writes go to fresh top frames.
func (st *Stack) EnterScope() *Stack {
	env := make([]map[string]vals.Value, len(st.env), len(st.env)+1)
	copy(env, st.env)
	return &Stack{
		parent:         st,
		vars:           make(map[vals.VarID]vals.Value),
		env:            append(env, make(map[string]vals.Value)),
		envHidden:      st.envHidden,
		activeOverlays: st.activeOverlays,
		OutFile:        st.OutFile,
		ErrFile:        st.ErrFile,
	}
}

// CapturesToStack builds the fresh stack a closure runs against: the only
// inherited state is the capture snapshot plus the caller's environment
// (dynamic scope), never the caller's local variable frames.
func (st *Stack) CapturesToStack(captures []vals.Capture) *Stack {
	vars := make(map[vals.VarID]vals.Value, len(captures))
	for _, c := range captures {
		vars[c.ID] = c.Val
	}
	env := make([]map[string]vals.Value, len(st.env), len(st.env)+1)
	copy(env, st.env)
	return &Stack{
		vars:           vars,
		env:            append(env, make(map[string]vals.Value)),
		envHidden:      st.envHidden,
		activeOverlays: st.activeOverlays,
		OutFile:        st.OutFile,
		ErrFile:        st.ErrFile,
	}
}

// GetVar looks up a variable, reading through to parent frames.
func (st *Stack) GetVar(id vals.VarID) (vals.Value, bool) {
	for s := st; s != nil; s = s.parent {
		if v, ok := s.vars[id]; ok {
			return v, true
		}
	}
	return nil, false
}

// SetVar binds a variable in the current frame, shadowing any binding in
// parent frames.
func (st *Stack) SetVar(id vals.VarID, v vals.Value) {
	st.vars[id] = v
}

// envTombstone marks a name deleted in a scope, masking outer scopes.
type envTombstone struct{ vals.Nothing }

// GetEnv looks up an environment variable: stack scopes innermost first,
// then the active overlays' engine-level environment, most recently
// activated first, skipping hidden names.
func (st *Stack) GetEnv(es *EngineState, name string) (vals.Value, bool) {
	for i := len(st.env) - 1; i >= 0; i-- {
		if v, ok := st.env[i][name]; ok {
			if _, deleted := v.(envTombstone); deleted {
				return nil, false
			}
			return v, true
		}
	}
	for i := len(st.activeOverlays) - 1; i >= 0; i-- {
		ovName := st.activeOverlays[i]
		if st.envHidden[ovName][name] {
			continue
		}
		if ov := es.Overlay(ovName); ov != nil {
			if v, ok := ov.Env[name]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// SetEnv sets an environment variable in the innermost scope.
func (st *Stack) SetEnv(name string, v vals.Value) {
	st.env[len(st.env)-1][name] = v
}

// HideEnv hides an environment variable: it masks outer stack scopes with a
// tombstone in the innermost scope and records the name in the hidden set of
// every active overlay. The hidden sets are copied on write, so hiding
// inside a forked scope does not affect the parent.
func (st *Stack) HideEnv(name string) {
	hidden := make(map[string]map[string]bool, len(st.envHidden))
	for ov, names := range st.envHidden {
		hidden[ov] = names
	}
	for _, ov := range st.activeOverlays {
		names := make(map[string]bool, len(hidden[ov])+1)
		for n := range hidden[ov] {
			names[n] = true
		}
		names[name] = true
		hidden[ov] = names
	}
	st.envHidden = hidden
	st.env[len(st.env)-1][name] = envTombstone{}
}

// ActiveOverlays returns the names of the active overlays, least recently
// activated first. The returned slice must not be modified.
func (st *Stack) ActiveOverlays() []string { return st.activeOverlays }

// ActivateOverlay appends an overlay to the active list of this stack.
func (st *Stack) ActivateOverlay(name string) {
	for _, ov := range st.activeOverlays {
		if ov == name {
			return
		}
	}
	overlays := make([]string, len(st.activeOverlays), len(st.activeOverlays)+1)
	copy(overlays, st.activeOverlays)
	st.activeOverlays = append(overlays, name)
}
