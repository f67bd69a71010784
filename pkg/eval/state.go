package eval

import (
	"sync"

	"github.com/strand-sh/strand/pkg/eval/vals"
)

// DeclID identifies a command declaration in the engine's declaration table.
type DeclID int

// DefaultOverlay is the name of the overlay that always exists and holds the
// builtin declarations and the process environment.
const DefaultOverlay = "base"

// Overlay is a named namespace of command declarations and environment
// variables. Overlays live in the EngineState; which overlays are active is
// per-Stack state.
type Overlay struct {
	Name  string
	Decls map[string]DeclID
	Env   map[string]vals.Value
}

// SourceFile is a virtual source file known to the engine, such as a
// standard-library module.
type SourceFile struct {
	Name string
	Code string
}

// EngineState is the process-wide, append-only program state: compiled
// blocks, command declarations, overlays and virtual files. It is shared
// read-only by everything that runs; the only mutation is merging a
// privately built StateDelta between top-level statements.
type EngineState struct {
	// Guards merges. Reads are unguarded: by protocol no delta is merged
	// while a block is executing.
	mu sync.Mutex

	blocks   []*Block
	decls    []Command
	overlays []*Overlay
	files    []*SourceFile

	interrupt *Interrupt
}

// NewEngineState creates an EngineState with an empty default overlay and a
// fresh interrupt flag.
func NewEngineState() *EngineState {
	return &EngineState{
		overlays: []*Overlay{{
			Name:  DefaultOverlay,
			Decls: make(map[string]DeclID),
			Env:   make(map[string]vals.Value),
		}},
		interrupt: NewInterrupt(),
	}
}

// Interrupt returns the process-wide interrupt flag.
func (es *EngineState) Interrupt() *Interrupt { return es.interrupt }

// Block returns the block with the given ID.
func (es *EngineState) Block(id vals.BlockID) *Block { return es.blocks[id] }

// Command returns the command registered under the given declaration ID.
func (es *EngineState) Command(id DeclID) Command { return es.decls[id] }

// Overlay returns the named overlay, or nil.
func (es *EngineState) Overlay(name string) *Overlay {
	for _, ov := range es.overlays {
		if ov.Name == name {
			return ov
		}
	}
	return nil
}

// FindDecl resolves a command name against the given active overlays,
// searching the most recently activated overlay first.
func (es *EngineState) FindDecl(name string, active []string) (DeclID, bool) {
	for i := len(active) - 1; i >= 0; i-- {
		if ov := es.Overlay(active[i]); ov != nil {
			if id, ok := ov.Decls[name]; ok {
				return id, true
			}
		}
	}
	return 0, false
}

// File returns the virtual file with the given name, or nil.
func (es *EngineState) File(name string) *SourceFile {
	for _, f := range es.files {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// StateDelta is a private, not-yet-visible batch of additions to an
// EngineState. IDs handed out by a delta are valid once the delta is merged;
// merging must happen before any block referencing them runs.
type StateDelta struct {
	base *EngineState

	blocks []*Block
	decls  []Command
	// Overlay name → declaration name → ID. Overlays are created on demand.
	overlayDecls map[string]map[string]DeclID
	overlayEnv   map[string]map[string]vals.Value
	files        []*SourceFile
}

// NewDelta starts a new delta against the engine state.
func (es *EngineState) NewDelta() *StateDelta {
	return &StateDelta{
		base:         es,
		overlayDecls: make(map[string]map[string]DeclID),
		overlayEnv:   make(map[string]map[string]vals.Value),
	}
}

// AddBlock adds a block and assigns its ID.
func (d *StateDelta) AddBlock(b *Block) vals.BlockID {
	id := vals.BlockID(len(d.base.blocks) + len(d.blocks))
	b.ID = id
	d.blocks = append(d.blocks, b)
	return id
}

// AddDecl adds a command implementation and registers its name in the given
// overlay.
func (d *StateDelta) AddDecl(overlay string, cmd Command) DeclID {
	id := DeclID(len(d.base.decls) + len(d.decls))
	d.decls = append(d.decls, cmd)
	if d.overlayDecls[overlay] == nil {
		d.overlayDecls[overlay] = make(map[string]DeclID)
	}
	d.overlayDecls[overlay][cmd.Name()] = id
	return id
}

// SetEnv sets an environment variable in the given overlay.
func (d *StateDelta) SetEnv(overlay, name string, v vals.Value) {
	if d.overlayEnv[overlay] == nil {
		d.overlayEnv[overlay] = make(map[string]vals.Value)
	}
	d.overlayEnv[overlay][name] = v
}

// AddFile adds a virtual source file.
func (d *StateDelta) AddFile(f *SourceFile) {
	d.files = append(d.files, f)
}

// Merge makes the delta visible in the engine state. It must only be called
// between top-level statements, never while a block is executing.
func (es *EngineState) Merge(d *StateDelta) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.blocks = append(es.blocks, d.blocks...)
	es.decls = append(es.decls, d.decls...)
	for name, decls := range d.overlayDecls {
		ov := es.overlay(name)
		for declName, id := range decls {
			ov.Decls[declName] = id
		}
	}
	for name, env := range d.overlayEnv {
		ov := es.overlay(name)
		for envName, v := range env {
			ov.Env[envName] = v
		}
	}
	es.files = append(es.files, d.files...)
	logger.Printf("merged delta: %d blocks, %d decls", len(d.blocks), len(d.decls))
}

// overlay returns the named overlay, creating it if needed. Callers must
// hold mu.
func (es *EngineState) overlay(name string) *Overlay {
	for _, ov := range es.overlays {
		if ov.Name == name {
			return ov
		}
	}
	ov := &Overlay{
		Name:  name,
		Decls: make(map[string]DeclID),
		Env:   make(map[string]vals.Value),
	}
	es.overlays = append(es.overlays, ov)
	return ov
}
