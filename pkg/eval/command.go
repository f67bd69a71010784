package eval

import (
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// Shape is the declared semantic type of a parameter or of pipeline data,
// used for parse-time checking and run-time coercion.
type Shape string

// Shapes.
const (
	ShapeAny      Shape = "any"
	ShapeBool     Shape = "bool"
	ShapeInt      Shape = "int"
	ShapeFloat    Shape = "float"
	ShapeString   Shape = "string"
	ShapeList     Shape = "list"
	ShapeRecord   Shape = "record"
	ShapeClosure  Shape = "closure"
	ShapeCellPath Shape = "cell-path"
	ShapeNothing  Shape = "nothing"
)

// PositionalArg describes one positional parameter.
type PositionalArg struct {
	Name     string
	Shape    Shape
	Optional bool
	Desc     string
}

// Flag describes one named parameter. An empty Shape marks a switch.
type Flag struct {
	Long  string
	Short string
	Shape Shape
	Desc  string
}

// InOut is one declared input/output type pair of a command.
type InOut struct {
	In  Shape
	Out Shape
}

// Signature is the declared interface of a command.
type Signature struct {
	Name       string
	Desc       string
	Positional []PositionalArg
	Rest       *PositionalArg
	Named      []Flag
	InOut      []InOut
	// MutatesStack marks the command as one of the few permitted to mutate
	// the caller's Stack directly (environment mutation, overlay changes).
	// All other commands receive a forked scope.
	MutatesStack bool
}

// Example is a documentation example of a command. Examples are used for
// documentation and self-tests only, never executed in production paths.
type Example struct {
	Example string
	Desc    string
	Want    vals.Value
}

// Command is the contract every invocable unit satisfies: builtins,
// user-defined blocks and plugin proxies alike. Implementations are
// stateless and constructed once, at registration time.
type Command interface {
	Name() string
	Signature() *Signature
	// Run evaluates a call. The input is the previous stage's output; the
	// returned PipelineData feeds the next stage.
	Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error)
}

// Exampler is implemented by commands that document examples.
type Exampler interface {
	Examples() []Example
}
