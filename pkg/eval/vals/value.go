// Package vals defines the runtime value types of the language and the
// operations on them.
//
// Value is a closed union: the variants defined in this file are the only
// implementations. Every value carries a source range used for diagnostics;
// the range never participates in equality. Values are immutable once
// constructed; Clone is explicit, cheap for scalars and structural for
// containers.
package vals

import (
	"time"

	"github.com/strand-sh/strand/pkg/diag"
)

// BlockID identifies a compiled block in the engine's block table.
type BlockID int

// VarID identifies a variable slot resolved by the parser.
type VarID int

// Value is the interface implemented by all runtime values.
type Value interface {
	// Kind returns the name of the value's type.
	Kind() string
	// Range returns the source range the value originates from.
	Range() diag.Ranging
	// WithRange returns a copy of the value tagged with the given range.
	WithRange(diag.Ranging) Value
	// Clone returns a copy of the value that shares no mutable state with
	// the original.
	Clone() Value
}

// Bool is a boolean value.
type Bool struct {
	B bool
	diag.Ranging
}

func (b Bool) Kind() string                   { return "bool" }
func (b Bool) WithRange(r diag.Ranging) Value { b.Ranging = r; return b }
func (b Bool) Clone() Value                   { return b }

// Int is a 64-bit integer value.
type Int struct {
	I int64
	diag.Ranging
}

func (i Int) Kind() string                   { return "int" }
func (i Int) WithRange(r diag.Ranging) Value { i.Ranging = r; return i }
func (i Int) Clone() Value                   { return i }

// Float is a 64-bit floating point value.
type Float struct {
	F float64
	diag.Ranging
}

func (f Float) Kind() string                   { return "float" }
func (f Float) WithRange(r diag.Ranging) Value { f.Ranging = r; return f }
func (f Float) Clone() Value                   { return f }

// String is a string value.
type String struct {
	S string
	diag.Ranging
}

func (s String) Kind() string                   { return "string" }
func (s String) WithRange(r diag.Ranging) Value { s.Ranging = r; return s }
func (s String) Clone() Value                   { return s }

// Binary is a byte-string value.
type Binary struct {
	Data []byte
	diag.Ranging
}

func (b Binary) Kind() string                   { return "binary" }
func (b Binary) WithRange(r diag.Ranging) Value { b.Ranging = r; return b }

func (b Binary) Clone() Value {
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	return Binary{data, b.Ranging}
}

// Range is an arithmetic sequence of integers. If Unbounded is true the
// sequence has no upper end and To is ignored. Step must be nonzero; a
// bounded range includes To when it falls on the sequence.
type Range struct {
	From      int64
	To        int64
	Step      int64
	Unbounded bool
	diag.Ranging
}

func (r Range) Kind() string                    { return "range" }
func (r Range) WithRange(rr diag.Ranging) Value { r.Ranging = rr; return r }
func (r Range) Clone() Value                    { return r }

// Iterator returns a pull function producing the elements of the range in
// order. Each element is tagged with the range's own source range.
func (r Range) Iterator() func() (Value, bool) {
	cur := r.From
	return func() (Value, bool) {
		if !r.Unbounded {
			if r.Step > 0 && cur > r.To {
				return nil, false
			}
			if r.Step < 0 && cur < r.To {
				return nil, false
			}
		}
		v := Int{cur, r.Ranging}
		cur += r.Step
		return v, true
	}
}

// Date is a point in time.
type Date struct {
	T time.Time
	diag.Ranging
}

func (d Date) Kind() string                   { return "date" }
func (d Date) WithRange(r diag.Ranging) Value { d.Ranging = r; return d }
func (d Date) Clone() Value                   { return d }

// Duration is a length of time.
type Duration struct {
	D time.Duration
	diag.Ranging
}

func (d Duration) Kind() string                   { return "duration" }
func (d Duration) WithRange(r diag.Ranging) Value { d.Ranging = r; return d }
func (d Duration) Clone() Value                   { return d }

// Filesize is a size in bytes.
type Filesize struct {
	Bytes int64
	diag.Ranging
}

func (f Filesize) Kind() string                   { return "filesize" }
func (f Filesize) WithRange(r diag.Ranging) Value { f.Ranging = r; return f }
func (f Filesize) Clone() Value                   { return f }

// List is an ordered sequence of values.
type List struct {
	Items []Value
	diag.Ranging
}

// MakeList builds a List from the given items.
func MakeList(r diag.Ranging, items ...Value) List {
	return List{items, r}
}

func (l List) Kind() string                   { return "list" }
func (l List) WithRange(r diag.Ranging) Value { l.Ranging = r; return l }

func (l List) Clone() Value {
	items := make([]Value, len(l.Items))
	for i, it := range l.Items {
		items[i] = it.Clone()
	}
	return List{items, l.Ranging}
}

// Len returns the number of items.
func (l List) Len() int { return len(l.Items) }

// Capture is one captured variable of a closure: a flat ID-to-value
// snapshot, never a reference into the defining scope.
type Capture struct {
	ID  VarID
	Val Value
}

// Closure is a compiled block plus a value snapshot of its free variables,
// taken when the block literal was evaluated.
type Closure struct {
	Block    BlockID
	Captures []Capture
	diag.Ranging
}

func (c Closure) Kind() string                   { return "closure" }
func (c Closure) WithRange(r diag.Ranging) Value { c.Ranging = r; return c }

func (c Closure) Clone() Value {
	captures := make([]Capture, len(c.Captures))
	for i, capture := range c.Captures {
		captures[i] = Capture{capture.ID, capture.Val.Clone()}
	}
	return Closure{c.Block, captures, c.Ranging}
}

// Error is an error payload travelling as ordinary data. It only surfaces as
// a failure when a terminal consumer materializes it.
type Error struct {
	Err error
	diag.Ranging
}

func (e Error) Kind() string                   { return "error" }
func (e Error) WithRange(r diag.Ranging) Value { e.Ranging = r; return e }
func (e Error) Clone() Value                   { return e }

// CustomValue is the interface implemented by opaque values defined outside
// the core, such as values produced by plugins.
type CustomValue interface {
	// TypeName returns the name of the custom type.
	TypeName() string
	// ToBase converts the value to a base Value for commands that do not
	// understand the custom type.
	ToBase(r diag.Ranging) (Value, error)
}

// Custom wraps a CustomValue.
type Custom struct {
	Val CustomValue
	diag.Ranging
}

func (c Custom) Kind() string                   { return "custom:" + c.Val.TypeName() }
func (c Custom) WithRange(r diag.Ranging) Value { c.Ranging = r; return c }
func (c Custom) Clone() Value                   { return c }

// Nothing is the unit value, distinct from an empty list and from absence of
// pipeline input.
type Nothing struct {
	diag.Ranging
}

func (n Nothing) Kind() string                   { return "nothing" }
func (n Nothing) WithRange(r diag.Ranging) Value { n.Ranging = r; return n }
func (n Nothing) Clone() Value                   { return n }
