// Package diag provides the source-position types threaded through the
// runtime. Values and errors carry a Ranging identifying the piece of source
// code they originate from; the range is only ever used for diagnostics.
package diag

// Ranger wraps the Range method.
type Ranger interface {
	// Range returns the range associated with the value.
	Range() Ranging
}

// Ranging is a range [From, To) of byte positions within a source text.
// Structs can embed Ranging to satisfy [Ranger].
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// PointRanging returns a zero-width Ranging at the given point.
func PointRanging(p int) Ranging {
	return Ranging{p, p}
}

// MixedRanging returns a Ranging from the start of a to the end of b.
func MixedRanging(a, b Ranger) Ranging {
	return Ranging{a.Range().From, b.Range().To}
}

// Unknown is the range used for values that have no source origin, such as
// values computed by the runtime itself or received from a plugin.
var Unknown = Ranging{-1, -1}
