package vals

import "bytes"

// Equal compares two values for deep equality. Source ranges never
// participate in the comparison. Closures are equal when they refer to the
// same block and captured the same values; errors compare by message.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Bool:
		b, ok := b.(Bool)
		return ok && a.B == b.B
	case Int:
		b, ok := b.(Int)
		return ok && a.I == b.I
	case Float:
		b, ok := b.(Float)
		return ok && a.F == b.F
	case String:
		b, ok := b.(String)
		return ok && a.S == b.S
	case Binary:
		b, ok := b.(Binary)
		return ok && bytes.Equal(a.Data, b.Data)
	case Range:
		b, ok := b.(Range)
		return ok && a.From == b.From && a.To == b.To &&
			a.Step == b.Step && a.Unbounded == b.Unbounded
	case Date:
		b, ok := b.(Date)
		return ok && a.T.Equal(b.T)
	case Duration:
		b, ok := b.(Duration)
		return ok && a.D == b.D
	case Filesize:
		b, ok := b.(Filesize)
		return ok && a.Bytes == b.Bytes
	case List:
		b, ok := b.(List)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case Record:
		b, ok := b.(Record)
		if !ok || a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			ak, av := a.Index(i)
			bk, bv := b.Index(i)
			if ak != bk || !Equal(av, bv) {
				return false
			}
		}
		return true
	case Closure:
		b, ok := b.(Closure)
		if !ok || a.Block != b.Block || len(a.Captures) != len(b.Captures) {
			return false
		}
		for i := range a.Captures {
			if a.Captures[i].ID != b.Captures[i].ID ||
				!Equal(a.Captures[i].Val, b.Captures[i].Val) {
				return false
			}
		}
		return true
	case Error:
		b, ok := b.(Error)
		return ok && a.Err.Error() == b.Err.Error()
	case Custom:
		b, ok := b.(Custom)
		if !ok {
			return false
		}
		type equaler interface{ Equal(CustomValue) bool }
		if eq, ok := a.Val.(equaler); ok {
			return eq.Equal(b.Val)
		}
		return false
	case Nothing:
		_, ok := b.(Nothing)
		return ok
	}
	return false
}
