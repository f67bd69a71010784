package vals

import (
	"github.com/strand-sh/strand/pkg/eval/errs"
)

// Truth reports the truthiness of a value: Bool is itself, Nothing is false,
// and every other value is true.
func Truth(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return v.B
	case Nothing:
		return false
	default:
		return true
	}
}

// ToBool coerces a value to a bool, failing unless it is a Bool.
func ToBool(what string, v Value) (bool, error) {
	if b, ok := v.(Bool); ok {
		return b.B, nil
	}
	return false, errs.TypeMismatch{What: what, Valid: "bool", Actual: v.Kind()}
}

// ToInt coerces a value to an integer. Filesize and Duration coerce to their
// underlying counts.
func ToInt(what string, v Value) (int64, error) {
	switch v := v.(type) {
	case Int:
		return v.I, nil
	case Filesize:
		return v.Bytes, nil
	case Duration:
		return int64(v.D), nil
	}
	return 0, errs.TypeMismatch{What: what, Valid: "int", Actual: v.Kind()}
}

// ToFloat coerces a value to a float. Ints widen losslessly.
func ToFloat(what string, v Value) (float64, error) {
	switch v := v.(type) {
	case Float:
		return v.F, nil
	case Int:
		return float64(v.I), nil
	}
	return 0, errs.TypeMismatch{What: what, Valid: "float", Actual: v.Kind()}
}

// ToString coerces a value to a string. Scalars stringify; containers do
// not.
func ToString(what string, v Value) (string, error) {
	switch v := v.(type) {
	case String:
		return v.S, nil
	case Int, Float, Bool, Filesize, Duration, Date:
		return Repr(v), nil
	}
	return "", errs.TypeMismatch{What: what, Valid: "string", Actual: v.Kind()}
}

// ToClosure coerces a value to a closure.
func ToClosure(what string, v Value) (Closure, error) {
	if c, ok := v.(Closure); ok {
		return c, nil
	}
	return Closure{}, errs.TypeMismatch{What: what, Valid: "closure", Actual: v.Kind()}
}

// ToList coerces a value to a list.
func ToList(what string, v Value) (List, error) {
	if l, ok := v.(List); ok {
		return l, nil
	}
	return List{}, errs.TypeMismatch{What: what, Valid: "list", Actual: v.Kind()}
}

// ToRecord coerces a value to a record.
func ToRecord(what string, v Value) (Record, error) {
	if r, ok := v.(Record); ok {
		return r, nil
	}
	return Record{}, errs.TypeMismatch{What: what, Valid: "record", Actual: v.Kind()}
}

// Iterate calls f for each element of an iterable value (list or range),
// stopping early if f returns false. It reports whether v was iterable.
func Iterate(v Value, f func(Value) bool) bool {
	switch v := v.(type) {
	case List:
		for _, it := range v.Items {
			if !f(it) {
				break
			}
		}
		return true
	case Range:
		next := v.Iterator()
		for {
			elem, ok := next()
			if !ok || !f(elem) {
				break
			}
		}
		return true
	}
	return false
}
