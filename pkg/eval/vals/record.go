package vals

import "github.com/strand-sh/strand/pkg/diag"

// Record is an ordered string-keyed map. Keys are unique; insertion order is
// preserved and observable (it determines column order in tabular display).
type Record struct {
	keys   []string
	values []Value
	diag.Ranging
}

// MakeRecord builds a Record from alternating keys and values. Later
// occurrences of a key overwrite earlier ones in place, keeping the original
// position.
func MakeRecord(r diag.Ranging, pairs ...any) Record {
	if len(pairs)%2 != 0 {
		panic("MakeRecord: odd number of arguments")
	}
	rec := Record{Ranging: r}
	for i := 0; i < len(pairs); i += 2 {
		rec = rec.With(pairs[i].(string), pairs[i+1].(Value))
	}
	return rec
}

func (r Record) Kind() string                    { return "record" }
func (r Record) WithRange(rr diag.Ranging) Value { r.Ranging = rr; return r }

func (r Record) Clone() Value {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	values := make([]Value, len(r.values))
	for i, v := range r.values {
		values[i] = v.Clone()
	}
	return Record{keys, values, r.Ranging}
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.keys) }

// Keys returns the field names in insertion order. The returned slice must
// not be modified.
func (r Record) Keys() []string { return r.keys }

// Get returns the value of the named field.
func (r Record) Get(key string) (Value, bool) {
	for i, k := range r.keys {
		if k == key {
			return r.values[i], true
		}
	}
	return nil, false
}

// Index returns the i-th field.
func (r Record) Index(i int) (string, Value) {
	return r.keys[i], r.values[i]
}

// With returns a new Record with the field set. An existing key keeps its
// position; a new key is appended.
func (r Record) With(key string, val Value) Record {
	for i, k := range r.keys {
		if k == key {
			values := make([]Value, len(r.values))
			copy(values, r.values)
			values[i] = val
			return Record{r.keys, values, r.Ranging}
		}
	}
	keys := make([]string, len(r.keys), len(r.keys)+1)
	copy(keys, r.keys)
	values := make([]Value, len(r.values), len(r.values)+1)
	copy(values, r.values)
	return Record{append(keys, key), append(values, val), r.Ranging}
}

// Without returns a new Record with the named field removed. It is a no-op
// if the field does not exist.
func (r Record) Without(key string) Record {
	for i, k := range r.keys {
		if k == key {
			keys := make([]string, 0, len(r.keys)-1)
			keys = append(keys, r.keys[:i]...)
			keys = append(keys, r.keys[i+1:]...)
			values := make([]Value, 0, len(r.values)-1)
			values = append(values, r.values[:i]...)
			values = append(values, r.values[i+1:]...)
			return Record{keys, values, r.Ranging}
		}
	}
	return r
}
