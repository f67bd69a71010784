package eval

import (
	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// ListStream is a lazy, possibly unbounded sequence of values. It has a
// single owner and can be consumed exactly once; after exhaustion (or
// interruption) Next keeps returning false. The interrupt flag is polled
// before every element, and an observed interrupt ends the stream silently.
//
// Errors travel through streams as vals.Error elements; they surface as
// failures only when the stream is materialized.
type ListStream struct {
	span      diag.Ranging
	interrupt *Interrupt
	next      func() (vals.Value, bool)
	exhausted bool
}

// NewListStream creates a ListStream pulling elements from next.
func NewListStream(r diag.Ranging, interrupt *Interrupt, next func() (vals.Value, bool)) *ListStream {
	return &ListStream{span: r, interrupt: interrupt, next: next}
}

// Span returns the source range associated with the stream.
func (s *ListStream) Span() diag.Ranging { return s.span }

// Next pulls the next element. It returns false once the stream is
// exhausted or the interrupt flag has been observed.
func (s *ListStream) Next() (vals.Value, bool) {
	if s.exhausted {
		return nil, false
	}
	if s.interrupt.IsSet() {
		s.exhausted = true
		return nil, false
	}
	v, ok := s.next()
	if !ok {
		s.exhausted = true
		return nil, false
	}
	return v, true
}

// Map returns a stream applying f to each element at consumption time,
// preserving order. The receiver must not be used afterwards.
func (s *ListStream) Map(f func(vals.Value) vals.Value) *ListStream {
	return NewListStream(s.span, s.interrupt, func() (vals.Value, bool) {
		v, ok := s.Next()
		if !ok {
			return nil, false
		}
		if _, isErr := v.(vals.Error); isErr {
			return v, true
		}
		return f(v), true
	})
}

// Filter returns a stream keeping only elements satisfying pred. A predicate
// error ends the stream after emitting the error as an element.
func (s *ListStream) Filter(pred func(vals.Value) (bool, error)) *ListStream {
	failed := false
	return NewListStream(s.span, s.interrupt, func() (vals.Value, bool) {
		if failed {
			return nil, false
		}
		for {
			v, ok := s.Next()
			if !ok {
				return nil, false
			}
			if _, isErr := v.(vals.Error); isErr {
				return v, true
			}
			keep, err := pred(v)
			if err != nil {
				failed = true
				return vals.Error{Err: err, Ranging: v.Range()}, true
			}
			if keep {
				return v, true
			}
		}
	})
}

// Collect drains the stream into a List. The first error element
// encountered aborts the drain and is returned as a failure.
func (s *ListStream) Collect(r diag.Ranging) (vals.Value, error) {
	var items []vals.Value
	for {
		v, ok := s.Next()
		if !ok {
			break
		}
		if errv, isErr := v.(vals.Error); isErr {
			return nil, errv.Err
		}
		items = append(items, v)
	}
	return vals.List{Items: items, Ranging: r}, nil
}
