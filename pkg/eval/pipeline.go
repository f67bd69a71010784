// Package eval implements the streaming pipeline evaluation engine: the
// pipeline data model, the execution context (EngineState and Stack), the
// command contract, the block evaluator and the builtin commands.
package eval

import (
	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval/vals"
	"github.com/strand-sh/strand/pkg/logutil"
)

var logger = logutil.GetLogger("[eval] ")

// Metadata describes the provenance and content type of pipeline data. It is
// propagated by default through lazy adapters; commands that change the
// semantic type of the data replace or drop it.
type Metadata struct {
	Source      string
	ContentType string
}

// PipelineData is the unit of communication between pipeline stages: a
// single materialized value, a lazy list stream, an in-flight external
// process stream, or nothing at all.
type PipelineData interface {
	// IntoValue fully materializes the data into a single Value. For a
	// stream this drains it; for an external stream it collects the output
	// bytes and waits for the exit code. An error value encountered while
	// draining is propagated as a failure.
	IntoValue(r diag.Ranging) (vals.Value, error)
	// Iter returns a lazy element-wise view of the data. Consuming the
	// returned stream consumes the underlying data.
	Iter(r diag.Ranging, interrupt *Interrupt) *ListStream
	// Metadata returns the attached metadata, which may be nil.
	Metadata() *Metadata
	// WithMetadata returns the same data with the metadata replaced.
	WithMetadata(*Metadata) PipelineData
}

// EmptyData is the absence of input or output. It is distinct from a list of
// zero elements and from an explicit Nothing value.
type EmptyData struct{}

// Empty is the canonical EmptyData instance.
var Empty PipelineData = EmptyData{}

func (EmptyData) IntoValue(r diag.Ranging) (vals.Value, error) {
	return vals.Nothing{Ranging: r}, nil
}

func (EmptyData) Iter(r diag.Ranging, interrupt *Interrupt) *ListStream {
	return NewListStream(r, interrupt, func() (vals.Value, bool) {
		return nil, false
	})
}

func (EmptyData) Metadata() *Metadata               { return nil }
func (e EmptyData) WithMetadata(*Metadata) PipelineData { return e }

// ValueData is a single already-materialized value. Fully collected lists
// and records are carried this way too.
type ValueData struct {
	Val  vals.Value
	Meta *Metadata
}

func (d ValueData) IntoValue(r diag.Ranging) (vals.Value, error) {
	if err, ok := d.Val.(vals.Error); ok {
		return nil, err.Err
	}
	return d.Val, nil
}

func (d ValueData) Iter(r diag.Ranging, interrupt *Interrupt) *ListStream {
	switch v := d.Val.(type) {
	case vals.List:
		i := 0
		return NewListStream(r, interrupt, func() (vals.Value, bool) {
			if i >= len(v.Items) {
				return nil, false
			}
			item := v.Items[i]
			i++
			return item, true
		})
	case vals.Range:
		return NewListStream(r, interrupt, v.Iterator())
	default:
		done := false
		return NewListStream(r, interrupt, func() (vals.Value, bool) {
			if done {
				return nil, false
			}
			done = true
			return d.Val, true
		})
	}
}

func (d ValueData) Metadata() *Metadata { return d.Meta }

func (d ValueData) WithMetadata(m *Metadata) PipelineData {
	d.Meta = m
	return d
}

// StreamData is a lazily-produced sequence of values.
type StreamData struct {
	Stream *ListStream
	Meta   *Metadata
}

func (d StreamData) IntoValue(r diag.Ranging) (vals.Value, error) {
	return d.Stream.Collect(r)
}

func (d StreamData) Iter(r diag.Ranging, interrupt *Interrupt) *ListStream {
	return d.Stream
}

func (d StreamData) Metadata() *Metadata { return d.Meta }

func (d StreamData) WithMetadata(m *Metadata) PipelineData {
	d.Meta = m
	return d
}

// ExternalData is the still-in-flight output of a spawned external process.
type ExternalData struct {
	External *ExternalStream
	Meta     *Metadata
}

func (d ExternalData) IntoValue(r diag.Ranging) (vals.Value, error) {
	return d.External.IntoValue(r)
}

func (d ExternalData) Iter(r diag.Ranging, interrupt *Interrupt) *ListStream {
	return d.External.Lines(r, interrupt)
}

func (d ExternalData) Metadata() *Metadata { return d.Meta }

func (d ExternalData) WithMetadata(m *Metadata) PipelineData {
	d.Meta = m
	return d
}

// MapData returns d with f lazily applied to each element. A single
// non-iterable value is mapped eagerly. Error values pass through untouched,
// as in ListStream.Map. Metadata is propagated.
func MapData(d PipelineData, r diag.Ranging, interrupt *Interrupt, f func(vals.Value) vals.Value) PipelineData {
	switch d := d.(type) {
	case EmptyData:
		return d
	case ValueData:
		switch d.Val.(type) {
		case vals.List, vals.Range:
			return StreamData{d.Iter(r, interrupt).Map(f), d.Meta}
		case vals.Error:
			return d
		default:
			return ValueData{f(d.Val), d.Meta}
		}
	default:
		return StreamData{d.Iter(r, interrupt).Map(f), d.Metadata()}
	}
}

// FilterData returns d with elements not satisfying pred lazily removed.
// Metadata is propagated.
func FilterData(d PipelineData, r diag.Ranging, interrupt *Interrupt, pred func(vals.Value) (bool, error)) PipelineData {
	if _, ok := d.(EmptyData); ok {
		return d
	}
	return StreamData{d.Iter(r, interrupt).Filter(pred), d.Metadata()}
}
