package eval

import (
	"errors"
	"testing"

	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

func double(v vals.Value) vals.Value {
	return vals.Int{I: v.(vals.Int).I * 2}
}

func TestMapData_Scalar(t *testing.T) {
	d := MapData(ValueData{Val: vals.Int{I: 2}}, diag.Unknown, nil, double)
	v, err := d.IntoValue(diag.Unknown)
	if err != nil {
		t.Fatal(err)
	}
	if !vals.Equal(v, vals.Int{I: 4}) {
		t.Errorf("got %s, want 4", vals.Repr(v))
	}
}

func TestMapData_List(t *testing.T) {
	meta := &Metadata{Source: "test"}
	in := ValueData{
		Val:  vals.MakeList(diag.Unknown, vals.Int{I: 1}, vals.Int{I: 2}),
		Meta: meta,
	}
	d := MapData(in, diag.Unknown, nil, double)
	if d.Metadata() != meta {
		t.Errorf("metadata not propagated, got %v", d.Metadata())
	}
	v, err := d.IntoValue(diag.Unknown)
	if err != nil {
		t.Fatal(err)
	}
	want := vals.MakeList(diag.Unknown, vals.Int{I: 2}, vals.Int{I: 4})
	if !vals.Equal(v, want) {
		t.Errorf("got %s, want %s", vals.Repr(v), vals.Repr(want))
	}
}

func TestMapData_ErrorPassthrough(t *testing.T) {
	cause := errors.New("poisoned")
	d := MapData(ValueData{Val: vals.Error{Err: cause}}, diag.Unknown, nil,
		func(v vals.Value) vals.Value {
			t.Error("mapped an error element")
			return v
		})
	_, err := d.IntoValue(diag.Unknown)
	if !errors.Is(err, cause) {
		t.Errorf("got %v, want %v", err, cause)
	}
}

func TestMapData_StreamErrorPassthrough(t *testing.T) {
	cause := errors.New("poisoned")
	elems := []vals.Value{vals.Int{I: 1}, vals.Error{Err: cause}}
	i := 0
	stream := NewListStream(diag.Unknown, nil, func() (vals.Value, bool) {
		if i >= len(elems) {
			return nil, false
		}
		v := elems[i]
		i++
		return v, true
	})
	d := MapData(StreamData{Stream: stream}, diag.Unknown, nil, double)
	_, err := d.IntoValue(diag.Unknown)
	if !errors.Is(err, cause) {
		t.Errorf("got %v, want %v", err, cause)
	}
}

func TestMapData_Empty(t *testing.T) {
	if d := MapData(Empty, diag.Unknown, nil, double); d != Empty {
		t.Errorf("got %#v, want Empty", d)
	}
}
