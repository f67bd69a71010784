package vals

import (
	"reflect"
	"testing"

	"github.com/strand-sh/strand/pkg/diag"
)

var r = diag.Unknown

func TestRecordPreservesInsertionOrder(t *testing.T) {
	rec := MakeRecord(r, "b", Int{I: 1}, "a", Int{I: 2}, "c", Int{I: 3})
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(rec.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", rec.Keys(), want)
	}
}

func TestRecordWithKeepsPositionOnOverwrite(t *testing.T) {
	rec := MakeRecord(r, "a", Int{I: 1}, "b", Int{I: 2})
	rec = rec.With("a", Int{I: 10})
	if want := []string{"a", "b"}; !reflect.DeepEqual(rec.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", rec.Keys(), want)
	}
	if v, _ := rec.Get("a"); !Equal(v, Int{I: 10}) {
		t.Errorf("Get(a) = %v, want 10", Repr(v))
	}
}

func TestRecordWithDoesNotMutateOriginal(t *testing.T) {
	rec := MakeRecord(r, "a", Int{I: 1})
	_ = rec.With("a", Int{I: 2})
	_ = rec.With("b", Int{I: 3})
	if v, _ := rec.Get("a"); !Equal(v, Int{I: 1}) {
		t.Errorf("original mutated: Get(a) = %v", Repr(v))
	}
	if rec.Len() != 1 {
		t.Errorf("original grew: Len() = %d", rec.Len())
	}
}

func TestRecordWithout(t *testing.T) {
	rec := MakeRecord(r, "a", Int{I: 1}, "b", Int{I: 2}, "c", Int{I: 3})
	got := rec.Without("b")
	if want := []string{"a", "c"}; !reflect.DeepEqual(got.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", got.Keys(), want)
	}
	if rec.Len() != 3 {
		t.Errorf("original mutated by Without")
	}
}
