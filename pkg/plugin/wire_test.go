package plugin

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval/errs"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

func TestWire_Roundtrip(t *testing.T) {
	tests := []struct {
		name string
		val  vals.Value
	}{
		{"bool", vals.Bool{B: true}},
		{"int", vals.Int{I: -7}},
		{"float", vals.Float{F: 2.5}},
		{"string", vals.String{S: "hello"}},
		{"binary", vals.Binary{Data: []byte{0, 1, 2}}},
		{"nothing", vals.Nothing{}},
		{"duration", vals.Duration{D: 3 * time.Second}},
		{"filesize", vals.Filesize{Bytes: 4096}},
		{"range", vals.Range{From: 1, To: 10, Step: 2}},
		{"date", vals.Date{T: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}},
		{"list", vals.MakeList(diag.Unknown,
			vals.Int{I: 1}, vals.String{S: "two"})},
		{"record", vals.MakeRecord(diag.Unknown,
			"name", vals.String{S: "a"}, "size", vals.Int{I: 1})},
		{"nested", vals.MakeRecord(diag.Unknown,
			"rows", vals.MakeList(diag.Unknown,
				vals.MakeRecord(diag.Unknown, "x", vals.Int{I: 1})))},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w, err := toWire("p", test.val)
			require.NoError(t, err)
			got, err := fromWire("p", w)
			require.NoError(t, err)
			assert.True(t, vals.Equal(got, test.val),
				"roundtrip changed %s into %s", vals.Repr(test.val), vals.Repr(got))
		})
	}
}

func TestWire_RecordOrderPreserved(t *testing.T) {
	rec := vals.MakeRecord(diag.Unknown,
		"z", vals.Int{I: 1}, "a", vals.Int{I: 2}, "m", vals.Int{I: 3})
	w, err := toWire("p", rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, w.Keys)
}

func TestWire_ClosureRejected(t *testing.T) {
	_, err := toWire("p", vals.Closure{Block: 1})
	var perr errs.PluginProtocol
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "p", perr.Plugin)
}

func TestWire_UnknownKindRejected(t *testing.T) {
	_, err := fromWire("p", wireValue{Kind: "mystery"})
	var perr errs.PluginProtocol
	assert.True(t, errors.As(err, &perr))
}
