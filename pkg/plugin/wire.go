package plugin

import (
	"time"

	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval"
	"github.com/strand-sh/strand/pkg/eval/errs"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// wireValue is the JSON encoding of a Value on the plugin boundary: a kind
// tag plus the one payload field the kind uses. Closures and custom values
// do not cross the boundary.
type wireValue struct {
	Kind string `json:"kind"`

	Bool   bool        `json:"bool,omitempty"`
	Int    int64       `json:"int,omitempty"`
	Float  float64     `json:"float,omitempty"`
	Str    string      `json:"str,omitempty"`
	Binary []byte      `json:"binary,omitempty"`
	List   []wireValue `json:"list,omitempty"`
	// Record fields; parallel slices preserve column order.
	Keys []string    `json:"keys,omitempty"`
	Vals []wireValue `json:"vals,omitempty"`
	// Range fields.
	From      int64 `json:"from,omitempty"`
	To        int64 `json:"to,omitempty"`
	Step      int64 `json:"step,omitempty"`
	Unbounded bool  `json:"unbounded,omitempty"`

	Time time.Time `json:"time,omitempty"`
	// Error message for error values.
	Err string `json:"err,omitempty"`
}

func toWire(plugin string, v vals.Value) (wireValue, error) {
	switch v := v.(type) {
	case vals.Bool:
		return wireValue{Kind: "bool", Bool: v.B}, nil
	case vals.Int:
		return wireValue{Kind: "int", Int: v.I}, nil
	case vals.Float:
		return wireValue{Kind: "float", Float: v.F}, nil
	case vals.String:
		return wireValue{Kind: "string", Str: v.S}, nil
	case vals.Binary:
		return wireValue{Kind: "binary", Binary: v.Data}, nil
	case vals.List:
		items := make([]wireValue, len(v.Items))
		for i, item := range v.Items {
			w, err := toWire(plugin, item)
			if err != nil {
				return wireValue{}, err
			}
			items[i] = w
		}
		return wireValue{Kind: "list", List: items}, nil
	case vals.Record:
		w := wireValue{Kind: "record"}
		for i := 0; i < v.Len(); i++ {
			k, item := v.Index(i)
			iw, err := toWire(plugin, item)
			if err != nil {
				return wireValue{}, err
			}
			w.Keys = append(w.Keys, k)
			w.Vals = append(w.Vals, iw)
		}
		return w, nil
	case vals.Range:
		return wireValue{Kind: "range",
			From: v.From, To: v.To, Step: v.Step, Unbounded: v.Unbounded}, nil
	case vals.Date:
		return wireValue{Kind: "date", Time: v.T}, nil
	case vals.Duration:
		return wireValue{Kind: "duration", Int: int64(v.D)}, nil
	case vals.Filesize:
		return wireValue{Kind: "filesize", Int: v.Bytes}, nil
	case vals.Error:
		return wireValue{Kind: "error", Err: v.Err.Error()}, nil
	case vals.Nothing:
		return wireValue{Kind: "nothing"}, nil
	}
	return wireValue{}, errs.PluginProtocol{
		Plugin: plugin, Reason: "cannot send a " + v.Kind() + " value"}
}

func fromWire(plugin string, w wireValue) (vals.Value, error) {
	r := diag.Unknown
	switch w.Kind {
	case "bool":
		return vals.Bool{B: w.Bool, Ranging: r}, nil
	case "int":
		return vals.Int{I: w.Int, Ranging: r}, nil
	case "float":
		return vals.Float{F: w.Float, Ranging: r}, nil
	case "string":
		return vals.String{S: w.Str, Ranging: r}, nil
	case "binary":
		return vals.Binary{Data: w.Binary, Ranging: r}, nil
	case "list":
		items := make([]vals.Value, len(w.List))
		for i, iw := range w.List {
			v, err := fromWire(plugin, iw)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return vals.List{Items: items, Ranging: r}, nil
	case "record":
		if len(w.Keys) != len(w.Vals) {
			return nil, errs.PluginProtocol{Plugin: plugin, Reason: "malformed record"}
		}
		pairs := make([]any, 0, 2*len(w.Keys))
		for i, k := range w.Keys {
			v, err := fromWire(plugin, w.Vals[i])
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, k, v)
		}
		return vals.MakeRecord(r, pairs...), nil
	case "range":
		return vals.Range{From: w.From, To: w.To, Step: w.Step,
			Unbounded: w.Unbounded, Ranging: r}, nil
	case "date":
		return vals.Date{T: w.Time, Ranging: r}, nil
	case "duration":
		return vals.Duration{D: time.Duration(w.Int), Ranging: r}, nil
	case "filesize":
		return vals.Filesize{Bytes: w.Int, Ranging: r}, nil
	case "error":
		return vals.Error{Err: errs.PluginProtocol{Plugin: plugin, Reason: w.Err}, Ranging: r}, nil
	case "nothing":
		return vals.Nothing{Ranging: r}, nil
	}
	return nil, errs.PluginProtocol{
		Plugin: plugin, Reason: "unknown value kind " + w.Kind}
}

// Wire shapes of the handshake and dispatch messages.

type helloParams struct {
	Version int `json:"version"`
}

type helloResult struct {
	Version    int             `json:"version"`
	Signatures []wireSignature `json:"signatures"`
}

type wireSignature struct {
	Name       string     `json:"name"`
	Desc       string     `json:"desc,omitempty"`
	Positional []wireArg  `json:"positional,omitempty"`
	Rest       *wireArg   `json:"rest,omitempty"`
	Named      []wireFlag `json:"named,omitempty"`
}

type wireArg struct {
	Name     string `json:"name"`
	Shape    string `json:"shape"`
	Optional bool   `json:"optional,omitempty"`
	Desc     string `json:"desc,omitempty"`
}

type wireFlag struct {
	Long  string `json:"long"`
	Short string `json:"short,omitempty"`
	Shape string `json:"shape,omitempty"`
	Desc  string `json:"desc,omitempty"`
}

type runParams struct {
	Name  string               `json:"name"`
	Args  []wireValue          `json:"args,omitempty"`
	Named map[string]wireValue `json:"named,omitempty"`
	// Input is the materialized pipeline input; nil means empty input.
	Input *wireValue `json:"input,omitempty"`
}

type runResult struct {
	// Output is the produced value; nil means empty output.
	Output *wireValue `json:"output,omitempty"`
}

func signatureFromWire(w wireSignature) *eval.Signature {
	sig := &eval.Signature{Name: w.Name, Desc: w.Desc}
	for _, a := range w.Positional {
		sig.Positional = append(sig.Positional, eval.PositionalArg{
			Name: a.Name, Shape: eval.Shape(a.Shape), Optional: a.Optional, Desc: a.Desc})
	}
	if w.Rest != nil {
		sig.Rest = &eval.PositionalArg{
			Name: w.Rest.Name, Shape: eval.Shape(w.Rest.Shape), Desc: w.Rest.Desc}
	}
	for _, fl := range w.Named {
		sig.Named = append(sig.Named, eval.Flag{
			Long: fl.Long, Short: fl.Short, Shape: eval.Shape(fl.Shape), Desc: fl.Desc})
	}
	return sig
}
