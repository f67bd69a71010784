package plugin

import (
	"context"

	"github.com/strand-sh/strand/pkg/eval"
)

// proxyCommand makes one plugin-declared command invocable from a pipeline.
// It evaluates the call's arguments and flags in-engine, materializes the
// input, ships everything across the boundary and wraps the reply.
type proxyCommand struct {
	client *Client
	sig    *eval.Signature
}

func (p *proxyCommand) Name() string               { return p.sig.Name }
func (p *proxyCommand) Signature() *eval.Signature { return p.sig }

func (p *proxyCommand) Run(es *eval.EngineState, st *eval.Stack, call *eval.Call, input eval.PipelineData) (eval.PipelineData, error) {
	params := runParams{Name: p.sig.Name}

	args, err := call.Rest(es, st, 0)
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		w, err := toWire(p.client.name, a)
		if err != nil {
			return nil, err
		}
		params.Args = append(params.Args, w)
	}

	for _, fl := range p.sig.Named {
		v, ok, err := call.GetFlag(es, st, fl.Long)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		w, err := toWire(p.client.name, v)
		if err != nil {
			return nil, err
		}
		if params.Named == nil {
			params.Named = make(map[string]wireValue)
		}
		params.Named[fl.Long] = w
	}

	if _, isEmpty := input.(eval.EmptyData); !isEmpty {
		v, err := input.IntoValue(call.Ranging)
		if err != nil {
			return nil, err
		}
		w, err := toWire(p.client.name, v)
		if err != nil {
			return nil, err
		}
		params.Input = &w
	}

	var result runResult
	if err := p.client.call(context.Background(), "run", params, &result); err != nil {
		return nil, err
	}
	if result.Output == nil {
		return eval.Empty, nil
	}
	out, err := fromWire(p.client.name, *result.Output)
	if err != nil {
		return nil, err
	}
	return eval.ValueData{Val: out,
		Meta: &eval.Metadata{Source: "plugin:" + p.client.name}}, nil
}

var _ eval.Command = (*proxyCommand)(nil)
