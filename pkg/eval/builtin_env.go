package eval

import (
	"github.com/strand-sh/strand/pkg/eval/errs"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// Environment commands.

type withEnvCmd struct{}

func (withEnvCmd) Name() string { return "with-env" }

func (withEnvCmd) Signature() *Signature {
	return &Signature{
		Name: "with-env",
		Desc: "Run a block with scoped environment overrides.",
		Positional: []PositionalArg{
			{Name: "env", Shape: ShapeRecord},
			{Name: "body", Shape: ShapeClosure},
		},
	}
}

// Run evaluates the body against a forked scope carrying the overrides. The
// fork is discarded on every exit path, error included, so the outer
// environment — hidden names and all — is restored exactly.
func (withEnvCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	env, err := call.Req(es, st, 0)
	if err != nil {
		return nil, err
	}
	body, err := call.ReqClosure(es, st, 1)
	if err != nil {
		return nil, err
	}
	scoped := st.EnterScope()
	if err := setEnvPairs(scoped, env); err != nil {
		return nil, errorp(call, err)
	}
	return CallClosure(es, scoped, body, nil, input)
}

// setEnvPairs applies env overrides given as a record or as a flat
// [NAME value NAME value] list.
func setEnvPairs(st *Stack, env vals.Value) error {
	switch env := env.(type) {
	case vals.Record:
		for i := 0; i < env.Len(); i++ {
			k, v := env.Index(i)
			st.SetEnv(k, v)
		}
		return nil
	case vals.List:
		if len(env.Items)%2 != 0 {
			return errs.ArityMismatch{
				What:     "environment overrides",
				ValidLow: len(env.Items) + 1, ValidHigh: -1, Actual: len(env.Items)}
		}
		for i := 0; i < len(env.Items); i += 2 {
			name, err := vals.ToString("environment variable name", env.Items[i])
			if err != nil {
				return err
			}
			st.SetEnv(name, env.Items[i+1])
		}
		return nil
	}
	return errs.TypeMismatch{
		What: "environment overrides", Valid: "record or list", Actual: env.Kind()}
}

type loadEnvCmd struct{}

func (loadEnvCmd) Name() string { return "load-env" }

func (loadEnvCmd) Signature() *Signature {
	return &Signature{
		Name: "load-env",
		Desc: "Set environment variables in the caller's scope.",
		Positional: []PositionalArg{
			{Name: "env", Shape: ShapeRecord},
		},
		MutatesStack: true,
	}
}

func (loadEnvCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	env, err := call.Req(es, st, 0)
	if err != nil {
		return nil, err
	}
	if err := setEnvPairs(st, env); err != nil {
		return nil, errorp(call, err)
	}
	return Empty, nil
}

type hideEnvCmd struct{}

func (hideEnvCmd) Name() string { return "hide-env" }

func (hideEnvCmd) Signature() *Signature {
	return &Signature{
		Name: "hide-env",
		Desc: "Hide environment variables in the caller's scope.",
		Rest: &PositionalArg{Name: "names", Shape: ShapeString},
		MutatesStack: true,
	}
}

func (hideEnvCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	names, err := call.Rest(es, st, 0)
	if err != nil {
		return nil, err
	}
	for _, nameVal := range names {
		name, err := vals.ToString("name to hide", nameVal)
		if err != nil {
			return nil, errorp(call, err)
		}
		st.HideEnv(name)
	}
	return Empty, nil
}
