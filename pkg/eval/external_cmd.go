package eval

import (
	"io"
	"os/exec"
	"strings"
	"syscall"

	"github.com/strand-sh/strand/pkg/eval/errs"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// runExternalCmd spawns an external process and returns its output as
// in-flight external data, so a downstream external can consume the raw
// byte stream without the engine buffering it.
type runExternalCmd struct{}

func (runExternalCmd) Name() string { return "run-external" }

func (runExternalCmd) Signature() *Signature {
	return &Signature{
		Name: "run-external",
		Desc: "Run an external command, streaming its output.",
		Positional: []PositionalArg{
			{Name: "command", Shape: ShapeString},
		},
		Rest:  &PositionalArg{Name: "args", Shape: ShapeString},
		InOut: []InOut{{In: ShapeAny, Out: ShapeString}},
	}
}

func (runExternalCmd) Run(es *EngineState, st *Stack, call *Call, input PipelineData) (PipelineData, error) {
	name, err := call.ReqString(es, st, 0)
	if err != nil {
		return nil, err
	}
	argVals, err := call.Rest(es, st, 1)
	if err != nil {
		return nil, err
	}
	args := make([]string, len(argVals))
	for i, a := range argVals {
		args[i] = externArg(a)
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return nil, errorp(call, errs.MissingData{What: "external command " + name})
	}
	cmd := exec.Command(path, args...)
	cmd.Args[0] = name
	cmd.Env = environStrings(es, st)
	if pwd, ok := st.GetEnv(es, "PWD"); ok {
		cmd.Dir = externArg(pwd)
	}
	// The process gets its own group so an interrupt aimed at the engine
	// does not also hit every child.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stderr = st.ErrFile

	stdin, err := externStdin(call, input)
	if err != nil {
		return nil, err
	}
	cmd.Stdin = stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errorp(call, errs.IOError{What: "creating stdout pipe", Err: err})
	}
	if err := cmd.Start(); err != nil {
		return nil, errorp(call, errs.IOError{What: "starting " + name, Err: err})
	}
	stream := NewExternalStream(call.Ranging, stdout, nil, func() (int, error) {
		err := cmd.Wait()
		if err == nil {
			return 0, nil
		}
		if exit, ok := err.(*exec.ExitError); ok {
			return exit.ExitCode(), nil
		}
		return -1, err
	})
	return ExternalData{External: stream, Meta: &Metadata{Source: name}}, nil
}

// externStdin turns the pipeline input into the process's stdin. External
// input connects directly, pipe to pipe; value input is rendered one element
// per line; empty input leaves stdin closed.
func externStdin(call *Call, input PipelineData) (io.Reader, error) {
	switch input := input.(type) {
	case EmptyData:
		return nil, nil
	case ExternalData:
		return input.External.Stdout, nil
	default:
		v, err := input.IntoValue(call.Ranging)
		if err != nil {
			return nil, err
		}
		var sb strings.Builder
		if list, ok := v.(vals.List); ok {
			for _, elem := range list.Items {
				sb.WriteString(externArg(elem))
				sb.WriteString("\n")
			}
		} else {
			sb.WriteString(externArg(v))
			sb.WriteString("\n")
		}
		return strings.NewReader(sb.String()), nil
	}
}

// externArg renders a value the way it should appear on an external
// command's argv or stdin: strings verbatim, everything else via Repr.
func externArg(v vals.Value) string {
	if s, ok := v.(vals.String); ok {
		return s.S
	}
	return vals.Repr(v)
}

// environStrings flattens the visible environment into NAME=value pairs:
// active overlays least recent first, then stack scopes outermost first, so
// inner writes override outer ones.
func environStrings(es *EngineState, st *Stack) []string {
	flat := make(map[string]string)
	for _, ovName := range st.activeOverlays {
		ov := es.Overlay(ovName)
		if ov == nil {
			continue
		}
		for name, v := range ov.Env {
			if st.envHidden[ovName][name] {
				continue
			}
			flat[name] = externArg(v)
		}
	}
	for _, scope := range st.env {
		for name, v := range scope {
			if _, deleted := v.(envTombstone); deleted {
				delete(flat, name)
				continue
			}
			flat[name] = externArg(v)
		}
	}
	environ := make([]string, 0, len(flat))
	for name, val := range flat {
		environ = append(environ, name+"="+val)
	}
	return environ
}
