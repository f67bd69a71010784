// Package shell assembles the engine into a runnable shell: configuration,
// startup, the interactive loop and script execution. The real parser is an
// external collaborator; the driver here understands word-split pipelines,
// which is enough to exercise the engine end to end.
package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval"
	"github.com/strand-sh/strand/pkg/eval/vals"
	"github.com/strand-sh/strand/pkg/logutil"
	"github.com/strand-sh/strand/pkg/plugin"
	"github.com/strand-sh/strand/pkg/store"
)

var logger = logutil.GetLogger("[shell] ")

// Runtime is everything a shell session needs: the engine, the top-level
// stack, the history store and the running plugins.
type Runtime struct {
	Engine  *eval.EngineState
	Stack   *eval.Stack
	History *store.Store
	Config  *Config

	plugins []*plugin.Client
}

// NewRuntime builds a runtime from the configuration: builtins and the
// process environment go into the base overlay, then the history store is
// opened and the configured plugins are spawned and registered. A plugin
// that fails to register is reported and skipped, never fatal.
func NewRuntime(cfg *Config, environ []string, warn io.Writer) (*Runtime, error) {
	es := eval.NewEngineState()
	eval.RegisterBuiltins(es)

	d := es.NewDelta()
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		d.SetEnv(eval.DefaultOverlay, name, vals.String{S: value, Ranging: diag.Unknown})
	}
	for name, value := range cfg.Env {
		d.SetEnv(eval.DefaultOverlay, name, vals.String{S: value, Ranging: diag.Unknown})
	}
	es.Merge(d)

	rt := &Runtime{Engine: es, Stack: eval.NewStack(), Config: cfg}

	if cfg.HistoryPath != "" {
		h, err := store.Open(cfg.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		rt.History = h
	}

	for _, pc := range cfg.Plugins {
		c, err := plugin.Spawn(context.Background(), pc.Name, pc.Path, pc.Args...)
		if err != nil {
			fmt.Fprintf(warn, "warning: plugin %s: %v\n", pc.Name, err)
			continue
		}
		c.Register(es, eval.DefaultOverlay)
		rt.plugins = append(rt.plugins, c)
		logger.Printf("registered plugin %s", pc.Name)
	}

	return rt, nil
}

// Close releases the runtime's resources.
func (rt *Runtime) Close() error {
	var firstErr error
	for _, c := range rt.plugins {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if rt.History != nil {
		if err := rt.History.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Eval runs one source line through the driver and materializes its output.
func (rt *Runtime) Eval(name, line string) (vals.Value, error) {
	block, err := rt.parseLine(name, line)
	if err != nil {
		return nil, err
	}
	out, err := eval.EvalBlock(rt.Engine, rt.Stack, block, eval.Empty)
	if err != nil {
		return nil, err
	}
	return out.IntoValue(block.Ranging)
}
