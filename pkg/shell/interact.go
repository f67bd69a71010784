package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/strand-sh/strand/pkg/eval"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	promptColor = color.New(color.FgGreen)
)

// InteractConfig configures an interactive session.
type InteractConfig struct {
	In   io.Reader
	Out  io.Writer
	Err  io.Writer
	TTY  bool
	Name string
}

// Interact runs the read-eval-print loop until the input ends. Each line is
// recorded in history, evaluated, and its output printed with the value
// prefix. An interrupt aborts the current command only; the flag is reset
// before the next prompt.
func (rt *Runtime) Interact(cfg *InteractConfig) {
	stopSignals := rt.Engine.Interrupt().ListenSignals()
	defer stopSignals()

	name := cfg.Name
	if name == "" {
		name = "[tty]"
	}

	in := bufio.NewScanner(cfg.In)
	for {
		if cfg.TTY {
			promptColor.Fprint(cfg.Out, "strand> ")
		}
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if rt.History != nil {
			if _, err := rt.History.AddCmd(line); err != nil {
				logger.Printf("recording history: %v", err)
			}
		}
		rt.Engine.Interrupt().Reset()
		v, err := rt.Eval(name, line)
		if err != nil {
			renderError(cfg.Err, err)
			continue
		}
		printValue(cfg.Out, rt.Config.ValuePrefix, v)
	}
	if err := in.Err(); err != nil && err != io.EOF {
		renderError(cfg.Err, err)
	}
}

// printValue writes one output value. Nothing is not printed; a list prints
// one element per line, the way a drained pipeline would.
func printValue(w io.Writer, prefix string, v vals.Value) {
	switch v := v.(type) {
	case vals.Nothing:
	case vals.List:
		for _, item := range v.Items {
			fmt.Fprintf(w, "%s%s\n", prefix, vals.Repr(item))
		}
	default:
		fmt.Fprintf(w, "%s%s\n", prefix, vals.Repr(v))
	}
}

func renderError(w io.Writer, err error) {
	if exc, ok := err.(*eval.Exception); ok {
		errorColor.Fprint(w, "error: ")
		fmt.Fprintln(w, exc.Cause.Error())
		if exc.Help != "" {
			fmt.Fprintln(w, exc.Help)
		}
		return
	}
	errorColor.Fprint(w, "error: ")
	fmt.Fprintln(w, err.Error())
}
