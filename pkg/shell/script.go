package shell

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Script runs a script file line by line and prints each statement's output.
// The first failing line aborts the script.
func (rt *Runtime) Script(path string, out, errOut io.Writer) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return rt.runLines(path, string(code), out, errOut)
}

// Code runs a code string given on the command line.
func (rt *Runtime) Code(code string, out, errOut io.Writer) error {
	return rt.runLines("[code]", code, out, errOut)
}

func (rt *Runtime) runLines(name, code string, out, errOut io.Writer) error {
	for i, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := rt.Eval(fmt.Sprintf("%s:%d", name, i+1), line)
		if err != nil {
			renderError(errOut, err)
			return err
		}
		printValue(out, rt.Config.ValuePrefix, v)
	}
	return nil
}
