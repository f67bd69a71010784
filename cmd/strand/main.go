// Command strand is the shell: it evaluates word-split pipelines against
// the streaming engine, interactively or from a script.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/strand-sh/strand/pkg/logutil"
	"github.com/strand-sh/strand/pkg/shell"
)

var (
	codeFlag string
	rcFlag   string
	noRC     bool
	logFlag  string
)

func main() {
	root := &cobra.Command{
		Use:           "strand [script]",
		Short:         "A streaming pipeline shell",
		Args:          cobra.MaximumNArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVarP(&codeFlag, "code", "c", "", "evaluate the given code and exit")
	root.Flags().StringVar(&rcFlag, "rc", "", "use an alternative rc file")
	root.Flags().BoolVar(&noRC, "norc", false, "skip the rc file")
	root.Flags().StringVar(&logFlag, "log", "", "write debug logs to this file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "strand:", err)
		os.Exit(2)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if logFlag != "" {
		cleanup, err := logutil.SetOutputFile(logFlag)
		if err != nil {
			return err
		}
		defer cleanup()
	}

	cfg := shell.DefaultConfig()
	if !noRC {
		path := rcFlag
		if path == "" {
			var err error
			path, err = shell.DefaultConfigPath()
			if err != nil {
				fmt.Fprintln(os.Stderr, "warning:", err)
			}
		}
		if path != "" {
			var err error
			cfg, err = shell.LoadConfig(path)
			if err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
		}
	}

	rt, err := shell.NewRuntime(cfg, os.Environ(), os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	switch {
	case codeFlag != "":
		return rt.Code(codeFlag, os.Stdout, os.Stderr)
	case len(args) == 1:
		return rt.Script(args[0], os.Stdout, os.Stderr)
	default:
		rt.Interact(&shell.InteractConfig{
			In:  os.Stdin,
			Out: os.Stdout,
			Err: os.Stderr,
			TTY: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
		})
		return nil
	}
}
