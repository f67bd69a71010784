package shell

import (
	"strconv"
	"strings"

	"github.com/anmitsu/go-shlex"

	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval"
	"github.com/strand-sh/strand/pkg/eval/errs"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// parseLine turns one line into a block of a single pipeline. This is a
// word-level stand-in for the real parser: words are shell-split, "|"
// separates pipeline stages, the first word of a stage names a command and
// the rest become literal arguments or flags.
func (rt *Runtime) parseLine(name, line string) (*eval.Block, error) {
	span := diag.Ranging{From: 0, To: len(line)}
	words, err := shlex.Split(line, true)
	if err != nil {
		return nil, &diag.Error{
			Type:    "syntax error",
			Message: err.Error(),
			Context: diag.Context{Name: name, Source: line, Ranging: span},
		}
	}

	var elems []eval.Expr
	for _, stage := range splitWords(words, "|") {
		if len(stage) == 0 {
			return nil, &diag.Error{
				Type:    "syntax error",
				Message: "empty pipeline stage",
				Context: diag.Context{Name: name, Source: line, Ranging: span},
			}
		}
		decl, ok := rt.Engine.FindDecl(stage[0], rt.Stack.ActiveOverlays())
		if !ok {
			return nil, errs.MissingData{What: "command " + stage[0]}
		}
		call := eval.CallExpr{Decl: decl, Name: stage[0], Ranging: span}
		for _, w := range stage[1:] {
			if flagName, rest, isFlag := flagWord(w); isFlag {
				na := eval.NamedArg{Name: flagName, Ranging: span}
				if rest != "" {
					na.Value = eval.LiteralExpr{Val: wordValue(rest, span)}
				}
				call.Named = append(call.Named, na)
				continue
			}
			call.Args = append(call.Args, wordExpr(w, span))
		}
		elems = append(elems, call)
	}
	if len(elems) == 0 {
		return &eval.Block{Ranging: span}, nil
	}
	return &eval.Block{
		Pipelines: []*eval.Pipeline{{Elements: elems, Ranging: span}},
		Ranging:   span,
	}, nil
}

// splitWords splits a word list on a separator word.
func splitWords(words []string, sep string) [][]string {
	var groups [][]string
	cur := []string{}
	for _, w := range words {
		if w == sep {
			groups = append(groups, cur)
			cur = []string{}
			continue
		}
		cur = append(cur, w)
	}
	if len(cur) > 0 || len(groups) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

// flagWord recognizes "--name" and "--name=value" words.
func flagWord(w string) (name, value string, ok bool) {
	if !strings.HasPrefix(w, "--") || len(w) == 2 {
		return "", "", false
	}
	name, value, _ = strings.Cut(w[2:], "=")
	return name, value, true
}

// wordExpr compiles one argument word. Environment accesses become live
// lookups; everything else is a literal.
func wordExpr(w string, span diag.Ranging) eval.Expr {
	if envName, ok := strings.CutPrefix(w, "$env."); ok && envName != "" {
		if name, opt := strings.CutSuffix(envName, "?"); opt && name != "" {
			return eval.EnvExpr{Name: name, Optional: true, Ranging: span}
		}
		return eval.EnvExpr{Name: envName, Ranging: span}
	}
	return eval.LiteralExpr{Val: wordValue(w, span)}
}

// wordValue interprets a bare word as the most specific literal it can be.
func wordValue(w string, span diag.Ranging) vals.Value {
	switch w {
	case "true":
		return vals.Bool{B: true, Ranging: span}
	case "false":
		return vals.Bool{B: false, Ranging: span}
	case "null":
		return vals.Nothing{Ranging: span}
	}
	if n, err := strconv.ParseInt(w, 10, 64); err == nil {
		return vals.Int{I: n, Ranging: span}
	}
	if x, err := strconv.ParseFloat(w, 64); err == nil {
		return vals.Float{F: x, Ranging: span}
	}
	return vals.String{S: w, Ranging: span}
}
