package eval

import (
	"strconv"

	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval/errs"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// Call is one invocation of a command: the resolved declaration plus the
// unevaluated argument expressions. Argument helpers evaluate the
// corresponding expression against the current Stack at access time and
// coerce it to the requested type.
type Call struct {
	Decl  DeclID
	Name  string
	Args  []Expr
	Named []NamedArg
	diag.Ranging
}

// Req evaluates the i-th positional argument, which must be present.
func (c *Call) Req(es *EngineState, st *Stack, i int) (vals.Value, error) {
	if i >= len(c.Args) {
		return nil, errorp(c, errs.ArityMismatch{
			What: "arguments to " + c.Name, ValidLow: i + 1, ValidHigh: -1, Actual: len(c.Args)})
	}
	return evalExpr(es, st, c.Args[i])
}

// ReqInt is Req coerced to an integer.
func (c *Call) ReqInt(es *EngineState, st *Stack, i int) (int64, error) {
	v, err := c.Req(es, st, i)
	if err != nil {
		return 0, err
	}
	n, err := vals.ToInt(argWhat(c, i), v)
	return n, errorp(c.Args[i], err)
}

// ReqString is Req coerced to a string.
func (c *Call) ReqString(es *EngineState, st *Stack, i int) (string, error) {
	v, err := c.Req(es, st, i)
	if err != nil {
		return "", err
	}
	s, err := vals.ToString(argWhat(c, i), v)
	return s, errorp(c.Args[i], err)
}

// ReqClosure is Req coerced to a closure.
func (c *Call) ReqClosure(es *EngineState, st *Stack, i int) (vals.Closure, error) {
	v, err := c.Req(es, st, i)
	if err != nil {
		return vals.Closure{}, err
	}
	cl, err := vals.ToClosure(argWhat(c, i), v)
	return cl, errorp(c.Args[i], err)
}

// Opt evaluates the i-th positional argument if present.
func (c *Call) Opt(es *EngineState, st *Stack, i int) (vals.Value, bool, error) {
	if i >= len(c.Args) {
		return nil, false, nil
	}
	v, err := evalExpr(es, st, c.Args[i])
	return v, err == nil, err
}

// Rest evaluates all positional arguments from the i-th on.
func (c *Call) Rest(es *EngineState, st *Stack, i int) ([]vals.Value, error) {
	var out []vals.Value
	for ; i < len(c.Args); i++ {
		v, err := evalExpr(es, st, c.Args[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// GetFlag evaluates the named flag's value if the flag was given.
func (c *Call) GetFlag(es *EngineState, st *Stack, name string) (vals.Value, bool, error) {
	for _, na := range c.Named {
		if na.Name == name {
			if na.Value == nil {
				return vals.Bool{B: true, Ranging: na.Ranging}, true, nil
			}
			v, err := evalExpr(es, st, na.Value)
			return v, err == nil, err
		}
	}
	return nil, false, nil
}

// HasFlag reports whether the named switch was given.
func (c *Call) HasFlag(name string) bool {
	for _, na := range c.Named {
		if na.Name == name {
			return true
		}
	}
	return false
}

func argWhat(c *Call, i int) string {
	return "argument " + ordinal(i) + " to " + c.Name
}

func ordinal(i int) string {
	switch i {
	case 0:
		return "1st"
	case 1:
		return "2nd"
	case 2:
		return "3rd"
	default:
		return strconv.Itoa(i+1) + "th"
	}
}
