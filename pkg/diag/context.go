package diag

import (
	"fmt"
	"strings"
)

// Context is a range of text within a named source. It is used by errors
// that can be associated with a part of the source code, like evaluation
// errors and traceback entries.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Describe returns a one-line description of the context, including the
// 1-based line range and the relevant source excerpt.
func (c *Context) Describe() string {
	if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return c.Name
	}
	before := c.Source[:c.From]
	line := strings.Count(before, "\n") + 1
	culprit := strings.TrimSuffix(c.Source[c.From:c.To], "\n")
	if i := strings.IndexByte(culprit, '\n'); i >= 0 {
		culprit = culprit[:i] + " ..."
	}
	if culprit == "" {
		return fmt.Sprintf("%s, line %d", c.Name, line)
	}
	return fmt.Sprintf("%s, line %d: %s", c.Name, line, culprit)
}

// Error represents an error with a source context.
type Error struct {
	Type    string
	Message string
	Context Context
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Context.Describe(), e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}
