// Package convert implements the conversion engine: a rule schema applied
// depth-first to a source document, threading scope and identifier state
// through a per-conversion context.
package convert

import (
	"strings"

	"scope-caster/scope"
)

// Context carries the mutable state of one conversion pass: the scope stack
// and the document path used in error reports. A context serves exactly one
// conversion at a time and is never shared between goroutines.
type Context struct {
	stack *scope.Stack
	path  []string
}

// NewContext creates a context with a fresh scope stack.
func NewContext() *Context {
	return &Context{stack: scope.NewStack()}
}

// Stack exposes the scope stack to rules and the identifier registry.
func (c *Context) Stack() *scope.Stack { return c.stack }

// Path renders the current document location, e.g. "pipes[0].from.building".
func (c *Context) Path() string {
	if len(c.path) == 0 {
		return "(document root)"
	}

	var b strings.Builder
	for i, step := range c.path {
		if i > 0 && !strings.HasPrefix(step, "[") {
			b.WriteByte('.')
		}

		b.WriteString(step)
	}

	return b.String()
}

func (c *Context) pushPath(step string) { c.path = append(c.path, step) }

func (c *Context) popPath() { c.path = c.path[:len(c.path)-1] }
