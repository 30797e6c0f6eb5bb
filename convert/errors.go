package convert

import (
	"errors"
	"fmt"

	"scope-caster/source"
)

var (
	ErrUnknownRule     = errors.New("no rule registered for tag")
	ErrDuplicateRule   = errors.New("rule tag already registered")
	ErrMalformedSource = errors.New("malformed source value")
	ErrCasterRejected  = errors.New("caster rejected the value")
)

// MalformedSourceError reports a source value whose shape does not fit the
// rule applied to it, located by document path.
type MalformedSourceError struct {
	Path     string
	Expected string
	Got      source.KindEnum
}

func (e *MalformedSourceError) Error() string {
	return fmt.Sprintf("malformed source at %s: expected %s, got %v", e.Path, e.Expected, e.Got)
}

func (e *MalformedSourceError) Unwrap() error { return ErrMalformedSource }

// PathError locates a conversion failure in the source document.
// Errors are wrapped once, at the point of failure; outer frames pass an
// already located error through unchanged.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("at %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func malformed(ctx *Context, expected string, v source.Value) error {
	return &MalformedSourceError{Path: ctx.Path(), Expected: expected, Got: v.Kind()}
}

// wrapPath attaches the context's current document path to err unless it is
// already located.
func wrapPath(ctx *Context, err error) error {
	if err == nil {
		return nil
	}

	var pathErr *PathError
	var malformedErr *MalformedSourceError
	if errors.As(err, &pathErr) || errors.As(err, &malformedErr) {
		return err
	}

	return &PathError{Path: ctx.Path(), Err: err}
}
