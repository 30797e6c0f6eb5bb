package ident

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID = errors.New("duplicate identifier")
	ErrUnresolved  = errors.New("unresolved identifier")
	ErrNoScope     = errors.New("declaring scope is not on the stack")
	ErrNoCurrentID = errors.New("no current identifier for subject")
)

// DuplicateIDError reports a second declaration of the same identifier in
// one declaring scope of a domain, or a second fresh identifier declared
// for a single subject conversion.
type DuplicateIDError struct {
	Domain Domain
	Name   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate identifier %q in domain %s", e.Name, e.Domain)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// UnresolvedIDError reports a reference with no visible binding.
// Forward references, references into already-popped scopes and genuinely
// undeclared identifiers are indistinguishable here: a single forward pass
// cannot tell them apart.
type UnresolvedIDError struct {
	Domain     Domain
	Name       string
	Suggestion string // closest declared name, advisory only; may be empty
}

func (e *UnresolvedIDError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("unknown identifier %q in domain %s", e.Name, e.Domain)
	}

	return fmt.Sprintf("unknown identifier %q in domain %s (did you mean %q?)",
		e.Name, e.Domain, e.Suggestion)
}

func (e *UnresolvedIDError) Unwrap() error { return ErrUnresolved }

// NoScopeError reports a declaration attempted while no layer on the stack
// carries the domain's scope tag.
type NoScopeError struct {
	Domain Domain
}

func (e *NoScopeError) Error() string {
	return fmt.Sprintf("domain %s: scope %q is not on the stack", e.Domain, e.Domain.Scope)
}

func (e *NoScopeError) Unwrap() error { return ErrNoScope }
