// Package ident assigns compact integer handles to string identifiers and
// resolves references against previously declared ones, honoring the lexical
// scoping provided by a scope.Stack. Resolution is strictly single-pass: a
// reference can only see identifiers declared earlier in traversal order.
package ident

import "fmt"

// Handle is the compact index assigned to a declared identifier.
// Handles are 0-based and gap-free within one declaring scope of a domain.
type Handle uint32

// Domain is an identification namespace: the subject tag names what kind of
// thing is identified, the scope tag names the conversion scope the
// identifiers are declared in ("" for the root scope).
type Domain struct {
	Subject string
	Scope   string
}

func (d Domain) String() string {
	if d.Scope == "" {
		return d.Subject
	}

	return d.Subject + "@" + d.Scope
}

// IsZero reports whether the domain is unset.
func (d Domain) IsZero() bool { return d == Domain{} }

// Binding is a declared identifier: its handle, its original string form,
// and the scope tag of its domain (used to chain ancestor bindings).
type Binding struct {
	Handle Handle
	Name   string
	Scope  string
}

func (b Binding) String() string {
	return fmt.Sprintf("%s#%d", b.Name, b.Handle)
}
