package ident

import (
	"slices"
	"strconv"
	"strings"

	"scope-caster/internal/match"
	"scope-caster/scope"
)

// Storage domains within scope layers. The registry keeps three binding
// families per layer: declared name lists, the current subject binding,
// and (in the root layer only) the tracked store.
const (
	keyIDs     = "ids:"
	keyCurrent = "ident.current"
	keyTracked = "tracked:"
)

// nameList holds the identifiers declared in one scope layer for one
// domain, in declaration order. The handle of a name is its index.
type nameList struct {
	names []string
}

// bindList holds tracked bindings exported to the root layer.
// Handles are recorded explicitly since tracked and untracked declarations
// may interleave in the declaring scope.
type bindList struct {
	bindings []Binding
}

// Registry declares and resolves identifiers of a single domain against a
// scope stack. Registries are cheap values; construct one wherever an
// identifier field is converted.
type Registry struct {
	stack  *scope.Stack
	domain Domain
}

// New creates a registry for the given domain over the stack.
func New(stack *scope.Stack, domain Domain) *Registry {
	return &Registry{stack: stack, domain: domain}
}

// Domain returns the registry's identification domain.
func (r *Registry) Domain() Domain { return r.domain }

func listKey(d Domain) scope.Key {
	return scope.Key{Domain: keyIDs + d.String()}
}

func trackedKey(d Domain, path string) scope.Key {
	return scope.Key{Domain: keyTracked + d.String(), Name: path}
}

func currentKey(subject string) scope.Key {
	return scope.Key{Domain: keyCurrent, Name: subject}
}

// Declare registers a fresh identifier in the nearest enclosing layer
// carrying the domain's scope tag and returns its handle: the count of
// identifiers already declared there for this domain.
func (r *Registry) Declare(name string) (Handle, error) {
	return r.declare(name, false)
}

// DeclareTracked registers like Declare and additionally exports the
// binding to the root layer, keyed by the handle path of the enclosing
// subject bindings, so it stays resolvable after the declaring scope pops
// (through Import on the enclosing subject).
func (r *Registry) DeclareTracked(name string) (Handle, error) {
	return r.declare(name, true)
}

func (r *Registry) declare(name string, track bool) (Handle, error) {
	lvl, ok := r.stack.FindTag(r.domain.Scope)
	if !ok {
		return 0, &NoScopeError{Domain: r.domain}
	}

	v, err := r.stack.GetOrCreate(lvl, listKey(r.domain), func() any { return &nameList{} })
	if err != nil {
		return 0, err
	}

	lst := v.(*nameList)
	if slices.Contains(lst.names, name) {
		return 0, &DuplicateIDError{Domain: r.domain, Name: name}
	}

	handle := Handle(len(lst.names))
	binding := Binding{Handle: handle, Name: name, Scope: r.domain.Scope}

	// Record the subject's current binding on the subject's own layer,
	// if the identifier is declared inside a conversion of its subject.
	// A second fresh identifier for the same subject conversion is an error.
	if subjLvl, found := r.stack.FindTag(r.domain.Subject); found && r.domain.Subject != "" {
		key := currentKey(r.domain.Subject)
		if _, exists := r.stack.Get(subjLvl, key); exists {
			return 0, &DuplicateIDError{Domain: r.domain, Name: name}
		}

		if err := r.stack.ExportToAncestor(key, binding, subjLvl); err != nil {
			return 0, err
		}
	}

	lst.names = append(lst.names, name)

	if track {
		path := r.ancestorPath()
		root := r.stack.Depth() - 1

		v, err := r.stack.GetOrCreate(root, trackedKey(r.domain, path), func() any { return &bindList{} })
		if err != nil {
			return 0, err
		}

		tracked := v.(*bindList)
		tracked.bindings = append(tracked.bindings, binding)
	}

	return handle, nil
}

// Resolve returns the handle a previously declared identifier was assigned.
// Layers are scanned innermost-first, so inner declarations shadow outer
// ones; on a miss the tracked store is consulted for identifiers exported
// by an imported subject.
func (r *Registry) Resolve(name string) (Handle, error) {
	key := listKey(r.domain)
	for lvl := 0; lvl < r.stack.Depth(); lvl++ {
		v, ok := r.stack.Get(lvl, key)
		if !ok {
			continue
		}

		if i := slices.Index(v.(*nameList).names, name); i >= 0 {
			return Handle(i), nil
		}
	}

	if b, ok := r.resolveTracked(name); ok {
		return b.Handle, nil
	}

	return 0, &UnresolvedIDError{Domain: r.domain, Name: name, Suggestion: r.suggest(name)}
}

// Import resolves a reference and opens a new scope layer bound to the
// resolved subject, so that sibling conversions that follow can resolve
// identifiers the subject declared with tracking. The pushed layer is
// released by the enclosing conversion's unwind, not by Import itself.
func (r *Registry) Import(name string) (Handle, error) {
	handle, err := r.Resolve(name)
	if err != nil {
		return 0, err
	}

	r.stack.Push(r.domain.Subject)

	binding := Binding{Handle: handle, Name: name, Scope: r.domain.Scope}
	if err := r.stack.Insert(currentKey(r.domain.Subject), binding); err != nil {
		return 0, err
	}

	return handle, nil
}

// Current returns the innermost current binding for the domain's subject:
// the identifier declared by the subject conversion in progress (or bound
// by an Import). Fails with ErrNoCurrentID when no such conversion is open.
func (r *Registry) Current() (Binding, error) {
	v, ok := r.stack.Lookup(currentKey(r.domain.Subject))
	if !ok {
		return Binding{}, &NoCurrentIDError{Domain: r.domain}
	}

	return v.(Binding), nil
}

// NoCurrentIDError reports a Current call outside any conversion of the
// domain's subject.
type NoCurrentIDError struct {
	Domain Domain
}

func (e *NoCurrentIDError) Error() string {
	return "no current identifier for subject " + e.Domain.Subject
}

func (e *NoCurrentIDError) Unwrap() error { return ErrNoCurrentID }

// ancestorPath renders the chain of enclosing subject bindings, outermost
// first, starting from the domain's scope tag and following each binding's
// own scope tag outward. The chain stops at the root or at the first scope
// whose subject has not declared an identifier yet.
func (r *Registry) ancestorPath() string {
	var parts []string

	tag := r.domain.Scope
	for tag != "" {
		lvl, ok := r.stack.FindTag(tag)
		if !ok {
			break
		}

		v, ok := r.stack.Get(lvl, currentKey(tag))
		if !ok {
			break
		}

		b := v.(Binding)
		parts = append(parts, tag+"#"+strconv.FormatUint(uint64(b.Handle), 10))
		tag = b.Scope
	}

	slices.Reverse(parts)

	return strings.Join(parts, "/")
}

func (r *Registry) resolveTracked(name string) (Binding, bool) {
	root := r.stack.Depth() - 1

	v, ok := r.stack.Get(root, trackedKey(r.domain, r.ancestorPath()))
	if !ok {
		return Binding{}, false
	}

	for _, b := range v.(*bindList).bindings {
		if b.Name == name {
			return b, true
		}
	}

	return Binding{}, false
}

// suggest returns the closest visible identifier to name, or "" when
// nothing is similar enough to be a plausible misspelling.
func (r *Registry) suggest(name string) string {
	var candidates []string

	key := listKey(r.domain)
	for lvl := 0; lvl < r.stack.Depth(); lvl++ {
		if v, ok := r.stack.Get(lvl, key); ok {
			candidates = append(candidates, v.(*nameList).names...)
		}
	}

	root := r.stack.Depth() - 1
	if v, ok := r.stack.Get(root, trackedKey(r.domain, r.ancestorPath())); ok {
		for _, b := range v.(*bindList).bindings {
			candidates = append(candidates, b.Name)
		}
	}

	closest, _ := match.Closest(name, candidates)

	return closest
}
