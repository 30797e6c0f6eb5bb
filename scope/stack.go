// Package scope provides the layered key-value store that backs
// contextual conversions: a stack of lexical scopes with innermost-first
// lookup, duplicate detection within a layer, and ancestor export for
// bindings that must outlive their declaring scope.
package scope

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateKey     = errors.New("key already bound in the target scope layer")
	ErrLevelsOutOfRange = errors.New("ancestor level exceeds the current stack depth")
)

// Key discriminates bindings within a layer.
// Domain partitions unrelated binding families (identifier namespaces,
// bookkeeping entries) so they can share a layer without collisions.
type Key struct {
	Domain string
	Name   string
}

// Frame is the token returned by Push and consumed by Pop.
// Mispaired frames indicate a broken traversal and panic.
type Frame struct {
	tag   string
	index int
}

// Tag returns the layer tag this frame refers to.
func (f Frame) Tag() string { return f.tag }

type layer struct {
	tag     string
	entries map[Key]any
}

// Stack is an ordered sequence of scope layers.
// A fresh stack holds a single root layer tagged "" which is never popped.
//
// The zero value is not usable; construct with NewStack.
type Stack struct {
	layers []layer
}

// NewStack creates a stack holding only the root layer.
func NewStack() *Stack {
	return &Stack{layers: []layer{{tag: ""}}}
}

// Depth returns the number of layers currently on the stack, root included.
func (s *Stack) Depth() int { return len(s.layers) }

// Mark returns the current depth for a later Unwind.
func (s *Stack) Mark() int { return len(s.layers) }

// Push appends a new empty layer with the given tag and returns its frame.
func (s *Stack) Push(tag string) Frame {
	f := Frame{tag: tag, index: len(s.layers)}
	s.layers = append(s.layers, layer{tag: tag})

	return f
}

// Pop removes the top layer. The frame must be the one returned by the
// matching Push; anything else is a programming error and panics.
func (s *Stack) Pop(f Frame) {
	if len(s.layers) <= 1 {
		panic("scope: pop on a stack holding only the root layer")
	}

	top := len(s.layers) - 1
	if f.index != top || f.tag != s.layers[top].tag {
		panic(fmt.Sprintf("scope: frame mismatch: popping %q at %d, top is %q at %d",
			f.tag, f.index, s.layers[top].tag, top))
	}

	s.layers = s.layers[:top]
}

// Unwind pops layers until the depth equals mark.
// Used on conversion exit paths so pushes stay paired even on failure.
// Panics if mark is below the root layer or above the current depth.
func (s *Stack) Unwind(mark int) {
	if mark < 1 || mark > len(s.layers) {
		panic(fmt.Sprintf("scope: unwind to %d with depth %d", mark, len(s.layers)))
	}

	s.layers = s.layers[:mark]
}

// Lookup scans layers innermost-first and returns the first binding of key.
// This realizes shadowing: an inner binding wins over an outer one.
func (s *Stack) Lookup(key Key) (any, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if v, ok := s.layers[i].entries[key]; ok {
			return v, true
		}
	}

	return nil, false
}

// Insert binds key in the top layer only.
// A key already bound in the top layer yields ErrDuplicateKey.
func (s *Stack) Insert(key Key, value any) error {
	return s.ExportToAncestor(key, value, 0)
}

// ExportToAncestor binds key in the layer levelsUp below the top
// (0 is the top layer itself). Used for bindings that must remain
// resolvable after their declaring layer pops.
func (s *Stack) ExportToAncestor(key Key, value any, levelsUp int) error {
	if levelsUp < 0 || levelsUp >= len(s.layers) {
		return fmt.Errorf("%w: %d of %d", ErrLevelsOutOfRange, levelsUp, len(s.layers))
	}

	l := &s.layers[len(s.layers)-1-levelsUp]
	if _, exists := l.entries[key]; exists {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateKey, key.Domain, key.Name)
	}

	if l.entries == nil {
		l.entries = make(map[Key]any)
	}
	l.entries[key] = value

	return nil
}

// Get returns the binding of key in the layer levelsUp below the top.
func (s *Stack) Get(levelsUp int, key Key) (any, bool) {
	if levelsUp < 0 || levelsUp >= len(s.layers) {
		return nil, false
	}

	v, ok := s.layers[len(s.layers)-1-levelsUp].entries[key]

	return v, ok
}

// GetOrCreate returns the binding of key in the layer levelsUp below the
// top, creating it with init when absent.
func (s *Stack) GetOrCreate(levelsUp int, key Key, init func() any) (any, error) {
	if levelsUp < 0 || levelsUp >= len(s.layers) {
		return nil, fmt.Errorf("%w: %d of %d", ErrLevelsOutOfRange, levelsUp, len(s.layers))
	}

	l := &s.layers[len(s.layers)-1-levelsUp]
	if v, ok := l.entries[key]; ok {
		return v, nil
	}

	v := init()
	if l.entries == nil {
		l.entries = make(map[Key]any)
	}
	l.entries[key] = v

	return v, nil
}

// Tag returns the tag of the layer levelsUp below the top.
func (s *Stack) Tag(levelsUp int) (string, bool) {
	if levelsUp < 0 || levelsUp >= len(s.layers) {
		return "", false
	}

	return s.layers[len(s.layers)-1-levelsUp].tag, true
}

// FindTag returns how many levels below the top the nearest layer with the
// given tag sits. The root layer is tagged "".
func (s *Stack) FindTag(tag string) (levelsUp int, ok bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.layers[i].tag == tag {
			return len(s.layers) - 1 - i, true
		}
	}

	return 0, false
}
