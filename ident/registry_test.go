package ident_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scope-caster/ident"
	"scope-caster/scope"
)

func TestDeclareSequentialHandles(t *testing.T) {
	t.Parallel()

	stack := scope.NewStack()
	reg := ident.New(stack, ident.Domain{Subject: "building"})

	h, err := reg.Declare("house")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(0), h)

	h, err = reg.Declare("power-plant")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(1), h)

	h, err = reg.Resolve("house")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(0), h)

	h, err = reg.Resolve("power-plant")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(1), h)
}

func TestDeclareDuplicate(t *testing.T) {
	t.Parallel()

	stack := scope.NewStack()
	reg := ident.New(stack, ident.Domain{Subject: "building"})

	_, err := reg.Declare("house")
	require.NoError(t, err)

	_, err = reg.Declare("house")
	require.ErrorIs(t, err, ident.ErrDuplicateID)
}

func TestResolveUndeclared(t *testing.T) {
	t.Parallel()

	stack := scope.NewStack()
	reg := ident.New(stack, ident.Domain{Subject: "building"})

	_, err := reg.Declare("power-plant")
	require.NoError(t, err)

	_, err = reg.Resolve("powerplont")
	require.ErrorIs(t, err, ident.ErrUnresolved)

	var unresolved *ident.UnresolvedIDError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "power-plant", unresolved.Suggestion)
}

func TestDeclareWithoutScope(t *testing.T) {
	t.Parallel()

	stack := scope.NewStack()
	reg := ident.New(stack, ident.Domain{Subject: "room", Scope: "building"})

	_, err := reg.Declare("kitchen")
	require.ErrorIs(t, err, ident.ErrNoScope)
}

func TestResolveShadowing(t *testing.T) {
	t.Parallel()

	stack := scope.NewStack()
	reg := ident.New(stack, ident.Domain{Subject: "room", Scope: "building"})

	outer := stack.Push("building")

	h, err := reg.Declare("hall")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(0), h)

	h, err = reg.Declare("kitchen")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(1), h)

	inner := stack.Push("building")

	// The inner building declares its own "kitchen"; it gets the inner
	// scope's first handle and shadows the outer one.
	h, err = reg.Declare("kitchen")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(0), h)

	h, err = reg.Resolve("kitchen")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(0), h)

	h, err = reg.Resolve("hall")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(0), h)

	stack.Pop(inner)

	h, err = reg.Resolve("kitchen")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(1), h)

	stack.Pop(outer)
}

func TestCurrentBinding(t *testing.T) {
	t.Parallel()

	stack := scope.NewStack()
	reg := ident.New(stack, ident.Domain{Subject: "building"})

	_, err := reg.Current()
	require.ErrorIs(t, err, ident.ErrNoCurrentID)

	frame := stack.Push("building")

	h, err := reg.Declare("house")
	require.NoError(t, err)

	b, err := reg.Current()
	require.NoError(t, err)
	assert.Equal(t, ident.Binding{Handle: h, Name: "house"}, b)

	// One conversion of a subject may declare at most one fresh identifier.
	_, err = reg.Declare("second")
	require.ErrorIs(t, err, ident.ErrDuplicateID)

	stack.Pop(frame)

	_, err = reg.Current()
	require.ErrorIs(t, err, ident.ErrNoCurrentID)
}

func TestTrackedSurvivesScopeExit(t *testing.T) {
	t.Parallel()

	stack := scope.NewStack()
	buildings := ident.New(stack, ident.Domain{Subject: "building"})
	outlets := ident.New(stack, ident.Domain{Subject: "outlet", Scope: "building"})

	frame := stack.Push("building")

	_, err := buildings.Declare("plant")
	require.NoError(t, err)

	h, err := outlets.DeclareTracked("steam")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(0), h)

	h, err = outlets.DeclareTracked("water")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(1), h)

	stack.Pop(frame)

	// The declaring scope is gone; a plain resolve cannot see the outlets.
	_, err = outlets.Resolve("water")
	require.ErrorIs(t, err, ident.ErrUnresolved)

	// Importing the building brings its tracked outlets back in scope.
	mark := stack.Mark()

	bh, err := buildings.Import("plant")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(0), bh)

	h, err = outlets.Resolve("water")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(1), h)

	h, err = outlets.Resolve("steam")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(0), h)

	stack.Unwind(mark)
}

func TestTrackedKeyedByAncestor(t *testing.T) {
	t.Parallel()

	stack := scope.NewStack()
	buildings := ident.New(stack, ident.Domain{Subject: "building"})
	outlets := ident.New(stack, ident.Domain{Subject: "outlet", Scope: "building"})

	declare := func(building string, names ...string) {
		frame := stack.Push("building")
		defer stack.Pop(frame)

		_, err := buildings.Declare(building)
		require.NoError(t, err)

		for _, n := range names {
			_, err := outlets.DeclareTracked(n)
			require.NoError(t, err)
		}
	}

	declare("plant", "steam")
	declare("house", "sewage", "drain")

	mark := stack.Mark()
	_, err := buildings.Import("house")
	require.NoError(t, err)

	h, err := outlets.Resolve("drain")
	require.NoError(t, err)
	assert.Equal(t, ident.Handle(1), h)

	// "steam" belongs to the other building and stays out of reach.
	_, err = outlets.Resolve("steam")
	require.ErrorIs(t, err, ident.ErrUnresolved)

	stack.Unwind(mark)
}
