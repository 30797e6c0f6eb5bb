package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scope-caster/convert"
	"scope-caster/ident"
	"scope-caster/options"
	"scope-caster/source"
)

type plumbing struct {
	Name      string
	Buildings []building
	Pipes     []pipe
}

type building struct {
	ID      ident.Handle
	Inlets  []ident.Handle
	Outlets []ident.Handle
}

type pipe struct {
	From endpoint
	To   endpoint
}

type endpoint struct {
	Building ident.Handle
	Conn     ident.Handle
}

func plumbingSchema(t *testing.T) *convert.Schema {
	t.Helper()

	sch := convert.NewSchema(options.CategoryNone)

	sch.MustRegister("city", &convert.StructRule{
		Target: plumbing{},
		Fields: []convert.FieldRule{
			{Name: "Name", Source: "name", Rule: "string"},
			{Name: "Buildings", Source: "buildings", Rule: "building", Seq: true},
			{Name: "Pipes", Source: "pipes", Rule: "pipe", Seq: true, Optional: true},
		},
	})

	sch.MustRegister("building", &convert.StructRule{
		Target: building{},
		Fields: []convert.FieldRule{
			{
				Name: "ID", Source: "id",
				Domain: ident.Domain{Subject: "building", Scope: "city"},
				Args:   convert.Args{New: true},
			},
			{
				Name: "Inlets", Source: "inlets", Seq: true, Optional: true,
				Domain: ident.Domain{Subject: "inlet", Scope: "building"},
				Args:   convert.Args{New: true, Track: true},
			},
			{
				Name: "Outlets", Source: "outlets", Seq: true, Optional: true,
				Domain: ident.Domain{Subject: "outlet", Scope: "building"},
				Args:   convert.Args{New: true, Track: true},
			},
		},
	})

	sch.MustRegister("pipe", &convert.StructRule{
		Target: pipe{},
		Fields: []convert.FieldRule{
			{Name: "From", Source: "from", Rule: "from-endpoint"},
			{Name: "To", Source: "to", Rule: "to-endpoint"},
		},
	})

	sch.MustRegister("from-endpoint", &convert.StructRule{
		Target: endpoint{},
		Fields: []convert.FieldRule{
			{
				Name: "Building", Source: "building",
				Domain: ident.Domain{Subject: "building", Scope: "city"},
				Args:   convert.Args{Import: true},
			},
			{
				Name: "Conn", Source: "outlet",
				Domain: ident.Domain{Subject: "outlet", Scope: "building"},
			},
		},
	})

	sch.MustRegister("to-endpoint", &convert.StructRule{
		Target: endpoint{},
		Fields: []convert.FieldRule{
			{
				Name: "Building", Source: "building",
				Domain: ident.Domain{Subject: "building", Scope: "city"},
				Args:   convert.Args{Import: true},
			},
			{
				Name: "Conn", Source: "inlet",
				Domain: ident.Domain{Subject: "inlet", Scope: "building"},
			},
		},
	})

	return sch
}

const plumbingDoc = `
name: metropolis
buildings:
  - id: plant
    outlets: [steam]
  - id: house
    inlets: [sewage, drain]
pipes:
  - from: {building: plant, outlet: steam}
    to: {building: house, inlet: drain}
`

func TestPlumbingScenario(t *testing.T) {
	t.Parallel()

	doc, err := source.FromYAML([]byte(plumbingDoc))
	require.NoError(t, err)

	city, err := convert.ConvertAs[plumbing](plumbingSchema(t), "city", doc)
	require.NoError(t, err)

	assert.Equal(t, "metropolis", city.Name)

	require.Len(t, city.Buildings, 2)
	assert.Equal(t, ident.Handle(0), city.Buildings[0].ID)
	assert.Equal(t, []ident.Handle{0}, city.Buildings[0].Outlets)
	assert.Equal(t, ident.Handle(1), city.Buildings[1].ID)
	assert.Equal(t, []ident.Handle{0, 1}, city.Buildings[1].Inlets)

	require.Len(t, city.Pipes, 1)
	assert.Equal(t, endpoint{Building: 0, Conn: 0}, city.Pipes[0].From)
	assert.Equal(t, endpoint{Building: 1, Conn: 1}, city.Pipes[0].To)
}

func TestCrossReferenceHandles(t *testing.T) {
	t.Parallel()

	doc, err := source.FromYAML([]byte(`
name: smallville
buildings:
  - id: house
    inlets: [electricity]
  - id: power-plant
    outlets: [power]
pipes:
  - from: {building: power-plant, outlet: power}
    to: {building: house, inlet: electricity}
`))
	require.NoError(t, err)

	city, err := convert.ConvertAs[plumbing](plumbingSchema(t), "city", doc)
	require.NoError(t, err)

	require.Len(t, city.Buildings, 2)
	assert.Equal(t, ident.Handle(0), city.Buildings[0].ID)
	assert.Equal(t, ident.Handle(1), city.Buildings[1].ID)

	require.Len(t, city.Pipes, 1)
	assert.Equal(t, ident.Handle(1), city.Pipes[0].From.Building)
	assert.Equal(t, ident.Handle(0), city.Pipes[0].To.Building)
}

func TestSequenceOfPrimitives(t *testing.T) {
	t.Parallel()

	type doc struct {
		Tags   []string
		Scores []int64
	}

	sch := convert.NewSchema(options.CategoryNone)
	sch.MustRegister("doc", &convert.StructRule{
		Target: doc{},
		Fields: []convert.FieldRule{
			{Name: "Tags", Source: "tags", Rule: "string", Seq: true},
			{Name: "Scores", Source: "scores", Rule: "int", Seq: true},
		},
	})

	src := source.Of(map[string]any{
		"tags":   []any{"a", "b"},
		"scores": []any{3, 1, 2},
	})

	out, err := convert.ConvertAs[doc](sch, "doc", src)
	require.NoError(t, err)
	assert.Equal(t, doc{Tags: []string{"a", "b"}, Scores: []int64{3, 1, 2}}, out)
}

func TestForwardReferenceFails(t *testing.T) {
	t.Parallel()

	// Same document with pipes listed before buildings: a single pass sees
	// the references before the declarations and must fail.
	doc, err := source.FromYAML([]byte(plumbingDoc))
	require.NoError(t, err)

	sch := convert.NewSchema(options.CategoryNone)
	sch.MustRegister("city", &convert.StructRule{
		Target: plumbing{},
		Fields: []convert.FieldRule{
			{Name: "Name", Source: "name", Rule: "string"},
			{Name: "Pipes", Source: "pipes", Rule: "pipe", Seq: true, Optional: true},
			{Name: "Buildings", Source: "buildings", Rule: "building", Seq: true},
		},
	})

	base := plumbingSchema(t)
	for _, tag := range []string{"building", "pipe", "from-endpoint", "to-endpoint"} {
		rule, ok := base.Rule(tag)
		require.True(t, ok)
		sch.MustRegister(tag, rule)
	}

	_, err = sch.Convert("city", doc)
	require.ErrorIs(t, err, ident.ErrUnresolved)

	var pathErr *convert.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "pipes[0].from.building", pathErr.Path)
}

func TestDuplicateDeclarationFails(t *testing.T) {
	t.Parallel()

	doc, err := source.FromYAML([]byte(`
name: metropolis
buildings:
  - id: plant
  - id: plant
`))
	require.NoError(t, err)

	_, err = plumbingSchema(t).Convert("city", doc)
	require.ErrorIs(t, err, ident.ErrDuplicateID)
}

func TestUnresolvedSuggestion(t *testing.T) {
	t.Parallel()

	doc, err := source.FromYAML([]byte(`
name: metropolis
buildings:
  - id: plant
    outlets: [steam]
  - id: house
    inlets: [drain]
pipes:
  - from: {building: plont, outlet: steam}
    to: {building: house, inlet: drain}
`))
	require.NoError(t, err)

	_, err = plumbingSchema(t).Convert("city", doc)
	require.ErrorIs(t, err, ident.ErrUnresolved)

	var unresolved *ident.UnresolvedIDError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "plant", unresolved.Suggestion)
}

func TestMissingRequiredField(t *testing.T) {
	t.Parallel()

	doc, err := source.FromYAML([]byte(`
buildings: []
`))
	require.NoError(t, err)

	_, err = plumbingSchema(t).Convert("city", doc)
	require.ErrorIs(t, err, convert.ErrMalformedSource)

	var m *convert.MalformedSourceError
	require.ErrorAs(t, err, &m)
	assert.Equal(t, "name", m.Path)
}

func TestOptionalAndDefault(t *testing.T) {
	t.Parallel()

	type settings struct {
		Host  string
		Port  int
		Debug *bool
	}

	sch := convert.NewSchema(options.CategoryNone)
	sch.MustRegister("settings", &convert.StructRule{
		Target: settings{},
		Fields: []convert.FieldRule{
			{Name: "Host", Source: "host", Rule: "string"},
			{Name: "Port", Source: "port", Rule: "int", Default: 8080},
			{Name: "Debug", Source: "debug", Rule: "bool", Optional: true},
		},
	})

	doc, err := source.FromYAML([]byte(`host: localhost`))
	require.NoError(t, err)

	out, err := convert.ConvertAs[settings](sch, "settings", doc)
	require.NoError(t, err)
	assert.Equal(t, settings{Host: "localhost", Port: 8080}, out)

	doc, err = source.FromYAML([]byte("host: localhost\nport: 9000\ndebug: true"))
	require.NoError(t, err)

	out, err = convert.ConvertAs[settings](sch, "settings", doc)
	require.NoError(t, err)
	assert.Equal(t, 9000, out.Port)
	require.NotNil(t, out.Debug)
	assert.True(t, *out.Debug)
}

func TestUnboundTargetYieldsMap(t *testing.T) {
	t.Parallel()

	sch := convert.NewSchema(options.CategoryNone)
	sch.MustRegister("point", &convert.StructRule{
		Fields: []convert.FieldRule{
			{Name: "x", Rule: "int"},
			{Name: "y", Rule: "int"},
		},
	})

	doc, err := source.FromYAML([]byte("x: 1\ny: 2"))
	require.NoError(t, err)

	out, err := sch.Convert("point", doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": int64(1), "y": int64(2)}, out)
}

func TestVariantDispatch(t *testing.T) {
	t.Parallel()

	sch := convert.NewSchema(options.CategoryNone)
	sch.MustRegister("shape", &convert.VariantRule{
		TagField: "type",
		Variants: map[string]string{"circle": "circle", "rect": "rect"},
	})
	sch.MustRegister("circle", &convert.StructRule{
		Fields: []convert.FieldRule{{Name: "radius", Rule: "float"}},
	})
	sch.MustRegister("rect", &convert.StructRule{
		Fields: []convert.FieldRule{
			{Name: "w", Rule: "float"},
			{Name: "h", Rule: "float"},
		},
	})

	doc := source.Of(map[string]any{"type": "circle", "radius": 2.5})

	out, err := sch.Convert("shape", doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"radius": 2.5}, out)

	doc = source.Of(map[string]any{"type": "blob"})

	_, err = sch.Convert("shape", doc)
	require.ErrorIs(t, err, convert.ErrMalformedSource)
}

func TestMapField(t *testing.T) {
	t.Parallel()

	type env struct {
		Vars map[string]string
	}

	sch := convert.NewSchema(options.CategoryNone)
	sch.MustRegister("env", &convert.StructRule{
		Target: env{},
		Fields: []convert.FieldRule{
			{Name: "Vars", Source: "vars", Rule: "string", Map: true},
		},
	})

	doc := source.Of(map[string]any{
		"vars": map[string]any{"b": "2", "a": "1"},
	})

	out, err := convert.ConvertAs[env](sch, "env", doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, out.Vars)
}

func TestScalarCategories(t *testing.T) {
	t.Parallel()

	strict := convert.NewSchema(options.CategoryNone)
	lax := convert.NewSchema(options.CategoryTextNumber)

	doc := source.Of("42")

	_, err := strict.Convert("int", doc)
	require.Error(t, err)

	out, err := lax.Convert("int", doc)
	require.NoError(t, err)
	assert.Equal(t, int64(42), out)

	// Width adaptation within one numeric family works even when strict.
	out, err = strict.Convert("int", source.Of(7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), out)
}

func TestDuplicateRuleTag(t *testing.T) {
	t.Parallel()

	sch := convert.NewSchema(options.CategoryNone)
	require.NoError(t, sch.Register("x", &convert.StructRule{}))
	require.ErrorIs(t, sch.Register("x", &convert.StructRule{}), convert.ErrDuplicateRule)

	_, err := sch.Convert("missing", source.Of(map[string]any{}))
	require.ErrorIs(t, err, convert.ErrUnknownRule)
}
