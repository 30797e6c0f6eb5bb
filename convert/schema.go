package convert

import (
	"fmt"

	"scope-caster/options"
	"scope-caster/primitive"
	"scope-caster/source"
)

// Rule converts one source value. The tag is the tag the rule was registered
// under; composite rules use it to tag the scope layer they push.
type Rule interface {
	Convert(sch *Schema, ctx *Context, tag string, src source.Value) (any, error)
}

// Schema is a namespace of conversion rules keyed by tag, plus the coercion
// categories scalar conversions may use. Register every rule up front; a
// schema is immutable during Convert and safe for concurrent conversions.
type Schema struct {
	allowed options.CategoryEnum
	rules   map[string]Rule
}

// NewSchema creates a schema holding only the builtin scalar rules
// ("string", "int", "float", "bool") and the "any" passthrough.
func NewSchema(allowed options.CategoryEnum) *Schema {
	return &Schema{
		allowed: allowed,
		rules: map[string]Rule{
			"string": scalarRule{kind: primitive.KindString},
			"int":    scalarRule{kind: primitive.KindInt64},
			"float":  scalarRule{kind: primitive.KindFloat64},
			"bool":   scalarRule{kind: primitive.KindBool},
			"any":    passRule{},
		},
	}
}

// Options returns the coercion categories the schema permits.
func (s *Schema) Options() options.CategoryEnum { return s.allowed }

// Rule returns the rule registered under tag.
func (s *Schema) Rule(tag string) (Rule, bool) {
	r, ok := s.rules[tag]

	return r, ok
}

// Register binds a rule to a tag. Rebinding a tag is an error.
func (s *Schema) Register(tag string, rule Rule) error {
	if _, exists := s.rules[tag]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRule, tag)
	}

	s.rules[tag] = rule

	return nil
}

// MustRegister is Register for static schema construction; it panics on a
// duplicate tag.
func (s *Schema) MustRegister(tag string, rule Rule) {
	if err := s.Register(tag, rule); err != nil {
		panic(err)
	}
}

// RegisterCaster binds a custom leaf conversion function to a tag.
// See parseCaster for the accepted function shapes.
func (s *Schema) RegisterCaster(tag string, fn any) error {
	rule, err := parseCaster(fn)
	if err != nil {
		return fmt.Errorf("caster for %q: %w", tag, err)
	}

	return s.Register(tag, rule)
}

// Convert applies the tagged rule to a whole document with a fresh context.
// The first failure aborts the conversion; the scope stack is fully unwound
// on every outcome.
func (s *Schema) Convert(tag string, doc source.Value) (any, error) {
	ctx := NewContext()

	out, err := s.apply(ctx, tag, doc)
	if d := ctx.stack.Depth(); d != 1 {
		panic(fmt.Sprintf("convert: scope stack unbalanced after conversion: depth %d", d))
	}

	return out, err
}

// ConvertWith applies the tagged rule within an existing context, so related
// sequential conversions can share declared identifiers.
func (s *Schema) ConvertWith(ctx *Context, tag string, doc source.Value) (any, error) {
	return s.apply(ctx, tag, doc)
}

// ConvertAs is Convert with a typed result.
func ConvertAs[T any](s *Schema, tag string, doc source.Value) (T, error) {
	var zero T

	out, err := s.Convert(tag, doc)
	if err != nil {
		return zero, err
	}

	typed, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("rule %q produced %T, not %T", tag, out, zero)
	}

	return typed, nil
}

func (s *Schema) apply(ctx *Context, tag string, v source.Value) (any, error) {
	rule, ok := s.rules[tag]
	if !ok {
		return nil, wrapPath(ctx, fmt.Errorf("%w: %q", ErrUnknownRule, tag))
	}

	return rule.Convert(s, ctx, tag, v)
}
