package convert

import (
	"scope-caster/options"
	"scope-caster/primitive"
	"scope-caster/source"
)

// scalarRule converts a scalar leaf to a fixed primitive kind via checked
// casts honoring the schema's coercion categories. It never touches the
// scope stack.
type scalarRule struct {
	kind primitive.KindEnum
}

func (r scalarRule) Convert(sch *Schema, ctx *Context, _ string, src source.Value) (any, error) {
	raw := src.Raw()

	sk := primitive.FromGoValue(raw)
	if sk == 0 {
		return nil, malformed(ctx, r.kind.String(), src)
	}

	out, err := primitive.Cast(raw, r.kind, widen(sch.allowed, sk, r.kind))
	if err != nil {
		return nil, wrapPath(ctx, err)
	}

	return out, nil
}

// passRule hands the raw decoded value through untouched.
type passRule struct{}

func (passRule) Convert(_ *Schema, _ *Context, _ string, src source.Value) (any, error) {
	return src.Raw(), nil
}

// widen permits width adaptation within one numeric family regardless of the
// configured categories. Changing width is not a coercion; range and
// precision checks still apply.
func widen(allowed options.CategoryEnum, src, dst primitive.KindEnum) options.CategoryEnum {
	sameFamily := (src.IsInteger() && dst.IsInteger()) || (src.IsFloat() && dst.IsFloat())
	if sameFamily {
		return allowed | options.CategorySafeNumber
	}

	return allowed
}
