package convert

import (
	"fmt"
	"sort"
	"strings"

	"scope-caster/source"
)

// VariantRule dispatches a mapping to one of several rules based on a
// discriminant field. The selected rule receives the whole mapping,
// discriminant included.
type VariantRule struct {
	TagField string
	Variants map[string]string // discriminant value -> rule tag
}

func (r *VariantRule) Convert(sch *Schema, ctx *Context, _ string, src source.Value) (any, error) {
	if src.Kind() != source.KindMapping {
		return nil, malformed(ctx, "mapping", src)
	}

	disc, err := src.Discriminant(r.TagField)
	if err != nil {
		return nil, malformed(ctx, fmt.Sprintf("discriminant field %q", r.TagField), src)
	}

	tag, ok := r.Variants[disc]
	if !ok {
		return nil, malformed(ctx, "one of "+r.variantNames(), src)
	}

	return sch.apply(ctx, tag, src)
}

func (r *VariantRule) variantNames() string {
	names := make([]string, 0, len(r.Variants))
	for name := range r.Variants {
		names = append(names, fmt.Sprintf("%q", name))
	}

	sort.Strings(names)

	return strings.Join(names, ", ")
}
