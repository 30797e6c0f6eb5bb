package ruleset

import (
	"errors"
	"fmt"

	"scope-caster/convert"
	"scope-caster/ident"
	"scope-caster/options"
)

var ErrDanglingRuleRef = errors.New("rule file references an unregistered rule")

// Build compiles a rule file into a schema with unbound targets: every
// struct rule yields map[string]any results.
func Build(rf *RuleFile, allowed options.CategoryEnum) (*convert.Schema, error) {
	return BuildWith(rf, allowed, nil)
}

// BuildWith compiles a rule file into a schema, binding the given target
// zero values to rules by name. Rules without an entry stay unbound.
func BuildWith(rf *RuleFile, allowed options.CategoryEnum, targets map[string]any) (*convert.Schema, error) {
	sch := convert.NewSchema(allowed)

	var d dealer
	for _, tag := range builtinTags {
		d.Done(tag)
	}

	for i := range rf.Rules {
		def := &rf.Rules[i]

		rule := buildRule(def, targets[def.Name], &d)
		if err := sch.Register(def.Name, rule); err != nil {
			return nil, err
		}

		d.Done(def.Name)
	}

	if tag, dangling := d.Next(); dangling {
		return nil, fmt.Errorf("%w: %q", ErrDanglingRuleRef, tag)
	}

	return sch, nil
}

func buildRule(def *RuleDef, target any, d *dealer) convert.Rule {
	if def.Variant != nil {
		for _, tag := range def.Variant.Variants {
			d.Needs(tag)
		}

		return &convert.VariantRule{TagField: def.Variant.Tag, Variants: def.Variant.Variants}
	}

	fields := make([]convert.FieldRule, 0, len(def.Fields))
	for i := range def.Fields {
		fields = append(fields, buildField(&def.Fields[i], d))
	}

	return &convert.StructRule{Target: target, Fields: fields}
}

func buildField(f *FieldDef, d *dealer) convert.FieldRule {
	fr := convert.FieldRule{
		Name:     f.Name,
		Source:   f.Source,
		Optional: f.Optional,
		Default:  f.Default,
		Seq:      f.Seq.Enabled,
		Map:      f.Map.Enabled,
	}

	if f.ID != nil {
		fr.Domain = ident.Domain{Subject: f.ID.Subject, Scope: f.ID.Scope}
		fr.Args = convert.Args{New: f.ID.New, Track: f.ID.Track, Import: f.ID.Import}

		return fr
	}

	fr.Rule = effectiveRule(f)
	d.Needs(fr.Rule)

	return fr
}
