package ruleset

import (
	"fmt"

	"scope-caster/internal/diagnostic"
)

// builtinTags are the rule tags every schema provides without registration.
var builtinTags = []string{"string", "int", "float", "bool", "any"}

func isBuiltin(tag string) bool {
	for _, b := range builtinTags {
		if tag == b {
			return true
		}
	}

	return false
}

// Validate checks a rule file structurally: rule and field naming, identifier
// argument consistency, and rule reference integrity. Problems are collected
// rather than failing fast.
func Validate(rf *RuleFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if rf == nil {
		res.AddError("rule_file_is_nil", "rule file is nil", "", "")

		return res
	}

	if rf.Version != "1" {
		res.AddWarning("unsupported_version",
			fmt.Sprintf("rule file version %q, expected \"1\"", rf.Version), "", "")
	}

	defined := map[string]struct{}{}

	for i := range rf.Rules {
		rule := &rf.Rules[i]

		if rule.Name == "" {
			res.AddError("unnamed_rule", "rule without a name", "", "")
			continue
		}

		if isBuiltin(rule.Name) {
			res.AddError("builtin_shadowed",
				fmt.Sprintf("rule %q shadows a builtin rule", rule.Name), rule.Name, "")
		}

		if _, dup := defined[rule.Name]; dup {
			res.AddError("duplicate_rule",
				fmt.Sprintf("duplicate rule %q", rule.Name), rule.Name, "")
			continue
		}

		defined[rule.Name] = struct{}{}

		validateRule(res, rule)
	}

	validateRefs(res, rf, defined)

	return res
}

func validateRule(res *diagnostic.Diagnostics, rule *RuleDef) {
	if rule.Variant != nil {
		if len(rule.Fields) > 0 {
			res.AddError("variant_with_fields",
				"a rule is either a variant dispatcher or a struct rule, not both", rule.Name, "")
		}

		if rule.Variant.Tag == "" {
			res.AddError("variant_without_tag", "variant rule needs a discriminant tag field", rule.Name, "")
		}

		if len(rule.Variant.Variants) == 0 {
			res.AddError("variant_without_variants", "variant rule declares no variants", rule.Name, "")
		}

		return
	}

	seenFields := map[string]struct{}{}

	for i := range rule.Fields {
		f := &rule.Fields[i]

		if f.Name == "" {
			res.AddError("unnamed_field", "field without a name", rule.Name, "")
			continue
		}

		if _, dup := seenFields[f.Name]; dup {
			res.AddError("duplicate_field",
				fmt.Sprintf("duplicate field %q", f.Name), rule.Name, f.Name)
			continue
		}

		seenFields[f.Name] = struct{}{}

		validateField(res, rule.Name, f)
	}
}

func validateField(res *diagnostic.Diagnostics, rule string, f *FieldDef) {
	if f.Seq.Enabled && f.Map.Enabled {
		res.AddError("seq_and_map", "a field is element-wise over a sequence or a mapping, not both", rule, f.Name)
	}

	if f.ID == nil {
		if f.Rule != "" && f.Seq.Tag != "" {
			res.AddError("ambiguous_rule",
				"field names a rule both directly and through seq", rule, f.Name)
		}

		if f.Rule != "" && f.Map.Tag != "" {
			res.AddError("ambiguous_rule",
				"field names a rule both directly and through map", rule, f.Name)
		}

		return
	}

	if f.Rule != "" || f.Seq.Tag != "" || f.Map.Tag != "" {
		res.AddError("id_with_rule", "identifier fields do not take a value rule", rule, f.Name)
	}

	id := f.ID
	switch {
	case id.Import && id.New:
		res.AddError("conflicting_id_args", "an identifier is declared or imported, not both", rule, f.Name)
	case id.Import && id.Track:
		res.AddError("conflicting_id_args", "imported identifiers are already tracked by their declaration", rule, f.Name)
	case id.Track && !id.New:
		res.AddError("track_without_new", "only fresh identifiers can be tracked", rule, f.Name)
	}
}

func validateRefs(res *diagnostic.Diagnostics, rf *RuleFile, defined map[string]struct{}) {
	known := func(tag string) bool {
		if isBuiltin(tag) {
			return true
		}

		_, ok := defined[tag]

		return ok
	}

	for i := range rf.Rules {
		rule := &rf.Rules[i]

		if rule.Variant != nil {
			for disc, tag := range rule.Variant.Variants {
				if !known(tag) {
					res.AddError("unknown_rule_ref",
						fmt.Sprintf("variant %q references unknown rule %q", disc, tag), rule.Name, "")
				}
			}

			continue
		}

		for j := range rule.Fields {
			f := &rule.Fields[j]
			if f.ID != nil {
				continue
			}

			if tag := effectiveRule(f); !known(tag) {
				res.AddError("unknown_rule_ref",
					fmt.Sprintf("field references unknown rule %q", tag), rule.Name, f.Name)
			}
		}
	}
}

// effectiveRule resolves which rule tag a non-identifier field applies.
func effectiveRule(f *FieldDef) string {
	switch {
	case f.Seq.Tag != "":
		return f.Seq.Tag
	case f.Map.Tag != "":
		return f.Map.Tag
	case f.Rule != "":
		return f.Rule
	default:
		return "any"
	}
}
