// Package ruleset makes conversion schemas declarable as data: a YAML rule
// file is loaded, validated, and compiled into a convert.Schema.
//
// Rule file structure:
//
//	version: "1"
//	rules:
//	  - name: city
//	    fields:
//	      - name: name
//	        rule: string
//	      - name: buildings
//	        seq: building
//	  - name: building
//	    fields:
//	      - name: id
//	        id: {scope: city, new: true}
//	      - name: inlets
//	        seq: true
//	        optional: true
//	        id: {subject: inlet, scope: building, new: true, track: true}
//	  - name: shape
//	    variant:
//	      tag: type
//	      variants: {circle: circle, rect: rect}
package ruleset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RuleFile is the top-level shape of a rule file.
type RuleFile struct {
	Version string    `yaml:"version"`
	Rules   []RuleDef `yaml:"rules"`
}

// RuleDef declares one conversion rule: either a struct rule (Fields) or a
// variant dispatcher (Variant), never both.
type RuleDef struct {
	Name    string      `yaml:"name"`
	Variant *VariantDef `yaml:"variant,omitempty"`
	Fields  []FieldDef  `yaml:"fields,omitempty"`
}

// VariantDef selects a rule by discriminant field value.
type VariantDef struct {
	Tag      string            `yaml:"tag"`
	Variants map[string]string `yaml:"variants"`
}

// FieldDef declares one field of a struct rule. In YAML a field is either a
// bare string (the field name, converted with the "any" passthrough) or a
// mapping with the full options.
type FieldDef struct {
	Name     string  `yaml:"name"`
	Source   string  `yaml:"source,omitempty"`
	Rule     string  `yaml:"rule,omitempty"`
	Seq      FlexRef `yaml:"seq,omitempty"`
	Map      FlexRef `yaml:"map,omitempty"`
	Optional bool    `yaml:"optional,omitempty"`
	Default  any     `yaml:"default,omitempty"`
	ID       *IDDef  `yaml:"id,omitempty"`
}

// IDDef marks a field as identifier-bearing. Subject defaults to the
// enclosing rule's name; Scope names the rule whose scope the identifier is
// declared in ("" is the document root).
type IDDef struct {
	Subject string `yaml:"subject,omitempty"`
	Scope   string `yaml:"scope,omitempty"`
	New     bool   `yaml:"new,omitempty"`
	Track   bool   `yaml:"track,omitempty"`
	Import  bool   `yaml:"import,omitempty"`
}

// FlexRef is a YAML value that is either a boolean switch or a rule tag:
// `seq: building` applies the named rule element-wise, `seq: true` marks the
// field element-wise with the rule (or id handling) given elsewhere.
type FlexRef struct {
	Enabled bool
	Tag     string
}

// UnmarshalYAML implements custom YAML unmarshaling for FlexRef.
func (f *FlexRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected boolean or rule tag, got %v", node.Kind)
	}

	var b bool
	if err := node.Decode(&b); err == nil {
		*f = FlexRef{Enabled: b}

		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	*f = FlexRef{Enabled: s != "", Tag: s}

	return nil
}

// MarshalYAML implements custom YAML marshaling for FlexRef.
func (f FlexRef) MarshalYAML() (any, error) {
	if f.Tag != "" {
		return f.Tag, nil
	}

	return f.Enabled, nil
}

// IsZero reports an unset FlexRef; yaml.v3 uses it for omitempty.
func (f FlexRef) IsZero() bool { return !f.Enabled && f.Tag == "" }

// UnmarshalYAML implements custom YAML unmarshaling for FieldDef.
// Accepts either a bare field name or a full mapping.
func (fd *FieldDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}

		*fd = FieldDef{Name: name}

		return nil
	}

	type plain FieldDef

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*fd = FieldDef(p)

	return nil
}
