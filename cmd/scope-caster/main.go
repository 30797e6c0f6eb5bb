// Package main provides the CLI entrypoint for scope-caster.
//
// scope-caster converts tree documents whose string identifiers become
// sequential integer handles:
//   - Loads a YAML rule file and validates it
//   - Loads a YAML document
//   - Converts the document in a single declare-before-reference pass
//   - Prints the converted tree as YAML (or a spew dump with -dump)
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"scope-caster/options"
	"scope-caster/ruleset"
	"scope-caster/source"
)

func main() {
	os.Exit(run())
}

func run() int {
	rulesPath := flag.String("rules", "", "path to the YAML rule file")
	docPath := flag.String("doc", "", "path to the YAML document to convert")
	root := flag.String("root", "", "root rule tag (default: first rule in the file)")
	dump := flag.Bool("dump", false, "print the result as a spew dump instead of YAML")
	lax := flag.Bool("lax", false, "enable all scalar coercion categories")
	flag.Parse()

	if *rulesPath == "" || *docPath == "" {
		fmt.Fprintln(os.Stderr, "usage: scope-caster -rules rules.yaml -doc doc.yaml [-root tag] [-dump] [-lax]")

		return 2
	}

	rf, err := ruleset.LoadFile(*rulesPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	res := ruleset.Validate(rf)
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w.String())
	}

	if res.HasErrors() {
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, "error:", e.String())
		}

		return 1
	}

	allowed := options.CategoryNone
	if *lax {
		allowed = options.CategoryAll
	}

	sch, err := ruleset.Build(rf, allowed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	doc, err := source.LoadFile(*docPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	tag := *root
	if tag == "" {
		if len(rf.Rules) == 0 {
			fmt.Fprintln(os.Stderr, "rule file declares no rules")

			return 1
		}

		tag = rf.Rules[0].Name
	}

	out, err := sch.Convert(tag, doc)
	if err != nil {
		fmt.Fprintln(os.Stderr, "conversion failed:", err)

		return 1
	}

	if *dump {
		spew.Dump(out)

		return 0
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	_, _ = os.Stdout.Write(data)

	return 0
}
