// Package validation converts resolved schema nodes into runtime
// validation declarations for one of the supported libraries.
//
// The traversal mirrors the type emitter's: same definitions in the same
// order, same field sets with the same optionality, so the validation
// artifact stays structurally in lockstep with the types artifact.
package validation

import (
	"fmt"
	"strings"

	"github.com/blimu-dev/spec-sync/pkg/emitter"
	"github.com/blimu-dev/spec-sync/pkg/ir"
	"github.com/blimu-dev/spec-sync/pkg/resolver"
	"github.com/blimu-dev/spec-sync/pkg/utils"
)

// Library selects the validation convention.
type Library string

const (
	Zod Library = "zod"
	Yup Library = "yup"
	Joi Library = "joi"
)

// Render emits the validation-schemas artifact for the configured
// library. names maps canonical schema names to emitted type names; the
// exported validator for a schema is its type name plus "Schema".
func Render(table *resolver.Table, names map[string]string, lib Library) (ir.File, error) {
	var rules ruleSet
	switch lib {
	case Zod:
		rules = zodRules{}
	case Yup:
		rules = yupRules{}
	case Joi:
		rules = joiRules{}
	default:
		return ir.File{}, fmt.Errorf("unsupported validation library %q", lib)
	}

	var b strings.Builder
	b.WriteString(emitter.Header)
	b.WriteString("\n")
	b.WriteString(rules.importLine())
	b.WriteString("\n")
	for _, def := range table.Defs() {
		b.WriteString("\n")
		b.WriteString(rules.declare(schemaName(def.Name, names), def.Schema, names))
		b.WriteString("\n")
	}
	return ir.File{Path: "schemas.ts", Body: b.String(), PreserveSlot: true}, nil
}

func schemaName(canonical string, names map[string]string) string {
	if n, ok := names[canonical]; ok {
		return n + "Schema"
	}
	return canonical + "Schema"
}

// ruleSet is one library's rendering convention.
type ruleSet interface {
	importLine() string
	declare(name string, s *ir.Schema, names map[string]string) string
	rule(s *ir.Schema, names map[string]string) string
}

func quoteAll(vals []string, base string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		switch base {
		case "number", "integer":
			out = append(out, v)
		case "boolean":
			out = append(out, v)
		default:
			out = append(out, `"`+v+`"`)
		}
	}
	return out
}

// --- zod ---

type zodRules struct{}

func (zodRules) importLine() string { return `import { z } from "zod";` }

func (z zodRules) declare(name string, s *ir.Schema, names map[string]string) string {
	return "export const " + name + " = " + z.rule(s, names) + ";"
}

func (z zodRules) rule(s *ir.Schema, names map[string]string) string {
	if s == nil {
		return "z.unknown()"
	}
	var r string
	switch s.Kind {
	case ir.KindPrimitive:
		switch s.Primitive {
		case "string":
			r = "z.string()"
		case "integer", "number":
			r = "z.number()"
		case "boolean":
			r = "z.boolean()"
		default:
			r = "z.unknown()"
		}
	case ir.KindRef:
		r = "z.lazy(() => " + schemaName(s.Ref, names) + ")"
	case ir.KindArray:
		r = "z.array(" + z.rule(s.Items, names) + ")"
	case ir.KindEnum:
		if s.EnumBase == "string" {
			r = "z.enum([" + strings.Join(quoteAll(s.EnumValues, "string"), ", ") + "])"
		} else if len(s.EnumValues) == 1 {
			r = "z.literal(" + s.EnumValues[0] + ")"
		} else {
			lits := make([]string, 0, len(s.EnumValues))
			for _, v := range quoteAll(s.EnumValues, s.EnumBase) {
				lits = append(lits, "z.literal("+v+")")
			}
			r = "z.union([" + strings.Join(lits, ", ") + "])"
		}
	case ir.KindUnion:
		if len(s.Variants) == 0 {
			r = "z.unknown()"
		} else if len(s.Variants) == 1 {
			r = z.rule(s.Variants[0], names)
		} else if s.Intersect {
			r = z.rule(s.Variants[0], names)
			for _, v := range s.Variants[1:] {
				r = "z.intersection(" + r + ", " + z.rule(v, names) + ")"
			}
		} else {
			parts := make([]string, 0, len(s.Variants))
			for _, v := range s.Variants {
				parts = append(parts, z.rule(v, names))
			}
			r = "z.union([" + strings.Join(parts, ", ") + "])"
		}
	case ir.KindObject:
		if len(s.Fields) == 0 {
			r = "z.record(z.string(), z.unknown())"
		} else {
			var b strings.Builder
			b.WriteString("z.object({ ")
			for i, f := range s.Fields {
				if i > 0 {
					b.WriteString(", ")
				}
				fr := z.rule(f.Schema, names)
				if !f.Required {
					fr += ".optional()"
				}
				b.WriteString(utils.QuoteTSProperty(f.Name) + ": " + fr)
			}
			b.WriteString(" })")
			r = b.String()
		}
	default:
		r = "z.unknown()"
	}
	if s.Nullable {
		r += ".nullable()"
	}
	return r
}

// --- yup ---

type yupRules struct{}

func (yupRules) importLine() string { return `import * as yup from "yup";` }

func (y yupRules) declare(name string, s *ir.Schema, names map[string]string) string {
	return "export const " + name + " = " + y.rule(s, names) + ";"
}

func (y yupRules) rule(s *ir.Schema, names map[string]string) string {
	if s == nil {
		return "yup.mixed()"
	}
	var r string
	switch s.Kind {
	case ir.KindPrimitive:
		switch s.Primitive {
		case "string":
			r = "yup.string()"
		case "integer", "number":
			r = "yup.number()"
		case "boolean":
			r = "yup.boolean()"
		default:
			r = "yup.mixed()"
		}
	case ir.KindRef:
		r = "yup.lazy(() => " + schemaName(s.Ref, names) + ")"
	case ir.KindArray:
		r = "yup.array().of(" + y.rule(s.Items, names) + ")"
	case ir.KindEnum:
		base := "yup.mixed()"
		switch s.EnumBase {
		case "string":
			base = "yup.string()"
		case "number", "integer":
			base = "yup.number()"
		case "boolean":
			base = "yup.boolean()"
		}
		r = base + ".oneOf([" + strings.Join(quoteAll(s.EnumValues, s.EnumBase), ", ") + "])"
	case ir.KindUnion:
		// yup has no native unions; mixed keeps the field present with
		// matching optionality.
		r = "yup.mixed()"
	case ir.KindObject:
		var b strings.Builder
		b.WriteString("yup.object({ ")
		for i, f := range s.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fr := y.rule(f.Schema, names)
			if f.Required {
				fr += ".required()"
			}
			b.WriteString(utils.QuoteTSProperty(f.Name) + ": " + fr)
		}
		b.WriteString(" })")
		r = b.String()
	default:
		r = "yup.mixed()"
	}
	if s.Nullable {
		r += ".nullable()"
	}
	return r
}

// --- joi ---

type joiRules struct{}

func (joiRules) importLine() string { return `import Joi from "joi";` }

func (j joiRules) declare(name string, s *ir.Schema, names map[string]string) string {
	// The id lets cyclic schemas resolve their Joi.link back-references.
	id := strings.TrimSuffix(name, "Schema")
	return "export const " + name + " = " + j.rule(s, names) + `.id("` + id + `");`
}

func (j joiRules) rule(s *ir.Schema, names map[string]string) string {
	if s == nil {
		return "Joi.any()"
	}
	var r string
	switch s.Kind {
	case ir.KindPrimitive:
		switch s.Primitive {
		case "string":
			r = "Joi.string()"
		case "integer", "number":
			r = "Joi.number()"
		case "boolean":
			r = "Joi.boolean()"
		default:
			r = "Joi.any()"
		}
	case ir.KindRef:
		r = `Joi.link("#` + strings.TrimSuffix(schemaName(s.Ref, names), "Schema") + `")`
	case ir.KindArray:
		r = "Joi.array().items(" + j.rule(s.Items, names) + ")"
	case ir.KindEnum:
		base := "Joi.any()"
		switch s.EnumBase {
		case "string":
			base = "Joi.string()"
		case "number", "integer":
			base = "Joi.number()"
		case "boolean":
			base = "Joi.boolean()"
		}
		r = base + ".valid(" + strings.Join(quoteAll(s.EnumValues, s.EnumBase), ", ") + ")"
	case ir.KindUnion:
		if len(s.Variants) == 0 {
			r = "Joi.any()"
		} else {
			parts := make([]string, 0, len(s.Variants))
			for _, v := range s.Variants {
				parts = append(parts, j.rule(v, names))
			}
			if s.Intersect {
				r = `Joi.alternatives().match("all").try(` + strings.Join(parts, ", ") + ")"
			} else {
				r = "Joi.alternatives().try(" + strings.Join(parts, ", ") + ")"
			}
		}
	case ir.KindObject:
		var b strings.Builder
		b.WriteString("Joi.object({ ")
		for i, f := range s.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fr := j.rule(f.Schema, names)
			if f.Required {
				fr += ".required()"
			}
			b.WriteString(utils.QuoteTSProperty(f.Name) + ": " + fr)
		}
		b.WriteString(" })")
		r = b.String()
	default:
		r = "Joi.any()"
	}
	if s.Nullable {
		r += ".allow(null)"
	}
	return r
}
