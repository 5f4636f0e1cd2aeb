// Package types converts resolved schema nodes into TypeScript type
// declarations.
package types

import (
	"strings"

	"github.com/blimu-dev/spec-sync/pkg/emitter"
	"github.com/blimu-dev/spec-sync/pkg/ir"
	"github.com/blimu-dev/spec-sync/pkg/resolver"
	"github.com/blimu-dev/spec-sync/pkg/utils"
)

// Render emits one declaration per table entry into a types artifact.
// names maps canonical schema names to their emitted type identifiers,
// so reference nodes stay lazy by-name and cycles never expand.
func Render(table *resolver.Table, names map[string]string) ir.File {
	var b strings.Builder
	b.WriteString(emitter.Header)
	b.WriteString("\n")
	for _, def := range table.Defs() {
		b.WriteString("\n")
		writeDecl(&b, typeName(def.Name, names), def.Schema, names)
	}
	return ir.File{Path: "types.ts", Body: b.String(), PreserveSlot: true}
}

func writeDecl(b *strings.Builder, name string, s *ir.Schema, names map[string]string) {
	if s.Description != "" {
		writeDoc(b, s.Description)
	}
	if s.Kind == ir.KindObject && !s.Nullable {
		b.WriteString("export interface " + name + " ")
		writeObjectShape(b, s, names, "")
		b.WriteString("\n")
		return
	}
	b.WriteString("export type " + name + " = " + TSType(s, names) + ";\n")
}

// writeObjectShape renders the braced field table of an object schema,
// one field per line at the given indent.
func writeObjectShape(b *strings.Builder, s *ir.Schema, names map[string]string, indent string) {
	b.WriteString("{\n")
	for _, f := range s.Fields {
		opt := ""
		if !f.Required {
			opt = "?"
		}
		b.WriteString(indent + "  " + utils.QuoteTSProperty(f.Name) + opt + ": " + TSType(f.Schema, names) + ";\n")
	}
	b.WriteString(indent + "}")
}

// TSType renders a schema node as a TypeScript type expression.
// Anonymous nested shapes are inlined; references render their emitted
// type name.
func TSType(s *ir.Schema, names map[string]string) string {
	if s == nil {
		return "unknown"
	}
	var t string
	switch s.Kind {
	case ir.KindPrimitive:
		t = primitiveTS(s)
	case ir.KindRef:
		t = typeName(s.Ref, names)
	case ir.KindArray:
		inner := TSType(s.Items, names)
		if strings.Contains(inner, " | ") || strings.Contains(inner, " & ") {
			inner = "(" + inner + ")"
		}
		t = "Array<" + inner + ">"
	case ir.KindEnum:
		t = enumUnion(s)
	case ir.KindUnion:
		sep := " | "
		if s.Intersect {
			sep = " & "
		}
		parts := make([]string, 0, len(s.Variants))
		for _, v := range s.Variants {
			parts = append(parts, TSType(v, names))
		}
		if len(parts) == 0 {
			t = "unknown"
		} else {
			t = strings.Join(parts, sep)
		}
	case ir.KindObject:
		if len(s.Fields) == 0 {
			t = "Record<string, unknown>"
		} else {
			parts := make([]string, 0, len(s.Fields))
			for _, f := range s.Fields {
				opt := ""
				if !f.Required {
					opt = "?"
				}
				parts = append(parts, utils.QuoteTSProperty(f.Name)+opt+": "+TSType(f.Schema, names))
			}
			t = "{ " + strings.Join(parts, "; ") + " }"
		}
	default:
		t = "unknown"
	}
	if s.Nullable && t != "null" {
		t += " | null"
	}
	return t
}

func primitiveTS(s *ir.Schema) string {
	switch s.Primitive {
	case "string":
		if s.Format == "binary" {
			return "Blob"
		}
		return "string"
	case "integer", "number":
		return "number"
	case "boolean":
		return "boolean"
	}
	return "unknown"
}

func enumUnion(s *ir.Schema) string {
	if len(s.EnumValues) == 0 {
		return "unknown"
	}
	vals := make([]string, 0, len(s.EnumValues))
	for _, v := range s.EnumValues {
		switch s.EnumBase {
		case "number", "integer":
			vals = append(vals, v)
		case "boolean":
			if v == "true" || v == "false" {
				vals = append(vals, v)
			} else {
				vals = append(vals, `"`+v+`"`)
			}
		default:
			vals = append(vals, `"`+v+`"`)
		}
	}
	return strings.Join(vals, " | ")
}

func typeName(schemaName string, names map[string]string) string {
	if n, ok := names[schemaName]; ok {
		return n
	}
	return schemaName
}

func writeDoc(b *strings.Builder, text string) {
	b.WriteString("/**\n")
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		b.WriteString(" * " + line + "\n")
	}
	b.WriteString(" */\n")
}
