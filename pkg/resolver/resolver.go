// Package resolver walks an OpenAPI document's schema graph and produces
// a flat table of canonical ir.Schema nodes.
//
// References are never inlined eagerly: a $ref becomes an ir.KindRef node
// carrying the target's name, and all references to one target share a
// single node. An active-walk set breaks reference cycles by substituting
// the lazy ref node for any schema currently being resolved, so cyclic
// and diamond-shaped schema graphs resolve in finite space.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/spec-sync/pkg/ir"
	"github.com/blimu-dev/spec-sync/pkg/syncerrors"
)

const componentPrefix = "#/components/schemas/"

// Def pairs a canonical schema name with its resolved node.
type Def struct {
	Name   string
	Schema *ir.Schema
}

// Table is the resolver's output: named component schemas in declaration
// order, anonymous schemas registered during endpoint processing, and the
// reference errors encountered along the way.
type Table struct {
	Named     []Def
	Anonymous []Def
	// Errors collects *syncerrors.UnresolvedReferenceError values; each
	// one degraded a single field rather than failing the pass.
	Errors []error

	byName map[string]*ir.Schema
}

// Lookup returns the resolved node for a canonical schema name.
func (t *Table) Lookup(name string) (*ir.Schema, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// Defs returns named then anonymous definitions in emission order.
func (t *Table) Defs() []Def {
	out := make([]Def, 0, len(t.Named)+len(t.Anonymous))
	out = append(out, t.Named...)
	out = append(out, t.Anonymous...)
	return out
}

// Resolver resolves schema subtrees against one document. It is owned by
// a single sync pass and discarded afterwards.
type Resolver struct {
	doc   *openapi3.T
	table *Table
	// active maps schemas on the current walk stack to the name they are
	// being resolved under; hitting one again is a cycle.
	active map[*openapi3.Schema]string
	// refNodes gives every reference to a target one shared node.
	refNodes map[string]*ir.Schema
	anonSeen map[string]struct{}
}

// New builds a resolver and resolves all named component schemas.
func New(doc *openapi3.T) *Resolver {
	r := &Resolver{
		doc:      doc,
		table:    &Table{byName: map[string]*ir.Schema{}},
		active:   map[*openapi3.Schema]string{},
		refNodes: map[string]*ir.Schema{},
		anonSeen: map[string]struct{}{},
	}
	r.resolveComponents()
	return r
}

// Table returns the resolved-schema table.
func (r *Resolver) Table() *Table { return r.table }

func (r *Resolver) resolveComponents() {
	if r.doc.Components == nil || r.doc.Components.Schemas == nil {
		return
	}
	names := make([]string, 0, len(r.doc.Components.Schemas))
	for name := range r.doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sr := r.doc.Components.Schemas[name]
		var node *ir.Schema
		if sr != nil && sr.Ref != "" {
			// Component alias: keep it as a lazy reference.
			node = r.Resolve(sr)
		} else if sr != nil && sr.Value != nil {
			r.active[sr.Value] = name
			node = r.Resolve(sr)
			delete(r.active, sr.Value)
		}
		if node == nil {
			node = &ir.Schema{Kind: ir.KindUnknown}
		}
		r.table.Named = append(r.table.Named, Def{Name: name, Schema: node})
		r.table.byName[name] = node
	}
}

// Register resolves an anonymous schema subtree and files it in the table
// under the given name. Repeated registrations of one name keep the first
// definition. It returns the name, or "" when there is nothing to define.
func (r *Resolver) Register(name string, sr *openapi3.SchemaRef) string {
	if sr == nil {
		return ""
	}
	if sr.Ref != "" {
		// Named schemas stay referenced by their own name.
		node := r.Resolve(sr)
		if node == nil {
			return ""
		}
		return node.Ref
	}
	if _, ok := r.anonSeen[name]; ok {
		return name
	}
	if sr.Value != nil {
		r.active[sr.Value] = name
	}
	node := r.Resolve(sr)
	if sr.Value != nil {
		delete(r.active, sr.Value)
	}
	if node == nil {
		return ""
	}
	r.anonSeen[name] = struct{}{}
	r.table.Anonymous = append(r.table.Anonymous, Def{Name: name, Schema: node})
	r.table.byName[name] = node
	return name
}

// Resolve converts one schema subtree to its canonical node. A dangling
// reference records an UnresolvedReferenceError on the table and returns
// nil; callers skip the affected field.
func (r *Resolver) Resolve(sr *openapi3.SchemaRef) *ir.Schema {
	if sr == nil {
		return &ir.Schema{Kind: ir.KindUnknown}
	}
	if sr.Ref != "" {
		return r.refNode(sr)
	}
	if sr.Value == nil {
		return &ir.Schema{Kind: ir.KindUnknown}
	}
	s := sr.Value
	if name, ok := r.active[s]; ok {
		// Cycle: substitute the lazy reference instead of recursing.
		return r.sharedRef(name)
	}
	r.active[s] = ""
	defer delete(r.active, s)
	return r.resolveValue(s)
}

// refNode maps a $ref to the shared lazy node for its target, checking
// that internal targets actually exist.
func (r *Resolver) refNode(sr *openapi3.SchemaRef) *ir.Schema {
	name := strings.TrimPrefix(sr.Ref, componentPrefix)
	if name == sr.Ref {
		// Not a components/schemas pointer; fall back to the last path
		// segment the way generated names are derived everywhere else.
		parts := strings.Split(sr.Ref, "/")
		name = parts[len(parts)-1]
	} else if r.doc.Components == nil || r.doc.Components.Schemas[name] == nil {
		r.table.Errors = append(r.table.Errors, &syncerrors.UnresolvedReferenceError{Ref: sr.Ref})
		return nil
	}
	if name == "" || (sr.Value == nil && !strings.HasPrefix(sr.Ref, componentPrefix)) {
		r.table.Errors = append(r.table.Errors, &syncerrors.UnresolvedReferenceError{Ref: sr.Ref})
		return nil
	}
	return r.sharedRef(name)
}

func (r *Resolver) sharedRef(name string) *ir.Schema {
	if n, ok := r.refNodes[name]; ok {
		return n
	}
	n := &ir.Schema{Kind: ir.KindRef, Ref: name}
	r.refNodes[name] = n
	return n
}

func (r *Resolver) resolveValue(s *openapi3.Schema) *ir.Schema {
	// Compositions
	if len(s.OneOf) > 0 {
		return r.resolveUnion(s, s.OneOf, false)
	}
	if len(s.AnyOf) > 0 {
		return r.resolveUnion(s, s.AnyOf, false)
	}
	if len(s.AllOf) > 0 {
		return r.resolveUnion(s, s.AllOf, true)
	}

	if len(s.Enum) > 0 {
		vals := make([]string, 0, len(s.Enum))
		for _, v := range s.Enum {
			vals = append(vals, fmt.Sprint(v))
		}
		return &ir.Schema{
			Kind:        ir.KindEnum,
			EnumValues:  vals,
			EnumBase:    enumBase(s),
			Nullable:    s.Nullable,
			Description: s.Description,
		}
	}

	if s.Type != nil {
		switch {
		case s.Type.Is(openapi3.TypeString):
			return &ir.Schema{Kind: ir.KindPrimitive, Primitive: "string", Format: s.Format, Nullable: s.Nullable, Description: s.Description}
		case s.Type.Is(openapi3.TypeInteger):
			return &ir.Schema{Kind: ir.KindPrimitive, Primitive: "integer", Format: s.Format, Nullable: s.Nullable, Description: s.Description}
		case s.Type.Is(openapi3.TypeNumber):
			return &ir.Schema{Kind: ir.KindPrimitive, Primitive: "number", Format: s.Format, Nullable: s.Nullable, Description: s.Description}
		case s.Type.Is(openapi3.TypeBoolean):
			return &ir.Schema{Kind: ir.KindPrimitive, Primitive: "boolean", Nullable: s.Nullable, Description: s.Description}
		case s.Type.Is(openapi3.TypeArray):
			item := r.Resolve(s.Items)
			if item == nil {
				item = &ir.Schema{Kind: ir.KindUnknown}
			}
			return &ir.Schema{Kind: ir.KindArray, Items: item, Nullable: s.Nullable, Description: s.Description}
		case s.Type.Is(openapi3.TypeObject):
			return r.resolveObject(s)
		}
	}
	if len(s.Properties) > 0 {
		// Untyped but shaped like an object.
		return r.resolveObject(s)
	}
	return &ir.Schema{Kind: ir.KindUnknown, Nullable: s.Nullable, Description: s.Description}
}

func (r *Resolver) resolveUnion(s *openapi3.Schema, subs openapi3.SchemaRefs, intersect bool) *ir.Schema {
	variants := make([]*ir.Schema, 0, len(subs))
	for _, sub := range subs {
		v := r.Resolve(sub)
		if v == nil {
			// Dangling member: degrade that member only.
			continue
		}
		variants = append(variants, v)
	}
	return &ir.Schema{
		Kind:        ir.KindUnion,
		Variants:    variants,
		Intersect:   intersect,
		Nullable:    s.Nullable,
		Description: s.Description,
	}
}

func (r *Resolver) resolveObject(s *openapi3.Schema) *ir.Schema {
	names := make([]string, 0, len(s.Properties))
	for n := range s.Properties {
		names = append(names, n)
	}
	sort.Strings(names)
	fields := make([]ir.Field, 0, len(names))
	for _, n := range names {
		ft := r.Resolve(s.Properties[n])
		if ft == nil {
			// Unresolved reference: skip the field, keep the pass alive.
			continue
		}
		fields = append(fields, ir.Field{Name: n, Schema: ft, Required: isRequired(s, n)})
	}
	return &ir.Schema{Kind: ir.KindObject, Fields: fields, Nullable: s.Nullable, Description: s.Description}
}

func isRequired(s *openapi3.Schema, name string) bool {
	for _, n := range s.Required {
		if n == name {
			return true
		}
	}
	return false
}

func enumBase(s *openapi3.Schema) string {
	if s.Type != nil {
		switch {
		case s.Type.Is(openapi3.TypeString):
			return "string"
		case s.Type.Is(openapi3.TypeInteger):
			return "integer"
		case s.Type.Is(openapi3.TypeNumber):
			return "number"
		case s.Type.Is(openapi3.TypeBoolean):
			return "boolean"
		}
	}
	if len(s.Enum) > 0 {
		switch s.Enum[0].(type) {
		case string:
			return "string"
		case int, int32, int64:
			return "integer"
		case float32, float64:
			return "number"
		case bool:
			return "boolean"
		}
	}
	return "unknown"
}
