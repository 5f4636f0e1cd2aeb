// Package endpoints converts operations into endpoint descriptors:
// templated path, extracted path variables, HTTP method and optional
// documentation. Emission follows spec declaration order.
package endpoints

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/spec-sync/pkg/emitter"
	"github.com/blimu-dev/spec-sync/pkg/ir"
	"github.com/blimu-dev/spec-sync/pkg/naming"
	"github.com/blimu-dev/spec-sync/pkg/openapi"
	"github.com/blimu-dev/spec-sync/pkg/resolver"
	"github.com/blimu-dev/spec-sync/pkg/utils"
)

// Token is one piece of a tokenized path template: either a literal run
// or a path variable.
type Token struct {
	Literal string
	// Var is the variable name when the token is a path variable.
	Var string
}

// Tokenize splits a path template into literals and variables. Three
// variable syntaxes are supported simultaneously: {name}, <name> and
// :name. A delimited name that does not match the identifier grammar is
// treated as literal text, not as a variable.
func Tokenize(path string) []Token {
	var tokens []Token
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, Token{Literal: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c == '{' || c == '<':
			close := byte('}')
			if c == '<' {
				close = '>'
			}
			j := strings.IndexByte(path[i+1:], close)
			if j >= 0 {
				name := path[i+1 : i+1+j]
				if utils.IsIdentifier(name) {
					flush()
					tokens = append(tokens, Token{Var: name})
				} else {
					// Invalid name: not a path variable, stays literal.
					lit.WriteString(path[i : i+j+2])
				}
				i += j + 1
				continue
			}
			lit.WriteByte(c)
		case c == ':' && (i == 0 || path[i-1] == '/'):
			j := strings.IndexByte(path[i+1:], '/')
			end := len(path)
			if j >= 0 {
				end = i + 1 + j
			}
			name := path[i+1 : end]
			if utils.IsIdentifier(name) {
				flush()
				tokens = append(tokens, Token{Var: name})
			} else {
				lit.WriteString(path[i:end])
			}
			i = end - 1
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return tokens
}

// ExtractPathVars returns the path-variable names in left-to-right order.
// Repeats are kept unless dedupe collapses them to the first occurrence.
func ExtractPathVars(path string, dedupe bool) []string {
	vars := []string{}
	seen := map[string]bool{}
	for _, tok := range Tokenize(path) {
		if tok.Var == "" {
			continue
		}
		if dedupe {
			if seen[tok.Var] {
				continue
			}
			seen[tok.Var] = true
		}
		vars = append(vars, tok.Var)
	}
	return vars
}

// Options controls descriptor construction.
type Options struct {
	// ShowCurl adds an example request line to each endpoint's docs.
	ShowCurl bool
	// ExcludeTags drops operations carrying any of these tags.
	ExcludeTags []string
	// DedupeVars collapses repeated path-variable names.
	DedupeVars bool
	// BaseURL overrides the document's first server URL in curl examples.
	BaseURL string
}

// BuildParams gathers the collaborators for one API's endpoint pass.
type BuildParams struct {
	Doc      *openapi.Document
	Resolver *resolver.Resolver
	Namer    *naming.Namer
	// TypeNames maps canonical schema names to emitted type names; Build
	// extends it with anonymous request/response types it registers.
	TypeNames map[string]string
	Opts      Options
}

// Build produces one ir.Endpoint per operation in declaration order.
func Build(p BuildParams) ([]ir.Endpoint, error) {
	base := p.Opts.BaseURL
	if base == "" && len(p.Doc.T.Servers) > 0 {
		base = strings.TrimSuffix(p.Doc.T.Servers[0].URL, "/")
	}
	excluded := map[string]bool{}
	for _, t := range p.Opts.ExcludeTags {
		excluded[t] = true
	}

	var eps []ir.Endpoint
	for _, decl := range p.Doc.Paths {
		item := p.Doc.T.Paths.Value(decl.Path)
		if item == nil {
			continue
		}
		for _, method := range decl.Methods {
			op := item.GetOperation(method)
			if op == nil || hasExcludedTag(op.Tags, excluded) {
				continue
			}
			ep, err := buildOne(p, decl.Path, method, op, base)
			if err != nil {
				return nil, err
			}
			eps = append(eps, ep)
		}
	}
	return eps, nil
}

func buildOne(p BuildParams, path, method string, op *openapi3.Operation, base string) (ir.Endpoint, error) {
	in := naming.Input{OperationID: op.OperationID, Method: method, Path: path}
	name, err := p.Namer.EndpointName(in)
	if err != nil {
		return ir.Endpoint{}, err
	}

	code, respSchema := pickResponse(op)
	in.StatusCode = code

	respType := "void"
	if respSchema != nil {
		respType, err = p.typeNameFor(respSchema, in, "Response")
		if err != nil {
			return ir.Endpoint{}, err
		}
	}
	reqType := ""
	if reqSchema := pickRequestBody(op); reqSchema != nil {
		reqType, err = p.typeNameFor(reqSchema, in, "Request")
		if err != nil {
			return ir.Endpoint{}, err
		}
	}

	ep := ir.Endpoint{
		Name:         name,
		Method:       method,
		Path:         path,
		PathVars:     ExtractPathVars(path, p.Opts.DedupeVars),
		Tags:         append([]string(nil), op.Tags...),
		RequestType:  reqType,
		ResponseType: respType,
		Doc:          opDoc(op),
	}
	if p.Opts.ShowCurl {
		ep.Curl = `curl -X ` + method + ` "` + base + path + `"`
	}
	return ep, nil
}

// typeNameFor names an operation schema: references reuse their component
// type name, inline shapes get a derived name and are registered with the
// resolver as anonymous definitions.
func (p BuildParams) typeNameFor(sr *openapi3.SchemaRef, in naming.Input, kind string) (string, error) {
	if sr.Ref != "" {
		registered := p.Resolver.Register("", sr)
		if registered == "" {
			return "unknown", nil
		}
		tn, err := p.Namer.TypeName(naming.Input{SchemaName: registered})
		if err != nil {
			return "", err
		}
		p.TypeNames[registered] = tn
		return tn, nil
	}
	in.Kind = kind
	tn, err := p.Namer.TypeName(in)
	if err != nil {
		return "", err
	}
	if p.Resolver.Register(tn, sr) == "" {
		return "unknown", nil
	}
	p.TypeNames[tn] = tn
	return tn, nil
}

func hasExcludedTag(tags []string, excluded map[string]bool) bool {
	for _, t := range tags {
		if excluded[t] {
			return true
		}
	}
	return false
}

// pickResponse chooses the operation's primary success response: 200,
// then 201, then any 2xx. 204 and schema-less responses yield nil.
func pickResponse(op *openapi3.Operation) (string, *openapi3.SchemaRef) {
	if op.Responses == nil {
		return "", nil
	}
	m := op.Responses.Map()
	var extra []string
	for code := range m {
		if len(code) == 3 && code[0] == '2' && code != "200" && code != "201" && code != "204" {
			extra = append(extra, code)
		}
	}
	sort.Strings(extra)
	codes := append([]string{"200", "201"}, extra...)
	for _, code := range codes {
		rr, ok := m[code]
		if !ok || rr == nil || rr.Value == nil {
			continue
		}
		if media, ok := rr.Value.Content["application/json"]; ok && media.Schema != nil {
			return code, media.Schema
		}
		for _, ct := range sortedContentTypes(rr.Value.Content) {
			if media := rr.Value.Content[ct]; media.Schema != nil {
				return code, media.Schema
			}
		}
	}
	return "", nil
}

func sortedContentTypes(content openapi3.Content) []string {
	types := make([]string, 0, len(content))
	for ct := range content {
		types = append(types, ct)
	}
	sort.Strings(types)
	return types
}

func pickRequestBody(op *openapi3.Operation) *openapi3.SchemaRef {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	if media, ok := content["application/json"]; ok {
		return media.Schema
	}
	for _, ct := range sortedContentTypes(content) {
		return content[ct].Schema
	}
	return nil
}

func opDoc(op *openapi3.Operation) string {
	switch {
	case op.Summary != "" && op.Description != "":
		return op.Summary + "\n\n" + op.Description
	case op.Summary != "":
		return op.Summary
	default:
		return op.Description
	}
}

// Render emits the endpoints artifact: one descriptor constant per
// endpoint plus an aggregate map for introspection.
func Render(eps []ir.Endpoint) ir.File {
	var b strings.Builder
	b.WriteString(emitter.Header)
	b.WriteString("\n")
	for _, ep := range eps {
		b.WriteString("\n")
		writeEndpointDoc(&b, ep)
		b.WriteString("export const " + ep.Name + " = {\n")
		b.WriteString("  method: \"" + ep.Method + "\",\n")
		b.WriteString("  path: \"" + ep.Path + "\",\n")
		b.WriteString("  pathVars: [" + quoteList(ep.PathVars) + "],\n")
		b.WriteString("} as const;\n")
	}
	b.WriteString("\nexport const endpoints = {\n")
	for _, ep := range eps {
		b.WriteString("  " + ep.Name + ",\n")
	}
	b.WriteString("} as const;\n")
	return ir.File{Path: "endpoints.ts", Body: b.String(), PreserveSlot: true}
}

func writeEndpointDoc(b *strings.Builder, ep ir.Endpoint) {
	if ep.Doc == "" && ep.Curl == "" {
		return
	}
	b.WriteString("/**\n")
	if ep.Doc != "" {
		for _, line := range strings.Split(strings.TrimSpace(ep.Doc), "\n") {
			b.WriteString(" * " + line + "\n")
		}
	}
	if ep.Curl != "" {
		if ep.Doc != "" {
			b.WriteString(" *\n")
		}
		b.WriteString(" * @example " + ep.Curl + "\n")
	}
	b.WriteString(" */\n")
}

func quoteList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, it := range items {
		quoted = append(quoted, `"`+it+`"`)
	}
	return strings.Join(quoted, ", ")
}
