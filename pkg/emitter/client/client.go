// Package client renders callable wrappers for endpoint descriptors.
//
// Five paradigms are supported — fetch, axios, react-query, swr and
// rtk-query — each behind the same Emitter capability: given an endpoint
// descriptor and its request/response type names, render one callable
// unit. Emitters share path-building and type-binding logic but are
// otherwise independent; exactly one runs per sync pass.
package client

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/spec-sync/pkg/emitter"
	"github.com/blimu-dev/spec-sync/pkg/emitter/endpoints"
	"github.com/blimu-dev/spec-sync/pkg/ir"
	"github.com/blimu-dev/spec-sync/pkg/utils"
)

// Options configures client rendering for one API.
type Options struct {
	// API is the API name; it seeds cache keys and reducer paths.
	API string
	// BaseURL is baked into the generated wrappers.
	BaseURL string
	// OutDir is the client subdirectory relative to the API directory.
	OutDir string
	// TypesImport is the module specifier for the types artifact.
	TypesImport string
}

// Emitter renders one client paradigm.
type Emitter interface {
	// Type returns the paradigm identifier used in configuration.
	Type() string
	// Render produces the client artifact for an API's endpoints.
	Render(eps []ir.Endpoint, opts Options) (ir.File, error)
}

// Registry holds the available emitters keyed by paradigm.
type Registry struct {
	emitters map[string]Emitter
}

// NewRegistry returns a registry with all built-in paradigms registered.
func NewRegistry() *Registry {
	r := &Registry{emitters: map[string]Emitter{}}
	r.Register(FetchEmitter{})
	r.Register(AxiosEmitter{})
	r.Register(ReactQueryEmitter{})
	r.Register(SWREmitter{})
	r.Register(RTKQueryEmitter{})
	return r
}

func (r *Registry) Register(e Emitter) {
	r.emitters[e.Type()] = e
}

func (r *Registry) Get(paradigm string) (Emitter, bool) {
	e, ok := r.emitters[paradigm]
	return e, ok
}

// Types returns the registered paradigm identifiers.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.emitters))
	for t := range r.emitters {
		out = append(out, t)
	}
	return out
}

// endpointView is the template-ready projection of one endpoint.
type endpointView struct {
	Name     string
	Pascal   string
	HookName string
	Method   string
	Path     string
	// PathExpr is a TypeScript expression producing the concrete path,
	// e.g. "/pets/" + encodeURIComponent(String(id)).
	PathExpr string
	// Params declares path-variable and body parameters, or "".
	Params string
	// CallArgs lists the parameter names for forwarding, or "".
	CallArgs string
	// KeyArgs are cache-key pieces: quoted api and endpoint name
	// followed by the call arguments.
	KeyArgs string
	// ArgObj declares the single-object argument form, "void" when the
	// endpoint takes nothing.
	ArgObj string
	// Destructure is the matching destructuring pattern, "" when void.
	Destructure  string
	HasBody      bool
	RequestType  string
	ResponseType string
	// IsQuery marks GET endpoints; hook paradigms render them as data
	// hooks and everything else as imperative calls.
	IsQuery bool
	Doc     string
}

// fileView is the root template context.
type fileView struct {
	Header string
	API    string
	// APICamel and APIPascal are identifier-safe forms of the API name;
	// templates use these wherever the name lands in TypeScript code.
	APICamel    string
	APIPascal   string
	BaseURL     string
	TypesImport string
	// ImportTypes are the type names the client imports.
	ImportTypes []string
	Endpoints   []endpointView
}

func buildView(eps []ir.Endpoint, opts Options) fileView {
	typesImport := opts.TypesImport
	if typesImport == "" {
		typesImport = "../types"
	}
	v := fileView{
		Header:      emitter.Header,
		API:         opts.API,
		APICamel:    utils.ToCamelCase(opts.API),
		APIPascal:   utils.ToPascalCase(opts.API),
		BaseURL:     opts.BaseURL,
		TypesImport: typesImport,
	}
	seenTypes := map[string]bool{}
	for _, ep := range eps {
		ev := buildEndpointView(ep, opts.API)
		v.Endpoints = append(v.Endpoints, ev)
		for _, t := range []string{ep.RequestType, ep.ResponseType} {
			if t == "" || t == "void" || t == "unknown" || seenTypes[t] {
				continue
			}
			seenTypes[t] = true
			v.ImportTypes = append(v.ImportTypes, t)
		}
	}
	return v
}

func buildEndpointView(ep ir.Endpoint, api string) endpointView {
	pascal := utils.ToPascalCase(ep.Name)
	ev := endpointView{
		Name:         ep.Name,
		Pascal:       pascal,
		HookName:     "use" + pascal,
		Method:       ep.Method,
		Path:         ep.Path,
		PathExpr:     pathExpr(ep.Path),
		HasBody:      ep.RequestType != "",
		RequestType:  ep.RequestType,
		ResponseType: ep.ResponseType,
		IsQuery:      ep.Method == "GET",
		Doc:          ep.Doc,
	}

	// Function parameters: unique path variables in order, then the body.
	var params, names, objFields []string
	seen := map[string]bool{}
	for _, name := range ep.PathVars {
		if seen[name] {
			continue
		}
		seen[name] = true
		params = append(params, name+": string | number")
		objFields = append(objFields, name+": string | number")
		names = append(names, name)
	}
	if ep.RequestType != "" {
		params = append(params, "body: "+ep.RequestType)
		objFields = append(objFields, "body: "+ep.RequestType)
		names = append(names, "body")
	}
	ev.Params = strings.Join(params, ", ")
	ev.CallArgs = strings.Join(names, ", ")

	keyArgs := []string{fmt.Sprintf("%q", api), fmt.Sprintf("%q", ep.Name)}
	keyArgs = append(keyArgs, names...)
	ev.KeyArgs = strings.Join(keyArgs, ", ")

	if len(objFields) == 0 {
		ev.ArgObj = "void"
	} else {
		ev.ArgObj = "{ " + strings.Join(objFields, "; ") + " }"
		ev.Destructure = "{ " + strings.Join(names, ", ") + " }"
	}
	return ev
}

// pathExpr renders a path template as a TypeScript string expression,
// interpolating every valid path variable.
func pathExpr(path string) string {
	toks := endpoints.Tokenize(path)
	if len(toks) == 0 {
		return `""`
	}
	parts := make([]string, 0, len(toks))
	for _, tok := range toks {
		if tok.Var != "" {
			parts = append(parts, "encodeURIComponent(String("+tok.Var+"))")
		} else {
			parts = append(parts, fmt.Sprintf("%q", tok.Literal))
		}
	}
	return strings.Join(parts, " + ")
}

// render executes a paradigm template against the shared view.
func render(name, text string, eps []ir.Endpoint, opts Options) (ir.File, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return ir.File{}, fmt.Errorf("parse %s template: %w", name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, buildView(eps, opts)); err != nil {
		return ir.File{}, fmt.Errorf("render %s client: %w", name, err)
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = "client"
	}
	return ir.File{Path: outDir + "/index.ts", Body: b.String(), PreserveSlot: true}, nil
}
