// Package openapi loads OpenAPI documents from URLs or filesystem paths.
//
// Loading is a pure function of the source: one read attempt per call, no
// caching, no retries. Retry policy belongs to the sync scheduler's next
// cycle, not to the loader.
package openapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/spec-sync/pkg/syncerrors"
)

// DefaultHTTPTimeout bounds the single fetch attempt for URL sources.
const DefaultHTTPTimeout = 30 * time.Second

// PathDecl records one path and its operations in declaration order.
type PathDecl struct {
	Path string
	// Methods are the HTTP methods declared under the path, upper-cased,
	// in document order.
	Methods []string
}

// Document is a loaded spec: the parsed kin-openapi tree plus the path
// declaration order, which kin-openapi's map-based model does not retain.
type Document struct {
	T *openapi3.T
	// Paths lists path items in spec declaration order.
	Paths []PathDecl
	// Source is the URL or file path the document was loaded from.
	Source string
}

// Load reads and parses an OpenAPI document from a URL or file path.
//
// A failed read yields a *syncerrors.SpecUnreachableError; bytes that do
// not parse yield a *syncerrors.SpecParseError.
func Load(ctx context.Context, source string) (*Document, error) {
	raw, err := fetch(ctx, source)
	if err != nil {
		return nil, &syncerrors.SpecUnreachableError{Source: source, Cause: err}
	}
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, &syncerrors.SpecParseError{Source: source, Cause: err}
	}
	order, err := pathOrder(raw)
	if err != nil {
		return nil, &syncerrors.SpecParseError{Source: source, Cause: err}
	}
	return &Document{T: doc, Paths: order, Source: source}, nil
}

// fetch obtains the raw spec bytes. URLs get a single GET with a bounded
// timeout; everything else is treated as a filesystem path.
func fetch(ctx context.Context, source string) ([]byte, error) {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		client := &http.Client{Timeout: DefaultHTTPTimeout}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("http %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(source)
}

// operation keys recognized under a path item, per the OpenAPI object model.
var methodKeys = map[string]string{
	"get": "GET", "post": "POST", "put": "PUT", "patch": "PATCH",
	"delete": "DELETE", "options": "OPTIONS", "head": "HEAD", "trace": "TRACE",
}

// pathOrder recovers path and method declaration order from the raw bytes.
// yaml.v3 handles both YAML and JSON input and keeps mapping key order.
func pathOrder(raw []byte) ([]PathDecl, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	paths := mappingValue(doc, "paths")
	if paths == nil || paths.Kind != yaml.MappingNode {
		return nil, nil
	}
	var out []PathDecl
	for i := 0; i+1 < len(paths.Content); i += 2 {
		key, val := paths.Content[i], paths.Content[i+1]
		decl := PathDecl{Path: key.Value}
		if val.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(val.Content); j += 2 {
				if m, ok := methodKeys[val.Content[j].Value]; ok {
					decl.Methods = append(decl.Methods, m)
				}
			}
		}
		out = append(out, decl)
	}
	return out, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// Validate loads a document and runs kin-openapi validation against it.
// The sync pipeline itself never validates; this backs the CLI's validate
// command.
func Validate(ctx context.Context, source string) error {
	doc, err := Load(ctx, source)
	if err != nil {
		return err
	}
	return doc.T.Validate(ctx)
}
