// Package naming derives stable identifier names for generated types and
// endpoints.
//
// Derivation is deterministic: the same inputs in the same declaration
// order always yield the same names, which is what keeps regeneration
// idempotent. Names are unique within one API namespace; colliding
// derivations get a numeric suffix in declaration order.
package naming

import (
	"strconv"
	"strings"

	"github.com/blimu-dev/spec-sync/pkg/syncerrors"
	"github.com/blimu-dev/spec-sync/pkg/utils"
)

// Input carries everything a name can be derived from.
type Input struct {
	// SchemaName is the component schema name, when naming a type for one.
	SchemaName string
	// OperationID is the spec's operation identifier, possibly empty.
	OperationID string
	Method      string
	Path        string
	// StatusCode is the response code a derived type belongs to.
	StatusCode string
	// Kind is the artifact kind suffix, e.g. "Request" or "Response".
	Kind string
}

// Formatter fully overrides default derivation when configured.
type Formatter func(Input) string

// Options configures a Namer.
type Options struct {
	// Prefix is prepended to every type name.
	Prefix string
	// UseOperationID prefers the operation identifier over method+path
	// derivation when one is present.
	UseOperationID bool
	// TypeFormatter and EndpointFormatter replace the default derivation
	// entirely; they receive the same inputs.
	TypeFormatter     Formatter
	EndpointFormatter Formatter
}

// suffix attempts are bounded so a pathological namespace fails loudly
// instead of spinning.
const maxSuffixAttempts = 10000

// Namer produces unique names for one API namespace.
type Namer struct {
	opts  Options
	taken map[string]bool
	memo  map[string]string
}

func New(opts Options) *Namer {
	return &Namer{opts: opts, taken: map[string]bool{}, memo: map[string]string{}}
}

// TypeName derives a type identifier. Component schemas name themselves;
// anonymous operation schemas derive from method, path, status code and
// artifact kind. Repeated calls with identical inputs return the same
// name rather than burning a disambiguation suffix.
func (n *Namer) TypeName(in Input) (string, error) {
	key := "t\x00" + memoKey(in)
	if name, ok := n.memo[key]; ok {
		return name, nil
	}
	var base string
	switch {
	case n.opts.TypeFormatter != nil:
		base = n.opts.TypeFormatter(in)
	case in.SchemaName != "":
		base = n.opts.Prefix + utils.ToPascalCase(in.SchemaName)
	case n.opts.UseOperationID && in.OperationID != "":
		base = n.opts.Prefix + utils.ToPascalCase(in.OperationID) + in.Kind
	default:
		base = n.opts.Prefix + utils.ToPascalCase(strings.Join(n.deriveWords(in), " "))
	}
	return n.reserve(key, base)
}

// EndpointName derives an endpoint identifier in camelCase.
func (n *Namer) EndpointName(in Input) (string, error) {
	key := "e\x00" + memoKey(in)
	if name, ok := n.memo[key]; ok {
		return name, nil
	}
	var base string
	switch {
	case n.opts.EndpointFormatter != nil:
		base = n.opts.EndpointFormatter(in)
	case n.opts.UseOperationID && in.OperationID != "":
		base = utils.ToCamelCase(in.OperationID)
	default:
		base = utils.ToCamelCase(strings.Join(n.deriveWords(in), " "))
	}
	return n.reserve(key, base)
}

// deriveWords implements the default method+path+code+kind derivation:
// slashes become separators and variable delimiters are stripped.
func (n *Namer) deriveWords(in Input) []string {
	words := []string{strings.ToLower(in.Method)}
	words = append(words, utils.SanitizePathWords(in.Path)...)
	if in.StatusCode != "" {
		words = append(words, in.StatusCode)
	}
	if in.Kind != "" {
		words = append(words, in.Kind)
	}
	return words
}

// reserve claims base, appending a declaration-order suffix on collision.
func (n *Namer) reserve(key, base string) (string, error) {
	if base == "" {
		base = "unnamed"
	}
	name := base
	for i := 2; n.taken[name]; i++ {
		if i > maxSuffixAttempts {
			return "", &syncerrors.NameCollisionError{Name: base}
		}
		name = base + strconv.Itoa(i)
	}
	n.taken[name] = true
	n.memo[key] = name
	return name, nil
}

func memoKey(in Input) string {
	return strings.Join([]string{in.SchemaName, in.OperationID, in.Method, in.Path, in.StatusCode, in.Kind}, "\x00")
}
