// Package ir holds the canonical in-memory model that the sync engine
// emits from: resolved schema nodes, endpoint descriptors and generated
// file units. Every emitter consumes this model; none of them reach back
// into the raw OpenAPI document.
package ir

// Kind classifies a resolved schema node.
type Kind string

const (
	KindObject    Kind = "object"
	KindArray     Kind = "array"
	KindEnum      Kind = "enum"
	KindUnion     Kind = "union"
	KindPrimitive Kind = "primitive"
	KindRef       Kind = "ref"
	KindUnknown   Kind = "unknown"
)

// Schema is a dereferenced, cycle-safe form of one spec data shape.
//
// Reference nodes (KindRef) carry only the target's canonical name and are
// resolved lazily by name in emitted output. Back-edges in cyclic schema
// graphs are always represented this way, never by eager inlining, so a
// Schema tree is finite even when the source graph is not.
type Schema struct {
	Kind     Kind
	Nullable bool

	// Primitive holds the scalar base type ("string", "number",
	// "integer", "boolean") when Kind is KindPrimitive.
	Primitive string
	// Format is the OpenAPI format annotation (e.g. "binary", "date-time").
	Format string

	// Fields lists object properties in deterministic order.
	Fields []Field

	// Items is the homogeneous element type of an array.
	Items *Schema

	// EnumValues are the stringified members of a closed value set.
	EnumValues []string
	// EnumBase is the underlying scalar kind of the enum members.
	EnumBase string

	// Variants are the member types of a union (oneOf/anyOf).
	Variants []*Schema
	// Intersect marks an allOf composition: members intersect instead of
	// forming a tagged union.
	Intersect bool

	// Ref is the canonical name of the schema this node points to.
	Ref string

	Description string
}

// Field is one property of an object schema.
type Field struct {
	Name     string
	Schema   *Schema
	Required bool
}

// Endpoint is the engine's record of one operation's emitted identity.
//
// PathVars lists the variables syntactically present in Path in
// left-to-right order. When the source path repeats a variable name the
// repeats are kept unless de-duplication is enabled in configuration.
type Endpoint struct {
	Name         string
	Method       string
	Path         string
	PathVars     []string
	Tags         []string
	RequestType  string
	ResponseType string
	// Doc is the rendered documentation block, empty when docs are off.
	Doc string
	// Curl is an example request line for manual testing, empty unless
	// showCurl is configured.
	Curl string
}

// File is one generated output unit.
type File struct {
	// Path is the target path relative to the API's output directory.
	Path string
	Body string
	// PreserveSlot marks files that carry a custom-code region. The write
	// stage extracts the previous region and splices it into Body before
	// the file is overwritten.
	PreserveSlot bool
}
