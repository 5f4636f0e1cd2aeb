// Package syncerrors provides structured error types for spec-sync.
//
// Every failure the engine can surface maps to one typed error so callers
// can distinguish categories with errors.Is / errors.As:
//
//   - SpecUnreachableError: the spec source could not be fetched or read
//   - SpecParseError: the fetched bytes are not a usable document
//   - UnresolvedReferenceError: a $ref target does not exist in the document
//   - NameCollisionError: disambiguation could not produce a unique name
//   - WriteError: a generated file could not be written
//
// Unreachable, parse, collision and write errors are fatal to a single
// API's pass; unresolved references only degrade the affected field.
package syncerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	ErrSpecUnreachable     = errors.New("spec unreachable")
	ErrSpecParse           = errors.New("spec parse error")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrNameCollision       = errors.New("name collision")
	ErrWrite               = errors.New("write error")
)

// SpecUnreachableError reports that a spec source (URL or file path) could
// not be read.
type SpecUnreachableError struct {
	// Source is the URL or filesystem path that failed.
	Source string
	Cause  error
}

func (e *SpecUnreachableError) Error() string {
	return fmt.Sprintf("spec unreachable: %s: %v", e.Source, e.Cause)
}

func (e *SpecUnreachableError) Unwrap() error { return e.Cause }

func (e *SpecUnreachableError) Is(target error) bool { return target == ErrSpecUnreachable }

// SpecParseError reports that spec bytes were fetched but could not be
// parsed as JSON or YAML, or do not form an OpenAPI document tree.
type SpecParseError struct {
	Source string
	Cause  error
}

func (e *SpecParseError) Error() string {
	return fmt.Sprintf("parse spec %s: %v", e.Source, e.Cause)
}

func (e *SpecParseError) Unwrap() error { return e.Cause }

func (e *SpecParseError) Is(target error) bool { return target == ErrSpecParse }

// UnresolvedReferenceError reports a dangling $ref. The resolver records
// it, skips the offending field and continues the pass.
type UnresolvedReferenceError struct {
	// Ref is the reference string as written in the document.
	Ref string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %q", e.Ref)
}

func (e *UnresolvedReferenceError) Is(target error) bool { return target == ErrUnresolvedReference }

// NameCollisionError reports that the naming engine exhausted its
// disambiguation attempts for a base name.
type NameCollisionError struct {
	Name string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("cannot produce a unique name for %q", e.Name)
}

func (e *NameCollisionError) Is(target error) bool { return target == ErrNameCollision }

// WriteError reports a generated file that could not be written.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }

func (e *WriteError) Is(target error) bool { return target == ErrWrite }
