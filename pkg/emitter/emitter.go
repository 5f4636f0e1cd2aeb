// Package emitter defines the generated-file write stage shared by all
// artifact emitters.
package emitter

import (
	"os"
	"path/filepath"
	"time"

	"github.com/blimu-dev/spec-sync/pkg/ir"
	"github.com/blimu-dev/spec-sync/pkg/preserve"
	"github.com/blimu-dev/spec-sync/pkg/syncerrors"
)

// Header opens every generated file.
const Header = "// Code generated by spec-sync. DO NOT EDIT."

// Writer persists generated files under one API's output directory,
// splicing preserved custom-code regions before overwrite.
type Writer struct {
	// Root is the API's output directory.
	Root string
	// PreserveCustom enables custom-code region handling for files that
	// declare a preserve slot.
	PreserveCustom bool
	// Position places the preserved region in regenerated files.
	Position preserve.Position
}

// Write materializes one generated file. Failures yield a
// *syncerrors.WriteError, fatal to the owning API's pass only.
func (w *Writer) Write(f ir.File) error {
	target := filepath.Join(w.Root, f.Path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return &syncerrors.WriteError{Path: target, Cause: err}
	}

	body := f.Body
	if w.PreserveCustom && f.PreserveSlot {
		region := ""
		if prev, err := os.ReadFile(target); err == nil {
			region, _ = preserve.Extract(string(prev))
		}
		body = preserve.Splice(body, region, w.Position)
	}

	// Atomic write: temp file in place, then rename.
	tmp := target + ".tmp-" + time.Now().Format("20060102150405.000000000")
	if err := os.WriteFile(tmp, []byte(body), 0o644); err != nil {
		return &syncerrors.WriteError{Path: target, Cause: err}
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return &syncerrors.WriteError{Path: target, Cause: err}
	}
	return nil
}
