// Package preserve keeps developer-authored regions of generated files
// alive across regenerations.
//
// A generated file carries exactly one marker-delimited region. Before a
// file is overwritten its region is extracted verbatim; after the new body
// is generated the region is spliced back in at the configured position.
// Content outside the markers is never carried forward and content inside
// is never altered, reordered or parsed.
package preserve

import (
	"strings"
)

// Markers delimit the custom code region inside generated files.
const (
	StartMarker = "// <spec-sync-custom>"
	EndMarker   = "// </spec-sync-custom>"
)

// Position places the region inside a regenerated file.
type Position string

const (
	PositionStart Position = "start"
	PositionEnd   Position = "end"
)

// Extract returns the verbatim contents between the markers of a
// previously generated file. ok is false when the file has no complete
// marker pair, in which case an empty region should be emitted instead.
func Extract(prev string) (region string, ok bool) {
	start := strings.Index(prev, StartMarker)
	if start < 0 {
		return "", false
	}
	rest := prev[start+len(StartMarker):]
	end := strings.Index(rest, EndMarker)
	if end < 0 {
		return "", false
	}
	region = rest[:end]
	// The markers sit on their own lines; trim the newline that follows
	// the start marker and the one before the end marker so a round trip
	// does not grow the region.
	region = strings.TrimPrefix(region, "\n")
	region = strings.TrimSuffix(region, "\n")
	return region, true
}

// Splice inserts the region, wrapped in markers, at the requested position
// of the generated body. An empty region still gets markers so future
// edits have a home.
func Splice(body, region string, pos Position) string {
	block := StartMarker + "\n" + region
	if region != "" {
		block += "\n"
	}
	block += EndMarker + "\n"
	if pos == PositionStart {
		return block + "\n" + body
	}
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return body + "\n" + block
}
