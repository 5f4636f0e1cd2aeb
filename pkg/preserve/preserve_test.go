package preserve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		prev   string
		want   string
		wantOK bool
	}{
		{
			name:   "region present",
			prev:   "generated\n\n" + StartMarker + "\nmy code\n" + EndMarker + "\n",
			want:   "my code",
			wantOK: true,
		},
		{
			name:   "multi-line region kept verbatim",
			prev:   StartMarker + "\nline one\n  indented\n" + EndMarker,
			want:   "line one\n  indented",
			wantOK: true,
		},
		{
			name:   "empty region",
			prev:   StartMarker + "\n" + EndMarker,
			want:   "",
			wantOK: true,
		},
		{
			name:   "no markers",
			prev:   "plain file\n",
			wantOK: false,
		},
		{
			name:   "start marker only",
			prev:   StartMarker + "\norphaned\n",
			wantOK: false,
		},
		{
			name:   "end marker only",
			prev:   "stuff\n" + EndMarker + "\n",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.prev)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpliceEnd(t *testing.T) {
	out := Splice("body\n", "custom", PositionEnd)
	assert.Equal(t, "body\n\n"+StartMarker+"\ncustom\n"+EndMarker+"\n", out)
}

func TestSpliceStart(t *testing.T) {
	out := Splice("body\n", "custom", PositionStart)
	assert.Equal(t, StartMarker+"\ncustom\n"+EndMarker+"\n\nbody\n", out)
}

func TestSpliceEmptyRegionStillEmitsMarkers(t *testing.T) {
	out := Splice("body\n", "", PositionEnd)
	assert.Contains(t, out, StartMarker+"\n"+EndMarker+"\n")
}

// Regenerating with an unchanged region must not grow the file.
func TestRoundTripIsStable(t *testing.T) {
	region := "function mine() {\n  return 1;\n}"
	first := Splice("body\n", region, PositionEnd)

	got, ok := Extract(first)
	assert.True(t, ok)
	assert.Equal(t, region, got)

	second := Splice("body\n", got, PositionEnd)
	assert.Equal(t, first, second)
}
