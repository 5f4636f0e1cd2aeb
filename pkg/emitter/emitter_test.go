package emitter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/spec-sync/pkg/ir"
	"github.com/blimu-dev/spec-sync/pkg/preserve"
	"github.com/blimu-dev/spec-sync/pkg/syncerrors"
)

func TestWriteCreatesNestedDirs(t *testing.T) {
	root := t.TempDir()
	w := &Writer{Root: root}
	require.NoError(t, w.Write(ir.File{Path: "pets/client/index.ts", Body: "x\n"}))

	data, err := os.ReadFile(filepath.Join(root, "pets", "client", "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))
}

func TestWritePreservesCustomRegion(t *testing.T) {
	root := t.TempDir()
	w := &Writer{Root: root, PreserveCustom: true, Position: preserve.PositionEnd}

	require.NoError(t, w.Write(ir.File{Path: "types.ts", Body: "v1\n", PreserveSlot: true}))

	// Simulate a developer edit inside the markers.
	target := filepath.Join(root, "types.ts")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	edited := string(data)
	edited = edited[:len(edited)-len(preserve.EndMarker)-1] + "my custom code\n" + preserve.EndMarker + "\n"
	require.NoError(t, os.WriteFile(target, []byte(edited), 0o644))

	// Regenerate with different generated content.
	require.NoError(t, w.Write(ir.File{Path: "types.ts", Body: "v2\n", PreserveSlot: true}))

	data, err = os.ReadFile(target)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "v2\n")
	assert.NotContains(t, out, "v1")
	assert.Contains(t, out, preserve.StartMarker+"\nmy custom code\n"+preserve.EndMarker)
}

func TestWriteWithoutPreserveSlotSkipsMarkers(t *testing.T) {
	root := t.TempDir()
	w := &Writer{Root: root, PreserveCustom: true, Position: preserve.PositionEnd}
	require.NoError(t, w.Write(ir.File{Path: "plain.ts", Body: "x\n"}))

	data, err := os.ReadFile(filepath.Join(root, "plain.ts"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), preserve.StartMarker)
}

func TestWriteErrorType(t *testing.T) {
	// A root that is a file, not a directory.
	rootFile := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(rootFile, []byte("x"), 0o644))

	w := &Writer{Root: rootFile}
	err := w.Write(ir.File{Path: "sub/out.ts", Body: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, syncerrors.ErrWrite))
	var we *syncerrors.WriteError
	assert.True(t, errors.As(err, &we))
}
