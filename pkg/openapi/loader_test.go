package openapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/spec-sync/pkg/syncerrors"
)

const petstoreYAML = `openapi: 3.0.3
info:
  title: petstore
  version: "1.0"
paths:
  /zebras:
    get:
      responses:
        "204": { description: ok }
  /pets:
    get:
      responses:
        "204": { description: ok }
    post:
      responses:
        "204": { description: ok }
  /pets/{petId}:
    delete:
      responses:
        "204": { description: ok }
components:
  schemas:
    Pet:
      type: object
      properties:
        id: { type: integer }
`

const petstoreJSON = `{
  "openapi": "3.0.3",
  "info": { "title": "petstore", "version": "1.0" },
  "paths": {
    "/zebras": { "get": { "responses": { "204": { "description": "ok" } } } },
    "/pets": { "get": { "responses": { "204": { "description": "ok" } } } }
  }
}`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petstoreYAML), 0o644))

	doc, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "petstore", doc.T.Info.Title)
	assert.Equal(t, path, doc.Source)
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(petstoreYAML))
	}))
	defer srv.Close()

	doc, err := Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "petstore", doc.T.Info.Title)
}

// Paths must come out in spec declaration order, not map order.
func TestLoadKeepsDeclarationOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petstoreYAML), 0o644))

	doc, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, doc.Paths, 3)
	assert.Equal(t, "/zebras", doc.Paths[0].Path)
	assert.Equal(t, "/pets", doc.Paths[1].Path)
	assert.Equal(t, "/pets/{petId}", doc.Paths[2].Path)
	assert.Equal(t, []string{"GET", "POST"}, doc.Paths[1].Methods)
}

func TestLoadJSONKeepsDeclarationOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.json")
	require.NoError(t, os.WriteFile(path, []byte(petstoreJSON), 0o644))

	doc, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, doc.Paths, 2)
	assert.Equal(t, "/zebras", doc.Paths[0].Path)
	assert.Equal(t, "/pets", doc.Paths[1].Path)
}

func TestLoadUnreachableFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, syncerrors.ErrSpecUnreachable))
}

func TestLoadUnreachableURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, syncerrors.ErrSpecUnreachable))
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not valid"), 0o644))

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, syncerrors.ErrSpecParse))
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petstoreYAML), 0o644))
	assert.NoError(t, Validate(context.Background(), path))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("openapi: 3.0.3\n"), 0o644))
	assert.Error(t, Validate(context.Background(), bad))
}
