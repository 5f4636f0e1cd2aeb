package syncer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/spec-sync/pkg/config"
	"github.com/blimu-dev/spec-sync/pkg/preserve"
)

const petstoreSpec = `openapi: 3.0.3
info:
  title: petstore
  version: "1.0"
servers:
  - url: https://api.example.com
paths:
  /pets/{petId}:
    get:
      operationId: getPetById
      tags: [pets]
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: { $ref: "#/components/schemas/Pet" }
  /pets:
    post:
      operationId: createPet
      tags: [pets]
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                name: { type: string }
              required: [name]
      responses:
        "201":
          description: created
          content:
            application/json:
              schema: { $ref: "#/components/schemas/Pet" }
components:
  schemas:
    Pet:
      type: object
      properties:
        id: { type: integer }
        name: { type: string }
      required: [id, name]
`

func specServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(petstoreSpec))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, source string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		OutDir: t.TempDir(),
		APIs:   map[string]string{"petstore": source},
		Types:  config.TypesOptions{UseOperationID: true},
		Client: config.ClientOptions{Enabled: true, Type: "fetch"},
		Validation: config.ValidationOptions{Library: "zod"},
		CustomCode: config.CustomCodeOptions{Enabled: true},
	}
	require.NoError(t, cfg.Normalize())
	return cfg
}

func readFile(t *testing.T, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(parts...))
	require.NoError(t, err)
	return string(data)
}

func TestRunOnceEndToEnd(t *testing.T) {
	srv := specServer(t)
	cfg := testConfig(t, srv.URL)
	s := New(cfg)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, StateIdle, s.State())

	apiDir := filepath.Join(cfg.OutDir, "petstore")

	typesOut := readFile(t, apiDir, "types.ts")
	assert.Contains(t, typesOut, "export interface Pet {")
	assert.Contains(t, typesOut, "  id: number;")
	assert.Contains(t, typesOut, "export interface CreatePetRequest {")

	endpointsOut := readFile(t, apiDir, "endpoints.ts")
	assert.Contains(t, endpointsOut, "export const getPetById = {")
	assert.Contains(t, endpointsOut, `pathVars: ["petId"]`)

	schemasOut := readFile(t, apiDir, "schemas.ts")
	assert.Contains(t, schemasOut, "export const PetSchema = z.object(")

	clientOut := readFile(t, apiDir, "client", "index.ts")
	assert.Contains(t, clientOut, "export async function getPetById(")
	assert.Contains(t, clientOut, `encodeURIComponent(String(petId))`)

	// Endpoints get published to the registry.
	eps, ok := s.Registry().Endpoints("petstore")
	require.True(t, ok)
	require.Len(t, eps, 2)
	assert.Equal(t, "getPetById", eps[0].Name)
	assert.Equal(t, "createPet", eps[1].Name)
}

// Running twice against an unchanged spec must produce identical output.
func TestRunOnceIsIdempotent(t *testing.T) {
	srv := specServer(t)
	cfg := testConfig(t, srv.URL)
	s := New(cfg)

	require.NoError(t, s.RunOnce(context.Background()))
	first := readFile(t, cfg.OutDir, "petstore", "types.ts")

	require.NoError(t, s.RunOnce(context.Background()))
	second := readFile(t, cfg.OutDir, "petstore", "types.ts")
	assert.Equal(t, first, second)
}

func TestCustomCodeSurvivesResync(t *testing.T) {
	srv := specServer(t)
	cfg := testConfig(t, srv.URL)
	s := New(cfg)

	require.NoError(t, s.RunOnce(context.Background()))

	target := filepath.Join(cfg.OutDir, "petstore", "types.ts")
	body := readFile(t, target)
	edited := body[:len(body)-len(preserve.EndMarker)-1] + "export type Mine = string;\n" + preserve.EndMarker + "\n"
	require.NoError(t, os.WriteFile(target, []byte(edited), 0o644))

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Contains(t, readFile(t, target), "export type Mine = string;")
}

// One API failing to sync must not take the others down with it.
func TestUnreachableSiblingIsIsolated(t *testing.T) {
	srv := specServer(t)
	cfg := testConfig(t, srv.URL)
	cfg.APIs["broken"] = filepath.Join(t.TempDir(), "missing.yaml")
	s := New(cfg)

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	// The healthy API still produced output and registry entries.
	assert.FileExists(t, filepath.Join(cfg.OutDir, "petstore", "types.ts"))
	_, ok := s.Registry().Endpoints("petstore")
	assert.True(t, ok)
	_, ok = s.Registry().Endpoints("broken")
	assert.False(t, ok)
}

func TestStopIsTerminal(t *testing.T) {
	srv := specServer(t)
	s := New(testConfig(t, srv.URL))

	s.Stop()
	assert.Equal(t, StateStopped, s.State())
	assert.ErrorIs(t, s.RunOnce(context.Background()), ErrStopped)
	assert.ErrorIs(t, s.GenerateClient("petstore", ""), ErrStopped)

	// Stopping twice is harmless.
	s.Stop()
	assert.Equal(t, StateStopped, s.State())
}

func TestGenerateClientFromRegistry(t *testing.T) {
	srv := specServer(t)
	cfg := testConfig(t, srv.URL)
	s := New(cfg)
	require.NoError(t, s.RunOnce(context.Background()))

	// Emit a different paradigm without re-fetching the spec.
	srv.Close()
	require.NoError(t, s.GenerateClient("petstore", "react-query"))
	out := readFile(t, cfg.OutDir, "petstore", "client", "index.ts")
	assert.Contains(t, out, "useGetPetById")

	assert.Error(t, s.GenerateClient("unknown", ""))
	assert.Error(t, s.GenerateClient("petstore", "graphql"))
}

func TestFolderSplit(t *testing.T) {
	srv := specServer(t)
	cfg := testConfig(t, srv.URL)
	cfg.FolderSplit = true
	s := New(cfg)
	require.NoError(t, s.RunOnce(context.Background()))

	apiDir := filepath.Join(cfg.OutDir, "petstore")
	// Shared types stay at the API root; endpoints and client move under
	// the tag directory.
	assert.FileExists(t, filepath.Join(apiDir, "types.ts"))
	assert.FileExists(t, filepath.Join(apiDir, "pets", "endpoints.ts"))

	clientOut := readFile(t, apiDir, "pets", "client", "index.ts")
	assert.Contains(t, clientOut, `from "../../types";`)
}

// A second Start must not arm another schedule over the first.
func TestStartTwiceKeepsOneTicker(t *testing.T) {
	srv := specServer(t)
	cfg := testConfig(t, srv.URL)
	cfg.RefetchInterval = 3600000
	s := New(cfg)
	defer s.Stop()

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	first := s.ticker
	require.NotNil(t, first)

	require.NoError(t, s.Start(ctx))
	assert.Same(t, first, s.ticker)
}

func TestStartRunsImmediately(t *testing.T) {
	srv := specServer(t)
	cfg := testConfig(t, srv.URL)
	s := New(cfg)
	defer s.Stop()

	require.NoError(t, s.Start(context.Background()))
	assert.FileExists(t, filepath.Join(cfg.OutDir, "petstore", "types.ts"))
}
