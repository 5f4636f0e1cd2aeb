package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec-sync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
refetchInterval: 5000
outDir: ./out
apis:
  petstore: https://example.com/openapi.json
types:
  prefix: Api
  useOperationId: true
endpoints:
  showCurl: true
  excludeTags: [internal]
client:
  enabled: true
  type: react-query
validation:
  library: zod
customCode:
  enabled: true
  position: start
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Interval())
	assert.True(t, filepath.IsAbs(cfg.OutDir))
	assert.Equal(t, "https://example.com/openapi.json", cfg.APIs["petstore"])
	assert.Equal(t, "Api", cfg.Types.Prefix)
	assert.True(t, cfg.Types.UseOperationID)
	assert.True(t, cfg.Endpoints.ShowCurl)
	assert.Equal(t, []string{"internal"}, cfg.Endpoints.ExcludeTags)
	assert.Equal(t, "react-query", cfg.Client.Type)
	assert.Equal(t, "client", cfg.Client.OutDir)
	assert.Equal(t, "zod", cfg.Validation.Library)
	assert.Equal(t, "start", cfg.CustomCode.Position)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
apis:
  petstore: ./openapi.yaml
client:
  enabled: true
customCode:
  enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.Interval())
	assert.True(t, filepath.IsAbs(cfg.OutDir))
	assert.Equal(t, "fetch", cfg.Client.Type)
	assert.Equal(t, "client", cfg.Client.OutDir)
	assert.Equal(t, "end", cfg.CustomCode.Position)
	// Relative file sources become absolute; URLs stay untouched.
	assert.True(t, filepath.IsAbs(cfg.APIs["petstore"]))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNormalizeRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no apis", Config{}},
		{"negative interval", Config{RefetchInterval: -1, APIs: map[string]string{"a": "x"}}},
		{"empty source", Config{APIs: map[string]string{"a": ""}}},
		{
			"bad client type",
			Config{APIs: map[string]string{"a": "x"}, Client: ClientOptions{Enabled: true, Type: "graphql"}},
		},
		{
			"bad validation library",
			Config{APIs: map[string]string{"a": "x"}, Validation: ValidationOptions{Library: "ajv"}},
		},
		{
			"bad custom code position",
			Config{APIs: map[string]string{"a": "x"}, CustomCode: CustomCodeOptions{Enabled: true, Position: "middle"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Normalize())
		})
	}
}

func TestAPINamesSorted(t *testing.T) {
	cfg := Config{APIs: map[string]string{"zoo": "x", "admin": "y", "pets": "z"}}
	assert.Equal(t, []string{"admin", "pets", "zoo"}, cfg.APINames())
}
