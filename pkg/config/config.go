// Package config loads and validates the spec-sync configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration for the synchronization engine.
type Config struct {
	// RefetchInterval is the polling interval in milliseconds; 0 disables
	// polling entirely.
	RefetchInterval int `yaml:"refetchInterval"`
	// OutDir is the root output folder; each API gets a subdirectory.
	OutDir string `yaml:"outDir"`
	// FolderSplit groups endpoint and client output into per-tag
	// subdirectories.
	FolderSplit bool `yaml:"folderSplit"`
	// DedupePathVars collapses repeated path-variable names to their
	// first occurrence.
	DedupePathVars bool `yaml:"dedupePathVars"`
	// APIs maps an API name to its spec source (URL or file path).
	APIs map[string]string `yaml:"apis"`

	Types      TypesOptions      `yaml:"types"`
	Endpoints  EndpointsOptions  `yaml:"endpoints"`
	Client     ClientOptions     `yaml:"client"`
	Validation ValidationOptions `yaml:"validation"`
	CustomCode CustomCodeOptions `yaml:"customCode"`
}

// TypesOptions controls type-name derivation.
type TypesOptions struct {
	Prefix         string `yaml:"prefix"`
	UseOperationID bool   `yaml:"useOperationId"`
}

// EndpointsOptions controls endpoint descriptor output.
type EndpointsOptions struct {
	// ShowCurl adds an example request line to each endpoint's docs.
	ShowCurl bool `yaml:"showCurl"`
	// ExcludeTags drops operations whose tags match any listed tag.
	ExcludeTags []string `yaml:"excludeTags"`
}

// ClientOptions controls client wrapper generation.
type ClientOptions struct {
	Enabled bool `yaml:"enabled"`
	// Type selects the client paradigm: fetch, axios, react-query, swr
	// or rtk-query.
	Type string `yaml:"type"`
	// OutDir is the subdirectory for client output, relative to the
	// API's directory.
	OutDir string `yaml:"outDir"`
	// BaseURL overrides the server URL baked into generated wrappers.
	BaseURL string `yaml:"baseURL"`
}

// ValidationOptions controls runtime-validation schema generation.
type ValidationOptions struct {
	// Library selects the validation convention: zod, yup or joi.
	// Empty disables validation output.
	Library string `yaml:"library"`
}

// CustomCodeOptions controls developer-edit preservation.
type CustomCodeOptions struct {
	Enabled bool `yaml:"enabled"`
	// Position places the preserved region at the "start" or "end" of
	// regenerated files.
	Position string `yaml:"position"`
}

var clientTypes = map[string]bool{
	"fetch":       true,
	"axios":       true,
	"react-query": true,
	"swr":         true,
	"rtk-query":   true,
}

var validationLibraries = map[string]bool{
	"zod": true,
	"yup": true,
	"joi": true,
}

// Interval returns the polling interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.RefetchInterval) * time.Millisecond
}

// APINames returns the configured API names in deterministic order.
func (c *Config) APINames() []string {
	names := make([]string, 0, len(c.APIs))
	for name := range c.APIs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads a YAML configuration file, applies defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize applies defaults and validates the configuration. It is called
// by Load and must be called by programmatic users before handing the
// config to the syncer.
func (c *Config) Normalize() error {
	if len(c.APIs) == 0 {
		return errors.New("config: at least one entry under apis is required")
	}
	if c.RefetchInterval < 0 {
		return fmt.Errorf("config: refetchInterval must be >= 0, got %d", c.RefetchInterval)
	}
	if c.OutDir == "" {
		c.OutDir = "./generated"
	}
	if !filepath.IsAbs(c.OutDir) {
		abs, _ := filepath.Abs(c.OutDir)
		c.OutDir = abs
	}
	if c.Client.Enabled {
		if c.Client.Type == "" {
			c.Client.Type = "fetch"
		}
		if !clientTypes[c.Client.Type] {
			return fmt.Errorf("config: unsupported client type %q", c.Client.Type)
		}
		if c.Client.OutDir == "" {
			c.Client.OutDir = "client"
		}
	}
	if c.Validation.Library != "" && !validationLibraries[c.Validation.Library] {
		return fmt.Errorf("config: unsupported validation library %q", c.Validation.Library)
	}
	if c.CustomCode.Enabled {
		switch c.CustomCode.Position {
		case "":
			c.CustomCode.Position = "end"
		case "start", "end":
		default:
			return fmt.Errorf("config: customCode.position must be start or end, got %q", c.CustomCode.Position)
		}
	}
	// Absolutize file-path sources; URLs stay as-is.
	for name, source := range c.APIs {
		if source == "" {
			return fmt.Errorf("config: apis.%s has an empty source", name)
		}
		if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
			continue
		}
		if !filepath.IsAbs(source) {
			abs, _ := filepath.Abs(source)
			c.APIs[name] = abs
		}
	}
	return nil
}
