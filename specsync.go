// Package specsync keeps generated TypeScript artifacts in step with the
// OpenAPI specifications they are derived from.
//
// This package offers a simple API for common use cases; the pkg/syncer
// package exposes the full pipeline for advanced scenarios.
//
// Quick Start:
//
//	import "github.com/blimu-dev/spec-sync"
//
//	// Run one sync pass for every API in the config
//	err := specsync.SyncOnce(context.Background(), "./spec-sync.yaml")
//
// With a refetch interval configured, Watch keeps re-syncing until the
// context is cancelled:
//
//	err := specsync.Watch(ctx, "./spec-sync.yaml")
package specsync

import (
	"context"

	"github.com/blimu-dev/spec-sync/pkg/config"
	"github.com/blimu-dev/spec-sync/pkg/openapi"
	"github.com/blimu-dev/spec-sync/pkg/syncer"
)

// SyncOnce loads a YAML configuration and runs a single sync pass over
// every API it declares. Output lands under the configured outDir, one
// subdirectory per API.
//
// Example:
//
//	err := specsync.SyncOnce(ctx, "./spec-sync.yaml")
func SyncOnce(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return syncer.New(cfg).RunOnce(ctx)
}

// Watch runs an immediate sync pass and then keeps re-syncing on the
// configured refetch interval until the context is cancelled. With no
// interval configured it behaves like SyncOnce.
func Watch(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	s := syncer.New(cfg)
	defer s.Stop()
	if err := s.Start(ctx); err != nil {
		return err
	}
	if cfg.Interval() > 0 {
		<-ctx.Done()
	}
	return nil
}

// GenerateClient syncs one API and emits its client wrapper. paradigm
// overrides the configured client type when non-empty.
//
// Example:
//
//	err := specsync.GenerateClient(ctx, "./spec-sync.yaml", "petstore", "react-query")
func GenerateClient(ctx context.Context, configPath, api, paradigm string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	s := syncer.New(cfg)
	if err := s.RunOnce(ctx); err != nil {
		return err
	}
	return s.GenerateClient(api, paradigm)
}

// ValidateSpec checks that a specification source (file path or HTTP(S)
// URL) is reachable and parses as a valid OpenAPI document.
func ValidateSpec(ctx context.Context, source string) error {
	return openapi.Validate(ctx, source)
}
