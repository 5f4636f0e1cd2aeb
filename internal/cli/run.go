// Package cli implements the command handlers behind the spec-sync
// binary.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/blimu-dev/spec-sync/pkg/config"
	"github.com/blimu-dev/spec-sync/pkg/openapi"
	"github.com/blimu-dev/spec-sync/pkg/syncer"
)

// RunSyncParams carries the sync command's flags.
type RunSyncParams struct {
	ConfigPath string
	// IntervalMS overrides the configured refetch interval when >= 0;
	// 0 forces a single pass.
	IntervalMS int
	Verbose    bool
}

// RunSync executes sync passes. Without a polling interval it runs one
// pass and exits; with one it keeps syncing until SIGINT or SIGTERM.
func RunSync(p RunSyncParams) error {
	cfg, err := config.Load(p.ConfigPath)
	if err != nil {
		return err
	}
	if p.IntervalMS >= 0 {
		cfg.RefetchInterval = p.IntervalMS
	}

	s := syncer.New(cfg, syncer.WithLogger(newLogger(p.Verbose)))
	defer s.Stop()

	if cfg.Interval() <= 0 {
		return s.RunOnce(context.Background())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// RunClientParams carries the client command's flags.
type RunClientParams struct {
	ConfigPath string
	API        string
	Type       string
	Verbose    bool
}

// RunClient syncs one configuration and emits a client wrapper for the
// named API, optionally in a paradigm other than the configured one.
func RunClient(p RunClientParams) error {
	cfg, err := config.Load(p.ConfigPath)
	if err != nil {
		return err
	}
	s := syncer.New(cfg, syncer.WithLogger(newLogger(p.Verbose)))
	if err := s.RunOnce(context.Background()); err != nil {
		return err
	}
	return s.GenerateClient(p.API, p.Type)
}

// RunValidate checks that a spec source loads and validates.
func RunValidate(source string) error {
	return openapi.Validate(context.Background(), source)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
