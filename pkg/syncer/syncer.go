// Package syncer drives the generation pipeline: load each configured
// spec, resolve its schemas, emit artifacts and publish endpoint
// descriptors to the shared registry, either once or on a polling
// schedule.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/blimu-dev/spec-sync/pkg/config"
	"github.com/blimu-dev/spec-sync/pkg/emitter"
	"github.com/blimu-dev/spec-sync/pkg/emitter/client"
	"github.com/blimu-dev/spec-sync/pkg/emitter/endpoints"
	"github.com/blimu-dev/spec-sync/pkg/emitter/types"
	"github.com/blimu-dev/spec-sync/pkg/emitter/validation"
	"github.com/blimu-dev/spec-sync/pkg/ir"
	"github.com/blimu-dev/spec-sync/pkg/naming"
	"github.com/blimu-dev/spec-sync/pkg/openapi"
	"github.com/blimu-dev/spec-sync/pkg/preserve"
	"github.com/blimu-dev/spec-sync/pkg/registry"
	"github.com/blimu-dev/spec-sync/pkg/resolver"
	"github.com/blimu-dev/spec-sync/pkg/utils"
)

// ErrStopped is returned by operations invoked after Stop.
var ErrStopped = errors.New("syncer is stopped")

// State is the scheduler lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Syncer owns the pipeline for every configured API.
type Syncer struct {
	cfg     *config.Config
	reg     *registry.Registry
	log     *slog.Logger
	clients *client.Registry
	naming  naming.Options

	mu     sync.Mutex
	state  State
	ticker *time.Ticker
	stopCh chan struct{}
}

// Option customizes a Syncer.
type Option func(*Syncer)

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) { s.log = l }
}

// WithRegistry shares an externally owned endpoint registry.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Syncer) { s.reg = r }
}

// WithNamingOptions installs custom name formatters. Prefix and
// operation-id preference still come from configuration.
func WithNamingOptions(o naming.Options) Option {
	return func(s *Syncer) { s.naming = o }
}

// New builds a Syncer for a normalized configuration.
func New(cfg *config.Config, opts ...Option) *Syncer {
	s := &Syncer{
		cfg:     cfg,
		reg:     registry.New(),
		log:     slog.Default(),
		clients: client.NewRegistry(),
		stopCh:  make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Registry exposes the endpoint registry for consumers.
func (s *Syncer) Registry() *registry.Registry { return s.reg }

// State reports the scheduler state.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RunOnce executes one full sync pass over every configured API.
// Overlapping passes never run: if one is already in flight the call
// returns immediately. A stopped syncer refuses to run.
func (s *Syncer) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateStopped:
		s.mu.Unlock()
		return ErrStopped
	case StateRunning:
		s.mu.Unlock()
		s.log.Debug("sync pass already in flight, skipping")
		return nil
	}
	s.state = StateRunning
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.state == StateRunning {
			s.state = StateIdle
		}
		s.mu.Unlock()
	}()

	started := time.Now()
	s.reg.Clear()

	var errs []error
	for _, api := range s.cfg.APINames() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.syncAPI(ctx, api, s.cfg.APIs[api]); err != nil {
			s.log.Error("api sync failed", "api", api, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", api, err))
			continue
		}
		s.log.Info("api synced", "api", api)
	}
	s.log.Info("sync pass finished",
		"apis", len(s.cfg.APIs), "failed", len(errs), "elapsed", time.Since(started))
	return errors.Join(errs...)
}

// Start runs one pass immediately and, when a refetch interval is
// configured, keeps re-running on that cadence until Stop or context
// cancellation. The first pass's error is returned; scheduled passes
// log theirs.
func (s *Syncer) Start(ctx context.Context) error {
	err := s.RunOnce(ctx)
	if errors.Is(err, ErrStopped) {
		return err
	}

	interval := s.cfg.Interval()
	if interval <= 0 {
		return err
	}

	s.mu.Lock()
	if s.state == StateStopped || s.ticker != nil {
		s.mu.Unlock()
		return err
	}
	s.ticker = time.NewTicker(interval)
	ticker := s.ticker
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if rerr := s.RunOnce(ctx); rerr != nil && !errors.Is(rerr, ErrStopped) {
					s.log.Error("scheduled sync pass failed", "error", rerr)
				}
			}
		}
	}()
	return err
}

// Stop halts the schedule permanently. The syncer cannot be restarted.
func (s *Syncer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStopped {
		return
	}
	s.state = StateStopped
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// GenerateClient emits a client wrapper for one previously synced API
// from the registry snapshot, without re-fetching the spec. An empty
// paradigm falls back to the configured one.
func (s *Syncer) GenerateClient(api, paradigm string) error {
	if s.State() == StateStopped {
		return ErrStopped
	}
	eps, ok := s.reg.Endpoints(api)
	if !ok {
		return fmt.Errorf("no endpoints registered for api %q, sync it first", api)
	}
	if paradigm == "" {
		paradigm = s.cfg.Client.Type
	}
	em, ok := s.clients.Get(paradigm)
	if !ok {
		return fmt.Errorf("unknown client type %q (have %v)", paradigm, s.clients.Types())
	}
	f, err := em.Render(eps, client.Options{
		API:         api,
		BaseURL:     s.cfg.Client.BaseURL,
		OutDir:      s.cfg.Client.OutDir,
		TypesImport: "../types",
	})
	if err != nil {
		return err
	}
	return s.writer(api).Write(f)
}

func (s *Syncer) writer(api string) *emitter.Writer {
	return &emitter.Writer{
		Root:           filepath.Join(s.cfg.OutDir, api),
		PreserveCustom: s.cfg.CustomCode.Enabled,
		Position:       preserve.Position(s.cfg.CustomCode.Position),
	}
}

// syncAPI runs the full pipeline for one API. Any error aborts this
// API's pass; sibling APIs are untouched.
func (s *Syncer) syncAPI(ctx context.Context, api, source string) error {
	doc, err := openapi.Load(ctx, source)
	if err != nil {
		return err
	}

	res := resolver.New(doc.T)
	for _, rerr := range res.Table().Errors {
		s.log.Warn("schema resolution degraded", "api", api, "error", rerr)
	}

	nopts := s.naming
	nopts.Prefix = s.cfg.Types.Prefix
	nopts.UseOperationID = s.cfg.Types.UseOperationID
	namer := naming.New(nopts)

	typeNames := map[string]string{}
	for _, def := range res.Table().Defs() {
		tn, nerr := namer.TypeName(naming.Input{SchemaName: def.Name})
		if nerr != nil {
			return nerr
		}
		typeNames[def.Name] = tn
	}

	eps, err := endpoints.Build(endpoints.BuildParams{
		Doc:       doc,
		Resolver:  res,
		Namer:     namer,
		TypeNames: typeNames,
		Opts: endpoints.Options{
			ShowCurl:    s.cfg.Endpoints.ShowCurl,
			ExcludeTags: s.cfg.Endpoints.ExcludeTags,
			DedupeVars:  s.cfg.DedupePathVars,
			BaseURL:     s.cfg.Client.BaseURL,
		},
	})
	if err != nil {
		return err
	}

	files := []ir.File{types.Render(res.Table(), typeNames)}

	if lib := s.cfg.Validation.Library; lib != "" {
		vf, verr := validation.Render(res.Table(), typeNames, validation.Library(lib))
		if verr != nil {
			return verr
		}
		files = append(files, vf)
	}

	if s.cfg.FolderSplit {
		split, serr := s.splitFiles(api, eps)
		if serr != nil {
			return serr
		}
		files = append(files, split...)
	} else {
		files = append(files, endpoints.Render(eps))
		if s.cfg.Client.Enabled {
			cf, cerr := s.renderClient(api, eps, s.cfg.Client.OutDir, "../types")
			if cerr != nil {
				return cerr
			}
			files = append(files, cf)
		}
	}

	w := s.writer(api)
	for _, f := range files {
		if werr := w.Write(f); werr != nil {
			return werr
		}
		s.log.Debug("artifact written", "api", api, "file", f.Path)
	}

	s.reg.Put(api, eps)
	return nil
}

func (s *Syncer) renderClient(api string, eps []ir.Endpoint, outDir, typesImport string) (ir.File, error) {
	em, ok := s.clients.Get(s.cfg.Client.Type)
	if !ok {
		return ir.File{}, fmt.Errorf("unknown client type %q (have %v)", s.cfg.Client.Type, s.clients.Types())
	}
	return em.Render(eps, client.Options{
		API:         api,
		BaseURL:     s.cfg.Client.BaseURL,
		OutDir:      outDir,
		TypesImport: typesImport,
	})
}

// splitFiles groups endpoints by their first tag into per-tag
// subdirectories; shared types stay at the API root.
func (s *Syncer) splitFiles(api string, eps []ir.Endpoint) ([]ir.File, error) {
	groups := map[string][]ir.Endpoint{}
	for _, ep := range eps {
		tag := "default"
		if len(ep.Tags) > 0 {
			tag = utils.ToKebabCase(ep.Tags[0])
		}
		groups[tag] = append(groups[tag], ep)
	}
	tags := make([]string, 0, len(groups))
	for t := range groups {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	var files []ir.File
	for _, tag := range tags {
		ef := endpoints.Render(groups[tag])
		ef.Path = path.Join(tag, ef.Path)
		files = append(files, ef)
		if s.cfg.Client.Enabled {
			cf, err := s.renderClient(api, groups[tag], path.Join(tag, s.cfg.Client.OutDir), "../../types")
			if err != nil {
				return nil, err
			}
			files = append(files, cf)
		}
	}
	return files, nil
}
