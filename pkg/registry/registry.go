// Package registry holds the process-wide endpoint registry: the only
// state that survives across sync passes.
//
// Lifecycle: the scheduler clears the registry at the start of every full
// pass and publishes each API's endpoint list atomically when that API's
// pipeline completes. External readers observe only committed, post-pass
// snapshots. The registry is an injectable component, not a package
// global, and has no persistence across process restarts.
package registry

import (
	"sort"
	"sync"

	"github.com/blimu-dev/spec-sync/pkg/ir"
)

// Registry maps API names to their last-emitted endpoint lists.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[string][]ir.Endpoint
}

func New() *Registry {
	return &Registry{endpoints: map[string][]ir.Endpoint{}}
}

// Clear drops every API's entries. Called at the start of a full pass.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints = map[string][]ir.Endpoint{}
}

// Put publishes an API's endpoint list in one step.
func (r *Registry) Put(api string, eps []ir.Endpoint) {
	cp := make([]ir.Endpoint, len(eps))
	copy(cp, eps)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints[api] = cp
}

// Endpoints returns a snapshot of an API's last-emitted endpoints.
func (r *Registry) Endpoints(api string) ([]ir.Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	eps, ok := r.endpoints[api]
	if !ok {
		return nil, false
	}
	cp := make([]ir.Endpoint, len(eps))
	copy(cp, eps)
	return cp, true
}

// APIs lists the registered API names in sorted order.
func (r *Registry) APIs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
