package adapter

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gyaneshwarpardhi/hookshot/internal/config"
)

// ErrUnknownVendor is returned by Registry.Get for an unregistered path.
var ErrUnknownVendor = errors.New("unknown vendor")

// Registry maps vendor URL paths to their adapters.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]*Adapter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]*Adapter)}
}

// Register adds an adapter. Panics on duplicate path to surface misconfiguration early.
func (r *Registry) Register(path string, a *Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[path]; exists {
		panic(fmt.Sprintf("adapter registry: duplicate path %q", path))
	}
	r.adapters[path] = a
}

// Get returns the adapter registered under path.
func (r *Registry) Get(path string) (*Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[path]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownVendor, path)
	}
	return a, nil
}

// Paths returns all registered paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.adapters))
	for k := range r.adapters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build constructs a Registry from a validated Config, skipping disabled vendors.
func Build(cfg *config.Config) (*Registry, error) {
	r := NewRegistry()
	for _, v := range cfg.Vendors {
		if !v.Enabled {
			continue
		}
		if _, err := r.Get(v.Path); err == nil {
			return nil, fmt.Errorf("vendor %s: duplicate path %q", v.Name, v.Path)
		}
		r.Register(v.Path, New(Vendor{
			Name:           v.Name,
			ContentType:    v.ContentType,
			TrackerVersion: v.TrackerVersion,
			Platform:       v.Platform,
		}, v.Table()))
	}
	return r, nil
}
