package keyv

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

const MemoryAdapter = "memory"

// Factory builds an adapter from a connection uri. The uri may be empty.
type Factory func(uri string) (Adapter, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// DefaultRegistry is used by New when no registry is given. It starts out
// with a MapStore registered as the memory adapter.
var DefaultRegistry = newDefaultRegistry()

var schemeAliases = map[string]string{
	"postgresql": "postgres",
	"rediss":     "redis",
	"file":       "bolt",
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(MemoryAdapter, mapStoreFactory)
	return r
}

func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = factory
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve builds the adapter registered under name. An empty name is taken
// from the uri scheme, and without a uri the memory adapter is used.
func (r *Registry) Resolve(name, uri string) (Adapter, error) {
	if name == "" {
		name = AdapterName(uri)
	}
	name = strings.ToLower(name)

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, name)
	}

	adapter, err := factory(uri)
	if err != nil {
		return nil, fmt.Errorf("creating %s adapter: %w", name, err)
	}
	return adapter, nil
}

// AdapterName derives the adapter identifier from a uri scheme.
func AdapterName(uri string) string {
	scheme, _, found := strings.Cut(uri, "://")
	if !found || scheme == "" {
		return MemoryAdapter
	}

	scheme = strings.ToLower(scheme)
	if alias, ok := schemeAliases[scheme]; ok {
		return alias
	}
	return scheme
}
