package source

import (
	"fmt"
	"sync"
)

// Factory constructs a Source. Construction may fail, e.g. on a missing
// API key or an invalid endpoint.
type Factory func() (Source, error)

// Registry maps configured source names to factories. It is a constructed
// value handed to whatever builds a chain, never a package-level global, so
// tests can build independent chains with independent registries.
type Registry struct {
	mutex     sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under the given name, replacing any previous one.
func (r *Registry) Register(name string, factory Factory) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.factories[name] = factory
}

// Names returns all registered source names.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// Build materializes an ordered source list from a configured priority
// list. It fails fast on the first name that was never registered.
func (r *Registry) Build(priority []string) ([]Source, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	sources := make([]Source, 0, len(priority))
	for _, name := range priority {
		factory, ok := r.factories[name]
		if !ok {
			return nil, fmt.Errorf("source %q is not registered", name)
		}

		src, err := factory()
		if err != nil {
			return nil, fmt.Errorf("build source %q: %w", name, err)
		}
		sources = append(sources, src)
	}

	return sources, nil
}
