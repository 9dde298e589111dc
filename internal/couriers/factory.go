package couriers

import (
	"fmt"
	"sync"
)

// Factory resolves carrier adapters by canonical name. Adapters register at
// composition time; the factory itself holds no carrier specifics.
type Factory struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewFactory builds a factory preloaded with the provided adapters.
func NewFactory(adapters ...Adapter) *Factory {
	factory := &Factory{adapters: make(map[string]Adapter)}
	for _, adapter := range adapters {
		factory.Register(adapter)
	}
	return factory
}

// Register adds an adapter under its canonical carrier name.
func (f *Factory) Register(adapter Adapter) {
	if adapter == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adapters[Canonical(adapter.Name())] = adapter
}

// Provider returns the adapter for the given carrier.
func (f *Factory) Provider(carrier string) (Adapter, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	adapter, ok := f.adapters[Canonical(carrier)]
	if !ok {
		return nil, fmt.Errorf("no courier adapter registered for %q", carrier)
	}
	return adapter, nil
}

// Carriers lists the canonical names of all registered adapters.
func (f *Factory) Carriers() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.adapters))
	for name := range f.adapters {
		names = append(names, name)
	}
	return names
}
