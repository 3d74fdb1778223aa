package drivers

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds all available drivers keyed by name.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]Driver
}

var (
	globalRegistry *Registry
	registryOnce   sync.Once
)

// GetRegistry returns the singleton driver registry with every built-in
// driver registered.
func GetRegistry() *Registry {
	registryOnce.Do(func() {
		globalRegistry = NewRegistry()
		globalRegistry.Register(
			&SSHDriver{},
			&PostgresDriver{},
			&MySQLDriver{},
			&MSSQLDriver{},
			&WinRMDriver{},
			&SNMPDriver{},
		)
	})
	return globalRegistry
}

// NewRegistry creates an empty driver registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]Driver)}
}

// Register adds drivers to the registry, replacing any with the same name.
func (r *Registry) Register(drivers ...Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range drivers {
		r.drivers[d.Name()] = d
	}
}

// Get returns a driver by name. The error message lists the available
// drivers so it can be surfaced on the CLI as-is.
func (r *Registry) Get(name string) (Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("unknown driver: %s (available: %s)", name, joinNames(r.drivers))
	}
	return d, nil
}

// Names returns all registered driver names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func joinNames(drivers map[string]Driver) string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
