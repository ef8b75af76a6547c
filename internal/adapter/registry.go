package adapter

import "fmt"

// Registry maps tool identifiers to their format adapters. It is keyed by
// string rather than a closed enum so new tools slot in without touching the
// orchestrator.
type Registry struct {
	order    []string
	adapters map[string]Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its ID. Registering the same ID twice
// replaces the earlier adapter but keeps its position.
func (r *Registry) Register(a Adapter) {
	if _, ok := r.adapters[a.ID()]; !ok {
		r.order = append(r.order, a.ID())
	}
	r.adapters[a.ID()] = a
}

// Get returns the adapter for a tool id.
func (r *Registry) Get(id string) (Adapter, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", id)
	}
	return a, nil
}

// IDs returns the registered tool ids in registration order. That order is
// the canonical processing order for a run.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns the adapters in registration order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.adapters[id])
	}
	return out
}

// DefaultRegistry returns a registry holding the five built-in adapters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewClaudeCodeAdapter())
	r.Register(NewClaudeDesktopAdapter())
	r.Register(NewCursorAdapter())
	r.Register(NewVSCodeAdapter())
	r.Register(NewWindsurfAdapter())
	return r
}
