package store

import (
	"sort"
	"sync"

	"inventory/internal/model"
)

// Registry holds the last known property set of every inventoried host.
// It lives for the lifetime of the process and is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	systems map[string]model.PropertySet
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{systems: make(map[string]model.PropertySet)}
}

// Add records props for hostname, replacing any previous entry.
func (r *Registry) Add(hostname string, props model.PropertySet) {
	cp := props.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.systems[hostname] = cp
}

// Get returns a copy of the entry for hostname.
func (r *Registry) Get(hostname string) (model.PropertySet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	props, ok := r.systems[hostname]
	if !ok {
		return nil, false
	}
	return props.Clone(), true
}

// List returns a snapshot of all entries ordered by hostname.
func (r *Registry) List() []model.Entry {
	r.mu.RLock()
	entries := make([]model.Entry, 0, len(r.systems))
	for hostname, props := range r.systems {
		entries = append(entries, model.Entry{Hostname: hostname, Properties: props.Clone()})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Hostname < entries[j].Hostname
	})
	return entries
}

// Len returns the number of registered hosts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.systems)
}

// Reset drops every entry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.systems = make(map[string]model.PropertySet)
}
