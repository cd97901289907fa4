package scoped

import "sort"

// Protected entity names. The set is closed: NewStore refuses names
// outside the registry, and entities outside it bypass this package
// entirely.
const (
	EntityStations        = "stations"
	EntityAudits          = "audits"
	EntityIncidents       = "incidents"
	EntityWorkPermits     = "work_permits"
	EntityContractors     = "contractors"
	EntityUsers           = "users"
	EntityFormDefinitions = "form_definitions"
)

// Registry is a closed set of protected entity names.
type Registry struct {
	names map[string]struct{}
}

// NewRegistry builds a registry from the given names. It panics on an
// empty set or a blank name.
func NewRegistry(names ...string) *Registry {
	if len(names) == 0 {
		panic("scoped: registry cannot be empty")
	}
	r := &Registry{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n == "" {
			panic("scoped: entity name cannot be empty")
		}
		r.names[n] = struct{}{}
	}
	return r
}

// DefaultRegistry covers every protected entity of the platform.
func DefaultRegistry() *Registry {
	return NewRegistry(
		EntityStations,
		EntityAudits,
		EntityIncidents,
		EntityWorkPermits,
		EntityContractors,
		EntityUsers,
		EntityFormDefinitions,
	)
}

// Protected reports whether the name belongs to the registry.
func (r *Registry) Protected(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.names))
	for n := range r.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
