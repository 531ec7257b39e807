package scope

import "fmt"

// Registry is the name of one of the root-only mappings used by stateful
// tags to keep state across repeated evaluations within a pass.
type Registry string

// The closed set of registries, requesting anything else is a programming error.
const (
	RegistryCycle     Registry = "cycle"     // Position of each cycle group
	RegistryIfChanged Registry = "ifchanged" // Last output of ifchanged blocks
	RegistryFor       Registry = "for"       // Loop state, e.g. offset:continue positions
	RegistryForStack  Registry = "for_stack" // The stack of enclosing forloop objects
)

// valid reports whether r is one of the known registries.
func (r Registry) valid() bool {
	switch r {
	case RegistryCycle, RegistryIfChanged, RegistryFor, RegistryForStack:
		return true
	default:
		return false
	}
}

// Registry returns the pass-wide mapping for the named registry, creating it on
// first use.
//
// It panics if name is not one of the declared registries, this is a defect in
// the calling tag rather than in the template being rendered.
func (s *Scope) Registry(name Registry) map[string]any {
	if !name.valid() {
		panic(fmt.Sprintf("scope: unknown registry %q", string(name)))
	}

	p := s.pass
	if p.registries == nil {
		p.registries = make(map[Registry]map[string]any)
	}

	registry, ok := p.registries[name]
	if !ok {
		registry = make(map[string]any)
		p.registries[name] = registry
	}

	return registry
}
