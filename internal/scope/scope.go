// Package scope implements the scope chain that variable references are resolved
// against during a render pass.
//
// A [Scope] holds its own bindings and a link to the scope that created it. Lookups walk
// outwards towards the root, so a binding in a child shadows one of the same name further
// out until the child is discarded. Pass-wide state (the environment map, the registries,
// the error log and the iteration guard) is created once with the root and shared by every
// descendant, so asking for it from any scope in the chain yields the same thing.
package scope

import (
	"context"
	"iter"
	"slices"

	"go.followtheprocess.codes/liquid/internal/compose"
	"go.followtheprocess.codes/liquid/internal/guard"
	"go.followtheprocess.codes/liquid/internal/settings"
)

// pass is the state shared by every scope in a single render pass.
type pass struct {
	settings    *settings.Settings          // Read only, shared with other passes
	guard       *guard.Guard                // Iteration guard for this pass
	environment map[string]any              // Created on first access
	registries  map[Registry]map[string]any // Created on first access
	errors      []error                     // Soft errors recorded during the pass
}

// Scope is a single node in the scope chain.
type Scope struct {
	parent *Scope    // Enclosing scope, nil for the root
	pass   *pass     // Shared pass state
	vars   *bindings // Local bindings
}

// New returns a new root [Scope] for a render pass, bound to a copy of vars.
//
// The context is consulted by the iteration guard so cancelling it aborts the
// pass at the next loop iteration. A nil settings means [settings.Default].
func New(ctx context.Context, s *settings.Settings, vars map[string]any) *Scope {
	if s == nil {
		s = settings.Default()
	}

	return &Scope{
		pass: &pass{
			settings: s,
			guard:    guard.New(ctx, s.Limits),
		},
		vars: newBindings(vars),
	}
}

// Child returns a new [Scope] whose parent is s, bound to a copy of vars.
func (s *Scope) Child(vars map[string]any) *Scope {
	return &Scope{
		parent: s,
		pass:   s.pass,
		vars:   newBindings(vars),
	}
}

// Parent returns the enclosing scope, or nil if s is the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Root returns the outermost scope in the chain.
func (s *Scope) Root() *Scope {
	root := s
	for root.parent != nil {
		root = root.parent
	}

	return root
}

// Settings returns the settings in effect for the pass.
func (s *Scope) Settings() *settings.Settings {
	return s.pass.settings
}

// Contains reports whether name is bound in s or any of its ancestors.
func (s *Scope) Contains(name string) bool {
	for scope := s; scope != nil; scope = scope.parent {
		if _, ok := scope.vars.get(name); ok {
			return true
		}
	}

	return false
}

// Get looks up name, starting locally and walking outwards, returning the value
// and whether it was bound anywhere.
//
// A binding to nil does not hide an ancestor's value for the same name.
// An unbound name is not an error at this level, it's up to the caller to decide.
func (s *Scope) Get(name string) (any, bool) {
	bound := false

	for scope := s; scope != nil; scope = scope.parent {
		if value, ok := scope.vars.get(name); ok {
			if value != nil {
				return value, true
			}

			bound = true
		}
	}

	return nil, bound
}

// Put binds name to value in s, returning the previous local value and whether
// there was one.
func (s *Scope) Put(name string, value any) (any, bool) {
	return s.vars.set(name, value)
}

// PutRoot binds name to value in the root scope so the binding outlives the
// scope it was made in, returning the previous root value and whether there was one.
//
// It is the only way a scope writes to one of its ancestors.
func (s *Scope) PutRoot(name string, value any) (any, bool) {
	return s.Root().Put(name, value)
}

// Remove unbinds name from the first scope in the chain that binds it, returning
// the removed value and whether anything was removed.
func (s *Scope) Remove(name string) (any, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if value, ok := scope.vars.remove(name); ok {
			return value, true
		}
	}

	return nil, false
}

// All iterates over the local bindings of s in insertion order.
func (s *Scope) All() iter.Seq2[string, any] {
	return s.vars.all()
}

// Environment returns the pass-wide environment map.
//
// The map is created on first access and populated by the settings'
// EnvironmentConfigurator if there is one, ordinary bindings never shadow it
// because it is only consulted once a name is not bound in the chain.
func (s *Scope) Environment() map[string]any {
	p := s.pass
	if p.environment == nil {
		p.environment = make(map[string]any)
		if configure := p.settings.EnvironmentConfigurator; configure != nil {
			configure(p.environment)
		}
	}

	return p.environment
}

// RecordError appends err to the pass error log.
func (s *Scope) RecordError(err error) {
	if err == nil {
		return
	}

	s.pass.errors = append(s.pass.errors, err)
}

// Errors returns a copy of the errors recorded so far, in the order they happened.
func (s *Scope) Errors() []error {
	return slices.Clone(s.pass.errors)
}

// IncrementIterations counts one loop iteration against the pass-wide guard,
// returning an error once a limit has been exceeded.
func (s *Scope) IncrementIterations() error {
	return s.pass.guard.Increment()
}

// NewAppender returns a fresh appender from the configured composer, hint is the
// estimated number of fragments.
func (s *Scope) NewAppender(hint int) compose.Appender {
	return s.pass.settings.NewAppender(hint)
}
