// Package registry is the dependency-injection sink generated registrations
// target. It stores typed factories keyed by interface type and hands out
// instances per lifetime. Registration order is preserved; when the same
// interface is registered more than once, the last registration wins at
// resolve time.
package registry

import (
	"reflect"
	"sync"
)

// Lifetime controls how instances are shared between resolutions.
type Lifetime uint8

const (
	// LifetimeScoped shares one instance within a Scope and creates a fresh
	// one per new scope.
	LifetimeScoped Lifetime = iota
	// LifetimeSingleton shares one instance for the registry's lifetime.
	LifetimeSingleton
	// LifetimeTransient creates a new instance on every resolution.
	LifetimeTransient
)

type entry struct {
	lifetime Lifetime
	make     func() any
}

// Registry holds service registrations.
type Registry struct {
	mu         sync.RWMutex
	entries    map[string][]entry
	singletons map[string]any
	total      int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries:    make(map[string][]entry),
		singletons: make(map[string]any),
	}
}

// Scoped registers a factory for I with scoped lifetime and returns the
// registry for chaining.
func Scoped[I any](r *Registry, ctor func() I) *Registry {
	return register(r, LifetimeScoped, ctor)
}

// Singleton registers a factory for I with singleton lifetime and returns
// the registry for chaining.
func Singleton[I any](r *Registry, ctor func() I) *Registry {
	return register(r, LifetimeSingleton, ctor)
}

// Transient registers a factory for I that builds a new instance per
// resolution and returns the registry for chaining.
func Transient[I any](r *Registry, ctor func() I) *Registry {
	return register(r, LifetimeTransient, ctor)
}

func register[I any](r *Registry, lt Lifetime, ctor func() I) *Registry {
	key := typeKey[I]()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = append(r.entries[key], entry{lifetime: lt, make: func() any { return ctor() }})
	r.total++
	return r
}

// Registrations returns the total number of registrations, duplicates
// included.
func (r *Registry) Registrations() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

// NewScope opens a resolution scope over the registry.
func (r *Registry) NewScope() *Scope {
	return &Scope{reg: r, cache: make(map[string]any)}
}

// Scope is one logical unit of work. Scoped services resolved through the
// same scope share an instance.
type Scope struct {
	reg   *Registry
	mu    sync.Mutex
	cache map[string]any
}

// Resolve returns the service registered for I, or ok=false when nothing is
// registered. The last registration for I wins.
func Resolve[I any](s *Scope) (I, bool) {
	var zero I
	key := typeKey[I]()

	s.reg.mu.RLock()
	regs := s.reg.entries[key]
	s.reg.mu.RUnlock()
	if len(regs) == 0 {
		return zero, false
	}
	e := regs[len(regs)-1]

	switch e.lifetime {
	case LifetimeSingleton:
		s.reg.mu.Lock()
		v, ok := s.reg.singletons[key]
		if !ok {
			v = e.make()
			s.reg.singletons[key] = v
		}
		s.reg.mu.Unlock()
		return v.(I), true
	case LifetimeScoped:
		s.mu.Lock()
		v, ok := s.cache[key]
		if !ok {
			v = e.make()
			s.cache[key] = v
		}
		s.mu.Unlock()
		return v.(I), true
	default:
		return e.make().(I), true
	}
}

// typeKey derives a stable map key for the interface type I.
func typeKey[I any]() string {
	return reflect.TypeOf((*I)(nil)).Elem().String()
}
