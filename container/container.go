package container

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ── Lifecycle states ──────────────────────────────────────────────────────────

type state uint8

const (
	stateUninitialized state = iota
	stateStarted
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateStarted:
		return "started"
	case stateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// containerKey is the reserved key under which every started container
// resolves itself, so definitions can depend on *Container like any other
// dependency.
var containerKey = KeyOf[*Container]()

// ── Container ─────────────────────────────────────────────────────────────────

// Container owns the definition registry, the singleton instance cache and all
// open scopes. Its lifecycle is a one-way state machine:
//
//	New → Start → Close
//
// Resolution and scope creation are only valid between Start and Close. Start
// is atomic: if any module fails to register, the container stays
// uninitialized and Start can be retried with fixed modules. Close is
// terminal; a closed container cannot be restarted.
//
// All methods are safe for concurrent use once Start has returned.
type Container struct {
	log *slog.Logger

	mu       sync.RWMutex
	state    state
	registry *Registry
	root     *instanceCache
	scopes   map[string]*Scope
}

// Option configures a Container at construction.
type Option func(*Container)

// WithLogger sets the logger lifecycle and resolution events are written to.
// Without it the container is silent.
func WithLogger(log *slog.Logger) Option {
	return func(c *Container) { c.log = log }
}

// New creates a container in the uninitialized state. Nothing can be resolved
// until Start installs a set of modules.
func New(opts ...Option) *Container {
	c := &Container{
		log:    slog.New(slog.DiscardHandler),
		root:   newInstanceCache(),
		scopes: make(map[string]*Scope),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Start / Close ─────────────────────────────────────────────────────────────

// Start flattens the given modules into the container's registry and moves it
// to the started state. The container binds itself under KeyOf[*Container]()
// before user modules register, so a module providing that key fails with a
// duplicate error.
//
// Registration is collected into a scratch registry first: on any error the
// joined errors are returned and the container remains uninitialized.
func (c *Container) Start(modules ...*Module) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateStarted:
		return ErrAlreadyStarted
	case stateClosed:
		return ErrContainerClosed
	}

	scratch := NewRegistry()
	self := Definition{
		Key:   containerKey,
		Kind:  KindSingleton,
		build: func(*Injector) (any, error) { return c, nil },
	}
	if err := scratch.Register(self); err != nil {
		return err
	}
	if errs := flattenInto(scratch, modules, make(map[*Module]bool)); len(errs) > 0 {
		return errors.Join(errs...)
	}
	scratch.seal()

	c.registry = scratch
	c.state = stateStarted
	c.log.Info("container started", "modules", len(modules), "definitions", scratch.Len())
	return nil
}

// Close tears the container down: every open scope is closed, then the root
// cache drains, closing cached singletons in reverse creation order. Errors
// from instance Close calls are joined into the returned error.
//
// Close on an uninitialized container returns ErrNotStarted; a second Close
// returns ErrContainerClosed.
func (c *Container) Close() error {
	c.mu.Lock()
	switch c.state {
	case stateUninitialized:
		c.mu.Unlock()
		return ErrNotStarted
	case stateClosed:
		c.mu.Unlock()
		return ErrContainerClosed
	}
	c.state = stateClosed
	scopes := make([]*Scope, 0, len(c.scopes))
	for _, s := range c.scopes {
		scopes = append(scopes, s)
	}
	c.scopes = make(map[string]*Scope)
	c.mu.Unlock()

	var errs []error
	for _, s := range scopes {
		if err := s.closeFromContainer(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.root.drain(); err != nil {
		errs = append(errs, err)
	}
	c.log.Info("container closed", "scopes", len(scopes))
	return errors.Join(errs...)
}

// Started reports whether the container is in the started state.
func (c *Container) Started() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == stateStarted
}

// Closed reports whether the container has been closed.
func (c *Container) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == stateClosed
}

// Registry returns the sealed registry installed by Start, or nil before
// Start. Hand it to VerifyRegistry to check the dependency graph of a running
// container's definitions.
func (c *Container) Registry() *Registry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves the instance registered under key from the container root.
// Scoped definitions cannot be resolved here; use a Scope.
func (c *Container) Get(key Key) (any, error) {
	return c.resolve(key, nil, nil)
}

// MustGet is Get for wiring code where a failure is a programming error.
func (c *Container) MustGet(key Key) any {
	v, err := c.Get(key)
	if err != nil {
		panic(err)
	}
	return v
}

// resolve is the engine behind Container.Get, Scope.Get and Injector.Get.
// scope is the partition scoped definitions cache into (nil at the root), and
// path is the chain of in-flight builds used for cycle detection.
func (c *Container) resolve(key Key, scope *Scope, path []pathEntry) (any, error) {
	c.mu.RLock()
	st, reg := c.state, c.registry
	c.mu.RUnlock()

	switch st {
	case stateUninitialized:
		return nil, ErrNotStarted
	case stateClosed:
		return nil, ErrContainerClosed
	}

	if key == containerKey {
		return c, nil
	}

	def, ok := reg.Lookup(key)
	if !ok {
		return nil, UnresolvedDependencyError{Key: key, Path: pathKeys(path)}
	}

	// Cycle check runs before any cache access so a self-referential build
	// fails instead of deadlocking inside singleflight.
	entry := pathEntry{key: key}
	if def.Kind != KindSingleton && scope != nil {
		entry.scope = scope.id
	}
	for _, e := range path {
		if e == entry {
			return nil, CyclicDependencyError{Path: cyclePath(path, entry)}
		}
	}
	next := append(path[:len(path):len(path)], entry)

	switch def.Kind {
	case KindSingleton:
		// Singleton builds run against the root partition with no scope:
		// their products outlive every scope and must not capture scoped
		// dependencies.
		return c.root.getOrBuild(key, func() (any, error) {
			return c.build(def, nil, next)
		})
	case KindScoped:
		if scope == nil {
			return nil, NoActiveScopeError{Key: key}
		}
		if scope.isClosed() {
			return nil, ErrScopeClosed
		}
		return scope.cache.getOrBuild(key, func() (any, error) {
			return c.build(def, scope, next)
		})
	case KindFactory:
		return c.build(def, scope, next)
	default:
		return nil, InvalidDefinitionError{Key: key, Reason: fmt.Sprintf("unknown kind %s", def.Kind)}
	}
}

// build runs a definition's build function with a fresh Injector carrying the
// resolution path forward.
func (c *Container) build(def Definition, scope *Scope, path []pathEntry) (any, error) {
	in := &Injector{c: c, scope: scope, path: path}
	v, err := def.build(in)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", def.Key, err)
	}
	c.log.Debug("instance built", "key", def.Key.String(), "kind", def.Kind.String())
	return v, nil
}

// ── Scopes ────────────────────────────────────────────────────────────────────

// CreateScope opens a named scope. Scoped definitions resolved through it are
// cached per scope and torn down when the scope closes. The name is a label
// for logs and debugging; the scope's identity is its generated ID.
func (c *Container) CreateScope(name string) (*Scope, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateUninitialized:
		return nil, ErrNotStarted
	case stateClosed:
		return nil, ErrContainerClosed
	}

	s := newScope(c, name)
	c.scopes[s.id] = s
	c.log.Debug("scope opened", "scope", s.id, "name", name)
	return s, nil
}

// dropScope detaches a scope that closed itself. No-op during container
// teardown, where the scope map has already been cleared.
func (c *Container) dropScope(id string) {
	c.mu.Lock()
	delete(c.scopes, id)
	c.mu.Unlock()
}

// ── Path helpers ──────────────────────────────────────────────────────────────

func pathKeys(path []pathEntry) []Key {
	if len(path) == 0 {
		return nil
	}
	keys := make([]Key, len(path))
	for i, e := range path {
		keys[i] = e.key
	}
	return keys
}

// cyclePath renders the cycle slice of a resolution path: from the first
// occurrence of the repeated entry through the repeat, so A → B → A reports
// all of A, B, A.
func cyclePath(path []pathEntry, repeat pathEntry) []Key {
	start := 0
	for i, e := range path {
		if e == repeat {
			start = i
			break
		}
	}
	keys := make([]Key, 0, len(path)-start+1)
	for _, e := range path[start:] {
		keys = append(keys, e.key)
	}
	return append(keys, repeat.key)
}
