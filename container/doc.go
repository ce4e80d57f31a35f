// Package container provides a small, embeddable dependency-injection
// container built around explicit definitions and lazy resolution.
//
// # Overview
//
// Applications describe their object graph as modules of definitions. A
// definition pairs a key (a Go type, optionally qualified by name) with a
// build function and a caching kind. The container resolves instances on
// demand, caches them according to their kind, and tears everything down in
// reverse creation order on Close.
//
// Because Go has no runtime constructor reflection, wiring is explicit: build
// functions pull their dependencies through the Injector they receive.
//
// # Container Lifecycle
//
//  1. Declare: mod := container.NewModule("app", defs...)
//  2. Create:  c := container.New()
//  3. Start:   c.Start(mod)        (registry seals here)
//  4. Resolve: container.Resolve[*Service](c)
//  5. Close:   c.Close()           (terminal; closes cached io.Closers)
//
// # Kinds
//
//	// Singleton: built once per container, shared by all callers
//	container.Single(func(in *container.Injector) (*Cache, error) {
//	    cfg, err := container.Resolve[*Config](in)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewCache(cfg), nil
//	})
//
//	// Factory: a fresh instance on every resolution
//	container.Factory(func(in *container.Injector) (*Report, error) {
//	    return NewReport(time.Now()), nil
//	})
//
//	// Scoped: one instance per scope, torn down with the scope
//	container.Scoped(func(in *container.Injector) (*Session, error) {
//	    return NewSession(in.Scope().ID()), nil
//	})
//
//	// Pre-built value, registered as a singleton
//	container.Instance(cfg)
//
// # Keys and Qualifiers
//
//	container.KeyOf[*Cache]()                      // pkg.Cache
//	container.KeyOf[*Cache]().Qualified("users")   // pkg.Cache#users
//
//	container.Single(newUserCache, container.Qualified("users"))
//	cache, err := container.ResolveNamed[*Cache](c, "users")
//
// # Modules
//
// Modules group definitions and compose by inclusion. Including the same
// module twice along different paths is fine; each module registers once.
// Two different definitions for one key fail Start with a duplicate error.
//
//	storage := container.NewModule("storage", ...)
//	api := container.NewModule("api", ...).Include(storage)
//	app := container.NewModule("app").Include(api, storage)
//
// # Scopes
//
//	scope, err := c.CreateScope("request")
//	defer scope.Close()
//	sess, err := container.Resolve[*Session](scope)
//
// Scoped definitions resolved from the container root, or from inside a
// singleton build, fail with NoActiveScopeError: singletons outlive every
// scope and must not capture scoped state.
//
// # Verification
//
// Definitions may declare their dependencies with Needs. Verify checks the
// declared graph without building anything, so wiring mistakes surface in a
// plain test instead of at runtime:
//
//	container.Single(newService,
//	    container.Needs(container.KeyOf[Repository]()))
//
//	func TestWiring(t *testing.T) {
//	    if err := container.Check(nil, app.Module()); err != nil {
//	        t.Fatal(err)
//	    }
//	}
//
// Verify sees declared edges only. A dependency pulled inside a build function
// but not listed in Needs is invisible to it; an undeclared cycle still fails
// at resolve time with CyclicDependencyError on a single goroutine, but two
// goroutines entering such a cycle from different keys at the same moment can
// block each other. Keep declarations complete.
package container
