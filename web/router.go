// Package web connects the container to HTTP handling: a chi-based router
// whose middleware stack opens a container scope per request.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/loomdi/loom/container"
)

// Router wraps chi.Router with container-aware defaults.
type Router struct {
	mux chi.Router
}

// NewRouter creates a Router with the standard middleware stack (RealIP,
// Logger, Recoverer) plus a per-request scope on c.
func NewRouter(c *container.Container) *Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(ScopeMiddleware(c))
	return &Router{mux: r}
}

// Module provides *Router as a singleton. Its only dependency is the
// container itself, which every started container binds automatically.
func Module() *container.Module {
	return container.NewModule("web",
		container.Single(func(in *container.Injector) (*Router, error) {
			c, err := container.Resolve[*container.Container](in)
			if err != nil {
				return nil, err
			}
			return NewRouter(c), nil
		}, container.Needs(container.KeyOf[*container.Container]())),
	)
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc) { r.mux.Get(pattern, h) }

func (r *Router) Post(pattern string, h http.HandlerFunc) { r.mux.Post(pattern, h) }

func (r *Router) Put(pattern string, h http.HandlerFunc) { r.mux.Put(pattern, h) }

func (r *Router) Patch(pattern string, h http.HandlerFunc) { r.mux.Patch(pattern, h) }

func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group sharing the parent's middleware.
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// Prefix creates a sub-router mounted under the given URL prefix.
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL route parameter.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to
// http.ListenAndServe.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
