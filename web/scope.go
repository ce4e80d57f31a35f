package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/loomdi/loom/container"
)

// ErrNoScope is returned by FromRequest when the request did not pass through
// ScopeMiddleware.
var ErrNoScope = errors.New("web: request has no container scope")

type scopeCtxKey struct{}

// ScopeMiddleware opens a container scope per request and closes it once the
// response is written, tearing down whatever scoped instances the handlers
// resolved. Handlers reach the scope through RequestScope or FromRequest.
func ScopeMiddleware(c *container.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, err := c.CreateScope("request")
			if err != nil {
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
			defer func() { _ = scope.Close() }()

			ctx := context.WithValue(r.Context(), scopeCtxKey{}, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestScope returns the scope opened for this request, or nil without
// ScopeMiddleware.
func RequestScope(r *http.Request) *container.Scope {
	scope, _ := r.Context().Value(scopeCtxKey{}).(*container.Scope)
	return scope
}

// FromRequest resolves T from the request's scope.
//
//	trace, err := web.FromRequest[*RequestTrace](r)
func FromRequest[T any](r *http.Request) (T, error) {
	scope := RequestScope(r)
	if scope == nil {
		var zero T
		return zero, ErrNoScope
	}
	return container.Resolve[T](scope)
}
