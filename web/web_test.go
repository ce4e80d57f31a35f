package web_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomdi/loom/container"
	"github.com/loomdi/loom/web"
)

// ── test doubles ──────────────────────────────────────────────────────────────

// visit is the per-request state handlers share within one scope.
type visit struct {
	id string
}

type closableProbe struct {
	mu     sync.Mutex
	closed bool
}

func (p *closableProbe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *closableProbe) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func newTestApp(t *testing.T, defs ...container.Definition) *web.Router {
	t.Helper()
	c := container.New()
	require.NoError(t, c.Start(container.NewModule("test", defs...), web.Module()))
	t.Cleanup(func() { _ = c.Close() })

	router, err := container.Resolve[*web.Router](c)
	require.NoError(t, err)
	return router
}

func doGet(t *testing.T, h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ── Request scopes ────────────────────────────────────────────────────────────

func TestScopeMiddleware_ScopedInstanceIsStablePerRequest(t *testing.T) {
	t.Parallel()

	router := newTestApp(t,
		container.Scoped(func(in *container.Injector) (*visit, error) {
			return &visit{id: in.Scope().ID()}, nil
		}),
	)

	router.Get("/visit", func(w http.ResponseWriter, r *http.Request) {
		first, err := web.FromRequest[*visit](r)
		require.NoError(t, err)
		second, err := web.FromRequest[*visit](r)
		require.NoError(t, err)
		require.Same(t, first, second)

		web.NewResponse(w).Success(map[string]any{"visit": first.id})
	})

	one := doGet(t, router, "/visit")
	two := doGet(t, router, "/visit")

	assert.Equal(t, http.StatusOK, one.Code)
	assert.Equal(t, http.StatusOK, two.Code)
	// A new scope per request means a new visit per request.
	assert.NotEqual(t, one.Body.String(), two.Body.String())
}

func TestScopeMiddleware_ScopeClosesAfterTheResponse(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		probes []*closableProbe
	)
	router := newTestApp(t,
		container.Scoped(func(*container.Injector) (*closableProbe, error) {
			p := &closableProbe{}
			mu.Lock()
			probes = append(probes, p)
			mu.Unlock()
			return p, nil
		}),
	)

	router.Get("/probe", func(w http.ResponseWriter, r *http.Request) {
		_, err := web.FromRequest[*closableProbe](r)
		require.NoError(t, err)
		web.NewResponse(w).NoContent()
	})

	rec := doGet(t, router, "/probe")
	require.Equal(t, http.StatusNoContent, rec.Code)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, probes, 1)
	assert.True(t, probes[0].isClosed())
}

func TestFromRequest_WithoutMiddlewareFails(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, web.RequestScope(req))

	_, err := web.FromRequest[*visit](req)
	assert.ErrorIs(t, err, web.ErrNoScope)
}

// ── Routing ───────────────────────────────────────────────────────────────────

func TestRouter_PrefixAndParams(t *testing.T) {
	t.Parallel()

	router := newTestApp(t)
	router.Prefix("/api/v1", func(api *web.Router) {
		api.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			web.NewResponse(w).Success(map[string]any{"id": web.Param(r, "id")})
		})
	})

	rec := doGet(t, router, "/api/v1/items/42")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"42"`)
}

func TestRouter_GroupMiddlewareGuardsRoutes(t *testing.T) {
	t.Parallel()

	guard := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if web.NewRequest(r).BearerToken() == "" {
				web.NewResponse(w).Unauthorized()
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	router := newTestApp(t)
	router.Group(func(protected *web.Router) {
		protected.Middleware(guard)
		protected.Get("/profile", func(w http.ResponseWriter, r *http.Request) {
			web.NewResponse(w).Success(map[string]any{"user": "authenticated"})
		})
	})

	denied := doGet(t, router, "/profile")
	assert.Equal(t, http.StatusUnauthorized, denied.Code)

	allowed := doGet(t, router, "/profile", "Authorization", "Bearer token-123")
	assert.Equal(t, http.StatusOK, allowed.Code)
}

// ── Request / Response helpers ────────────────────────────────────────────────

func TestRequest_BindDecodesJSON(t *testing.T) {
	t.Parallel()

	var body struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ada"}`))
	require.NoError(t, web.NewRequest(req).Bind(&body))
	assert.Equal(t, "ada", body.Name)

	empty := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.Error(t, web.NewRequest(empty).Bind(&body))
}

func TestRequest_QueryFallback(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?page=3", nil)
	r := web.NewRequest(req)

	assert.Equal(t, "3", r.Query("page"))
	assert.Equal(t, "10", r.Query("limit", "10"))
}

func TestResponse_JSONHelpers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		write      func(res *web.Response)
		wantStatus int
		wantBody   string
	}{
		{"success", func(res *web.Response) { res.Success("ok") }, http.StatusOK, `{"data":"ok"}`},
		{"created", func(res *web.Response) { res.Created("new") }, http.StatusCreated, `{"data":"new"}`},
		{"error", func(res *web.Response) { res.Error(http.StatusBadRequest, "bad") }, http.StatusBadRequest, `{"message":"bad"}`},
		{"not found", func(res *web.Response) { res.NotFound() }, http.StatusNotFound, `{"message":"Not found."}`},
		{"server error", func(res *web.Response) { res.ServerError("boom") }, http.StatusInternalServerError, `{"message":"boom"}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			tc.write(web.NewResponse(rec))

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}

// ── Wiring ────────────────────────────────────────────────────────────────────

func TestModule_WiringVerifies(t *testing.T) {
	t.Parallel()

	assert.NoError(t, container.Check(nil, web.Module()))
}
