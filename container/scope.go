package container

import (
	"sync"

	"github.com/google/uuid"
)

// ── Scope ─────────────────────────────────────────────────────────────────────

// Scope is a resolution context with its own instance partition. Scoped
// definitions resolved through it are cached once per scope; singletons and
// factories pass through to the container as usual.
//
// A scope stays usable until Close, which drains its partition and closes any
// cached io.Closer instances in reverse creation order. Scopes left open when
// the container closes are closed with it.
type Scope struct {
	id    string
	name  string
	c     *Container
	cache *instanceCache

	mu     sync.Mutex
	closed bool
}

func newScope(c *Container, name string) *Scope {
	return &Scope{
		id:    uuid.NewString(),
		name:  name,
		c:     c,
		cache: newInstanceCache(),
	}
}

// ID returns the scope's unique identity.
func (s *Scope) ID() string { return s.id }

// Name returns the label the scope was created with.
func (s *Scope) Name() string { return s.name }

// Get resolves key within this scope. Two open scopes never share scoped
// instances, and a scoped instance resolved twice from the same scope is the
// same value.
func (s *Scope) Get(key Key) (any, error) {
	if s.isClosed() {
		return nil, ErrScopeClosed
	}
	return s.c.resolve(key, s, nil)
}

// MustGet is Get for wiring code where a failure is a programming error.
func (s *Scope) MustGet(key Key) any {
	v, err := s.Get(key)
	if err != nil {
		panic(err)
	}
	return v
}

// Close detaches the scope from its container and drains the partition,
// closing cached io.Closer instances in reverse creation order. Errors from
// those Close calls are joined. A second Close returns ErrScopeClosed.
func (s *Scope) Close() error {
	if err := s.markClosed(); err != nil {
		return err
	}
	s.c.dropScope(s.id)
	err := s.cache.drain()
	s.c.log.Debug("scope closed", "scope", s.id, "name", s.name)
	return err
}

// closeFromContainer is the teardown path used by Container.Close. A scope
// that already closed itself is skipped silently.
func (s *Scope) closeFromContainer() error {
	if err := s.markClosed(); err != nil {
		return nil
	}
	return s.cache.drain()
}

func (s *Scope) markClosed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrScopeClosed
	}
	s.closed = true
	return nil
}

func (s *Scope) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
