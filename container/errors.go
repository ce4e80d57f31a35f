package container

import (
	"errors"
	"fmt"
	"strings"
)

// ── Sentinel errors ───────────────────────────────────────────────────────────

var (
	// ErrNotStarted is returned when the container is used before Start.
	ErrNotStarted = errors.New("container: not started")

	// ErrAlreadyStarted is returned when Start is called on a started container.
	ErrAlreadyStarted = errors.New("container: already started")

	// ErrContainerClosed is returned by every operation on a closed container.
	ErrContainerClosed = errors.New("container: closed")

	// ErrScopeClosed is returned when resolving against, or re-closing, a
	// closed scope.
	ErrScopeClosed = errors.New("container: scope closed")

	// ErrRegistrySealed is returned when registering into a sealed registry.
	ErrRegistrySealed = errors.New("container: registry sealed")
)

// ── Typed errors ──────────────────────────────────────────────────────────────

// DuplicateKeyError reports two definitions colliding on one key. Module names
// the module whose flattening hit the collision, when known.
type DuplicateKeyError struct {
	Key    Key
	Module string
}

func (e DuplicateKeyError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("container: duplicate definition for key %s", e.Key)
	}
	return fmt.Sprintf("container: duplicate definition for key %s (module %q)", e.Key, e.Module)
}

// UnresolvedDependencyError reports a resolution request for a key no
// definition produces. Path holds the in-flight resolution chain that led to
// the request, outermost first; it is empty for direct Get calls.
type UnresolvedDependencyError struct {
	Key  Key
	Path []Key
}

func (e UnresolvedDependencyError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("container: no definition for key %s", e.Key)
	}
	return fmt.Sprintf("container: no definition for key %s (requested via %s)", e.Key, joinKeys(e.Path))
}

// NoActiveScopeError reports a scoped definition resolved without a scope,
// either directly from the container or from inside a singleton build.
type NoActiveScopeError struct {
	Key Key
}

func (e NoActiveScopeError) Error() string {
	return fmt.Sprintf("container: scoped key %s resolved without an active scope", e.Key)
}

// CyclicDependencyError reports a dependency cycle. At resolution time the
// path is the chain that re-entered itself; from Verify it is the declared
// cycle found by the static scan. The first and last entries name the same
// key.
type CyclicDependencyError struct {
	Path []Key
}

func (e CyclicDependencyError) Error() string {
	return "container: cyclic dependency: " + joinKeys(e.Path)
}

// MissingDependencyError is a Verify finding: Definition declares a dependency
// on Missing, but no definition or external key provides it.
type MissingDependencyError struct {
	Definition Key
	Missing    Key
}

func (e MissingDependencyError) Error() string {
	return fmt.Sprintf("container: definition %s depends on missing key %s", e.Definition, e.Missing)
}

// WrongTypeError reports a typed resolution whose cached instance does not
// assert to the requested type. This only happens for hand-built definitions
// whose key and build function disagree.
type WrongTypeError struct {
	Key Key
	Got string
}

func (e WrongTypeError) Error() string {
	return fmt.Sprintf("container: key %s resolved to unexpected type %s", e.Key, e.Got)
}

// InvalidDefinitionError reports a definition that cannot be registered, e.g.
// a zero key or a nil build function.
type InvalidDefinitionError struct {
	Key    Key
	Reason string
}

func (e InvalidDefinitionError) Error() string {
	return fmt.Sprintf("container: invalid definition %s: %s", e.Key, e.Reason)
}

func joinKeys(keys []Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, " -> ")
}
