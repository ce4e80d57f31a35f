package container

import "fmt"

// ── Resolver ──────────────────────────────────────────────────────────────────

// Resolver is anything instances can be pulled from: a started Container, an
// open Scope, or the Injector passed to build functions. The generic helpers
// Resolve, ResolveNamed and MustResolve accept any of them.
type Resolver interface {
	Get(key Key) (any, error)
}

// pathEntry is one frame of an in-flight resolution. Cycle detection compares
// key and scope together, so a scoped instance may depend on a singleton of
// the same type without tripping the check.
type pathEntry struct {
	key   Key
	scope string // scope ID, empty for the root partition
}

// Injector is the resolver passed to build functions. It carries the
// resolution path so nested Get calls detect cycles, and the scope the
// resolution runs under so scoped dependencies land in the right partition.
//
// An Injector is only valid for the duration of the build call it was passed
// to. Builders that need the container later should depend on *Container
// instead of retaining the Injector.
type Injector struct {
	c     *Container
	scope *Scope
	path  []pathEntry
}

// Get resolves key, recording the current build on the resolution path.
func (in *Injector) Get(key Key) (any, error) {
	return in.c.resolve(key, in.scope, in.path)
}

// Container returns the container this resolution runs against.
func (in *Injector) Container() *Container { return in.c }

// Scope returns the scope the resolution runs under, or nil when resolving
// from the container root. Singleton builds always see nil: their products
// outlive every scope, so they must not capture scoped dependencies.
func (in *Injector) Scope() *Scope { return in.scope }

// ── Generic helpers ───────────────────────────────────────────────────────────

// Resolve pulls the instance registered under T's unqualified key.
func Resolve[T any](r Resolver) (T, error) {
	return ResolveKey[T](r, KeyOf[T]())
}

// ResolveNamed pulls the instance registered under T's key with the given
// qualifier.
func ResolveNamed[T any](r Resolver, name string) (T, error) {
	return ResolveKey[T](r, KeyOf[T]().Qualified(name))
}

// ResolveKey pulls the instance registered under an explicit key and asserts
// it to T.
func ResolveKey[T any](r Resolver, key Key) (T, error) {
	var zero T
	v, err := r.Get(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, WrongTypeError{Key: key, Got: fmt.Sprintf("%T", v)}
	}
	return t, nil
}

// MustResolve is Resolve for wiring code where a failure is a programming
// error. It panics instead of returning one.
func MustResolve[T any](r Resolver) T {
	v, err := Resolve[T](r)
	if err != nil {
		panic(err)
	}
	return v
}

// MustResolveNamed is ResolveNamed with the same panic behavior.
func MustResolveNamed[T any](r Resolver, name string) T {
	v, err := ResolveNamed[T](r, name)
	if err != nil {
		panic(err)
	}
	return v
}
