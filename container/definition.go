package container

// ── Kinds ─────────────────────────────────────────────────────────────────────

// Kind selects how instances produced by a definition are cached.
type Kind uint8

const (
	// KindSingleton builds once per container lifetime; all callers share the
	// instance.
	KindSingleton Kind = iota

	// KindFactory builds a fresh instance on every resolution; nothing is
	// cached and the caller owns the result.
	KindFactory

	// KindScoped builds once per scope; each scope holds its own instance,
	// released when the scope closes.
	KindScoped
)

func (k Kind) String() string {
	switch k {
	case KindSingleton:
		return "singleton"
	case KindFactory:
		return "factory"
	case KindScoped:
		return "scoped"
	default:
		return "unknown"
	}
}

// ── Definitions ───────────────────────────────────────────────────────────────

// BuildFunc produces an instance of T. The Injector resolves the definition's
// dependencies by calling back into the container, so builders never receive
// pre-wired arguments.
type BuildFunc[T any] func(in *Injector) (T, error)

// Definition is a registered recipe: which key it produces, how the instance
// is cached, how to build it, and which keys it declares as dependencies.
//
// DependsOn feeds the static graph verifier only; at resolution time the
// builder requests whatever it actually needs through its Injector.
type Definition struct {
	Key       Key
	Kind      Kind
	DependsOn []Key

	build func(in *Injector) (any, error)
}

// DefOption customises a definition created by Single, Factory, Scoped or
// Instance.
type DefOption func(*Definition)

// Qualified names the definition so several definitions of one type can
// coexist (resolved via KeyOf[T]().Qualified(name)).
func Qualified(name string) DefOption {
	return func(d *Definition) { d.Key = d.Key.Qualified(name) }
}

// Needs declares the keys this definition depends on, in resolution order.
// Declared dependencies are what Verify checks; undeclared ones are invisible
// to static analysis.
func Needs(keys ...Key) DefOption {
	return func(d *Definition) { d.DependsOn = append(d.DependsOn, keys...) }
}

// Single declares a singleton definition for T.
func Single[T any](build BuildFunc[T], opts ...DefOption) Definition {
	return newDefinition(KindSingleton, build, opts)
}

// Factory declares a factory definition for T: a new instance per resolution.
func Factory[T any](build BuildFunc[T], opts ...DefOption) Definition {
	return newDefinition(KindFactory, build, opts)
}

// Scoped declares a scoped definition for T: one instance per scope.
func Scoped[T any](build BuildFunc[T], opts ...DefOption) Definition {
	return newDefinition(KindScoped, build, opts)
}

// Instance registers a pre-built value as a singleton.
//
// The value joins the root instance cache on first resolution, so if it
// implements io.Closer it will be closed on container teardown like any other
// cached instance.
func Instance[T any](value T, opts ...DefOption) Definition {
	return newDefinition(KindSingleton, func(*Injector) (T, error) { return value, nil }, opts)
}

func newDefinition[T any](kind Kind, build BuildFunc[T], opts []DefOption) Definition {
	d := Definition{Key: KeyOf[T](), Kind: kind}
	if build != nil {
		d.build = func(in *Injector) (any, error) { return build(in) }
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
