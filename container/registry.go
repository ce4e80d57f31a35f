package container

// ── Registry ──────────────────────────────────────────────────────────────────

// Registry is the flattened key → Definition mapping a container resolves
// from. It is add-only while the container is being assembled and sealed at
// Start, after which it is safe for concurrent reads.
//
// A Registry is not safe for concurrent mutation; build it from one goroutine.
type Registry struct {
	defs   map[Key]Definition
	order  []Key // insertion order, for diagnostics and deterministic verification
	sealed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Key]Definition)}
}

// Register adds a definition.
//
// It fails with ErrRegistrySealed after the registry is sealed, with
// InvalidDefinitionError for malformed definitions, and with
// DuplicateKeyError when the key is already present.
func (r *Registry) Register(def Definition) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if def.Key.IsZero() {
		return InvalidDefinitionError{Key: def.Key, Reason: "zero key"}
	}
	if def.build == nil {
		return InvalidDefinitionError{Key: def.Key, Reason: "nil build function"}
	}
	if _, exists := r.defs[def.Key]; exists {
		return DuplicateKeyError{Key: def.Key}
	}
	r.defs[def.Key] = def
	r.order = append(r.order, def.Key)
	return nil
}

// Merge copies every definition from other into r, preserving other's
// insertion order. It fails with DuplicateKeyError on the first collision;
// entries merged before the collision remain, so merge into a scratch
// registry when atomicity matters (Start does).
func (r *Registry) Merge(other *Registry) error {
	for _, key := range other.order {
		if err := r.Register(other.defs[key]); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the definition for key.
func (r *Registry) Lookup(key Key) (Definition, bool) {
	def, ok := r.defs[key]
	return def, ok
}

// Has reports whether a definition exists for key.
func (r *Registry) Has(key Key) bool {
	_, ok := r.defs[key]
	return ok
}

// Keys returns all registered keys in insertion order.
func (r *Registry) Keys() []Key {
	out := make([]Key, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int { return len(r.order) }

// Sealed reports whether the registry still accepts registrations.
func (r *Registry) Sealed() bool { return r.sealed }

// seal makes the registry read-only. Called once by Container.Start.
func (r *Registry) seal() { r.sealed = true }
