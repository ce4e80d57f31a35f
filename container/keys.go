package container

import "reflect"

// ── Keys ──────────────────────────────────────────────────────────────────────

// Key identifies a producible type inside a registry: a package-qualified type
// name plus an optional qualifier that distinguishes multiple definitions of
// the same type (e.g. two caches named "hot" and "cold").
//
// Keys are comparable and safe to use as map keys.
type Key struct {
	typeName  string
	qualifier string
}

// KeyOf derives the Key for type T.
//
//	KeyOf[UserRepository]()          // interface type
//	KeyOf[*sql.DB]()                 // pointer type
//	KeyOf[Cache]().Qualified("hot")  // qualified
//
// The type name is only a stable label: resolution is always an explicit map
// lookup, never a scan over runtime types.
func KeyOf[T any]() Key {
	return Key{typeName: reflect.TypeOf((*T)(nil)).Elem().String()}
}

// Qualified returns a copy of the key carrying the given qualifier.
func (k Key) Qualified(name string) Key {
	k.qualifier = name
	return k
}

// Qualifier returns the key's qualifier, or "" for unqualified keys.
func (k Key) Qualifier() string { return k.qualifier }

// Type returns the package-qualified type name the key was derived from.
func (k Key) Type() string { return k.typeName }

// IsZero reports whether the key carries no type at all.
func (k Key) IsZero() bool { return k.typeName == "" }

// String renders the key for diagnostics: "pkg.Type" or "pkg.Type#qualifier".
func (k Key) String() string {
	if k.qualifier == "" {
		return k.typeName
	}
	return k.typeName + "#" + k.qualifier
}
