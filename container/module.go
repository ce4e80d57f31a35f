package container

// ── Modules ───────────────────────────────────────────────────────────────────

// Module is a named, composable group of definitions. Modules nest via
// Include; Start and Verify flatten the whole tree into one registry.
type Module struct {
	name     string
	defs     []Definition
	includes []*Module
}

// NewModule creates a module holding the given definitions.
//
//	var usersModule = container.NewModule("users",
//		container.Single[UserRepository](newUserRepository),
//		container.Factory[*UserService](newUserService),
//	)
func NewModule(name string, defs ...Definition) *Module {
	return &Module{name: name, defs: defs}
}

// Include nests sub-modules inside m and returns m for chaining. Included
// modules flatten before m's own definitions, so foundations register first.
func (m *Module) Include(children ...*Module) *Module {
	m.includes = append(m.includes, children...)
	return m
}

// Add appends definitions to the module and returns m for chaining.
func (m *Module) Add(defs ...Definition) *Module {
	m.defs = append(m.defs, defs...)
	return m
}

// Name returns the module's name.
func (m *Module) Name() string { return m.name }

// Definitions returns a copy of the module's own definitions, excluding
// included sub-modules.
func (m *Module) Definitions() []Definition {
	out := make([]Definition, len(m.defs))
	copy(out, m.defs)
	return out
}

// flattenInto walks the module trees depth-first and registers every
// definition into reg, collecting rather than aborting on errors so callers
// can choose fail-fast (Start) or exhaustive (Verify) behaviour.
//
// A *Module reached along several include paths flattens exactly once, so
// diamond-shaped include graphs are not collisions. Two distinct definitions
// sharing a key are.
func flattenInto(reg *Registry, modules []*Module, seen map[*Module]bool) []error {
	var errs []error
	for _, m := range modules {
		if m == nil || seen[m] {
			continue
		}
		seen[m] = true
		errs = append(errs, flattenInto(reg, m.includes, seen)...)
		for _, def := range m.defs {
			if err := reg.Register(def); err != nil {
				if dup, ok := err.(DuplicateKeyError); ok {
					dup.Module = m.name
					err = dup
				}
				errs = append(errs, err)
			}
		}
	}
	return errs
}
