package container

import "errors"

// ── Static verification ───────────────────────────────────────────────────────

// VerifyRegistry statically checks a registry's declared dependency graph and
// returns every finding instead of stopping at the first:
//
//   - each key listed in a definition's DependsOn must be provided by another
//     definition, by the container itself, or by the externals allow-list
//   - the declared edges must form no cycle
//
// Verification only sees declared dependencies. A build function that resolves
// keys it never declared is invisible here and fails at resolution time
// instead.
func VerifyRegistry(reg *Registry, externals ...Key) []error {
	provided := make(map[Key]bool, reg.Len()+len(externals)+1)
	provided[containerKey] = true
	for _, k := range externals {
		provided[k] = true
	}
	for _, k := range reg.Keys() {
		provided[k] = true
	}

	var errs []error
	for _, k := range reg.Keys() {
		def, _ := reg.Lookup(k)
		for _, dep := range def.DependsOn {
			if !provided[dep] {
				errs = append(errs, MissingDependencyError{Definition: k, Missing: dep})
			}
		}
	}

	return append(errs, cycleScan(reg)...)
}

// Verify flattens modules the way Start would and checks the result.
// Registration failures (duplicate keys, invalid definitions) are reported
// alongside the graph findings, so a green Verify means Start will accept the
// same modules.
func Verify(externals []Key, modules ...*Module) []error {
	reg := NewRegistry()
	errs := flattenInto(reg, modules, make(map[*Module]bool))
	return append(errs, VerifyRegistry(reg, externals...)...)
}

// Check folds Verify into a single error, which makes it a one-liner in
// wiring tests:
//
//	if err := container.Check(nil, appModule); err != nil {
//	    t.Fatal(err)
//	}
func Check(externals []Key, modules ...*Module) error {
	return errors.Join(Verify(externals, modules...)...)
}

// ── Cycle scan ────────────────────────────────────────────────────────────────

type vertexColor uint8

const (
	colorWhite vertexColor = iota
	colorGrey
	colorBlack
)

// cycleScan walks the declared edges depth first, visiting keys in
// registration order. A grey vertex reached again closes a cycle; each back
// edge is reported exactly once. Edges into keys the registry does not define
// are skipped, the missing scan already covers them.
func cycleScan(reg *Registry) []error {
	color := make(map[Key]vertexColor, reg.Len())
	var errs []error
	var stack []Key

	var visit func(k Key)
	visit = func(k Key) {
		color[k] = colorGrey
		stack = append(stack, k)
		def, _ := reg.Lookup(k)
		for _, dep := range def.DependsOn {
			if !reg.Has(dep) {
				continue
			}
			switch color[dep] {
			case colorWhite:
				visit(dep)
			case colorGrey:
				errs = append(errs, CyclicDependencyError{Path: cycleFrom(stack, dep)})
			}
		}
		stack = stack[:len(stack)-1]
		color[k] = colorBlack
	}

	for _, k := range reg.Keys() {
		if color[k] == colorWhite {
			visit(k)
		}
	}
	return errs
}

// cycleFrom slices the DFS stack from the first occurrence of dep and closes
// the loop, so A → B → A reports all of A, B, A.
func cycleFrom(stack []Key, dep Key) []Key {
	start := 0
	for i, k := range stack {
		if k == dep {
			start = i
			break
		}
	}
	path := make([]Key, 0, len(stack)-start+1)
	path = append(path, stack[start:]...)
	return append(path, dep)
}
