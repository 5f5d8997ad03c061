package assembler

// Context is the accumulating compilation environment: the base kernel
// toolchain plus an append-only, ordered list of registered libraries.
//
// Context is a value type with functional updates: WithLibrary returns
// a new context and never mutates the receiver. Each library
// compilation step therefore takes the current context and hands the
// next step an extended one, which makes the ordering dependency
// between library units explicit and testable in isolation.
type Context struct {
	libs  []Library
	index map[string]int // library path -> position in libs
}

// NewContext returns a context containing only the base toolchain.
func NewContext() Context {
	return Context{index: map[string]int{}}
}

// WithLibrary returns a new context with lib appended to the
// registration order. Registering the same path twice replaces nothing;
// the second registration is rejected by Assemble-time resolution being
// ambiguous, so callers are expected to register each path once.
func (c Context) WithLibrary(lib Library) Context {
	libs := make([]Library, len(c.libs), len(c.libs)+1)
	copy(libs, c.libs)
	libs = append(libs, lib)

	index := make(map[string]int, len(libs))
	for i, l := range libs {
		index[l.Path] = i
	}

	return Context{libs: libs, index: index}
}

// Lookup returns the registered library with the given namespaced path.
func (c Context) Lookup(path string) (Library, bool) {
	i, ok := c.index[path]
	if !ok {
		return Library{}, false
	}
	return c.libs[i], true
}

// Resolvable reports whether path names a module that can be referenced
// at this point in the build: either a kernel module or a library
// registered by an earlier compilation step.
func (c Context) Resolvable(path string) bool {
	if IsKernelModule(path) {
		return true
	}
	_, ok := c.index[path]
	return ok
}

// Libraries returns the registered libraries in registration order.
// The returned slice is a copy; the context itself stays immutable.
func (c Context) Libraries() []Library {
	out := make([]Library, len(c.libs))
	copy(out, c.libs)
	return out
}
