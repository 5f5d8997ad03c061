package assembler

// Procedure is one callable procedure exported by a compiled library.
// The digest is the content-addressed identity of the procedure within
// its module; two artifacts built from identical source carry identical
// digests.
type Procedure struct {
	Name   string
	Digest [32]byte
}

// Library is a compiled, namespaced collection of callable procedures.
// It is written once to the target directory and never mutated; the
// binary form is produced by EncodeLibrary and must round-trip
// byte-for-byte through DecodeLibrary.
type Library struct {
	Path  string // namespaced path, e.g. "lending::pool"
	Procs []Procedure
}

// Name returns the unqualified module name (the last path segment).
func (l Library) Name() string {
	for i := len(l.Path) - 1; i >= 1; i-- {
		if l.Path[i] == ':' && l.Path[i-1] == ':' {
			return l.Path[i+1:]
		}
	}
	return l.Path
}

// Exports reports whether the library exports a procedure with the
// given name.
func (l Library) Exports(name string) bool {
	for _, p := range l.Procs {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Program is a compiled standalone executable unit. It exports no
// namespace; the digest identifies its entry block.
type Program struct {
	Name  string
	Entry [32]byte
}
