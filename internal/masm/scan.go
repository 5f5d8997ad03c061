package masm

import (
	"strings"
)

// Invoke is a single invocation target found in a module body.
type Invoke struct {
	Kind   string // "exec", "call" or "syscall"
	Target string // raw target, e.g. "helper", "math::add" or "std::math::u64::add"
}

// ModuleInfo is the result of a structural scan of one source unit.
// The scan recognizes only the declaration shapes the build pipeline
// needs (imports, procedure declarations, invocations, entry block);
// instruction semantics are out of scope.
type ModuleInfo struct {
	Imports  []string // full paths from use. statements, declaration order
	Exports  []string // exported procedure names
	Procs    []string // internal procedure names
	Invokes  []Invoke // every exec./call./syscall. target, in order
	HasEntry bool     // true if the unit has a begin...end entry block
}

// ScanModule performs a line-oriented structural scan of MASM source.
// Comment text (everything after '#') is ignored.
func ScanModule(text string) ModuleInfo {
	var info ModuleInfo

	for _, raw := range strings.Split(text, "\n") {
		line := raw
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Only the first token on a line can be a declaration or an
		// invocation; anything after it belongs to the instruction.
		token := line
		if i := strings.IndexAny(token, " \t"); i >= 0 {
			token = token[:i]
		}

		switch {
		case token == "begin":
			info.HasEntry = true
		case strings.HasPrefix(token, "use."):
			info.Imports = append(info.Imports, strings.TrimPrefix(token, "use."))
		case strings.HasPrefix(token, "export."):
			name := procName(strings.TrimPrefix(token, "export."))
			if name != "" {
				info.Exports = append(info.Exports, name)
			}
		case strings.HasPrefix(token, "proc."):
			name := procName(strings.TrimPrefix(token, "proc."))
			if name != "" {
				info.Procs = append(info.Procs, name)
			}
		case strings.HasPrefix(token, "exec."):
			info.Invokes = append(info.Invokes, Invoke{Kind: "exec", Target: strings.TrimPrefix(token, "exec.")})
		case strings.HasPrefix(token, "call."):
			info.Invokes = append(info.Invokes, Invoke{Kind: "call", Target: strings.TrimPrefix(token, "call.")})
		case strings.HasPrefix(token, "syscall."):
			info.Invokes = append(info.Invokes, Invoke{Kind: "syscall", Target: strings.TrimPrefix(token, "syscall.")})
		}
	}

	return info
}

// procName strips the optional locals-count suffix from a procedure
// declaration, so "withdraw.2" becomes "withdraw".
func procName(decl string) string {
	if i := strings.IndexByte(decl, '.'); i >= 0 {
		return decl[:i]
	}
	return decl
}
