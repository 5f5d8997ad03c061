package assembler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lendfi/lendclient/internal/masm"
)

// AssembleError describes a parse or resolution failure for one source
// unit. It always carries the offending unit path so the build can
// surface a usable diagnostic.
type AssembleError struct {
	Unit    string // source unit path
	Ref     string // offending reference, empty for structural errors
	Message string
}

func (e *AssembleError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s: %s: %s", e.Unit, e.Ref, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Unit, e.Message)
}

// AssembleLibrary parses unit as a library module under the given
// namespaced path and resolves every reference against ctx. Exported
// procedures are recorded sorted by name so the resulting artifact is
// deterministic regardless of declaration order.
func AssembleLibrary(ctx Context, path string, unit masm.SourceUnit) (Library, error) {
	info := masm.ScanModule(unit.Text)

	if info.HasEntry {
		return Library{}, &AssembleError{
			Unit:    unit.Path,
			Message: "library module must not contain a begin...end entry block",
		}
	}

	if err := resolveModule(ctx, unit, info); err != nil {
		return Library{}, err
	}

	exports := append([]string(nil), info.Exports...)
	sort.Strings(exports)

	procs := make([]Procedure, len(exports))
	for i, name := range exports {
		procs[i] = Procedure{
			Name:   name,
			Digest: procedureDigest(path, name, unit.Text),
		}
	}

	return Library{Path: path, Procs: procs}, nil
}

// AssembleProgram parses unit as a standalone executable program and
// resolves every reference against the final ctx. Programs register
// nothing back into the context.
func AssembleProgram(ctx Context, unit masm.SourceUnit) (Program, error) {
	info := masm.ScanModule(unit.Text)

	if !info.HasEntry {
		return Program{}, &AssembleError{
			Unit:    unit.Path,
			Message: "program must contain a begin...end entry block",
		}
	}
	if len(info.Exports) > 0 {
		return Program{}, &AssembleError{
			Unit:    unit.Path,
			Ref:     info.Exports[0],
			Message: "program must not export procedures",
		}
	}

	if err := resolveModule(ctx, unit, info); err != nil {
		return Program{}, err
	}

	return Program{
		Name:  unit.ModuleName,
		Entry: programDigest(unit.ModuleName, unit.Text),
	}, nil
}

// resolveModule checks every import and invocation of a scanned module
// against the context. Local procedures may reference each other
// freely; anything qualified must name a kernel module or a library
// registered by an earlier compilation step.
func resolveModule(ctx Context, unit masm.SourceUnit, info masm.ModuleInfo) error {
	aliases := make(map[string]string, len(info.Imports))
	for _, imp := range info.Imports {
		if !ctx.Resolvable(imp) {
			return &AssembleError{
				Unit:    unit.Path,
				Ref:     "use." + imp,
				Message: "module is not a kernel module and has not been compiled yet",
			}
		}
		aliases[lastSegment(imp)] = imp
	}

	local := make(map[string]struct{}, len(info.Exports)+len(info.Procs))
	for _, name := range info.Exports {
		local[name] = struct{}{}
	}
	for _, name := range info.Procs {
		local[name] = struct{}{}
	}

	for _, inv := range info.Invokes {
		if err := resolveInvoke(ctx, unit, aliases, local, inv); err != nil {
			return err
		}
	}

	return nil
}

func resolveInvoke(ctx Context, unit masm.SourceUnit, aliases map[string]string, local map[string]struct{}, inv masm.Invoke) error {
	ref := inv.Kind + "." + inv.Target

	// Unqualified target: a procedure of this module.
	if !strings.Contains(inv.Target, "::") {
		if _, ok := local[inv.Target]; !ok {
			return &AssembleError{
				Unit:    unit.Path,
				Ref:     ref,
				Message: "procedure is not declared in this module",
			}
		}
		return nil
	}

	modRef, procN := splitTarget(inv.Target)

	// A bare alias refers to an imported module.
	path := modRef
	if !strings.Contains(modRef, "::") {
		full, ok := aliases[modRef]
		if !ok {
			return &AssembleError{
				Unit:    unit.Path,
				Ref:     ref,
				Message: "module alias has no matching use. import",
			}
		}
		path = full
	}

	if inv.Kind == "syscall" {
		if !IsKernelModule(path) {
			return &AssembleError{
				Unit:    unit.Path,
				Ref:     ref,
				Message: "syscall target must be a kernel module",
			}
		}
		return nil
	}

	// Kernel procedures resolve by module path alone; the kernel's
	// procedure surface belongs to the execution engine.
	if IsKernelModule(path) {
		return nil
	}

	lib, ok := ctx.Lookup(path)
	if !ok {
		return &AssembleError{
			Unit:    unit.Path,
			Ref:     ref,
			Message: "library is not registered in the assembler context",
		}
	}
	if !lib.Exports(procN) {
		return &AssembleError{
			Unit:    unit.Path,
			Ref:     ref,
			Message: fmt.Sprintf("library %s does not export this procedure", path),
		}
	}

	return nil
}

// splitTarget splits an invocation target at its last "::" into the
// module reference and the procedure name.
func splitTarget(target string) (module, proc string) {
	i := strings.LastIndex(target, "::")
	return target[:i], target[i+2:]
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "::"); i >= 0 {
		return path[i+2:]
	}
	return path
}
