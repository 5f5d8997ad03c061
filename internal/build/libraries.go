package build

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lendfi/lendclient/internal/assembler"
	"github.com/lendfi/lendclient/internal/masm"
)

// CompileLibraries compiles every library-kind source unit in srcDir
// into a binary library artifact in outDir, threading the assembler
// context through the loop: each successfully compiled library is
// registered into the context handed to the next unit, so later units
// may call procedures of earlier ones. Units are compiled in explicit
// dependency order (DependencyOrder), never in raw directory order.
//
// The first parse, resolution or I/O failure aborts the loop; no
// artifact is written for any unit after the failing one. The returned
// context carries every registered library for program compilation.
func CompileLibraries(ctx assembler.Context, srcDir, outDir, namespace string, logf func(string, ...any)) (assembler.Context, error) {
	units, err := masm.FindSourceUnits(srcDir)
	if err != nil {
		return ctx, err
	}

	ordered, err := DependencyOrder(units, namespace)
	if err != nil {
		return ctx, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return ctx, fmt.Errorf("creating artifact directory %s: %w", outDir, err)
	}

	for _, unit := range ordered {
		path := namespace + "::" + unit.ModuleName

		lib, err := assembler.AssembleLibrary(ctx, path, unit)
		if err != nil {
			return ctx, fmt.Errorf("compiling library %s: %w", unit.ModuleName, err)
		}
		ctx = ctx.WithLibrary(lib)

		artifact := filepath.Join(outDir, unit.ModuleName+assembler.LibraryExtension)
		if err := os.WriteFile(artifact, assembler.EncodeLibrary(lib), 0o644); err != nil {
			return ctx, fmt.Errorf("writing library artifact %s: %w", artifact, err)
		}

		logf("compiled library: %s", unit.ModuleName)
	}

	return ctx, nil
}
