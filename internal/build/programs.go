package build

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lendfi/lendclient/internal/assembler"
	"github.com/lendfi/lendclient/internal/masm"
)

// CompilePrograms compiles every program-kind source unit in srcDir
// into a standalone binary artifact in outDir. Programs are mutually
// independent and register nothing back into the context, so the loop
// assembles each unit against the same final context. Any failure
// aborts the build; no artifact is retained for sibling units that
// would have compiled after the failing one.
func CompilePrograms(ctx assembler.Context, srcDir, outDir string, logf func(string, ...any)) ([]string, error) {
	units, err := masm.FindSourceUnits(srcDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory %s: %w", outDir, err)
	}

	var names []string
	for _, unit := range units {
		prog, err := assembler.AssembleProgram(ctx, unit)
		if err != nil {
			return nil, fmt.Errorf("compiling note script %s: %w", unit.ModuleName, err)
		}

		artifact := filepath.Join(outDir, unit.ModuleName+assembler.ProgramExtension)
		if err := os.WriteFile(artifact, assembler.EncodeProgram(prog), 0o644); err != nil {
			return nil, fmt.Errorf("writing program artifact %s: %w", artifact, err)
		}

		names = append(names, unit.ModuleName)
		logf("compiled note script: %s", unit.ModuleName)
	}

	return names, nil
}
