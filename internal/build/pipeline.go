// Package build implements the MASM compilation pipeline: it copies
// the source tree into an isolated workspace, compiles library-kind
// units into .masl artifacts in explicit dependency order, compiles
// note-script units into .masb artifacts against the final assembler
// context, and generates the typed error-constant registry from the
// library source.
//
// The pipeline is single-threaded and fail-fast: stages run in strict
// sequence and the first failure in any stage aborts the whole build.
package build

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lendfi/lendclient/internal/assembler"
	"github.com/lendfi/lendclient/internal/masm"
)

// Source tree layout relative to the ASM source root.
const (
	ContractsDir   = "contracts"
	NoteScriptsDir = "note_scripts"
)

// DefaultNamespace is the namespace library modules are compiled
// under; a unit pool.masm becomes the library "lending::pool".
const DefaultNamespace = "lending"

// Pipeline describes one build invocation. Fields are read once by Run;
// a Pipeline value is not reused across builds.
type Pipeline struct {
	SourceRoot string // ASM source tree containing contracts/ and note_scripts/
	WorkDir    string // isolated build workspace the source is copied into
	AssetsDir  string // artifact output root (assets/contracts, assets/note_scripts)
	Namespace  string // library namespace; DefaultNamespace if empty

	// ErrorsFile is where the generated error registry is written.
	// Generation runs only when WriteGenerated is set, mirroring the
	// explicit write-generated-files-into-source-tree toggle.
	ErrorsFile     string
	WriteGenerated bool

	// Logf receives informational warnings and per-unit progress.
	// Optional; discarded when nil.
	Logf func(format string, args ...any)
}

// Result records what a build produced.
type Result struct {
	Skipped         bool     // source root absent, everything skipped
	Libraries       []string // compiled library names, in compile order
	Programs        []string // compiled program names
	ErrorsGenerated bool     // registry file was written

	// Context is the final assembler context with every compiled
	// library registered. Read-only after Run returns.
	Context assembler.Context
}

// Run executes the full pipeline: collect -> libraries -> programs ->
// error registry. A missing source root or missing subdirectory skips
// the dependent stages with a warning; every other failure is fatal and
// leaves no artifacts for units after the failing one.
func (p *Pipeline) Run() (*Result, error) {
	logf := p.logf()
	res := &Result{Context: assembler.NewContext()}

	if !dirExists(p.SourceRoot) {
		logf("no %s directory found, skipping MASM compilation", p.SourceRoot)
		res.Skipped = true
		return res, nil
	}

	copied, err := CollectSources(p.SourceRoot, p.WorkDir)
	if err != nil {
		return nil, err
	}

	contractsDir := filepath.Join(copied, ContractsDir)
	scriptsDir := filepath.Join(copied, NoteScriptsDir)

	ctx := assembler.NewContext()

	if dirExists(contractsDir) {
		ctx, err = CompileLibraries(ctx, contractsDir, filepath.Join(p.AssetsDir, ContractsDir), p.namespace(), logf)
		if err != nil {
			return nil, err
		}
		for _, lib := range ctx.Libraries() {
			res.Libraries = append(res.Libraries, lib.Name())
		}
	} else {
		logf("no %s directory, skipping library compilation and error generation", ContractsDir)
	}

	if dirExists(scriptsDir) {
		names, err := CompilePrograms(ctx, scriptsDir, filepath.Join(p.AssetsDir, NoteScriptsDir), logf)
		if err != nil {
			return nil, err
		}
		res.Programs = names
	} else {
		logf("no %s directory, skipping note script compilation", NoteScriptsDir)
	}

	if dirExists(contractsDir) && p.WriteGenerated {
		if err := GenerateErrorRegistry(contractsDir, p.ErrorsFile, logf); err != nil {
			return nil, err
		}
		res.ErrorsGenerated = true
	}

	res.Context = ctx
	return res, nil
}

// Check resolves every source unit and scans for error-constant
// conflicts without writing artifacts or the registry. Used by the
// validate command.
func (p *Pipeline) Check() (*Result, error) {
	logf := p.logf()
	res := &Result{Context: assembler.NewContext()}

	if !dirExists(p.SourceRoot) {
		logf("no %s directory found, nothing to validate", p.SourceRoot)
		res.Skipped = true
		return res, nil
	}

	contractsDir := filepath.Join(p.SourceRoot, ContractsDir)
	scriptsDir := filepath.Join(p.SourceRoot, NoteScriptsDir)

	ctx := assembler.NewContext()

	if dirExists(contractsDir) {
		units, err := masm.FindSourceUnits(contractsDir)
		if err != nil {
			return nil, err
		}
		ordered, err := DependencyOrder(units, p.namespace())
		if err != nil {
			return nil, err
		}
		for _, unit := range ordered {
			lib, err := assembler.AssembleLibrary(ctx, p.namespace()+"::"+unit.ModuleName, unit)
			if err != nil {
				return nil, fmt.Errorf("validating library %s: %w", unit.ModuleName, err)
			}
			ctx = ctx.WithLibrary(lib)
			res.Libraries = append(res.Libraries, unit.ModuleName)
			logf("validated library: %s", unit.ModuleName)
		}

		if _, err := CollectErrorDecls(contractsDir); err != nil {
			return nil, err
		}
	}

	if dirExists(scriptsDir) {
		units, err := masm.FindSourceUnits(scriptsDir)
		if err != nil {
			return nil, err
		}
		for _, unit := range units {
			if _, err := assembler.AssembleProgram(ctx, unit); err != nil {
				return nil, fmt.Errorf("validating note script %s: %w", unit.ModuleName, err)
			}
			res.Programs = append(res.Programs, unit.ModuleName)
			logf("validated note script: %s", unit.ModuleName)
		}
	}

	res.Context = ctx
	return res, nil
}

func (p *Pipeline) namespace() string {
	if p.Namespace == "" {
		return DefaultNamespace
	}
	return p.Namespace
}

func (p *Pipeline) logf() func(string, ...any) {
	if p.Logf != nil {
		return p.Logf
	}
	return func(string, ...any) {}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
