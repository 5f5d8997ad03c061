package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendfi/lendclient/internal/masm"
)

func unit(name, text string) masm.SourceUnit {
	return masm.SourceUnit{Path: name + masm.Extension, ModuleName: name, Text: text}
}

func TestAssembleLibrary_ExportsSortedByName(t *testing.T) {
	src := `
export.withdraw
end
export.deposit
end
export.borrow
end
`
	lib, err := AssembleLibrary(NewContext(), "lending::pool", unit("pool", src))
	require.NoError(t, err)

	require.Len(t, lib.Procs, 3)
	assert.Equal(t, "borrow", lib.Procs[0].Name)
	assert.Equal(t, "deposit", lib.Procs[1].Name)
	assert.Equal(t, "withdraw", lib.Procs[2].Name)
}

func TestAssembleLibrary_RejectsEntryBlock(t *testing.T) {
	src := `
begin
    push.1
end
`
	_, err := AssembleLibrary(NewContext(), "lending::pool", unit("pool", src))

	var asmErr *AssembleError
	require.ErrorAs(t, err, &asmErr)
	assert.Contains(t, asmErr.Message, "entry block")
}

func TestAssembleLibrary_UnresolvedImport(t *testing.T) {
	src := `
use.lending::not_compiled_yet

export.deposit
end
`
	_, err := AssembleLibrary(NewContext(), "lending::pool", unit("pool", src))

	var asmErr *AssembleError
	require.ErrorAs(t, err, &asmErr)
	assert.Equal(t, "use.lending::not_compiled_yet", asmErr.Ref)
}

func TestAssembleLibrary_ResolvesRegisteredSibling(t *testing.T) {
	mathSrc := `
export.checked_add
end
`
	ctx := NewContext()
	math, err := AssembleLibrary(ctx, "lending::math_utils", unit("math_utils", mathSrc))
	require.NoError(t, err)
	ctx = ctx.WithLibrary(math)

	poolSrc := `
use.lending::math_utils

export.deposit
    exec.math_utils::checked_add
end
`
	_, err = AssembleLibrary(ctx, "lending::pool", unit("pool", poolSrc))
	require.NoError(t, err)
}

func TestAssembleLibrary_UnexportedProcedure(t *testing.T) {
	mathSrc := `
export.checked_add
end
proc.internal_only
end
`
	ctx := NewContext()
	math, err := AssembleLibrary(ctx, "lending::math_utils", unit("math_utils", mathSrc))
	require.NoError(t, err)
	ctx = ctx.WithLibrary(math)

	poolSrc := `
use.lending::math_utils

export.deposit
    exec.math_utils::internal_only
end
`
	_, err = AssembleLibrary(ctx, "lending::pool", unit("pool", poolSrc))

	var asmErr *AssembleError
	require.ErrorAs(t, err, &asmErr)
	assert.Contains(t, asmErr.Message, "does not export")
}

func TestAssembleLibrary_UnknownLocalProcedure(t *testing.T) {
	src := `
export.deposit
    exec.missing_helper
end
`
	_, err := AssembleLibrary(NewContext(), "lending::pool", unit("pool", src))

	var asmErr *AssembleError
	require.ErrorAs(t, err, &asmErr)
	assert.Equal(t, "exec.missing_helper", asmErr.Ref)
}

func TestAssembleLibrary_LocalProcsResolve(t *testing.T) {
	src := `
proc.helper
end
export.deposit
    exec.helper
    exec.deposit
end
`
	_, err := AssembleLibrary(NewContext(), "lending::pool", unit("pool", src))
	require.NoError(t, err)
}

func TestAssembleLibrary_KernelProcedureResolvesByPathOnly(t *testing.T) {
	// Kernel procedure surfaces are not modeled; any procedure name
	// under a kernel module resolves.
	src := `
use.miden::account

export.deposit
    exec.account::whatever_the_kernel_provides
end
`
	_, err := AssembleLibrary(NewContext(), "lending::pool", unit("pool", src))
	require.NoError(t, err)
}

func TestAssembleLibrary_SyscallRequiresKernelTarget(t *testing.T) {
	mathSrc := `
export.checked_add
end
`
	ctx := NewContext()
	math, err := AssembleLibrary(ctx, "lending::math_utils", unit("math_utils", mathSrc))
	require.NoError(t, err)
	ctx = ctx.WithLibrary(math)

	src := `
use.lending::math_utils

export.deposit
    syscall.math_utils::checked_add
end
`
	_, err = AssembleLibrary(ctx, "lending::pool", unit("pool", src))

	var asmErr *AssembleError
	require.ErrorAs(t, err, &asmErr)
	assert.Contains(t, asmErr.Message, "kernel")
}

func TestAssembleLibrary_AliasWithoutImport(t *testing.T) {
	src := `
export.deposit
    exec.math_utils::checked_add
end
`
	_, err := AssembleLibrary(NewContext(), "lending::pool", unit("pool", src))

	var asmErr *AssembleError
	require.ErrorAs(t, err, &asmErr)
	assert.Contains(t, asmErr.Message, "use. import")
}

func TestAssembleProgram_RequiresEntryBlock(t *testing.T) {
	src := `
proc.helper
end
`
	_, err := AssembleProgram(NewContext(), unit("deposit", src))

	var asmErr *AssembleError
	require.ErrorAs(t, err, &asmErr)
	assert.Contains(t, asmErr.Message, "entry block")
}

func TestAssembleProgram_RejectsExports(t *testing.T) {
	src := `
export.leaky
end
begin
    push.1
end
`
	_, err := AssembleProgram(NewContext(), unit("deposit", src))

	var asmErr *AssembleError
	require.ErrorAs(t, err, &asmErr)
	assert.Equal(t, "leaky", asmErr.Ref)
}

func TestAssembleProgram_ResolvesAgainstContext(t *testing.T) {
	poolSrc := `
export.deposit
end
`
	ctx := NewContext()
	pool, err := AssembleLibrary(ctx, "lending::lending_pool", unit("lending_pool", poolSrc))
	require.NoError(t, err)
	ctx = ctx.WithLibrary(pool)

	progSrc := `
use.lending::lending_pool
use.miden::note

begin
    exec.note::get_assets
    call.lending_pool::deposit
end
`
	prog, err := AssembleProgram(ctx, unit("deposit", progSrc))
	require.NoError(t, err)
	assert.Equal(t, "deposit", prog.Name)
	assert.NotEqual(t, [32]byte{}, prog.Entry)
}

func TestAssembleProgram_UnregisteredLibrary(t *testing.T) {
	progSrc := `
use.lending::lending_pool

begin
    call.lending_pool::deposit
end
`
	_, err := AssembleProgram(NewContext(), unit("deposit", progSrc))

	var asmErr *AssembleError
	require.ErrorAs(t, err, &asmErr)
	assert.Equal(t, "use.lending::lending_pool", asmErr.Ref)
}
