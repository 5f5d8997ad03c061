package assembler

// kernelModules is the base toolchain: the transaction-kernel's builtin
// MASM libraries that every context starts from. Procedures of kernel
// modules are resolved by module path only; the kernel's full procedure
// surface is owned by the execution engine, not the build pipeline.
var kernelModules = map[string]struct{}{
	// Standard library
	"std::math::u64":        {},
	"std::mem":              {},
	"std::sys":              {},
	"std::crypto::hashes":   {},
	"std::collections::smt": {},

	// Transaction kernel API
	"miden::account":    {},
	"miden::account_id": {},
	"miden::asset":      {},
	"miden::faucet":     {},
	"miden::note":       {},
	"miden::tx":         {},
}

// IsKernelModule reports whether path names a builtin toolchain module.
func IsKernelModule(path string) bool {
	_, ok := kernelModules[path]
	return ok
}
