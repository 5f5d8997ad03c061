package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKernelModule(t *testing.T) {
	assert.True(t, IsKernelModule("miden::account"))
	assert.True(t, IsKernelModule("miden::note"))
	assert.True(t, IsKernelModule("miden::tx"))
	assert.True(t, IsKernelModule("std::math::u64"))
	assert.True(t, IsKernelModule("std::collections::smt"))

	assert.False(t, IsKernelModule("lending::pool"))
	assert.False(t, IsKernelModule("miden"))
	assert.False(t, IsKernelModule("miden::unheard_of"))
	assert.False(t, IsKernelModule(""))
}
