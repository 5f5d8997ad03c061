package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidateCommand(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestValidateCommand(t *testing.T) {
	src := sourceTree(t)

	buf, err := runValidateCommand(t,
		"--manifest", filepath.Join(t.TempDir(), "absent.cue"),
		"--source", src,
	)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ Validated 2 libraries, 1 note script(s)")
}

func TestValidateCommand_WritesNothing(t *testing.T) {
	src := sourceTree(t)

	_, err := runValidateCommand(t,
		"--manifest", filepath.Join(t.TempDir(), "absent.cue"),
		"--source", src,
	)
	require.NoError(t, err)

	// The source tree holds only the original directories; validation
	// added no assets.
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestValidateCommand_ReportsFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "asm")
	writeTestFile(t, filepath.Join(root, "contracts", "bad.masm"), "export.x\n    exec.ghost\nend\n")

	buf, err := runValidateCommand(t,
		"--manifest", filepath.Join(t.TempDir(), "absent.cue"),
		"--source", root,
	)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), ErrCodeAssembly)
}
