package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultManifestFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest()

	assert.Equal(t, "asm", m.SourceRoot)
	assert.Equal(t, "assets", m.AssetsDir)
	assert.Equal(t, "lending", m.Namespace)
	assert.Equal(t, "internal/errors/lending_errors.go", m.ErrorsFile)
	assert.True(t, m.WriteGenerated)
}

func TestLoadManifest_MissingFileUsesDefaults(t *testing.T) {
	m, err := LoadManifest(filepath.Join(t.TempDir(), "absent.cue"))
	require.NoError(t, err)
	assert.Equal(t, DefaultManifest(), m)
}

func TestLoadManifest_PartialOverride(t *testing.T) {
	path := writeManifest(t, `
build: {
	source_root: "masm_src"
	namespace:   "protocol"
}
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "masm_src", m.SourceRoot)
	assert.Equal(t, "protocol", m.Namespace)
	assert.Equal(t, "assets", m.AssetsDir, "unset fields keep schema defaults")
	assert.True(t, m.WriteGenerated)
}

func TestLoadManifest_InvalidNamespace(t *testing.T) {
	path := writeManifest(t, `
build: namespace: "Not-Valid"
`)

	_, err := LoadManifest(path)
	require.Error(t, err)
}

func TestLoadManifest_WrongType(t *testing.T) {
	path := writeManifest(t, `
build: write_generated: "yes please"
`)

	_, err := LoadManifest(path)
	require.Error(t, err)
}

func TestLoadManifest_MalformedCUE(t *testing.T) {
	path := writeManifest(t, `build: { source_root:`)

	_, err := LoadManifest(path)
	require.Error(t, err)
}

func TestLoadManifest_EnvOverride(t *testing.T) {
	path := writeManifest(t, `
build: write_generated: true
`)

	t.Setenv(writeGeneratedEnv, "0")
	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.False(t, m.WriteGenerated)

	t.Setenv(writeGeneratedEnv, "1")
	m, err = LoadManifest(path)
	require.NoError(t, err)
	assert.True(t, m.WriteGenerated)
}

func TestLoadManifest_EnvIgnoresUnknownValues(t *testing.T) {
	t.Setenv(writeGeneratedEnv, "maybe")

	m, err := LoadManifest(filepath.Join(t.TempDir(), "absent.cue"))
	require.NoError(t, err)
	assert.True(t, m.WriteGenerated, "unrecognized env values leave the manifest untouched")
}
