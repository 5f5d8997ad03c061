package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var manifestSchema string

// DefaultManifestFile is the conventional manifest location.
const DefaultManifestFile = "build.cue"

// writeGeneratedEnv toggles registry generation from the environment,
// overriding whatever the manifest says.
const writeGeneratedEnv = "LENDCLIENT_WRITE_GENERATED"

// Manifest holds the build pipeline's settings: where the MASM source
// lives, where artifacts go, and whether the generated error registry
// is written back into the source tree.
type Manifest struct {
	SourceRoot     string `json:"source_root"`
	AssetsDir      string `json:"assets_dir"`
	Namespace      string `json:"namespace"`
	ErrorsFile     string `json:"errors_file"`
	WriteGenerated bool   `json:"write_generated"`
}

// DefaultManifest returns the manifest the build uses when no build.cue
// exists: the schema's default values with the environment toggle
// applied.
func DefaultManifest() Manifest {
	m, err := decodeManifest(nil, "")
	if err != nil {
		// The embedded schema's defaults always decode.
		panic(fmt.Sprintf("config: invalid embedded manifest schema: %v", err))
	}
	return m.applyEnv()
}

// LoadManifest reads and validates a CUE build manifest. A missing file
// is not an error: the defaults apply. Manifest values that violate the
// schema (wrong types, malformed namespace) are rejected with a CUE
// diagnostic.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultManifest(), nil
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	m, err := decodeManifest(data, path)
	if err != nil {
		return Manifest{}, err
	}
	return m.applyEnv(), nil
}

// decodeManifest unifies the user manifest (may be nil) with the
// embedded schema and decodes the build value.
func decodeManifest(data []byte, filename string) (Manifest, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(manifestSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Manifest{}, fmt.Errorf("compiling manifest schema: %w", err)
	}

	value := schema
	if data != nil {
		user := ctx.CompileBytes(data, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return Manifest{}, fmt.Errorf("compiling manifest %s: %w", filename, err)
		}
		value = schema.Unify(user)
		if err := value.Err(); err != nil {
			return Manifest{}, fmt.Errorf("manifest %s does not match schema: %w", filename, err)
		}
	}

	buildVal := value.LookupPath(cue.ParsePath("build"))
	if !buildVal.Exists() {
		return Manifest{}, fmt.Errorf("manifest %s: no build value", filename)
	}
	if err := buildVal.Validate(cue.Concrete(true)); err != nil {
		return Manifest{}, fmt.Errorf("validating manifest %s: %w", filename, err)
	}

	var m Manifest
	if err := buildVal.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decoding manifest %s: %w", filename, err)
	}
	return m, nil
}

// applyEnv applies the LENDCLIENT_WRITE_GENERATED override.
func (m Manifest) applyEnv() Manifest {
	switch os.Getenv(writeGeneratedEnv) {
	case "1", "true", "yes":
		m.WriteGenerated = true
	case "0", "false", "no":
		m.WriteGenerated = false
	}
	return m
}
