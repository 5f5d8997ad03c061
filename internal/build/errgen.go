package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lendfi/lendclient/internal/masm"
)

// ConflictError reports that the same error constant was declared with
// two different messages across the library source tree. This guards
// against accidental error-code collisions between independently
// authored files and always aborts the build before any output is
// written.
type ConflictError struct {
	Name     string // constant name without the ERR_ prefix
	Existing string
	Conflict string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("error constant ERR_%s defined with different messages: %q vs %q",
		e.Name, e.Existing, e.Conflict)
}

// GenerateErrorRegistry walks every MASM file under srcDir (the copied
// contracts tree, recursively and independently of compile order),
// extracts const.ERR_ declarations, and writes a generated Go source
// file declaring one typed constant per unique error name.
//
// Identical duplicate declarations are idempotent; a name declared with
// two different messages is a fatal ConflictError, raised before the
// output file is created or overwritten. Entries are emitted sorted by
// name, so identical source always yields byte-identical output.
func GenerateErrorRegistry(srcDir, outPath string, logf func(string, ...any)) error {
	registry, err := CollectErrorDecls(srcDir)
	if err != nil {
		return err
	}

	content := renderErrorRegistry(registry)

	if err := writeFileAtomic(outPath, []byte(content)); err != nil {
		return err
	}

	logf("generated error constants in %s", outPath)
	return nil
}

// CollectErrorDecls scans the full source tree and merges every error
// declaration into a name -> message map, failing on the first
// conflicting redeclaration.
func CollectErrorDecls(srcDir string) (map[string]string, error) {
	registry := make(map[string]string)

	err := masm.WalkSourceFiles(srcDir, func(path string) error {
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, decl := range masm.ExtractErrorDecls(string(text)) {
			if existing, ok := registry[decl.Name]; ok {
				if existing != decl.Message {
					return &ConflictError{Name: decl.Name, Existing: existing, Conflict: decl.Message}
				}
				continue
			}
			registry[decl.Name] = decl.Message
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return registry, nil
}

// renderErrorRegistry produces the generated source text: a
// machine-generated header, then one documented constant per entry in
// ascending name order.
func renderErrorRegistry(registry map[string]string) string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("// Code generated by lendclient build. DO NOT EDIT.\n")
	b.WriteString("// Error constants extracted from MASM source in the contracts directory.\n\n")
	b.WriteString("package errors\n\n")
	b.WriteString("import \"github.com/lendfi/lendclient/internal/masm\"\n")

	for _, name := range names {
		message := registry[name]
		b.WriteString("\n")
		fmt.Fprintf(&b, "// Error Message: %q\n", message)
		fmt.Fprintf(&b, "const ERR_%s = masm.Error(%q)\n", name, message)
	}

	return b.String()
}

// writeFileAtomic writes content through a temp file in the target
// directory followed by a rename, so a failed build never leaves a
// generated file that differs from the previously committed one.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("flushing %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("committing %s: %w", path, err)
	}
	return nil
}
