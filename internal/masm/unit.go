package masm

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Extension is the file extension of MASM source units.
const Extension = ".masm"

// sourcePattern matches MASM source file names. Matching is performed
// against the lowercased base name so MODULE.MASM is picked up too.
const sourcePattern = "*" + Extension

// SourceUnit is one file of MASM source, either library-kind (a module
// of reusable procedures) or program-kind (a standalone entry point).
// Units are ephemeral: created by directory enumeration and consumed
// once by a compiler stage.
type SourceUnit struct {
	Path       string // absolute or workspace-relative file path
	ModuleName string // file stem, e.g. "lending_pool"
	Text       string // raw source content
}

// FindSourceUnits enumerates the MASM source units directly inside dir
// (non-recursive) and returns them sorted by module name. The sort
// removes any dependence on directory enumeration order.
func FindSourceUnits(dir string) ([]SourceUnit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory %s: %w", dir, err)
	}

	var units []SourceUnit
	for _, entry := range entries {
		if entry.IsDir() || !IsSourceFile(entry.Name()) {
			continue
		}
		unit, err := ReadUnit(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	sort.Slice(units, func(i, j int) bool {
		return units[i].ModuleName < units[j].ModuleName
	})
	return units, nil
}

// ReadUnit loads a single MASM source unit from path.
func ReadUnit(path string) (SourceUnit, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return SourceUnit{}, fmt.Errorf("reading source unit %s: %w", path, err)
	}
	return SourceUnit{
		Path:       path,
		ModuleName: ModuleName(path),
		Text:       string(text),
	}, nil
}

// ModuleName derives the module name from a source file path: the base
// name with the extension stripped.
func ModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsSourceFile reports whether name looks like a MASM source file.
func IsSourceFile(name string) bool {
	ok, err := doublestar.Match(sourcePattern, strings.ToLower(filepath.Base(name)))
	return err == nil && ok
}

// WalkSourceFiles visits every MASM source file under root recursively,
// in lexical walk order, calling fn with each file path. Used by stages
// that need the full tree rather than a single directory (the error
// registry scan).
func WalkSourceFiles(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsSourceFile(path) {
			return nil
		}
		return fn(path)
	})
}
