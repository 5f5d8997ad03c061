package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CollectSources copies the source tree rooted at src into dst so
// compilation never touches the original tree. The copy reproduces the
// relative hierarchy under dst/<base(src)> and copies file bytes
// unchanged. Every invocation performs a full copy; there is no
// incremental mode. Returns the root of the copied tree.
func CollectSources(src, dst string) (string, error) {
	root := filepath.Join(dst, filepath.Base(src))
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("creating workspace directory %s: %w", root, err)
	}

	// Work-list traversal over pending directories, relative to src.
	todo := []string{""}
	for len(todo) > 0 {
		rel := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		entries, err := os.ReadDir(filepath.Join(src, rel))
		if err != nil {
			return "", fmt.Errorf("reading source directory: %w", err)
		}

		for _, entry := range entries {
			entryRel := filepath.Join(rel, entry.Name())
			target := filepath.Join(root, entryRel)
			if entry.IsDir() {
				if err := os.MkdirAll(target, 0o755); err != nil {
					return "", fmt.Errorf("creating directory %s: %w", target, err)
				}
				todo = append(todo, entryRel)
				continue
			}
			if err := copyFile(filepath.Join(src, entryRel), target); err != nil {
				return "", err
			}
		}
	}

	return root, nil
}

// copyFile copies one regular file byte-for-byte. Handles are closed on
// every exit path.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("flushing %s: %w", dst, err)
	}
	return nil
}
