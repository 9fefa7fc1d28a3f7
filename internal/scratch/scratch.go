// Package scratch manages the on-disk scratch copies required by
// path-based external collaborators. The inference service only accepts a
// file path, so every analyze operation materializes the image here; the
// same copy later feeds report generation.
package scratch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Dir is a directory of uuid-named scratch files. All files it hands out
// live directly under its root; Remove refuses paths outside of it.
type Dir struct {
	root string
}

// New creates (if needed) and wraps a scratch directory. An empty root
// defaults to a facex subdirectory of the OS temp dir.
func New(root string) (*Dir, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "facex")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory scratch files are written to.
func (d *Dir) Root() string {
	return d.root
}

// Write stores data as a new uuid-named file with the given extension
// ("jpeg", "png", ...) and returns its absolute path.
func (d *Dir) Write(data []byte, ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "bin"
	}
	path := filepath.Join(d.root, fmt.Sprintf("%s.%s", uuid.New().String(), ext))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	return path, nil
}

// Remove deletes a scratch file. A file that is already gone is not an
// error; a path outside the scratch root is.
func (d *Dir) Remove(path string) error {
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(d.root) {
		return fmt.Errorf("refusing to remove %q: outside scratch dir %q", path, d.root)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove scratch file: %w", err)
	}
	return nil
}
