// Package storage manages the per-run working directories where
// uploaded workbooks and their derived outputs live.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Workspace hands out isolated run directories under a base directory.
// Every request gets its own directory so concurrent runs never see each
// other's files, and cleanup is a single directory removal.
type Workspace struct {
	baseDir string
}

func NewWorkspace(baseDir string) *Workspace {
	return &Workspace{baseDir: baseDir}
}

// NewRunDir creates a fresh directory for one request's files.
func (w *Workspace) NewRunDir() (string, error) {
	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", fmt.Errorf("create workspace directory: %w", err)
	}
	dir, err := os.MkdirTemp(w.baseDir, "recon-")
	if err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}
	return dir, nil
}

// Save writes an uploaded file into a run directory under its base name.
// Client-supplied names are reduced to their final path element so they
// cannot escape the run directory.
func (w *Workspace) Save(runDir, name string, src io.Reader) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name: %q", name)
	}

	path := filepath.Join(runDir, base)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// ReadFile reads a named file back from a run directory.
func (w *Workspace) ReadFile(runDir, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(runDir, filepath.Base(name)))
}

// Cleanup removes a run directory and everything in it.
func (w *Workspace) Cleanup(runDir string) {
	if runDir == "" {
		return
	}
	os.RemoveAll(runDir)
}
