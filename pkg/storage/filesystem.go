package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProofStore persists payment-proof files on disk under a base directory.
// Stored references are paths relative to that directory.
type ProofStore struct {
	baseDir string
}

// NewProofStore ensures the base directory exists and returns a handle.
func NewProofStore(baseDir string) (*ProofStore, error) {
	if baseDir == "" {
		baseDir = "./proofs"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create proof directory: %w", err)
	}
	return &ProofStore{baseDir: baseDir}, nil
}

// Save writes the given bytes under the provided relative filename.
func (s *ProofStore) Save(filename string, data []byte) (string, error) {
	path := s.resolve(filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write proof file: %w", err)
	}
	return filename, nil
}

// Open returns a read-only handle for the stored file.
func (s *ProofStore) Open(filename string) (*os.File, error) {
	file, err := os.Open(s.resolve(filename))
	if err != nil {
		return nil, fmt.Errorf("open proof file: %w", err)
	}
	return file, nil
}

// Exists reports whether the referenced proof is still on disk.
func (s *ProofStore) Exists(filename string) bool {
	info, err := os.Stat(s.resolve(filename))
	return err == nil && !info.IsDir()
}

// Delete removes a stored file if present.
func (s *ProofStore) Delete(filename string) error {
	if err := os.Remove(s.resolve(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete proof file: %w", err)
	}
	return nil
}

// Path exposes the underlying absolute path (useful for debugging).
func (s *ProofStore) Path(filename string) string {
	return s.resolve(filename)
}

func (s *ProofStore) resolve(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(s.baseDir, filepath.Base(filename))
}
