// Package scanner walks a directory tree and finds statement documents
// for batch parsing.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Scanner walks a directory tree and finds statement files.
type Scanner struct {
	rootDir string
}

// New creates a scanner for the given root directory.
func New(rootDir string) *Scanner {
	return &Scanner{rootDir: rootDir}
}

// Scan walks the tree and returns every statement document path in walk
// order.
func (s *Scanner) Scan() ([]string, error) {
	rootDir, err := s.expandHome(s.rootDir)
	if err != nil {
		return nil, err
	}

	var results []string
	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !s.isStatementFile(path) {
			return nil
		}
		results = append(results, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return results, nil
}

// isStatementFile checks if the file is a supported document format:
// native-text PDFs or pre-extracted text renderings.
func (s *Scanner) isStatementFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".pdf" || ext == ".txt"
}

// expandHome expands a leading ~/ to the home directory.
func (s *Scanner) expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand %s: %w", path, err)
	}
	return filepath.Join(home, path[2:]), nil
}
