// internal/filestore/filestore.go
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// Store is a directory-backed implementation of schemas.FileSystem. The
// agent addresses files by logical relative names; every name is resolved
// inside the sandbox root and anything that escapes it is rejected before
// touching the disk.
type Store struct {
	root string
	log  *zap.Logger

	mu           sync.Mutex
	extractedSeq int
}

var _ schemas.FileSystem = (*Store)(nil)

// New creates the sandbox root if needed and returns a Store over it.
func New(root string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving sandbox root %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating sandbox root %q: %w", abs, err)
	}
	return &Store{root: abs, log: logger.Named("filestore")}, nil
}

// Root returns the absolute sandbox directory.
func (s *Store) Root() string { return s.root }

// resolve maps a logical name onto an absolute path inside the sandbox.
func (s *Store) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("file name must not be empty")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("file name %q must be relative to the sandbox", name)
	}
	cleaned := filepath.Clean(name)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("file name %q escapes the sandbox", name)
	}
	return filepath.Join(s.root, cleaned), nil
}

// Read returns the content of the named file.
func (s *Store) Read(_ context.Context, name string) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file %q does not exist", name)
		}
		return "", fmt.Errorf("reading %q: %w", name, err)
	}
	return string(data), nil
}

// Write creates or truncates the named file, creating parent directories
// for nested names.
func (s *Store) Write(_ context.Context, name, content string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating parent of %q: %w", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", name, err)
	}
	s.log.Debug("File written.", zap.String("name", name), zap.Int("bytes", len(content)))
	return nil
}

// Append appends content to the named file, creating it if needed.
func (s *Store) Append(_ context.Context, name, content string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating parent of %q: %w", name, err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %q for append: %w", name, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("appending to %q: %w", name, err)
	}
	return nil
}

// ReplaceString substitutes every occurrence of old with new in the named
// file and reports how many replacements were made.
func (s *Store) ReplaceString(ctx context.Context, name, old, new string) (int, error) {
	if old == "" {
		return 0, fmt.Errorf("replacement target must not be empty")
	}
	content, err := s.Read(ctx, name)
	if err != nil {
		return 0, err
	}
	count := strings.Count(content, old)
	if count == 0 {
		return 0, nil
	}
	if err := s.Write(ctx, name, strings.ReplaceAll(content, old, new)); err != nil {
		return 0, err
	}
	return count, nil
}

// SaveExtracted stores content under the next extracted_content_N.md name
// and returns that name.
func (s *Store) SaveExtracted(ctx context.Context, content string) (string, error) {
	s.mu.Lock()
	name := fmt.Sprintf("extracted_content_%d.md", s.extractedSeq)
	s.extractedSeq++
	s.mu.Unlock()

	if err := s.Write(ctx, name, content); err != nil {
		return "", err
	}
	return name, nil
}

// List returns the logical names of all files in the sandbox, sorted.
func (s *Store) List(_ context.Context) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing sandbox: %w", err)
	}
	sort.Strings(names)
	return names, nil
}
