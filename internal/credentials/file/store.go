// Package file implements a file-backed credential store.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists the token as a single file, created with owner-only
// permissions
type Store struct {
	path string
}

// New creates a Store writing to the given path
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the conventional token location under the user's
// home directory
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gomoku/token"
	}
	return filepath.Join(home, ".gomoku", "token")
}

// Get returns the stored token, or "" when the file does not exist
func (s *Store) Get() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Set persists the token, creating the parent directory if needed
func (s *Store) Set(token string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Clear removes the token file
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
