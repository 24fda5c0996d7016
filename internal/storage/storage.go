package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend names a Store implementation
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Store persists the set of identifiers already notified
type Store interface {
	// Load returns every stored identifier in insertion order.
	// A store that does not exist yet is empty, not an error.
	Load() ([]string, error)
	// Append durably records one identifier.
	Append(id string) error
	Close() error
}

// Open creates the Store for backend at path
func Open(backend Backend, path string) (Store, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	switch Backend(strings.ToLower(string(backend))) {
	case BackendFile, "":
		return NewFileStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown ledger backend: %s (must be 'file' or 'sqlite')", backend)
	}
}

// expandPath expands a leading ~/ to the home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("store path is required")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return path, nil
}

// ensureDir creates the parent directory of path if it doesn't exist
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}
