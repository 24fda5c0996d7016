package storage

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// FileStore keeps one identifier per line in a text file
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore. The file is created on first Append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads every non-blank line of the file
func (s *FileStore) Load() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No previous ledger, start empty
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	defer f.Close() //nolint:errcheck

	ids := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			ids = append(ids, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	return ids, nil
}

// Append writes id as a new line and syncs the file
func (s *FileStore) Append(id string) error {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "\r\n") {
		return fmt.Errorf("invalid ledger entry: %q", id)
	}

	if err := ensureDir(s.path); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	entry := id + "\n"
	terminated, err := endsWithNewline(f)
	if err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if !terminated {
		// a hand-edited file may lack the final newline
		entry = "\n" + entry
	}

	if _, err := f.WriteString(entry); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("writing ledger: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("syncing ledger: %w", err)
	}

	return f.Close()
}

// endsWithNewline reports whether f is empty or its last byte is a newline
func endsWithNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("reading ledger: %w", err)
	}
	if info.Size() == 0 {
		return true, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, fmt.Errorf("reading ledger: %w", err)
	}
	return last[0] == '\n', nil
}

// Close is a no-op; the file is opened per Append
func (s *FileStore) Close() error {
	return nil
}
