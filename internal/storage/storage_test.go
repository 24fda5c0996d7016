package storage

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func openStores(t *testing.T) map[Backend]func() Store {
	t.Helper()

	dir := t.TempDir()
	return map[Backend]func() Store{
		BackendFile: func() Store {
			s, err := Open(BackendFile, filepath.Join(dir, "data", "sent_urls.txt"))
			if err != nil {
				t.Fatalf("Open(file) error: %v", err)
			}
			return s
		},
		BackendSQLite: func() Store {
			s, err := Open(BackendSQLite, filepath.Join(dir, "data", "ledger.db"))
			if err != nil {
				t.Fatalf("Open(sqlite) error: %v", err)
			}
			return s
		},
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	for backend, open := range openStores(t) {
		t.Run(string(backend), func(t *testing.T) {
			s := open()
			defer s.Close() //nolint:errcheck

			ids, err := s.Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if len(ids) != 0 {
				t.Errorf("Load() = %v, want empty", ids)
			}
		})
	}
}

func TestStore_AppendPersistsAcrossReopen(t *testing.T) {
	urls := []string{
		"https://labola.jp/r/shop/1/event/show/2/",
		"https://labola.jp/r/shop/5/event/show/6/",
	}

	for backend, open := range openStores(t) {
		t.Run(string(backend), func(t *testing.T) {
			s := open()
			for _, u := range urls {
				if err := s.Append(u); err != nil {
					t.Fatalf("Append(%q) error: %v", u, err)
				}
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close() error: %v", err)
			}

			reopened := open()
			defer reopened.Close() //nolint:errcheck

			ids, err := reopened.Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if !slices.Equal(ids, urls) {
				t.Errorf("Load() = %v, want %v", ids, urls)
			}
		})
	}
}

func TestStore_RejectsBlankEntry(t *testing.T) {
	for backend, open := range openStores(t) {
		t.Run(string(backend), func(t *testing.T) {
			s := open()
			defer s.Close() //nolint:errcheck

			if err := s.Append("   "); err == nil {
				t.Error("Append() expected error for blank entry")
			}
		})
	}
}

func TestFileStore_ReadsHandWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_urls.txt")
	content := "https://labola.jp/r/shop/1/event/show/2/\n\n  https://labola.jp/r/shop/1/event/show/3/  \n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write ledger: %v", err)
	}

	s := NewFileStore(path)
	ids, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := []string{
		"https://labola.jp/r/shop/1/event/show/2/",
		"https://labola.jp/r/shop/1/event/show/3/",
	}
	if !slices.Equal(ids, want) {
		t.Errorf("Load() = %v, want %v", ids, want)
	}

	if err := s.Append("https://labola.jp/r/shop/1/event/show/4/"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading ledger: %v", err)
	}
	if !strings.HasPrefix(string(data), content) {
		t.Error("Append() must not rewrite existing content")
	}
	if !strings.HasSuffix(string(data), "https://labola.jp/r/shop/1/event/show/4/\n") {
		t.Errorf("Append() did not add a line: %q", data)
	}
}

func TestFileStore_AppendAfterUnterminatedLine(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "no final newline",
			content: "https://labola.jp/r/shop/1/event/show/2/",
			want: []string{
				"https://labola.jp/r/shop/1/event/show/2/",
				"https://labola.jp/r/shop/1/event/show/3/",
			},
		},
		{
			name:    "crlf without final newline",
			content: "https://labola.jp/r/shop/1/event/show/1/\r\nhttps://labola.jp/r/shop/1/event/show/2/",
			want: []string{
				"https://labola.jp/r/shop/1/event/show/1/",
				"https://labola.jp/r/shop/1/event/show/2/",
				"https://labola.jp/r/shop/1/event/show/3/",
			},
		},
		{
			name:    "terminated file gets no blank line",
			content: "https://labola.jp/r/shop/1/event/show/2/\n",
			want: []string{
				"https://labola.jp/r/shop/1/event/show/2/",
				"https://labola.jp/r/shop/1/event/show/3/",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sent_urls.txt")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write ledger: %v", err)
			}

			s := NewFileStore(path)
			if err := s.Append("https://labola.jp/r/shop/1/event/show/3/"); err != nil {
				t.Fatalf("Append() error: %v", err)
			}

			ids, err := s.Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if !slices.Equal(ids, tt.want) {
				t.Errorf("Load() = %v, want %v", ids, tt.want)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading ledger: %v", err)
			}
			if !strings.HasPrefix(string(data), tt.content) {
				t.Error("Append() must not rewrite existing content")
			}
			if strings.Contains(string(data), "\n\n") {
				t.Errorf("Append() added a blank line: %q", data)
			}
		})
	}
}

func TestFileStore_RejectsMultiLineEntry(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "sent_urls.txt"))
	if err := s.Append("https://a/\nhttps://b/"); err == nil {
		t.Error("Append() expected error for entry with newline")
	}
}

func TestSQLiteStore_DuplicateAppendIsNoop(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	defer s.Close() //nolint:errcheck

	for i := 0; i < 2; i++ {
		if err := s.Append("https://labola.jp/r/shop/1/event/show/2/"); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	ids, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("Load() returned %d entries, want 1", len(ids))
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open(Backend("redis"), filepath.Join(t.TempDir(), "x")); err == nil {
		t.Error("Open() expected error for unknown backend")
	}
	if _, err := Open(BackendFile, ""); err == nil {
		t.Error("Open() expected error for empty path")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := expandPath("~/futsal/sent_urls.txt")
	if err != nil {
		t.Fatalf("expandPath() error: %v", err)
	}
	if want := filepath.Join(home, "futsal", "sent_urls.txt"); got != want {
		t.Errorf("expandPath() = %q, want %q", got, want)
	}
}
