package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func kvImpls(t *testing.T) map[string]KV {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]KV{"sqlite": sq, "memory": NewMemory()}
}

func TestRoundTrip(t *testing.T) {
	for name, kv := range kvImpls(t) {
		t.Run(name, func(t *testing.T) {
			if err := kv.Set("avatar", "7", []byte(`{"id":"avatar-5"}`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := kv.Get("avatar", "7")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != `{"id":"avatar-5"}` {
				t.Fatalf("unexpected value: %s", got)
			}
		})
	}
}

func TestOverwrite(t *testing.T) {
	for name, kv := range kvImpls(t) {
		t.Run(name, func(t *testing.T) {
			if err := kv.Set("banner", "7", []byte("a")); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := kv.Set("banner", "7", []byte("b")); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := kv.Get("banner", "7")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != "b" {
				t.Fatalf("overwrite lost: %s", got)
			}
		})
	}
}

func TestNamespaceIsolation(t *testing.T) {
	for name, kv := range kvImpls(t) {
		t.Run(name, func(t *testing.T) {
			if err := kv.Set("avatar", "7", []byte("x")); err != nil {
				t.Fatalf("set: %v", err)
			}
			if _, err := kv.Get("banner", "7"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound across namespaces, got %v", err)
			}
		})
	}
}

func TestDeleteAndMissing(t *testing.T) {
	for name, kv := range kvImpls(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get("rsvp_edit", "7:1"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if err := kv.Set("rsvp_edit", "7:1", []byte("true")); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := kv.Delete("rsvp_edit", "7:1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := kv.Get("rsvp_edit", "7:1"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
			// Deleting a missing key is not an error.
			if err := kv.Delete("rsvp_edit", "7:1"); err != nil {
				t.Fatalf("delete missing: %v", err)
			}
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	sq, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := sq.Set("rsvp_edit", "7:42", []byte("true")); err != nil {
		t.Fatalf("set: %v", err)
	}
	sq.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get("rsvp_edit", "7:42")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != "true" {
		t.Fatalf("unexpected value after reopen: %s", got)
	}
}
