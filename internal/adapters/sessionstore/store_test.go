package sessionstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"realhub-app/internal/core/domain"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return New(path), path
}

func TestRoundTrip(t *testing.T) {
	store, path := testStore(t)

	rec := &Record{
		User:    domain.User{ID: 7, Phone: "0812345678", Role: domain.RoleCustomer},
		Token:   "tok-123",
		SavedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Save(rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Fatalf("file mode = %o, want 0600", perm)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Token != rec.Token || got.User.ID != rec.User.ID || !got.SavedAt.Equal(rec.SavedAt) {
		t.Fatalf("Load = %+v, want %+v", got, rec)
	}
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")
	store := New(path)

	if err := store.Save(&Record{Token: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	store, _ := testStore(t)

	if _, err := store.Load(); !errors.Is(err, domain.ErrNoStoredSession) {
		t.Fatalf("Load = %v, want ErrNoStoredSession", err)
	}
}

func TestLoadCorruptRecord(t *testing.T) {
	store, path := testStore(t)

	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("bad JSON = %v, want ErrCorrupt", err)
	}

	// Structurally valid but missing the token is corrupt too.
	if err := os.WriteFile(path, []byte(`{"user":{"id":7}}`), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("empty token = %v, want ErrCorrupt", err)
	}
}

func TestClearIdempotent(t *testing.T) {
	store, _ := testStore(t)

	if err := store.Save(&Record{Token: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, domain.ErrNoStoredSession) {
		t.Fatalf("Load after Clear = %v, want ErrNoStoredSession", err)
	}
}
