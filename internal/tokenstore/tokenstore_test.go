package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")
	store := NewFileStore(path)

	pair := model.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	if err := store.Save(pair); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("file mode = %o, want 600", perm)
	}

	got, ok := store.Load()
	if !ok {
		t.Fatal("Load ok = false, want true")
	}
	if got.AccessToken != "access-1" || got.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected pair: %+v", got)
	}
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "tokens.json"))

	if _, ok := store.Load(); ok {
		t.Fatal("Load ok = true for missing file, want false")
	}
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	store := NewFileStore(path)
	if _, ok := store.Load(); ok {
		t.Fatal("Load ok = true for corrupt file, want false")
	}
}

func TestFileStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileStore(path)

	if err := store.Save(model.TokenPair{AccessToken: "access-1"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Fatal("Load ok = true after Clear, want false")
	}

	// Повторная очистка не должна считаться ошибкой.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear error: %v", err)
	}
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()

	if _, ok := store.Load(); ok {
		t.Fatal("empty store Load ok = true, want false")
	}

	if err := store.Save(model.TokenPair{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, ok := store.Load()
	if !ok || got.AccessToken != "a" {
		t.Fatalf("unexpected pair: %+v ok=%v", got, ok)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Fatal("Load ok = true after Clear, want false")
	}
}
