package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	stores := map[string]Storage{
		"memory": NewMemoryStorage(),
		"file":   NewFileStorage(filepath.Join(t.TempDir(), "storage.json")),
	}

	for name, storage := range stores {
		t.Run(name, func(t *testing.T) {
			ts := NewTokenStore(storage)

			if _, ok := ts.Get(); ok {
				t.Fatal("new store should have no token")
			}

			if err := ts.Set("abc.def.ghi"); err != nil {
				t.Fatalf("Set() returned error: %v", err)
			}
			got, ok := ts.Get()
			if !ok || got != "abc.def.ghi" {
				t.Errorf("Get() = %q, %v; want abc.def.ghi, true", got, ok)
			}

			if err := ts.Clear(); err != nil {
				t.Fatalf("Clear() returned error: %v", err)
			}
			if _, ok := ts.Get(); ok {
				t.Error("token should be absent after Clear()")
			}

			// Clearing twice is harmless
			if err := ts.Clear(); err != nil {
				t.Errorf("second Clear() returned error: %v", err)
			}
		})
	}
}

func TestTokenStore_RejectsEmpty(t *testing.T) {
	ts := NewTokenStore(NewMemoryStorage())
	if err := ts.Set("   "); err == nil {
		t.Error("Set() with blank token should fail")
	}
}

func TestTokenStore_BlankStoredValueIsAbsent(t *testing.T) {
	storage := NewMemoryStorage()
	_ = storage.Set(TokenKey, "")
	if _, ok := NewTokenStore(storage).Get(); ok {
		t.Error("blank stored token should read as absent")
	}
}

func TestFileStorage_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")

	if err := NewTokenStore(NewFileStorage(path)).Set("persisted"); err != nil {
		t.Fatalf("Set() returned error: %v", err)
	}

	got, ok := NewTokenStore(NewFileStorage(path)).Get()
	if !ok || got != "persisted" {
		t.Errorf("reopened store Get() = %q, %v", got, ok)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("storage permissions = %o, want 600", perm)
	}
}

func TestFileStorage_KeepsOtherKeys(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "storage.json"))
	_ = s.Set("other", "value")
	ts := NewTokenStore(s)
	_ = ts.Set("tok")
	_ = ts.Clear()

	if v, ok := s.Get("other"); !ok || v != "value" {
		t.Errorf("unrelated key lost: %q %v", v, ok)
	}
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	_ = os.WriteFile(path, []byte("{not json"), 0o600)

	s := NewFileStorage(path)
	if _, ok := s.Get("token"); ok {
		t.Error("corrupt storage should read as absent")
	}
	if err := s.Set("token", "x"); err != nil {
		t.Fatalf("Set() over corrupt storage: %v", err)
	}
	if v, ok := s.Get("token"); !ok || v != "x" {
		t.Errorf("Get() = %q, %v after recovery", v, ok)
	}
	if backup, err := os.ReadFile(path + ".corrupt"); err != nil || string(backup) != "{not json" {
		t.Errorf("corrupt file should be kept aside, got %q, %v", backup, err)
	}
}

func TestFileStorage_CorruptFileDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	_ = os.WriteFile(path, []byte("{not json"), 0o600)

	tokens := NewTokenStore(NewFileStorage(path))
	if err := tokens.Clear(); err != nil {
		t.Fatalf("Clear() over corrupt storage: %v", err)
	}
	if _, ok := tokens.Get(); ok {
		t.Error("token should be absent after Clear()")
	}
}

func TestFileStorage_ConcurrentAccess(t *testing.T) {
	ts := NewTokenStore(NewFileStorage(filepath.Join(t.TempDir(), "storage.json")))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = ts.Set("concurrent")
		}()
		go func() {
			defer wg.Done()
			_, _ = ts.Get()
		}()
	}
	wg.Wait()

	if got, ok := ts.Get(); !ok || got != "concurrent" {
		t.Errorf("Get() = %q, %v", got, ok)
	}
}
