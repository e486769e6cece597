package prefs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"closet-go/internal/closet"
	"closet-go/internal/config"
)

// Both implementations must satisfy the same contract; test them through
// the interface with one suite.
func prefsImplementations(t *testing.T) map[string]closet.Prefs {
	t.Helper()
	sqlitePrefs, err := NewSQLitePrefs(":memory:")
	if err != nil {
		t.Fatalf("NewSQLitePrefs() error = %v", err)
	}
	t.Cleanup(func() { sqlitePrefs.Close() })
	return map[string]closet.Prefs{
		"sqlite": sqlitePrefs,
		"memory": NewMemoryPrefs(),
	}
}

func TestPrefs_GetMissing(t *testing.T) {
	for name, p := range prefsImplementations(t) {
		t.Run(name, func(t *testing.T) {
			value, err := p.Get("never-written")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if value != nil {
				t.Errorf("Get(missing) = %v, want nil", value)
			}
		})
	}
}

func TestPrefs_SetGetOverwrite(t *testing.T) {
	for name, p := range prefsImplementations(t) {
		t.Run(name, func(t *testing.T) {
			if err := p.Set("k", []byte("first")); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := p.Set("k", []byte("second")); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}
			value, err := p.Get("k")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(value) != "second" {
				t.Errorf("Get() = %q, want %q", value, "second")
			}
		})
	}
}

func TestPrefs_Delete(t *testing.T) {
	for name, p := range prefsImplementations(t) {
		t.Run(name, func(t *testing.T) {
			if err := p.Set("k", []byte("v")); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := p.Delete("k"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			value, err := p.Get("k")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if value != nil {
				t.Errorf("Get(deleted) = %v, want nil", value)
			}

			// Missing keys delete without complaint.
			if err := p.Delete("k"); err != nil {
				t.Errorf("Delete(missing) error = %v", err)
			}
		})
	}
}

func TestPrefs_Keys(t *testing.T) {
	for name, p := range prefsImplementations(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"outfits", "clothingItems", "calendarEntries"} {
				if err := p.Set(k, []byte("{}")); err != nil {
					t.Fatalf("Set(%s) error = %v", k, err)
				}
			}
			keys, err := p.Keys()
			if err != nil {
				t.Fatalf("Keys() error = %v", err)
			}
			want := []string{"calendarEntries", "clothingItems", "outfits"}
			if !reflect.DeepEqual(keys, want) {
				t.Errorf("Keys() = %v, want %v", keys, want)
			}
		})
	}
}

func TestSQLitePrefs_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.db")

	p, err := NewSQLitePrefs(path)
	if err != nil {
		t.Fatalf("NewSQLitePrefs() error = %v", err)
	}
	if err := p.Set("clothingItems", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Re-opening runs migrations idempotently and sees the old data.
	reopened, err := NewSQLitePrefs(path)
	if err != nil {
		t.Fatalf("NewSQLitePrefs() reopen error = %v", err)
	}
	defer reopened.Close()

	value, err := reopened.Get("clothingItems")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(value) != `[{"id":"a"}]` {
		t.Errorf("Get() after reopen = %q", value)
	}
}

func TestNewPrefsFromConfig(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		p, err := NewPrefsFromConfig(config.PrefsConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewPrefsFromConfig() error = %v", err)
		}
		if _, ok := p.(*MemoryPrefs); !ok {
			t.Errorf("got %T, want *MemoryPrefs", p)
		}
	})

	t.Run("sqlite creates data dir", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), "nested", "data")
		p, err := NewPrefsFromConfig(config.PrefsConfig{Type: "sqlite", DataDir: dataDir})
		if err != nil {
			t.Fatalf("NewPrefsFromConfig() error = %v", err)
		}
		defer p.Close()
		if _, err := os.Stat(filepath.Join(dataDir, "closet.db")); err != nil {
			t.Errorf("database file not created: %v", err)
		}
	})

	t.Run("sqlite requires data dir", func(t *testing.T) {
		if _, err := NewPrefsFromConfig(config.PrefsConfig{Type: "sqlite"}); err == nil {
			t.Error("NewPrefsFromConfig() error = nil, want error")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewPrefsFromConfig(config.PrefsConfig{Type: "redis"}); err == nil {
			t.Error("NewPrefsFromConfig() error = nil, want error")
		}
	})
}
