package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func vaultImplementations(t *testing.T) map[string]Vault {
	t.Helper()
	fsVault, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	return map[string]Vault{
		"filesystem": fsVault,
		"memory":     NewMemoryVault("test"),
	}
}

func TestVault_PutGet(t *testing.T) {
	for name, v := range vaultImplementations(t) {
		t.Run(name, func(t *testing.T) {
			payload := []byte("snapshot bytes")
			if err := v.Put("closet-1.tar.gz", bytes.NewReader(payload), int64(len(payload))); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			var out bytes.Buffer
			if err := v.Get("closet-1.tar.gz", &out); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !bytes.Equal(out.Bytes(), payload) {
				t.Errorf("Get() = %q, want %q", out.Bytes(), payload)
			}
		})
	}
}

func TestVault_PutSizeMismatch(t *testing.T) {
	for name, v := range vaultImplementations(t) {
		t.Run(name, func(t *testing.T) {
			payload := []byte("short")
			err := v.Put("closet-1.tar.gz", bytes.NewReader(payload), 999)
			if err == nil || !strings.Contains(err.Error(), "size mismatch") {
				t.Errorf("Put() error = %v, want size mismatch", err)
			}
			// A failed upload leaves nothing behind.
			names, listErr := v.List()
			if listErr != nil {
				t.Fatalf("List() error = %v", listErr)
			}
			if name == "filesystem" && len(names) != 0 {
				t.Errorf("List() after failed put = %v, want empty", names)
			}
		})
	}
}

func TestVault_GetMissing(t *testing.T) {
	for name, v := range vaultImplementations(t) {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			if err := v.Get("closet-none.tar.gz", &out); err == nil {
				t.Error("Get(missing) error = nil, want error")
			}
		})
	}
}

func TestVault_List(t *testing.T) {
	for name, v := range vaultImplementations(t) {
		t.Run(name, func(t *testing.T) {
			for _, snap := range []string{"closet-2.tar.gz", "closet-1.tar.gz"} {
				if err := v.Put(snap, strings.NewReader("x"), 1); err != nil {
					t.Fatalf("Put(%s) error = %v", snap, err)
				}
			}
			names, err := v.List()
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			want := []string{"closet-1.tar.gz", "closet-2.tar.gz"}
			if !reflect.DeepEqual(names, want) {
				t.Errorf("List() = %v, want %v", names, want)
			}
		})
	}
}

func TestFileSystemVault_Validate(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if err := v.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	if err := os.RemoveAll(root); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}
	if err := v.Validate(); err == nil {
		t.Error("Validate() error = nil after vault root removed")
	}
}

func TestFileSystemVault_ListSkipsTempFiles(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ".tmp-5678"), []byte("partial"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	names, err := v.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List() = %v, want empty", names)
	}
}
