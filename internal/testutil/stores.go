package testutil

import (
	"closet-go/internal/backup"
	"closet-go/internal/closet"
	"closet-go/internal/media"
	"closet-go/internal/prefs"
)

// NewTestPrefs creates an in-memory preference store for testing.
func NewTestPrefs() closet.Prefs {
	return prefs.NewMemoryPrefs()
}

// NewTestMedia creates an in-memory media store for testing.
func NewTestMedia() closet.MediaStore {
	return media.NewMemoryStore()
}

// NewTestVault creates an in-memory backup vault for testing.
func NewTestVault() backup.Vault {
	return backup.NewMemoryVault("test-vault")
}
