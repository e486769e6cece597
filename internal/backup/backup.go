// Package backup snapshots the whole closet (preference collections and
// media assets) into a tar.gz archive and stores it in a vault. Snapshots
// can be age-encrypted before they leave the machine.
package backup

import (
	"bytes"
	"fmt"
	"strings"

	"closet-go/internal/closet"
)

// EncryptedSuffix marks snapshots that were encrypted before upload.
const EncryptedSuffix = ".age"

// Service coordinates snapshot creation, upload and restore.
type Service struct {
	prefs     closet.Prefs
	media     closet.MediaStore
	vault     Vault
	encryptor Encryptor
	clock     closet.Clock
	logger    closet.Logger
}

// NewService creates a backup Service. encryptor may be nil when encryption
// is not configured.
func NewService(prefs closet.Prefs, media closet.MediaStore, vault Vault, encryptor Encryptor, clock closet.Clock, logger closet.Logger) *Service {
	return &Service{
		prefs:     prefs,
		media:     media,
		vault:     vault,
		encryptor: encryptor,
		clock:     clock,
		logger:    logger,
	}
}

// Run snapshots the closet into the vault and returns the snapshot name.
// With encrypt set, the archive is encrypted with the configured public key;
// no passphrase is needed to create encrypted snapshots, only to restore.
func (s *Service) Run(encrypt bool) (string, error) {
	var archive bytes.Buffer
	if err := writeArchive(&archive, s.prefs, s.media); err != nil {
		return "", fmt.Errorf("building snapshot: %w", err)
	}

	name := "closet-" + s.clock.Now().UTC().Format("20060102T150405Z") + ".tar.gz"
	payload := archive.Bytes()

	if encrypt {
		if s.encryptor == nil || !s.encryptor.IsConfigured() {
			return "", fmt.Errorf("encryption requested but no key pair is configured")
		}
		var sealed bytes.Buffer
		if err := s.encryptor.Encrypt(bytes.NewReader(payload), &sealed); err != nil {
			return "", fmt.Errorf("encrypting snapshot: %w", err)
		}
		payload = sealed.Bytes()
		name += EncryptedSuffix
	}

	if err := s.vault.Put(name, bytes.NewReader(payload), int64(len(payload))); err != nil {
		return "", fmt.Errorf("storing snapshot: %w", err)
	}

	s.logger.Info("snapshot stored", "name", name, "bytes", len(payload))
	return name, nil
}

// List returns the names of all snapshots in the vault.
func (s *Service) List() ([]string, error) {
	return s.vault.List()
}

// Restore loads the named snapshot back into the live stores, overwriting
// the collections and re-writing media assets. Encrypted snapshots require
// a DecryptionContext obtained from Encryptor.Unlock; dctx may be nil for
// plaintext snapshots.
func (s *Service) Restore(name string, dctx DecryptionContext) error {
	var sealed bytes.Buffer
	if err := s.vault.Get(name, &sealed); err != nil {
		return fmt.Errorf("fetching snapshot: %w", err)
	}

	payload := &sealed
	if strings.HasSuffix(name, EncryptedSuffix) {
		if dctx == nil {
			return fmt.Errorf("snapshot %s is encrypted: unlock the private key first", name)
		}
		var plain bytes.Buffer
		if err := dctx.Decrypt(payload, &plain); err != nil {
			return fmt.Errorf("decrypting snapshot: %w", err)
		}
		payload = &plain
	}

	if err := readArchive(payload, s.prefs, s.media); err != nil {
		return fmt.Errorf("restoring snapshot: %w", err)
	}

	s.logger.Info("snapshot restored", "name", name)
	return nil
}
