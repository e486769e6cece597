package backup

import "io"

// Vault stores closet snapshot archives. Backends range from a local
// directory to an S3 bucket; snapshots are opaque named blobs to the vault.
type Vault interface {
	// Put stores a snapshot under name, replacing any existing one.
	// size is the number of bytes that will be read from r.
	Put(name string, r io.Reader, size int64) error

	// Get retrieves the snapshot stored under name and writes it to w.
	Get(name string, w io.Writer) error

	// List returns the names of all stored snapshots, sorted.
	List() ([]string, error)

	// Validate verifies that the vault is accessible and properly configured.
	Validate() error
}

// Encryptor encrypts snapshot archives before they reach the vault.
// The public key encrypts; decryption requires unlocking the private key
// with a passphrase first.
type Encryptor interface {
	// Setup generates and stores a new key pair protected by passphrase.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key and returns a context for decrypting
	// data.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether a key pair exists.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked identity for decrypting snapshots.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
