package closet

// MediaStore holds image assets as individually addressable blobs named by
// a generated unique token. Records reference assets by that name only.
type MediaStore interface {
	// Save stores data under name, replacing any existing asset.
	Save(name string, data []byte) error

	// Load returns the asset stored under name, or (nil, nil) if no such
	// asset exists.
	Load(name string) ([]byte, error)

	// Delete removes the asset. Deleting a missing asset is not an error.
	Delete(name string) error

	// List returns the names of all stored assets.
	List() ([]string, error)
}
