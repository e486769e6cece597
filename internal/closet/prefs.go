package closet

// Keys under which the persisted collections live in the Prefs store.
// They match the original on-device layout and must not change once
// user data exists.
const (
	KeyClothingItems   = "clothingItems"
	KeyOutfits         = "outfits"
	KeyCalendarEntries = "calendarEntries"
	KeyUserPhoto       = "userPhoto"
)

// Prefs is a durable key-value store for whole-collection blobs.
// Collections are always read and written as a single value; there is
// no partial or streaming access.
type Prefs interface {
	// Get returns the value stored under key, or (nil, nil) if the key
	// has never been written.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys returns all keys that currently hold a value.
	Keys() ([]string, error)

	// Close releases any underlying resources.
	Close() error
}
