package closet

import (
	"encoding/json"
	"fmt"

	"closet-go/internal/model"
)

// ClosetStore is the canonical owner of the persisted clothing item and
// outfit collections. Every mutation is a full read-modify-write of the
// affected collection; the two collections are independent and there is no
// transactional guarantee across them (deleting an item does not touch
// outfits that reference it).
//
// ClosetStore is not safe for concurrent use from multiple goroutines
// without external serialization.
type ClosetStore struct {
	prefs  Prefs
	media  MediaStore
	logger Logger
}

// NewClosetStore creates a ClosetStore over the given backends.
func NewClosetStore(prefs Prefs, media MediaStore, logger Logger) *ClosetStore {
	return &ClosetStore{
		prefs:  prefs,
		media:  media,
		logger: logger,
	}
}

// LoadItems returns all clothing items. A missing key or an undecodable
// payload yields the empty collection: local corruption of the preference
// store is treated as equivalent to first run and never surfaced.
func (s *ClosetStore) LoadItems() []model.ClothingItem {
	return loadCollection[model.ClothingItem](s.prefs, s.logger, KeyClothingItems)
}

// AddItem appends item to the collection and rewrites it as a unit.
func (s *ClosetStore) AddItem(item model.ClothingItem) error {
	items := append(s.LoadItems(), item)
	if err := s.saveCollection(KeyClothingItems, items); err != nil {
		return fmt.Errorf("saving items: %w", err)
	}
	s.logger.Info("item added", "id", item.ID, "name", item.Name)
	return nil
}

// DeleteItem removes all items matching id and rewrites the collection.
// The item's image asset is deleted along with it. Outfits referencing the
// item are left untouched; a dangling reference is acceptable.
func (s *ClosetStore) DeleteItem(id string) error {
	items := s.LoadItems()
	kept := items[:0]
	var removed []model.ClothingItem
	for _, it := range items {
		if it.ID == id {
			removed = append(removed, it)
			continue
		}
		kept = append(kept, it)
	}
	if len(removed) == 0 {
		return nil
	}

	if err := s.saveCollection(KeyClothingItems, kept); err != nil {
		return fmt.Errorf("saving items: %w", err)
	}

	for _, it := range removed {
		if it.ImageName == "" {
			continue
		}
		if err := s.media.Delete(it.ImageName); err != nil {
			// The record is already gone; an orphaned asset is harmless.
			s.logger.Warn("deleting item image", "image", it.ImageName, "error", err)
		}
	}

	s.logger.Info("item deleted", "id", id)
	return nil
}

// GetItem returns the item with the given id, or nil if no such item exists.
func (s *ClosetStore) GetItem(id string) *model.ClothingItem {
	for _, it := range s.LoadItems() {
		if it.ID == id {
			return &it
		}
	}
	return nil
}

// LoadOutfits returns all outfits, with the same silent-empty behavior as
// LoadItems.
func (s *ClosetStore) LoadOutfits() []model.Outfit {
	return loadCollection[model.Outfit](s.prefs, s.logger, KeyOutfits)
}

// AddOutfit appends outfit to the collection and rewrites it as a unit.
func (s *ClosetStore) AddOutfit(outfit model.Outfit) error {
	outfits := append(s.LoadOutfits(), outfit)
	if err := s.saveCollection(KeyOutfits, outfits); err != nil {
		return fmt.Errorf("saving outfits: %w", err)
	}
	s.logger.Info("outfit added", "id", outfit.ID, "name", outfit.Name)
	return nil
}

// DeleteOutfit removes all outfits matching id, along with their preview
// images.
func (s *ClosetStore) DeleteOutfit(id string) error {
	outfits := s.LoadOutfits()
	kept := outfits[:0]
	var removed []model.Outfit
	for _, o := range outfits {
		if o.ID == id {
			removed = append(removed, o)
			continue
		}
		kept = append(kept, o)
	}
	if len(removed) == 0 {
		return nil
	}

	if err := s.saveCollection(KeyOutfits, kept); err != nil {
		return fmt.Errorf("saving outfits: %w", err)
	}

	for _, o := range removed {
		if o.ImageName == "" {
			continue
		}
		if err := s.media.Delete(o.ImageName); err != nil {
			s.logger.Warn("deleting outfit preview", "image", o.ImageName, "error", err)
		}
	}

	s.logger.Info("outfit deleted", "id", id)
	return nil
}

// GetOutfit returns the outfit with the given id, or nil if no such outfit
// exists.
func (s *ClosetStore) GetOutfit(id string) *model.Outfit {
	for _, o := range s.LoadOutfits() {
		if o.ID == id {
			return &o
		}
	}
	return nil
}

// ToggleFavorite flips the favorite flag on the matching outfit.
// Unknown IDs are a no-op.
func (s *ClosetStore) ToggleFavorite(outfitID string) error {
	outfits := s.LoadOutfits()
	for i := range outfits {
		if outfits[i].ID == outfitID {
			outfits[i].IsFavorite = !outfits[i].IsFavorite
			if err := s.saveCollection(KeyOutfits, outfits); err != nil {
				return fmt.Errorf("saving outfits: %w", err)
			}
			return nil
		}
	}
	return nil
}

// SaveUserPhoto stores the single full-body reference photo, overwriting any
// previous one.
func (s *ClosetStore) SaveUserPhoto(data []byte) error {
	if err := s.prefs.Set(KeyUserPhoto, data); err != nil {
		return fmt.Errorf("saving user photo: %w", err)
	}
	return nil
}

// LoadUserPhoto returns the stored reference photo, or nil if none was set.
func (s *ClosetStore) LoadUserPhoto() []byte {
	data, err := s.prefs.Get(KeyUserPhoto)
	if err != nil {
		s.logger.Warn("loading user photo", "error", err)
		return nil
	}
	return data
}

// Snapshot builds the category view of the closet consumed by the
// recommendation provider: hats, shirts, pants and shoes only, in closet
// order. Dresses and accessories have no recommendation slot.
func (s *ClosetStore) Snapshot() Snapshot {
	snap := Snapshot{
		"hats":   {},
		"shirts": {},
		"pants":  {},
		"shoes":  {},
	}
	for _, it := range s.LoadItems() {
		var key string
		switch it.Category {
		case model.CategoryHat:
			key = "hats"
		case model.CategoryShirt:
			key = "shirts"
		case model.CategoryPants:
			key = "pants"
		case model.CategoryShoes:
			key = "shoes"
		default:
			continue
		}
		snap[key] = append(snap[key], SnapshotItem{ID: it.ID, Color: it.Color})
	}
	return snap
}

func (s *ClosetStore) saveCollection(key string, collection any) error {
	return saveCollection(s.prefs, key, collection)
}

// loadCollection decodes the blob under key. Missing keys, read failures and
// undecodable payloads all yield the empty collection; a decode failure
// discards everything, never a partially decoded slice.
func loadCollection[T any](prefs Prefs, logger Logger, key string) []T {
	data, err := prefs.Get(key)
	if err != nil {
		logger.Warn("reading collection", "key", key, "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var collection []T
	if err := json.Unmarshal(data, &collection); err != nil {
		logger.Warn("collection payload undecodable, treating as empty", "key", key, "error", err)
		return nil
	}
	return collection
}

// saveCollection encodes the collection and rewrites it under key as one blob.
func saveCollection(prefs Prefs, key string, collection any) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := prefs.Set(key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
