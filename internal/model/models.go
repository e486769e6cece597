package model

import "time"

// Category classifies a clothing item. The string values double as the
// persisted representation, so they must not change once data exists.
type Category string

const (
	CategoryHat       Category = "Hat"
	CategoryShirt     Category = "Shirt"
	CategoryPants     Category = "Pants"
	CategoryShoes     Category = "Shoes"
	CategoryDress     Category = "Dress"
	CategoryAccessory Category = "Accessory"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryHat, CategoryShirt, CategoryPants,
		CategoryShoes, CategoryDress, CategoryAccessory,
	}
}

// Season marks when an item is wearable.
type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
	SeasonWinter Season = "Winter"
	SeasonAll    Season = "All Seasons"
)

// Seasons lists all valid seasons in display order.
func Seasons() []Season {
	return []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter, SeasonAll}
}

// ClothingItem is a single wardrobe piece. The ID is assigned at creation
// and never changes; ImageName references the item's photo in the media store.
type ClothingItem struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ImageName string   `json:"imageName"`
	Category  Category `json:"category"`
	Season    Season   `json:"season"`
	Material  string   `json:"material"`
	Size      string   `json:"size"`
	Color     string   `json:"color"`
}

// Outfit is a named composition of clothing items. ItemIDs is an ordered
// list of member item references; the order is the stacking order at the
// time the composition was committed. Member IDs are not guaranteed to
// resolve: deleting an item leaves outfits that reference it untouched.
type Outfit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ImageName   string    `json:"imageName"`
	ItemIDs     []string  `json:"itemIDs"`
	DateCreated time.Time `json:"dateCreated"`
	IsFavorite  bool      `json:"isFavorite"`
}

// CalendarEntry assigns one outfit to one calendar day. Dates are stored
// normalized to midnight UTC; the ledger guarantees at most one entry per day.
type CalendarEntry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	OutfitID string    `json:"outfitID"`
}

// OutfitRecommendation is the transient result of a recommendation request.
// Each slot pointer is nil when the provider made no suggestion for it.
// Recommendations are never persisted.
type OutfitRecommendation struct {
	HatID       *string `json:"hatID"`
	ShirtID     *string `json:"shirtID"`
	PantsID     *string `json:"pantsID"`
	ShoesID     *string `json:"shoesID"`
	Explanation string  `json:"explanation"`
}
