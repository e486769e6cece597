package closet

import (
	"context"

	"closet-go/internal/model"
)

// SnapshotItem is what the recommendation provider sees of a clothing item.
type SnapshotItem struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

// Snapshot maps provider category names ("hats", "shirts", "pants", "shoes")
// to the items of that category, in closet order.
type Snapshot map[string][]SnapshotItem

// Recommender produces one outfit recommendation from a closet snapshot.
// Implementations must deliver exactly one result per call: either a
// recommendation or an error, never both.
type Recommender interface {
	Recommend(ctx context.Context, snapshot Snapshot) (*model.OutfitRecommendation, error)
}
