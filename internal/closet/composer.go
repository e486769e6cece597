package closet

import (
	"errors"
	"fmt"

	"closet-go/internal/model"
)

// Validation failures surfaced by Commit before anything is rendered or
// persisted.
var (
	ErrEmptyComposition = errors.New("composition is empty")
	ErrEmptyName        = errors.New("outfit name is empty")
)

// Placement is one item arranged on the composition canvas. Position, scale
// and rotation are carried through untouched so a presentation layer can
// round-trip them; the composer itself only cares about identity and order.
type Placement struct {
	Item     model.ClothingItem
	X, Y     float64
	Scale    float64
	Rotation float64
}

// Composer holds the transient working set of an outfit being arranged:
// which items are placed, their stacking order (back to front) and which
// single item, if any, is selected for manipulation. Nothing is persisted
// until Commit.
type Composer struct {
	placements []Placement
	selectedID string // "" when nothing is selected

	renderer Renderer
	media    MediaStore
	clock    Clock
	idgen    IDGenerator
}

// NewComposer creates an empty Composer.
func NewComposer(renderer Renderer, media MediaStore, clock Clock, idgen IDGenerator) *Composer {
	return &Composer{
		renderer: renderer,
		media:    media,
		clock:    clock,
		idgen:    idgen,
	}
}

// Place adds item frontmost on the canvas and selects it, deselecting
// whatever was selected before. Selection is exclusive: at most one item at
// a time.
func (c *Composer) Place(item model.ClothingItem, x, y float64) {
	c.placements = append(c.placements, Placement{Item: item, X: x, Y: y, Scale: 1})
	c.selectedID = item.ID
}

// Select marks the placed item with the given ID as the selected one.
// Selecting an item that is not placed is a no-op.
func (c *Composer) Select(itemID string) {
	if c.indexOf(itemID) < 0 {
		return
	}
	c.selectedID = itemID
}

// DeselectAll clears the selection.
func (c *Composer) DeselectAll() {
	c.selectedID = ""
}

// Selected returns the currently selected placement, or nil when nothing is
// selected.
func (c *Composer) Selected() *Placement {
	i := c.indexOf(c.selectedID)
	if i < 0 {
		return nil
	}
	p := c.placements[i]
	return &p
}

// Placements returns the current working set in stacking order, back to
// front.
func (c *Composer) Placements() []Placement {
	out := make([]Placement, len(c.placements))
	copy(out, c.placements)
	return out
}

// Empty reports whether nothing has been placed.
func (c *Composer) Empty() bool { return len(c.placements) == 0 }

// Raise moves the item to the front of the stacking order. Already
// frontmost is a no-op.
func (c *Composer) Raise(itemID string) {
	i := c.indexOf(itemID)
	if i < 0 || i == len(c.placements)-1 {
		return
	}
	p := c.placements[i]
	c.placements = append(c.placements[:i], c.placements[i+1:]...)
	c.placements = append(c.placements, p)
}

// Lower moves the item to the back of the stacking order. Already backmost
// is a no-op.
func (c *Composer) Lower(itemID string) {
	i := c.indexOf(itemID)
	if i <= 0 {
		return
	}
	p := c.placements[i]
	c.placements = append(c.placements[:i], c.placements[i+1:]...)
	c.placements = append([]Placement{p}, c.placements...)
}

// Move updates the position of a placed item. Unknown IDs are a no-op.
func (c *Composer) Move(itemID string, x, y float64) {
	if i := c.indexOf(itemID); i >= 0 {
		c.placements[i].X = x
		c.placements[i].Y = y
	}
}

// Transform updates the scale and rotation of a placed item. Unknown IDs
// are a no-op.
func (c *Composer) Transform(itemID string, scale, rotation float64) {
	if i := c.indexOf(itemID); i >= 0 {
		c.placements[i].Scale = scale
		c.placements[i].Rotation = rotation
	}
}

// Remove takes the item off the canvas. The selection is cleared only when
// the removed item was the selected one.
func (c *Composer) Remove(itemID string) {
	i := c.indexOf(itemID)
	if i < 0 {
		return
	}
	c.placements = append(c.placements[:i], c.placements[i+1:]...)
	if c.selectedID == itemID {
		c.selectedID = ""
	}
}

// Reset discards the working set and the selection, returning the composer
// to empty without committing anything.
func (c *Composer) Reset() {
	c.placements = nil
	c.selectedID = ""
}

// Commit validates the composition, renders its flattened preview, stores
// the preview in the media store and returns the new Outfit referencing the
// member items in stacking order. On success the composer is reset to empty.
// The returned outfit is not yet persisted; that is the caller's job.
func (c *Composer) Commit(name string) (*model.Outfit, error) {
	if len(c.placements) == 0 {
		return nil, ErrEmptyComposition
	}
	if name == "" {
		return nil, ErrEmptyName
	}

	preview, err := c.renderer.Render(c.Placements())
	if err != nil {
		return nil, fmt.Errorf("rendering outfit preview: %w", err)
	}

	id := c.idgen.New()
	imageName := "outfit-" + id + ".png"
	if err := c.media.Save(imageName, preview); err != nil {
		return nil, fmt.Errorf("saving outfit preview: %w", err)
	}

	itemIDs := make([]string, len(c.placements))
	for i, p := range c.placements {
		itemIDs[i] = p.Item.ID
	}

	outfit := &model.Outfit{
		ID:          id,
		Name:        name,
		ImageName:   imageName,
		ItemIDs:     itemIDs,
		DateCreated: c.clock.Now(),
	}

	c.Reset()
	return outfit, nil
}

func (c *Composer) indexOf(itemID string) int {
	if itemID == "" {
		return -1
	}
	for i, p := range c.placements {
		if p.Item.ID == itemID {
			return i
		}
	}
	return -1
}
