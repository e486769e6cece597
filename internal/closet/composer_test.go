package closet_test

import (
	"errors"
	"testing"

	"closet-go/internal/closet"
	"closet-go/internal/model"
	"closet-go/internal/testutil"
)

func newTestComposer() (*closet.Composer, *testutil.StubRenderer, closet.MediaStore) {
	renderer := testutil.NewStubRenderer()
	media := testutil.NewTestMedia()
	c := closet.NewComposer(renderer, media, testutil.FixedClock(), testutil.NewStubIDGenerator())
	return c, renderer, media
}

func placementIDs(placements []closet.Placement) []string {
	ids := make([]string, len(placements))
	for i, p := range placements {
		ids[i] = p.Item.ID
	}
	return ids
}

func assertOrder(t *testing.T, c *closet.Composer, want ...string) {
	t.Helper()
	got := placementIDs(c.Placements())
	if len(got) != len(want) {
		t.Fatalf("placements = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("placements = %v, want %v", got, want)
		}
	}
}

func TestComposer_PlaceSelectRemove(t *testing.T) {
	c, _, _ := newTestComposer()
	shirt := model.ClothingItem{ID: "shirt", Category: model.CategoryShirt}
	pants := model.ClothingItem{ID: "pants", Category: model.CategoryPants}

	if !c.Empty() {
		t.Fatal("fresh composer is not empty")
	}

	// Placing selects the new item, exclusively.
	c.Place(shirt, 10, 20)
	if sel := c.Selected(); sel == nil || sel.Item.ID != "shirt" {
		t.Fatalf("Selected() after first place = %v, want shirt", sel)
	}

	c.Place(pants, 30, 40)
	if sel := c.Selected(); sel == nil || sel.Item.ID != "pants" {
		t.Fatalf("Selected() after second place = %v, want pants", sel)
	}
	assertOrder(t, c, "shirt", "pants")

	// Raising the shirt puts it frontmost.
	c.Raise("shirt")
	assertOrder(t, c, "pants", "shirt")

	// Removing an unselected item keeps the selection.
	c.Select("shirt")
	c.Remove("pants")
	assertOrder(t, c, "shirt")
	if sel := c.Selected(); sel == nil || sel.Item.ID != "shirt" {
		t.Errorf("Selected() after removing other item = %v, want shirt", sel)
	}

	// Removing the selected item clears the selection.
	c.Remove("shirt")
	if !c.Empty() {
		t.Error("composer not empty after removing everything")
	}
	if sel := c.Selected(); sel != nil {
		t.Errorf("Selected() after removing selected item = %v, want nil", sel)
	}
}

func TestComposer_SelectionEdgeCases(t *testing.T) {
	c, _, _ := newTestComposer()
	c.Place(model.ClothingItem{ID: "a"}, 0, 0)

	// Selecting something not on the canvas changes nothing.
	c.Select("ghost")
	if sel := c.Selected(); sel == nil || sel.Item.ID != "a" {
		t.Errorf("Selected() after bogus select = %v, want a", sel)
	}

	c.DeselectAll()
	if sel := c.Selected(); sel != nil {
		t.Errorf("Selected() after DeselectAll = %v, want nil", sel)
	}
}

func TestComposer_StackingOrder(t *testing.T) {
	c, _, _ := newTestComposer()
	for _, id := range []string{"a", "b", "c"} {
		c.Place(model.ClothingItem{ID: id}, 0, 0)
	}

	c.Lower("c")
	assertOrder(t, c, "c", "a", "b")

	// No-ops at the extremes.
	c.Lower("c")
	assertOrder(t, c, "c", "a", "b")
	c.Raise("b")
	assertOrder(t, c, "c", "a", "b")

	c.Raise("c")
	assertOrder(t, c, "a", "b", "c")
}

func TestComposer_MoveTransform(t *testing.T) {
	c, _, _ := newTestComposer()
	c.Place(model.ClothingItem{ID: "a"}, 0, 0)

	if p := c.Placements()[0]; p.Scale != 1 {
		t.Errorf("initial scale = %v, want 1", p.Scale)
	}

	c.Move("a", 100, 50)
	c.Transform("a", 1.5, 45)
	p := c.Placements()[0]
	if p.X != 100 || p.Y != 50 || p.Scale != 1.5 || p.Rotation != 45 {
		t.Errorf("placement after move and transform = %+v", p)
	}

	// Unknown IDs leave everything alone.
	c.Move("ghost", 1, 1)
	c.Transform("ghost", 9, 9)
	if got := c.Placements()[0]; got != p {
		t.Errorf("placement changed by unknown-id ops: %+v", got)
	}
}

func TestComposer_Reset(t *testing.T) {
	c, _, _ := newTestComposer()
	c.Place(model.ClothingItem{ID: "a"}, 0, 0)
	c.Place(model.ClothingItem{ID: "b"}, 0, 0)

	c.Reset()

	if !c.Empty() {
		t.Error("composer not empty after Reset")
	}
	if sel := c.Selected(); sel != nil {
		t.Errorf("Selected() after Reset = %v, want nil", sel)
	}

	// A new composition after Reset starts from scratch.
	c.Place(model.ClothingItem{ID: "c"}, 0, 0)
	assertOrder(t, c, "c")
}

func TestComposer_CommitValidation(t *testing.T) {
	c, renderer, _ := newTestComposer()

	if _, err := c.Commit("weekend"); !errors.Is(err, closet.ErrEmptyComposition) {
		t.Errorf("Commit() on empty composer error = %v, want ErrEmptyComposition", err)
	}

	c.Place(model.ClothingItem{ID: "a"}, 0, 0)
	if _, err := c.Commit(""); !errors.Is(err, closet.ErrEmptyName) {
		t.Errorf("Commit(\"\") error = %v, want ErrEmptyName", err)
	}

	// Failed commits render nothing and keep the working set.
	if len(renderer.Rendered) != 0 {
		t.Error("renderer invoked by a failed commit")
	}
	if c.Empty() {
		t.Error("failed commit cleared the composition")
	}
}

func TestComposer_Commit(t *testing.T) {
	c, renderer, mediaStore := newTestComposer()
	c.Place(model.ClothingItem{ID: "pants"}, 0, 0)
	c.Place(model.ClothingItem{ID: "shirt"}, 0, 0)

	outfit, err := c.Commit("weekend")
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if outfit.ID != "id-1" || outfit.Name != "weekend" {
		t.Errorf("outfit = %+v", outfit)
	}
	if want := []string{"pants", "shirt"}; len(outfit.ItemIDs) != 2 || outfit.ItemIDs[0] != want[0] || outfit.ItemIDs[1] != want[1] {
		t.Errorf("ItemIDs = %v, want %v (stacking order)", outfit.ItemIDs, want)
	}
	if got := outfit.DateCreated; !got.Equal(testutil.FixedClock().Now()) {
		t.Errorf("DateCreated = %v, want fixed clock time", got)
	}

	if outfit.ImageName != "outfit-id-1.png" {
		t.Errorf("ImageName = %q, want outfit-id-1.png", outfit.ImageName)
	}
	data, err := mediaStore.Load(outfit.ImageName)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != "preview" {
		t.Errorf("stored preview = %q, want renderer output", data)
	}
	if len(renderer.Rendered) != 1 || len(renderer.Rendered[0]) != 2 {
		t.Errorf("renderer saw %v, want one call with both placements", renderer.Rendered)
	}

	// Commit resets the working set.
	if !c.Empty() {
		t.Error("composer not empty after commit")
	}
	if sel := c.Selected(); sel != nil {
		t.Errorf("Selected() after commit = %v, want nil", sel)
	}
}
