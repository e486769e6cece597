package closet_test

import (
	"testing"
	"time"

	"closet-go/internal/closet"
	"closet-go/internal/model"
	"closet-go/internal/testutil"
)

func newTestLedger() (*closet.CalendarLedger, *closet.ClosetStore) {
	prefs := testutil.NewTestPrefs()
	media := testutil.NewTestMedia()
	store := closet.NewClosetStore(prefs, media, closet.NewNopLogger())
	ledger := closet.NewCalendarLedger(prefs, store, testutil.NewStubIDGenerator(), closet.NewNopLogger())
	return ledger, store
}

func addOutfit(t *testing.T, store *closet.ClosetStore, id string, itemIDs ...string) {
	t.Helper()
	if err := store.AddOutfit(model.Outfit{ID: id, Name: id, ItemIDs: itemIDs}); err != nil {
		t.Fatalf("AddOutfit(%s) error = %v", id, err)
	}
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	in := time.Date(2025, 3, 10, 2, 30, 0, 0, loc) // 2025-03-09 21:30 UTC
	got := closet.Day(in)
	want := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day(%v) = %v, want %v", in, got, want)
	}
}

func TestCalendarLedger_LastWritePerDayWins(t *testing.T) {
	ledger, store := newTestLedger()
	addOutfit(t, store, "o1", "a")
	addOutfit(t, store, "o2", "b")

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	if _, err := ledger.Assign(day.Add(9*time.Hour), "o1"); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if _, err := ledger.Assign(day.Add(20*time.Hour), "o2"); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	entries := ledger.LoadEntries()
	if len(entries) != 1 {
		t.Fatalf("LoadEntries() = %d entries, want 1", len(entries))
	}
	if entries[0].OutfitID != "o2" {
		t.Errorf("surviving entry references %s, want o2", entries[0].OutfitID)
	}
	if !entries[0].Date.Equal(day) {
		t.Errorf("stored date = %v, want midnight %v", entries[0].Date, day)
	}
}

func TestCalendarLedger_EntryFor(t *testing.T) {
	ledger, store := newTestLedger()
	addOutfit(t, store, "o1", "a")

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, err := ledger.Assign(day, "o1"); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	// Any clock time on the same day resolves to the entry.
	if got := ledger.EntryFor(day.Add(23 * time.Hour)); got == nil || got.OutfitID != "o1" {
		t.Errorf("EntryFor(same day) = %v, want entry for o1", got)
	}
	if got := ledger.EntryFor(day.AddDate(0, 0, 1)); got != nil {
		t.Errorf("EntryFor(next day) = %v, want nil", got)
	}
}

func TestCalendarLedger_StatsFor(t *testing.T) {
	ledger, store := newTestLedger()

	store.AddItem(model.ClothingItem{ID: "a", Name: "blue shirt", Category: model.CategoryShirt, Season: model.SeasonAll})
	store.AddItem(model.ClothingItem{ID: "b", Name: "black pants", Category: model.CategoryPants, Season: model.SeasonAll})
	addOutfit(t, store, "o1", "a", "b")

	// The same outfit worn on two days counts its items twice.
	for _, day := range []int{1, 15} {
		date := time.Date(2025, 3, day, 12, 0, 0, 0, time.UTC)
		if _, err := ledger.Assign(date, "o1"); err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
	}

	stats, ok := ledger.StatsFor(2025, time.March)
	if !ok {
		t.Fatal("StatsFor() ok = false, want true")
	}
	if stats.Count != 2 {
		t.Errorf("Count = %d, want 2", stats.Count)
	}
	// a and b tie at 2; the smaller id wins.
	if stats.ItemID != "a" || stats.ItemName != "blue shirt" {
		t.Errorf("top item = %s (%s), want a (blue shirt)", stats.ItemID, stats.ItemName)
	}

	t.Run("other months are excluded", func(t *testing.T) {
		if _, ok := ledger.StatsFor(2025, time.April); ok {
			t.Error("StatsFor(empty month) ok = true, want false")
		}
	})
}

func TestCalendarLedger_StatsSkipDanglingOutfits(t *testing.T) {
	ledger, store := newTestLedger()
	addOutfit(t, store, "o1", "a")

	date := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	if _, err := ledger.Assign(date, "o1"); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if err := store.DeleteOutfit("o1"); err != nil {
		t.Fatalf("DeleteOutfit() error = %v", err)
	}

	// The entry survives the outfit but contributes nothing.
	if got := ledger.EntryFor(date); got == nil {
		t.Fatal("EntryFor() = nil, entry should outlive its outfit")
	}
	if _, ok := ledger.StatsFor(2025, time.March); ok {
		t.Error("StatsFor() ok = true with only dangling entries, want false")
	}
}
