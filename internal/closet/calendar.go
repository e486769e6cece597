package closet

import (
	"fmt"
	"sort"
	"time"

	"closet-go/internal/model"
)

// CalendarLedger maps calendar days to outfits and derives usage statistics.
// It owns the calendar entry collection and reads, never mutates, outfit data
// through the ClosetStore.
type CalendarLedger struct {
	prefs  Prefs
	closet *ClosetStore
	idgen  IDGenerator
	logger Logger
}

// NewCalendarLedger creates a CalendarLedger backed by the given stores.
func NewCalendarLedger(prefs Prefs, closet *ClosetStore, idgen IDGenerator, logger Logger) *CalendarLedger {
	return &CalendarLedger{
		prefs:  prefs,
		closet: closet,
		idgen:  idgen,
		logger: logger,
	}
}

// MonthStats reports the most worn clothing item within one month.
type MonthStats struct {
	ItemID   string
	ItemName string
	Count    int
}

// Day truncates t to its calendar day at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LoadEntries returns all calendar entries, empty on missing or undecodable
// data.
func (l *CalendarLedger) LoadEntries() []model.CalendarEntry {
	return loadCollection[model.CalendarEntry](l.prefs, l.logger, KeyCalendarEntries)
}

// AddEntry records entry, replacing any existing entry for the same calendar
// day. Last write wins; days never accumulate more than one entry. The
// entry's date is normalized to midnight UTC before it is stored.
func (l *CalendarLedger) AddEntry(entry model.CalendarEntry) error {
	entry.Date = Day(entry.Date)

	entries := l.LoadEntries()
	kept := entries[:0]
	for _, e := range entries {
		if Day(e.Date).Equal(entry.Date) {
			continue
		}
		kept = append(kept, e)
	}
	kept = append(kept, entry)

	if err := saveCollection(l.prefs, KeyCalendarEntries, kept); err != nil {
		return fmt.Errorf("saving calendar entries: %w", err)
	}
	l.logger.Info("calendar entry recorded", "date", entry.Date.Format("2006-01-02"), "outfit", entry.OutfitID)
	return nil
}

// Assign mints a new entry assigning outfitID to date and records it.
func (l *CalendarLedger) Assign(date time.Time, outfitID string) (model.CalendarEntry, error) {
	entry := model.CalendarEntry{
		ID:       l.idgen.New(),
		Date:     Day(date),
		OutfitID: outfitID,
	}
	if err := l.AddEntry(entry); err != nil {
		return model.CalendarEntry{}, err
	}
	return entry, nil
}

// EntryFor returns the entry for date's calendar day, or nil if the day has
// no assignment.
func (l *CalendarLedger) EntryFor(date time.Time) *model.CalendarEntry {
	day := Day(date)
	for _, e := range l.LoadEntries() {
		if Day(e.Date).Equal(day) {
			return &e
		}
	}
	return nil
}

// StatsFor tallies how often each clothing item was worn during the given
// month and returns the most worn one. Entries whose outfit no longer
// resolves are skipped. The second return is false when no entries resolve,
// meaning "no outfits this month".
//
// Ties are broken deterministically: among items with the highest count, the
// smallest item ID wins.
func (l *CalendarLedger) StatsFor(year int, month time.Month) (MonthStats, bool) {
	counts := make(map[string]int)
	for _, e := range l.LoadEntries() {
		day := Day(e.Date)
		if day.Year() != year || day.Month() != month {
			continue
		}
		outfit := l.closet.GetOutfit(e.OutfitID)
		if outfit == nil {
			continue
		}
		for _, itemID := range outfit.ItemIDs {
			counts[itemID]++
		}
	}
	if len(counts) == 0 {
		return MonthStats{}, false
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best := ids[0]
	for _, id := range ids[1:] {
		if counts[id] > counts[best] {
			best = id
		}
	}

	stats := MonthStats{ItemID: best, Count: counts[best]}
	if item := l.closet.GetItem(best); item != nil {
		stats.ItemName = item.Name
	}
	return stats, true
}
