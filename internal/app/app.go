package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"closet-go/internal/backup"
	"closet-go/internal/closet"
	"closet-go/internal/config"
	"closet-go/internal/encryption"
	"closet-go/internal/media"
	"closet-go/internal/model"
	"closet-go/internal/prefs"
	"closet-go/internal/recommend"
	"closet-go/internal/render"
)

// App is the application layer between the CLI and the core components.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw strings, and manages resource lifecycle on Close.
type App struct {
	cfg         *config.Config
	configPath  string
	prefs       closet.Prefs
	media       closet.MediaStore
	store       *closet.ClosetStore
	ledger      *closet.CalendarLedger
	composer    *closet.Composer
	recommender closet.Recommender
	backupSvc   *backup.Service
	encryptor   backup.Encryptor
	idgen       closet.IDGenerator
	logger      closet.Logger
	logFile     *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "AddItem", "Recommend") and tags
// every log line. The caller must call Close when done.
func NewApp(cfg *config.Config, configPath, operation string) (*App, error) {
	p, err := prefs.NewPrefsFromConfig(cfg.Prefs)
	if err != nil {
		return nil, fmt.Errorf("creating preference store: %w", err)
	}

	m, err := media.NewStoreFromConfig(cfg.Media)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("creating media store: %w", err)
	}

	vault, err := backup.NewVaultFromConfig(cfg.Vault)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("creating vault: %w", err)
	}

	encryptor, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	clock := closet.RealClock{}
	idgen := closet.UUIDGenerator{}

	store := closet.NewClosetStore(p, m, logger)
	ledger := closet.NewCalendarLedger(p, store, idgen, logger)
	renderer := render.NewCompositor(m, cfg.Canvas.Width, cfg.Canvas.Height)
	composer := closet.NewComposer(renderer, m, clock, idgen)
	recommender := recommend.NewClient(cfg.Recommender.BaseURL, cfg.Recommender.Model, cfg.Recommender.APIKey, nil, logger)
	backupSvc := backup.NewService(p, m, vault, encryptor, clock, logger)

	return &App{
		cfg:         cfg,
		configPath:  configPath,
		prefs:       p,
		media:       m,
		store:       store,
		ledger:      ledger,
		composer:    composer,
		recommender: recommender,
		backupSvc:   backupSvc,
		encryptor:   encryptor,
		idgen:       idgen,
		logger:      logger,
		logFile:     logFile,
	}, nil
}

// Close releases the preference store and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.prefs.Close(); err != nil {
		firstErr = fmt.Errorf("closing preference store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// Items

// AddItem imports the photo at imagePath into the media store and records a
// new clothing item.
func (a *App) AddItem(name, imagePath string, category model.Category, season model.Season, material, size, color string) (*model.ClothingItem, error) {
	if name == "" {
		return nil, fmt.Errorf("item name is required")
	}
	if !validCategory(category) {
		return nil, fmt.Errorf("unknown category: %q", category)
	}
	if !validSeason(season) {
		return nil, fmt.Errorf("unknown season: %q", season)
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}

	id := a.idgen.New()
	imageName := "item-" + id + extensionFor(imagePath)
	if err := a.media.Save(imageName, data); err != nil {
		return nil, fmt.Errorf("storing photo: %w", err)
	}

	item := model.ClothingItem{
		ID:        id,
		Name:      name,
		ImageName: imageName,
		Category:  category,
		Season:    season,
		Material:  material,
		Size:      size,
		Color:     color,
	}
	if err := a.store.AddItem(item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns all clothing items.
func (a *App) ListItems() []model.ClothingItem { return a.store.LoadItems() }

// GetItem returns the item with the given id, or nil.
func (a *App) GetItem(id string) *model.ClothingItem { return a.store.GetItem(id) }

// DeleteItem removes the item and its photo. Outfits referencing it are
// left as they are.
func (a *App) DeleteItem(id string) error { return a.store.DeleteItem(id) }

// Outfits

// ListOutfits returns all outfits.
func (a *App) ListOutfits() []model.Outfit { return a.store.LoadOutfits() }

// DeleteOutfit removes the outfit and its preview image.
func (a *App) DeleteOutfit(id string) error { return a.store.DeleteOutfit(id) }

// ToggleFavorite flips the favorite flag on the outfit.
func (a *App) ToggleFavorite(id string) error { return a.store.ToggleFavorite(id) }

// ComposeOutfit places the given items on a fresh canvas in order, commits
// the composition under name and persists the resulting outfit. Items are
// placed at canvas origin; interactive arrangement is a UI concern.
func (a *App) ComposeOutfit(name string, itemIDs []string) (*model.Outfit, error) {
	// The composer is shared across calls; a failed compose must not leave
	// placements behind for the next one.
	defer a.composer.Reset()

	for _, id := range itemIDs {
		item := a.store.GetItem(id)
		if item == nil {
			return nil, fmt.Errorf("unknown item: %s", id)
		}
		a.composer.Place(*item, 0, 0)
	}

	outfit, err := a.composer.Commit(name)
	if err != nil {
		return nil, err
	}
	if err := a.store.AddOutfit(*outfit); err != nil {
		return nil, err
	}
	return outfit, nil
}

// Calendar

// Wear assigns the outfit to the given day, replacing any previous
// assignment for that day.
func (a *App) Wear(outfitID string, date time.Time) (model.CalendarEntry, error) {
	if a.store.GetOutfit(outfitID) == nil {
		return model.CalendarEntry{}, fmt.Errorf("unknown outfit: %s", outfitID)
	}
	return a.ledger.Assign(date, outfitID)
}

// MonthEntries returns the month's entries sorted by day.
func (a *App) MonthEntries(year int, month time.Month) []model.CalendarEntry {
	var entries []model.CalendarEntry
	for _, e := range a.ledger.LoadEntries() {
		day := closet.Day(e.Date)
		if day.Year() == year && day.Month() == month {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries
}

// Stats reports the most worn item for the month. The second return is
// false when no outfits were worn that month.
func (a *App) Stats(year int, month time.Month) (closet.MonthStats, bool) {
	return a.ledger.StatsFor(year, month)
}

// OutfitName resolves an outfit ID to its display name, falling back to the
// ID itself for dangling references.
func (a *App) OutfitName(id string) string {
	if o := a.store.GetOutfit(id); o != nil {
		return o.Name
	}
	return id
}

// Recommendation

// Recommend snapshots the closet and asks the provider for an outfit.
func (a *App) Recommend(ctx context.Context) (*model.OutfitRecommendation, error) {
	return a.recommender.Recommend(ctx, a.store.Snapshot())
}

// User photo

// SetPhoto stores the full-body reference photo from the given file.
func (a *App) SetPhoto(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}
	return a.store.SaveUserPhoto(data)
}

// ExportPhoto writes the stored reference photo to the given file.
func (a *App) ExportPhoto(path string) error {
	data := a.store.LoadUserPhoto()
	if data == nil {
		return fmt.Errorf("no user photo stored")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing photo: %w", err)
	}
	return nil
}

// Backup

// BackupRun snapshots the closet into the configured vault.
func (a *App) BackupRun(encrypt bool) (string, error) {
	return a.backupSvc.Run(encrypt)
}

// BackupList returns the names of stored snapshots.
func (a *App) BackupList() ([]string, error) {
	return a.backupSvc.List()
}

// BackupRestore restores the named snapshot. passphrase is only needed for
// encrypted snapshots.
func (a *App) BackupRestore(name, passphrase string) error {
	var dctx backup.DecryptionContext
	if strings.HasSuffix(name, backup.EncryptedSuffix) {
		var err error
		dctx, err = a.encryptor.Unlock(passphrase)
		if err != nil {
			return fmt.Errorf("unlocking private key: %w", err)
		}
	}
	return a.backupSvc.Restore(name, dctx)
}

// BackupKeygen generates the backup encryption key pair.
func (a *App) BackupKeygen(passphrase string) error {
	return a.encryptor.Setup(passphrase)
}

// Config

// SetAPIKey stores the recommendation provider API key in the config file.
func (a *App) SetAPIKey(key string) error {
	a.cfg.Recommender.APIKey = key
	if err := config.Save(a.configPath, a.cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func validCategory(c model.Category) bool {
	for _, v := range model.Categories() {
		if v == c {
			return true
		}
	}
	return false
}

func validSeason(s model.Season) bool {
	for _, v := range model.Seasons() {
		if v == s {
			return true
		}
	}
	return false
}

// extensionFor preserves the source photo's extension, defaulting to .jpg.
func extensionFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ".jpg"
	}
	return ext
}
