package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"closet-go/internal/app"
	"closet-go/internal/config"
	"closet-go/internal/model"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "AddItem", "Recommend").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, defaults["config_path"], operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// parseMonth parses a --month flag in YYYY-MM form, defaulting to the
// current month.
func parseMonth(value string) (int, time.Month, error) {
	if value == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (want YYYY-MM)", value)
	}
	return t.Year(), t.Month(), nil
}

// readSecret prompts for a value without echoing it.
func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

var rootCmd = &cobra.Command{
	Use:   "closet",
	Short: "Personal wardrobe manager",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Prefs:       %s\n", cfg.Prefs.Type)
		fmt.Printf("Media:       %s\n", cfg.Media.Type)
		fmt.Printf("Vault:       %s\n", cfg.Vault.Type)
		fmt.Printf("Model:       %s\n", cfg.Recommender.Model)
		keyState := "not set"
		if cfg.Recommender.APIKey != "" {
			keyState = "set"
		}
		fmt.Printf("API Key:     %s\n", keyState)
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the recommendation provider API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readSecret("API key: ")
		if err != nil {
			return err
		}
		if key == "" {
			return fmt.Errorf("API key is empty")
		}

		a, err := newApp("SetAPIKey")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SetAPIKey(key); err != nil {
			return err
		}
		fmt.Println("API key stored.")
		return nil
	},
}

// item command
var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage clothing items",
}

var itemAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a clothing item from a photo",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		photo, _ := cmd.Flags().GetString("photo")
		category, _ := cmd.Flags().GetString("category")
		season, _ := cmd.Flags().GetString("season")
		material, _ := cmd.Flags().GetString("material")
		size, _ := cmd.Flags().GetString("size")
		color, _ := cmd.Flags().GetString("color")

		a, err := newApp("AddItem")
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := a.AddItem(name, photo, model.Category(category), model.Season(season), material, size, color)
		if err != nil {
			return fmt.Errorf("adding item: %w", err)
		}

		fmt.Printf("Added %s (%s)\n", item.Name, item.ID)
		return nil
	},
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clothing items",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListItems")
		if err != nil {
			return err
		}
		defer a.Close()

		items := a.ListItems()
		if len(items) == 0 {
			fmt.Println("Closet is empty.")
			return nil
		}

		for _, it := range items {
			fmt.Printf("%s  %-10s %-12s %-8s %s\n", it.ID, it.Category, it.Season, it.Color, it.Name)
		}
		return nil
	},
}

var itemShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one clothing item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetItem")
		if err != nil {
			return err
		}
		defer a.Close()

		item := a.GetItem(args[0])
		if item == nil {
			return fmt.Errorf("no item with id %s", args[0])
		}

		fmt.Printf("Name:     %s\n", item.Name)
		fmt.Printf("Category: %s\n", item.Category)
		fmt.Printf("Season:   %s\n", item.Season)
		fmt.Printf("Material: %s\n", item.Material)
		fmt.Printf("Size:     %s\n", item.Size)
		fmt.Printf("Color:    %s\n", item.Color)
		fmt.Printf("Image:    %s\n", item.ImageName)
		return nil
	},
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a clothing item and its photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteItem")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteItem(args[0]); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
		fmt.Println("Deleted.")
		return nil
	},
}

// outfit command
var outfitCmd = &cobra.Command{
	Use:   "outfit",
	Short: "Manage outfits",
}

var outfitComposeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose a new outfit from items",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		items, _ := cmd.Flags().GetStringSlice("items")

		a, err := newApp("ComposeOutfit")
		if err != nil {
			return err
		}
		defer a.Close()

		outfit, err := a.ComposeOutfit(name, items)
		if err != nil {
			return fmt.Errorf("composing outfit: %w", err)
		}

		fmt.Printf("Created outfit %s (%s) with %d item(s)\n", outfit.Name, outfit.ID, len(outfit.ItemIDs))
		return nil
	},
}

var outfitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List outfits",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListOutfits")
		if err != nil {
			return err
		}
		defer a.Close()

		outfits := a.ListOutfits()
		if len(outfits) == 0 {
			fmt.Println("No outfits yet.")
			return nil
		}

		for _, o := range outfits {
			favorite := " "
			if o.IsFavorite {
				favorite = "*"
			}
			fmt.Printf("%s %s  %s  %d item(s)  %s\n",
				favorite, o.ID, o.DateCreated.Format("2006-01-02"), len(o.ItemIDs), o.Name)
		}
		return nil
	},
}

var outfitDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an outfit and its preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteOutfit")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteOutfit(args[0]); err != nil {
			return fmt.Errorf("deleting outfit: %w", err)
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var outfitFavoriteCmd = &cobra.Command{
	Use:   "favorite ID",
	Short: "Toggle an outfit's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ToggleFavorite")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ToggleFavorite(args[0]); err != nil {
			return fmt.Errorf("toggling favorite: %w", err)
		}
		return nil
	},
}

// wear command
var wearCmd = &cobra.Command{
	Use:   "wear OUTFIT_ID",
	Short: "Assign an outfit to a calendar day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dateFlag, _ := cmd.Flags().GetString("date")

		date := time.Now()
		if dateFlag != "" {
			var err error
			date, err = time.Parse("2006-01-02", dateFlag)
			if err != nil {
				return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", dateFlag)
			}
		}

		a, err := newApp("Wear")
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.Wear(args[0], date)
		if err != nil {
			return fmt.Errorf("recording: %w", err)
		}

		fmt.Printf("Wearing %s on %s\n", a.OutfitName(entry.OutfitID), entry.Date.Format("2006-01-02"))
		return nil
	},
}

// calendar command
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the outfit calendar for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		monthFlag, _ := cmd.Flags().GetString("month")
		year, month, err := parseMonth(monthFlag)
		if err != nil {
			return err
		}

		a, err := newApp("MonthEntries")
		if err != nil {
			return err
		}
		defer a.Close()

		entries := a.MonthEntries(year, month)
		if len(entries) == 0 {
			fmt.Println("No outfits this month.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%s  %s\n", e.Date.Format("2006-01-02"), a.OutfitName(e.OutfitID))
		}
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the most worn item for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		monthFlag, _ := cmd.Flags().GetString("month")
		year, month, err := parseMonth(monthFlag)
		if err != nil {
			return err
		}

		a, err := newApp("Stats")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, ok := a.Stats(year, month)
		if !ok {
			fmt.Println("No outfits this month.")
			return nil
		}

		name := stats.ItemName
		if name == "" {
			name = stats.ItemID
		}
		fmt.Printf("Most worn: %s (%dx)\n", name, stats.Count)
		return nil
	},
}

// recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Ask the provider for an outfit recommendation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Recommend")
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.Recommend(cmd.Context())
		if err != nil {
			return fmt.Errorf("recommendation failed: %w", err)
		}

		printSlot := func(slot string, id *string) {
			if id == nil {
				fmt.Printf("%-7s -\n", slot+":")
				return
			}
			name := *id
			if item := a.GetItem(*id); item != nil {
				name = item.Name
			}
			fmt.Printf("%-7s %s\n", slot+":", name)
		}
		printSlot("Hat", rec.HatID)
		printSlot("Shirt", rec.ShirtID)
		printSlot("Pants", rec.PantsID)
		printSlot("Shoes", rec.ShoesID)
		fmt.Printf("\n%s\n", rec.Explanation)
		return nil
	},
}

// photo command
var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Manage the full-body reference photo",
}

var photoSetCmd = &cobra.Command{
	Use:   "set PATH",
	Short: "Store the reference photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetPhoto")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SetPhoto(args[0]); err != nil {
			return err
		}
		fmt.Println("Photo stored.")
		return nil
	},
}

var photoExportCmd = &cobra.Command{
	Use:   "export PATH",
	Short: "Write the stored reference photo to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ExportPhoto")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ExportPhoto(args[0]); err != nil {
			return err
		}
		fmt.Printf("Photo written to %s\n", args[0])
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the closet into the vault",
}

var backupRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Create and store a snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		a, err := newApp("BackupRun")
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := a.BackupRun(encrypt)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}

		fmt.Printf("Stored snapshot %s\n", name)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("BackupList")
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.BackupList()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No snapshots stored.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore NAME",
	Short: "Restore a snapshot into the live closet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		passphrase := ""
		if strings.HasSuffix(name, ".age") {
			var err error
			passphrase, err = readSecret("Key passphrase: ")
			if err != nil {
				return err
			}
		}

		a, err := newApp("BackupRestore")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.BackupRestore(name, passphrase); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Printf("Restored %s\n", name)
		return nil
	},
}

var backupKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the snapshot encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := readSecret("New key passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readSecret("Repeat passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		a, err := newApp("BackupKeygen")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.BackupKeygen(passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Println("Key pair generated.")
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetKeyCmd)

	// item subcommands
	itemCmd.AddCommand(itemAddCmd)
	itemAddCmd.Flags().String("name", "", "Item name")
	itemAddCmd.Flags().String("photo", "", "Path to the item photo")
	itemAddCmd.Flags().String("category", "", "Category (Hat, Shirt, Pants, Shoes, Dress, Accessory)")
	itemAddCmd.Flags().String("season", "All Seasons", "Season (Spring, Summer, Fall, Winter, All Seasons)")
	itemAddCmd.Flags().String("material", "", "Material")
	itemAddCmd.Flags().String("size", "", "Size")
	itemAddCmd.Flags().String("color", "", "Color")
	itemCmd.AddCommand(itemListCmd)
	itemCmd.AddCommand(itemShowCmd)
	itemCmd.AddCommand(itemDeleteCmd)

	// outfit subcommands
	outfitCmd.AddCommand(outfitComposeCmd)
	outfitComposeCmd.Flags().String("name", "", "Outfit name")
	outfitComposeCmd.Flags().StringSlice("items", nil, "Item IDs, back to front")
	outfitCmd.AddCommand(outfitListCmd)
	outfitCmd.AddCommand(outfitDeleteCmd)
	outfitCmd.AddCommand(outfitFavoriteCmd)

	// photo subcommands
	photoCmd.AddCommand(photoSetCmd)
	photoCmd.AddCommand(photoExportCmd)

	// backup subcommands
	backupCmd.AddCommand(backupRunCmd)
	backupRunCmd.Flags().Bool("encrypt", false, "Encrypt the snapshot before upload")
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupKeygenCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(outfitCmd)
	rootCmd.AddCommand(wearCmd)
	wearCmd.Flags().String("date", "", "Day to assign (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().String("month", "", "Month to show (YYYY-MM, default current)")
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().String("month", "", "Month to analyze (YYYY-MM, default current)")
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(photoCmd)
	rootCmd.AddCommand(backupCmd)
}
