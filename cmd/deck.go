package cmd

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/myriadtable/myriad/internal/card"
	"github.com/myriadtable/myriad/internal/config"
	"github.com/myriadtable/myriad/internal/deck"
	"github.com/myriadtable/myriad/internal/validator"
)

// deckCmd represents the deck command group
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Create and edit deck files",
	Long: `Commands for editing deck files.

A deck file lists main deck card ids one per line, then an optional [EX]
section with extra deck ids, then a [Resource] section naming the card
back and playmat images.`,
}

// openDeck reads a deck file, checking ids against the catalog
func openDeck(path string) (*deck.List, *card.Catalog, error) {
	catalog, err := loadCatalog(loadConfig())
	if err != nil {
		return nil, nil, err
	}
	list, warnings, err := deck.ReadFile(path, catalog)
	if err != nil {
		return nil, nil, err
	}
	printWarnings(warnings)
	return list, catalog, nil
}

// defaultDeckPath is a fresh timestamped file in the deck directory
func defaultDeckPath(cfg *config.Config) string {
	return filepath.Join(config.ResolveDir(cfg.DeckDir), deck.DefaultFileName(time.Now()))
}

func printDeck(list *deck.List, catalog *card.Catalog) {
	for _, k := range []deck.Kind{deck.Main, deck.Extra} {
		ids := list.Cards(k)
		fmt.Println(colorize.CyanString("%s deck (%d):", k, len(ids)))
		for i, id := range ids {
			fmt.Printf("%3d. %s\n", i+1, catalog.Lookup(id).Label())
		}
	}
	fmt.Println(colorize.CyanString("Back:    ") + list.Resources.Back)
	fmt.Println(colorize.CyanString("Playmat: ") + list.Resources.Playmat)
}

var deckNewCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Create an empty deck file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			path = defaultDeckPath(loadConfig())
		}
		if err := deck.WriteFile(path, deck.New()); err != nil {
			return err
		}
		fmt.Println("Deck created at:", path)
		return nil
	},
}

var deckShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "List the cards of a deck file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, catalog, err := openDeck(args[0])
		if err != nil {
			return err
		}
		printDeck(list, catalog)
		return nil
	},
}

var deckAddCmd = &cobra.Command{
	Use:   "add [path] [card_id...]",
	Short: "Add cards to the deck their category belongs to",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, catalog, err := openDeck(args[0])
		if err != nil {
			return err
		}
		for _, id := range args[1:] {
			if !catalog.Has(id) {
				printWarnings([]string{fmt.Sprintf("card %s is not in the catalog", id)})
			}
			k := list.AddAuto(id, catalog)
			fmt.Printf("Added %s to the %s deck\n", catalog.Lookup(id).Label(), k)
		}
		return deck.WriteFile(args[0], list)
	},
}

var deckRemoveCmd = &cobra.Command{
	Use:   "rm [path] [position]",
	Short: "Remove the card at a 1-based position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		extra, _ := cmd.Flags().GetBool("ex")
		k := deck.Main
		if extra {
			k = deck.Extra
		}

		var n int
		if _, err := fmt.Sscanf(args[1], "%d", &n); err != nil {
			return fmt.Errorf("invalid position: %s", args[1])
		}

		list, catalog, err := openDeck(args[0])
		if err != nil {
			return err
		}
		id, err := list.Remove(k, n-1)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %s from the %s deck\n", catalog.Lookup(id).Label(), k)
		return deck.WriteFile(args[0], list)
	},
}

var deckSortCmd = &cobra.Command{
	Use:   "sort [path]",
	Short: "Sort both decks by card id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _, err := openDeck(args[0])
		if err != nil {
			return err
		}
		list.Sort(deck.Main)
		list.Sort(deck.Extra)
		return deck.WriteFile(args[0], list)
	},
}

var deckGachaCmd = &cobra.Command{
	Use:   "gacha [path]",
	Short: "Build a random deck from the catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("size")

		cfg := loadConfig()
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		list, err := deck.Gacha(catalog, size, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
		if err != nil {
			return err
		}

		path := defaultDeckPath(cfg)
		if len(args) == 1 {
			path = args[0]
		}
		if err := deck.WriteFile(path, list); err != nil {
			return err
		}
		printDeck(list, catalog)
		fmt.Println("\nDeck saved to:", path)
		return nil
	},
}

// deckValidateCmd represents the deck validate command
var deckValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a deck file",
	Long: `Validate checks that every card of a deck file exists in the catalog and
sits in the right deck, and that its card back and playmat images exist.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deckPath := args[0]

		cfg := loadConfig()
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		// Create validator and run validation
		v := validator.NewValidator(deckPath, catalog, cfg.ResourceDir)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		// Display validation results
		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			fmt.Printf("✅ Deck '%s' is valid.\n", deckPath)
		} else {
			fmt.Printf("❌ Deck '%s' has %d validation errors:\n", deckPath, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, colorize.RedString("%s", err))
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, colorize.YellowString("%s", warn))
			}
		}

		if len(results.Errors) > 0 {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(deckCmd)
	deckCmd.AddCommand(deckNewCmd)
	deckCmd.AddCommand(deckShowCmd)
	deckCmd.AddCommand(deckAddCmd)
	deckCmd.AddCommand(deckRemoveCmd)
	deckCmd.AddCommand(deckSortCmd)
	deckCmd.AddCommand(deckGachaCmd)
	deckCmd.AddCommand(deckValidateCmd)

	deckRemoveCmd.Flags().Bool("ex", false, "remove from the extra deck")
	deckGachaCmd.Flags().Int("size", deck.GachaSize, "number of random pulls")
}
