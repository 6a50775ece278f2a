package cmd

import (
	"fmt"
	"os"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/myriadtable/myriad/internal/assets"
	"github.com/myriadtable/myriad/internal/board"
	"github.com/myriadtable/myriad/internal/card"
	"github.com/myriadtable/myriad/internal/render"
)

// Preview size in terminal cells, keeping the card's aspect ratio
const (
	artWidth  = 32
	artHeight = artWidth * board.CardHeight / board.CardWidth / 2
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Look at single cards",
}

var cardShowCmd = &cobra.Command{
	Use:   "show [card_id]",
	Short: "Display a card with an ANSI preview of its image",
	Long: `Show prints a card's catalog entry next to an ANSI rendering of
card-img/<id>.png. Cards without an image fall back to noimage.png from the
resource directory.

Examples:
  myriad card show C001
  myriad card show C001 --no-art`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noArt, _ := cmd.Flags().GetBool("no-art")

		cfg := loadConfig()
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		c := catalog.Lookup(args[0])
		if !c.Known() {
			printWarnings([]string{fmt.Sprintf("card %s is not in the catalog", c.ID)})
		}

		resolver := assets.Resolver{CardDir: cfg.CardImageDir, ResourceDir: cfg.ResourceDir}
		imagePath, found := resolver.CardImage(c.ID)

		var art string
		if !noArt {
			img, err := render.LoadImage(imagePath)
			if err != nil {
				printWarnings([]string{err.Error()})
			} else {
				art = render.CardArt(img, artWidth, artHeight)
			}
		}

		displayCard(c, imagePath, found, art)
		return nil
	},
}

// displayCard displays the card information next to its ANSI art
func displayCard(c card.Card, imagePath string, found bool, ansiArt string) {
	var ansiLines []string
	if ansiArt != "" {
		ansiLines = strings.Split(strings.TrimSuffix(ansiArt, "\n"), "\n")
	}
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		maxAnsiWidth = max(maxAnsiWidth, render.VisibleWidth(line))
	}

	image := imagePath
	if !found {
		image = colorize.YellowString("%s (no card image)", imagePath)
	}

	infoLines := []string{
		colorize.CyanString("Card:  ") + colorize.HiWhiteString("%s", c.Name),
		colorize.CyanString("ID:    ") + colorize.HiWhiteString("%s", c.ID),
		colorize.CyanString("Deck:  ") + colorize.HiWhiteString("%s", deckName(c.Category)),
		colorize.CyanString("Image: ") + image,
	}

	spacing := 4
	infoStartCol := maxAnsiWidth + spacing
	if maxAnsiWidth == 0 {
		infoStartCol = 0
	}

	// Wrap long image paths to the space left of the terminal
	infoWidth := render.TerminalWidth(os.Stdout) - infoStartCol - 2
	var wrapped []string
	for _, line := range infoLines {
		wrapped = append(wrapped, render.WrapText(line, infoWidth)...)
	}

	fmt.Println()
	for i := 0; i < max(len(ansiLines), len(wrapped)); i++ {
		fmt.Print("  ")
		if i < len(ansiLines) {
			fmt.Print(ansiLines[i])
			fmt.Print(strings.Repeat(" ", infoStartCol-render.VisibleWidth(ansiLines[i])))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}
		if i < len(wrapped) {
			fmt.Print(wrapped[i])
		}
		fmt.Println()
	}
	fmt.Println()
}

func deckName(c card.Category) string {
	if c == card.Extra {
		return "extra"
	}
	return "main"
}

func init() {
	RootCmd.AddCommand(cardCmd)
	cardCmd.AddCommand(cardShowCmd)
	cardShowCmd.Flags().Bool("no-art", false, "skip the ANSI preview")
}
