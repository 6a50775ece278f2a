package cmd

import (
	"fmt"
	"os"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/myriadtable/myriad/internal/board"
	"github.com/myriadtable/myriad/internal/card"
	"github.com/myriadtable/myriad/internal/config"
	"github.com/myriadtable/myriad/internal/mirror"
	"github.com/myriadtable/myriad/internal/render"
	"github.com/myriadtable/myriad/internal/savefile"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Inspect and render board save files",
}

// openBoard restores a save file into a fresh state
func openBoard(path string, cfg *config.Config) (*board.State, *card.Catalog, error) {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	snap, warnings, err := savefile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	printWarnings(savefile.Messages(warnings))

	s := board.New(board.Options{
		Bounds:         board.Size{W: cfg.BoardWidth, H: cfg.BoardHeight},
		RevealOnReturn: cfg.RevealOnReturn,
		Logger:         newLogger(),
	})
	s.Restore(snap, catalog)
	printWarnings(s.Warnings())
	return s, catalog, nil
}

var boardInspectCmd = &cobra.Command{
	Use:   "inspect [save_file]",
	Short: "Print the contents of a save file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		cfg := loadConfig()
		s, catalog, err := openBoard(args[0], cfg)
		if err != nil {
			return err
		}
		snap := s.Snapshot()

		switch output {
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(snap); err != nil {
				return fmt.Errorf("error encoding yaml: %w", err)
			}
			return enc.Close()
		case "text":
		default:
			return fmt.Errorf("unknown output format: %s (text or yaml)", output)
		}

		heading := colorize.New(colorize.FgCyan, colorize.Bold)
		heading.Println("Resources")
		fmt.Printf("  back:    %s\n  playmat: %s\n", snap.Resources.Back, snap.Resources.Playmat)
		heading.Printf("LP %d\n", snap.Life)

		heading.Printf("Deck (%d)\n", len(snap.Deck))
		for i, id := range snap.Deck {
			fmt.Printf("%5d. %s\n", i+1, catalog.Lookup(id).Label())
		}
		if len(snap.Extra) > 0 {
			heading.Printf("Extra deck (%d)\n", len(snap.Extra))
			for i, id := range snap.Extra {
				fmt.Printf("%5d. %s\n", i+1, catalog.Lookup(id).Label())
			}
		}

		heading.Printf("Board (%d)\n", len(snap.Cards))
		for _, c := range snap.Cards {
			var flags []string
			if c.Rotated {
				flags = append(flags, "rotated")
			}
			if !c.FaceUp {
				flags = append(flags, "face down")
			}
			if !c.Revealed {
				flags = append(flags, "unrevealed")
			}
			hidden := ""
			if c.Y > cfg.HandThreshold {
				hidden = colorize.YellowString(" (hand)")
			}
			fmt.Printf("  %-30s at %4d,%-4d %v%s\n", catalog.Lookup(c.ID).Label(), c.X, c.Y, flags, hidden)
		}

		heading.Printf("Markers (%d)\n", len(snap.Markers))
		for _, m := range snap.Markers {
			kind := m.Type
			if m.Color != "" {
				kind += " " + m.Color
			}
			fmt.Printf("  %-12s %q at %d,%d (%dx%d)\n", kind, m.Text, m.X, m.Y, m.Width, m.Height)
		}
		return nil
	},
}

var boardRenderCmd = &cobra.Command{
	Use:   "render [save_file]",
	Short: "Draw a save file as a character grid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asOpponent, _ := cmd.Flags().GetBool("mirror")

		cfg := loadConfig()
		s, catalog, err := openBoard(args[0], cfg)
		if err != nil {
			return err
		}
		s.ClearSelection()

		opts := renderOptions(catalog)
		if asOpponent {
			return render.Mirror(os.Stdout, mirror.Project(s, cfg.HandThreshold), opts)
		}
		return render.Board(os.Stdout, s, opts)
	},
}

func init() {
	RootCmd.AddCommand(boardCmd)
	boardCmd.AddCommand(boardInspectCmd)
	boardCmd.AddCommand(boardRenderCmd)

	boardInspectCmd.Flags().StringP("output", "o", "text", "output format: text or yaml")
	boardRenderCmd.Flags().Bool("mirror", false, "show the opponent's view")
}
