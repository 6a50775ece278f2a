package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/myriadtable/myriad/internal/card"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the card catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List catalog cards, optionally filtered by id or name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")

		catalog, err := loadCatalog(loadConfig())
		if err != nil {
			return err
		}

		cards := catalog.Search(filter)
		if len(cards) == 0 {
			fmt.Println("No cards found.")
			return nil
		}
		for _, c := range cards {
			line := c.Label()
			if c.Category == card.Extra {
				line += colorize.MagentaString(" [EX]")
			}
			fmt.Println(line)
		}
		fmt.Printf("\n%d of %d cards\n", len(cards), catalog.Len())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogListCmd.Flags().StringP("filter", "f", "", "substring of the card id or name")
}
