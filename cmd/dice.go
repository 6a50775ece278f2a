package cmd

import (
	"fmt"
	"math/rand/v2"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/myriadtable/myriad/internal/dice"
)

var diceCmd = &cobra.Command{
	Use:   "dice",
	Short: "Roll a die or toss a coin",
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

var diceRollCmd = &cobra.Command{
	Use:   "roll",
	Short: "Roll a six-sided die",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(colorize.HiWhiteString("%d", dice.Roll(newRand())))
	},
}

var diceCoinCmd = &cobra.Command{
	Use:   "coin",
	Short: "Toss a coin",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(colorize.HiWhiteString("%s", dice.Coin(newRand())))
	},
}

func init() {
	RootCmd.AddCommand(diceCmd)
	diceCmd.AddCommand(diceRollCmd)
	diceCmd.AddCommand(diceCoinCmd)
}
