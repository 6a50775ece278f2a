package cmd

import (
	"fmt"
	"os"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/myriadtable/myriad/internal/card"
	"github.com/myriadtable/myriad/internal/config"
	"github.com/myriadtable/myriad/internal/render"
)

var verbose bool

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "myriad",
	Short: "Deck editor and tabletop simulator for trading card games",
	Long: `Myriad edits deck files, lays cards out on a virtual table and shows
the table the way the opponent sees it.

Cards come from a catalog file (id,name[,category]). Decks and board saves
are plain text files that other copies of the program can read.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// newLogger returns the diagnostics logger for library packages. It
// discards everything unless --verbose is set.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		printWarnings([]string{fmt.Sprintf("error creating logger: %v", err)})
		return zap.NewNop()
	}
	return logger.Named("myriad")
}

// loadConfig reads the configuration, printing any warnings
func loadConfig() *config.Config {
	cfg, warnings := config.Load()
	if verbose {
		printWarnings(warnings)
	}
	return cfg
}

// loadCatalog reads the configured card catalog, printing any warnings
func loadCatalog(cfg *config.Config) (*card.Catalog, error) {
	catalog, warnings, err := card.Load(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	printWarnings(warnings)
	return catalog, nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, colorize.YellowString("Warning: ")+w)
	}
}

func renderOptions(catalog *card.Catalog) render.Options {
	return render.Options{
		Width:   render.TerminalWidth(os.Stdout),
		Color:   !colorize.NoColor,
		Catalog: catalog,
	}
}
