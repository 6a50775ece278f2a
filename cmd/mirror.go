package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/myriadtable/myriad/internal/board"
	"github.com/myriadtable/myriad/internal/card"
	"github.com/myriadtable/myriad/internal/mirror"
	"github.com/myriadtable/myriad/internal/render"
	"github.com/myriadtable/myriad/internal/savefile"
)

const clearScreen = "\x1b[H\x1b[2J"

var mirrorCmd = &cobra.Command{
	Use:   "mirror [save_file]",
	Short: "Show a saved board from the opponent's seat",
	Long: `Mirror draws a save file rotated half a turn, with face-down cards and
cards in the owner's hand area shown as backs.

With --watch the view is kept open and redrawn whenever the save file
changes, polling at the configured opponent_refresh_rate.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		path := args[0]

		cfg := loadConfig()
		s, catalog, err := openBoard(path, cfg)
		if err != nil {
			return err
		}
		opts := renderOptions(catalog)

		if !watch {
			return render.Mirror(os.Stdout, mirror.Project(s, cfg.HandThreshold), opts)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("error creating watcher: %w", err)
		}
		defer watcher.Close()
		// editors and savers replace files, so watch the directory
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("error watching %s: %w", path, err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		updates := make(chan mirror.Update)
		go watchSave(ctx, watcher, path, catalog, updates)

		r := mirror.NewRefresher(s, cfg.RefreshInterval(), cfg.HandThreshold, func(v mirror.View) {
			fmt.Print(clearScreen)
			if err := render.Mirror(os.Stdout, v, opts); err != nil {
				printWarnings([]string{err.Error()})
			}
		})
		if err := r.Run(ctx, updates); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

// watchSave turns changes of the save file into state reloads
func watchSave(ctx context.Context, watcher *fsnotify.Watcher, path string, catalog *card.Catalog, updates chan<- mirror.Update) {
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			printWarnings([]string{err.Error()})
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			snap, warnings, err := savefile.Load(path)
			if err != nil {
				// a half-written file fails to open; the next write event retries
				continue
			}
			select {
			case updates <- func(s *board.State) {
				s.Restore(snap, catalog)
				printWarnings(s.Warnings())
			}:
				printWarnings(savefile.Messages(warnings))
			case <-ctx.Done():
				return
			}
		}
	}
}

func init() {
	RootCmd.AddCommand(mirrorCmd)
	mirrorCmd.Flags().BoolP("watch", "w", false, "keep redrawing as the save file changes")
}
