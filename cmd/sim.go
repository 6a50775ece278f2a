package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/myriadtable/myriad/internal/board"
	"github.com/myriadtable/myriad/internal/mirror"
	"github.com/myriadtable/myriad/internal/render"
	"github.com/myriadtable/myriad/internal/session"
)

// maxCommandSize bounds one command line
const maxCommandSize = 1024 * 1024

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a table session",
	Long: `Sim runs a table session: one command per line, read from a script file or
from standard input. In a terminal the board is redrawn after every command.

With --mirror the opponent's view is kept live in another terminal or file,
redrawn at the configured opponent_refresh_rate whenever the table changes.

Type 'help' inside the session for the list of commands.

Examples:
  myriad sim --deck deck/burn.txt
  myriad sim --board save/save_20240301123045.txt
  myriad sim --deck deck/burn.txt --script opening.txt
  myriad sim --deck deck/burn.txt --mirror /dev/pts/3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deckPath, _ := cmd.Flags().GetString("deck")
		boardPath, _ := cmd.Flags().GetString("board")
		scriptPath, _ := cmd.Flags().GetString("script")
		mirrorPath, _ := cmd.Flags().GetString("mirror")

		cfg := loadConfig()
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		ctl := session.New(cfg, catalog, newLogger(), nil)

		if boardPath != "" {
			report(ctl.Load(boardPath))
		}
		if deckPath != "" {
			report(ctl.LoadDeck(deckPath, false))
		}

		in := io.Reader(os.Stdin)
		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		if scriptPath != "" {
			f, err := os.Open(scriptPath)
			if err != nil {
				return fmt.Errorf("error opening script: %w", err)
			}
			defer f.Close()
			in = f
			interactive = false
		}

		if mirrorPath == "" {
			return runSession(ctl, in, interactive, inline)
		}

		out, err := os.OpenFile(mirrorPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("error opening mirror output: %w", err)
		}
		defer out.Close()

		opts := renderOptions(catalog)
		opts.Width = render.TerminalWidth(out)
		opts.Color = opts.Color && term.IsTerminal(int(out.Fd()))
		r := mirror.NewRefresher(ctl.State, cfg.RefreshInterval(), cfg.HandThreshold, func(v mirror.View) {
			fmt.Fprint(out, clearScreen)
			if err := render.Mirror(out, v, opts); err != nil {
				printWarnings([]string{err.Error()})
			}
		})
		return runMirrored(cmd.Context(), ctl, in, interactive, r)
	},
}

// runSession executes lines until quit or end of input. Interactive
// sessions redraw the board after each command; scripts draw it once at
// the end. Everything touching the state runs through do.
func runSession(ctl *session.Controller, in io.Reader, interactive bool, do func(func())) error {
	opts := renderOptions(ctl.Catalog)
	prompt := colorize.New(colorize.FgGreen).Sprint("myriad> ")

	var err error
	if interactive {
		do(func() {
			ctl.State.ClearDirty()
			err = render.Board(os.Stdout, ctl.State, opts)
		})
		if err != nil {
			return err
		}
		fmt.Print(prompt)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCommandSize)
	for scanner.Scan() {
		line := scanner.Text()
		quit := false
		do(func() { quit, err = step(ctl, line, interactive, opts) })
		if err != nil || quit {
			return err
		}
		if interactive {
			fmt.Print(prompt)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading commands: %w", err)
	}

	if !interactive {
		do(func() { err = render.Board(os.Stdout, ctl.State, opts) })
	}
	return err
}

// step runs one command line and draws what it produced. It reports
// whether the session should end.
func step(ctl *session.Controller, line string, interactive bool, opts render.Options) (bool, error) {
	res, err := ctl.Exec(line)
	report(res, err)
	if res.Quit {
		return true, nil
	}

	if res.Mirror != nil {
		return false, render.Mirror(os.Stdout, *res.Mirror, opts)
	}
	if interactive && ctl.State.Dirty() {
		ctl.State.ClearDirty()
		return false, render.Board(os.Stdout, ctl.State, opts)
	}
	return false, nil
}

// inline runs fn on the calling goroutine
func inline(fn func()) { fn() }

// runMirrored runs the session while r keeps the opponent's view live.
// r's goroutine owns the state: every command is handed to it as an
// update, and the primary view is drawn from there too.
func runMirrored(ctx context.Context, ctl *session.Controller, in io.Reader, interactive bool, r *mirror.Refresher) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan mirror.Update)
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, updates) }()

	do := owner(ctx, updates)
	err := runSession(ctl, in, interactive, do)
	// show the last change before stopping
	do(func() { r.Tick() })

	cancel()
	if runErr := <-done; runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return err
}

// owner returns a runner that hands fn to the goroutine applying updates
// and waits until it has run
func owner(ctx context.Context, updates chan<- mirror.Update) func(func()) {
	return func(fn func()) {
		finished := make(chan struct{})
		select {
		case updates <- func(*board.State) {
			defer close(finished)
			fn()
		}:
			<-finished
		case <-ctx.Done():
		}
	}
}

// report prints a command's outcome. Refused commands are not fatal to
// the session.
func report(res session.Result, err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, colorize.RedString("Error: ")+err.Error())
		return
	}
	printWarnings(res.Warnings)
	if res.Message != "" {
		fmt.Println(res.Message)
	}
}

func init() {
	RootCmd.AddCommand(simCmd)
	simCmd.Flags().StringP("deck", "d", "", "deck file to load")
	simCmd.Flags().StringP("board", "b", "", "save file to start from")
	simCmd.Flags().StringP("script", "s", "", "read commands from a file")
	simCmd.Flags().StringP("mirror", "m", "", "keep the opponent's view live on this terminal or file")
}
