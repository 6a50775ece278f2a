package session

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/myriadtable/myriad/internal/board"
	"github.com/myriadtable/myriad/internal/deck"
)

// ErrUsage wraps malformed command lines
var ErrUsage = errors.New("usage")

// Exec parses and runs one command line. Blank lines and lines starting
// with # do nothing.
func (c *Controller) Exec(line string) (Result, error) {
	line = strings.TrimLeftFunc(strings.TrimRight(line, "\r\n"), unicode.IsSpace)
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
		return Result{}, nil
	}

	var res Result
	root := c.commandTree(&res, rawText(line))
	root.SetArgs(strings.Fields(line))
	if err := root.Execute(); err != nil {
		if IsUserError(err) {
			return res, err
		}
		return res, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return res, nil
}

// Help lists the available commands
func (c *Controller) Help() string {
	var b strings.Builder
	for _, cmd := range c.commandTree(&Result{}, "").Commands() {
		fmt.Fprintf(&b, "  %-28s %s\n", cmd.Use, cmd.Short)
	}
	return b.String()
}

// commandTree builds a fresh cobra tree whose commands store their
// outcome in res. A new tree per line keeps flag values from leaking
// between commands. text is the line after the command word, kept
// verbatim for the commands that take free text.
func (c *Controller) commandTree(res *Result, text string) *cobra.Command {
	root := &cobra.Command{
		Use:           "myriad",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpCommand(&cobra.Command{
		Use:   "help",
		Short: "List commands",
		RunE: func(*cobra.Command, []string) error {
			*res = Result{Message: c.Help()}
			return nil
		},
	})

	run := func(f func(args []string) (Result, error)) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, args []string) error {
			r, err := f(args)
			*res = r
			return err
		}
	}
	noArgs := func(f func() (Result, error)) func(*cobra.Command, []string) error {
		return run(func([]string) (Result, error) { return f() })
	}

	var spreadExtra bool
	loadDeck := &cobra.Command{
		Use:   "load-deck <path>",
		Short: "Replace both decks from a deck file",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(args []string) (Result, error) {
			return c.LoadDeck(args[0], spreadExtra)
		}),
	}
	loadDeck.Flags().BoolVar(&spreadExtra, "spread-extra", false, "lay the extra deck out on the board")

	root.AddCommand(
		&cobra.Command{
			Use:   "draw",
			Short: "Draw the top card of the deck face up",
			Args:  cobra.NoArgs,
			RunE:  noArgs(func() (Result, error) { return c.Draw(deck.Main, true) }),
		},
		&cobra.Command{
			Use:   "draw-down",
			Short: "Draw the top card of the deck face down",
			Args:  cobra.NoArgs,
			RunE:  noArgs(func() (Result, error) { return c.Draw(deck.Main, false) }),
		},
		&cobra.Command{
			Use:   "draw-ex",
			Short: "Draw the top card of the extra deck",
			Args:  cobra.NoArgs,
			RunE:  noArgs(func() (Result, error) { return c.Draw(deck.Extra, true) }),
		},
		&cobra.Command{
			Use:   "take [ex] <n>",
			Short: "Take the n-th card of a deck onto the board",
			Args:  cobra.RangeArgs(1, 2),
			RunE: run(func(args []string) (Result, error) {
				k, rest, err := kindArg(args)
				if err != nil {
					return Result{}, err
				}
				if len(rest) != 1 {
					return Result{}, fmt.Errorf("%w: take [ex] <n>", ErrUsage)
				}
				n, err := intArg(rest[0])
				if err != nil {
					return Result{}, err
				}
				return c.Take(k, n)
			}),
		},
		&cobra.Command{
			Use:   "shuffle [ex]",
			Short: "Shuffle the deck",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(args []string) (Result, error) {
				k, _, err := kindArg(args)
				if err != nil {
					return Result{}, err
				}
				return c.Shuffle(k)
			}),
		},
		&cobra.Command{
			Use:   "deck [ex]",
			Short: "List the deck from the top",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(args []string) (Result, error) {
				k, _, err := kindArg(args)
				if err != nil {
					return Result{}, err
				}
				return c.DeckContents(k)
			}),
		},
		&cobra.Command{
			Use:   "top",
			Short: "Return the selected card to the top of the deck",
			Args:  cobra.NoArgs,
			RunE:  noArgs(func() (Result, error) { return c.ToDeck(true) }),
		},
		&cobra.Command{
			Use:   "bottom",
			Short: "Return the selected card to the bottom of the deck",
			Args:  cobra.NoArgs,
			RunE:  noArgs(func() (Result, error) { return c.ToDeck(false) }),
		},
		&cobra.Command{
			Use:   "rotate",
			Short: "Rotate the selected card",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.Rotate),
		},
		&cobra.Command{
			Use:   "reverse",
			Short: "Turn the selected card over",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.Reverse),
		},
		&cobra.Command{
			Use:   "front",
			Short: "Bring the selection to the front",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.Front),
		},
		&cobra.Command{
			Use:   "back",
			Short: "Send the selection to the back",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.Back),
		},
		&cobra.Command{
			Use:                "click <x> <y>",
			DisableFlagParsing: true,
			Short:              "Select what is at x,y",
			Args:               cobra.ExactArgs(2),
			RunE: run(func(args []string) (Result, error) {
				p, err := pointArg(args)
				if err != nil {
					return Result{}, err
				}
				return c.Click(p)
			}),
		},
		&cobra.Command{
			Use:                "move <x> <y>",
			DisableFlagParsing: true,
			Short:              "Move the selection to x,y",
			Args:               cobra.ExactArgs(2),
			RunE: run(func(args []string) (Result, error) {
				p, err := pointArg(args)
				if err != nil {
					return Result{}, err
				}
				return c.Move(p)
			}),
		},
		&cobra.Command{
			Use:                "select <x1> <y1> <x2> <y2>",
			DisableFlagParsing: true,
			Short:              "Select the cards touching a rectangle",
			Args:               cobra.ExactArgs(4),
			RunE: run(func(args []string) (Result, error) {
				a, err := pointArg(args[:2])
				if err != nil {
					return Result{}, err
				}
				b, err := pointArg(args[2:])
				if err != nil {
					return Result{}, err
				}
				return c.SelectRect(a, b)
			}),
		},
		&cobra.Command{
			Use:   "rotate-all",
			Short: "Rotate every selected card",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.RotateAll),
		},
		&cobra.Command{
			Use:   "face-up-all",
			Short: "Turn every selected card face up",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.FaceUpAll),
		},
		&cobra.Command{
			Use:   "face-down-all",
			Short: "Turn every selected card face down",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.FaceDownAll),
		},
		&cobra.Command{
			Use:   "gather",
			Short: "Stack the selected cards",
			Args:  cobra.NoArgs,
			RunE:  noArgs(func() (Result, error) { return c.Gather(false) }),
		},
		&cobra.Command{
			Use:   "gather-shuffle",
			Short: "Stack the selected cards in random order",
			Args:  cobra.NoArgs,
			RunE:  noArgs(func() (Result, error) { return c.Gather(true) }),
		},
		&cobra.Command{
			Use:   "unrotate-all",
			Short: "Put every rotated card upright",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.UnrotateAll),
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the selection from the board",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.Delete),
		},
		&cobra.Command{
			Use:   "put <id>",
			Short: "Place a new card on the board",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(args []string) (Result, error) {
				return c.Put(args[0])
			}),
		},
		&cobra.Command{
			Use:                "marker [text]",
			DisableFlagParsing: true,
			Short:              `Add a text marker (\n for a line break)`,
			Args:               cobra.ArbitraryArgs,
			RunE: noArgs(func() (Result, error) {
				return c.Marker(expandText(text))
			}),
		},
		&cobra.Command{
			Use:   "chip <colour>",
			Short: "Add a chip: " + strings.Join(board.ChipColors, ", "),
			Args:  cobra.ExactArgs(1),
			RunE: run(func(args []string) (Result, error) {
				return c.Chip(args[0])
			}),
		},
		&cobra.Command{
			Use:                "text [text]",
			DisableFlagParsing: true,
			Short:              "Replace the text of the selected marker",
			Args:               cobra.ArbitraryArgs,
			RunE: noArgs(func() (Result, error) {
				return c.Text(expandText(text))
			}),
		},
		&cobra.Command{
			Use:                "life <n>",
			DisableFlagParsing: true,
			Short:              fmt.Sprintf("Set the life points (0-%d)", board.MaxLife),
			Args:               cobra.ExactArgs(1),
			RunE: run(func(args []string) (Result, error) {
				n, err := intArg(args[0])
				if err != nil {
					return Result{}, err
				}
				return c.Life(n)
			}),
		},
		loadDeck,
		&cobra.Command{
			Use:   "save [path]",
			Short: "Save the board",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(args []string) (Result, error) {
				path := ""
				if len(args) == 1 {
					path = args[0]
				}
				return c.Save(path)
			}),
		},
		&cobra.Command{
			Use:   "load <path>",
			Short: "Replace the table with a save file",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(args []string) (Result, error) {
				return c.Load(args[0])
			}),
		},
		&cobra.Command{
			Use:   "dice",
			Short: "Roll a six-sided die",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.Dice),
		},
		&cobra.Command{
			Use:   "coin",
			Short: "Toss a coin",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.Coin),
		},
		&cobra.Command{
			Use:   "info",
			Short: "Describe the selection",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.Info),
		},
		&cobra.Command{
			Use:   "mirror",
			Short: "Show the opponent's view",
			Args:  cobra.NoArgs,
			RunE:  noArgs(c.Mirror),
		},
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "End the session",
			Args:    cobra.NoArgs,
			RunE: noArgs(func() (Result, error) {
				return Result{Quit: true}, nil
			}),
		},
	)
	return root
}

// kindArg consumes an optional leading "ex"/"extra"/"main"
func kindArg(args []string) (deck.Kind, []string, error) {
	if len(args) == 0 {
		return deck.Main, args, nil
	}
	if _, err := strconv.Atoi(args[0]); err == nil {
		return deck.Main, args, nil
	}
	k, err := deck.ParseKind(args[0])
	if err != nil {
		return deck.Main, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return k, args[1:], nil
}

func intArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrUsage, s)
	}
	return n, nil
}

func pointArg(args []string) (board.Point, error) {
	x, err := intArg(args[0])
	if err != nil {
		return board.Point{}, err
	}
	y, err := intArg(args[1])
	if err != nil {
		return board.Point{}, err
	}
	return board.Point{X: x, Y: y}, nil
}

// rawText returns what follows the command word of line and the blanks
// after it, with inner and trailing spacing untouched
func rawText(line string) string {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimLeftFunc(line[i:], unicode.IsSpace)
}

// expandText turns the two characters \n into line breaks
func expandText(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
