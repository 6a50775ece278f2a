// Package session executes table commands against one board.
//
// A Controller owns its state: every command runs on the goroutine that
// calls it, and nothing else holds a reference that mutates the board.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/myriadtable/myriad/internal/assets"
	"github.com/myriadtable/myriad/internal/board"
	"github.com/myriadtable/myriad/internal/card"
	"github.com/myriadtable/myriad/internal/config"
	"github.com/myriadtable/myriad/internal/deck"
	"github.com/myriadtable/myriad/internal/dice"
	"github.com/myriadtable/myriad/internal/mirror"
	"github.com/myriadtable/myriad/internal/savefile"
)

// Result is what a command reports back to whoever drives the session
type Result struct {
	Message  string
	Warnings []string
	Mirror   *mirror.View // set by the mirror command
	Quit     bool
}

// Controller runs commands against a board
type Controller struct {
	State   *board.State
	Catalog *card.Catalog
	Config  *config.Config
	Assets  assets.Resolver

	logger *zap.Logger
	now    func() time.Time
}

// New returns a controller with an empty board sized and configured by cfg.
// A nil rng seeds a random source; a nil logger discards output.
func New(cfg *config.Config, catalog *card.Catalog, logger *zap.Logger, rng *rand.Rand) *Controller {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := board.New(board.Options{
		Bounds:         board.Size{W: cfg.BoardWidth, H: cfg.BoardHeight},
		RevealOnReturn: cfg.RevealOnReturn,
		Rand:           rng,
		Logger:         logger,
	})
	return &Controller{
		State:   s,
		Catalog: catalog,
		Config:  cfg,
		Assets:  assets.Resolver{CardDir: cfg.CardImageDir, ResourceDir: cfg.ResourceDir},
		logger:  logger,
		now:     time.Now,
	}
}

// result builds a Result carrying the warnings the board collected
func (c *Controller) result(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...), Warnings: c.State.Warnings()}
}

func (c *Controller) selected() (board.Entity, error) {
	e := c.State.Selected()
	if e == nil {
		return nil, board.ErrNoSelection
	}
	return e, nil
}

func (c *Controller) selectedCard() (*board.CardInstance, error) {
	e, err := c.selected()
	if err != nil {
		return nil, err
	}
	ci, ok := e.(*board.CardInstance)
	if !ok {
		return nil, board.ErrNotACard
	}
	return ci, nil
}

// selectedCards is the multi-selection, or the single selected card
func (c *Controller) selectedCards() ([]*board.CardInstance, error) {
	if cards := c.State.Selection(); len(cards) > 0 {
		return cards, nil
	}
	ci, err := c.selectedCard()
	if err != nil {
		return nil, err
	}
	return []*board.CardInstance{ci}, nil
}

func (c *Controller) describe(e board.Entity) string {
	switch v := e.(type) {
	case *board.CardInstance:
		if !v.Revealed {
			return card.Unknown(v.ID).Label()
		}
		return c.Catalog.Lookup(v.ID).Label()
	case board.Marker:
		return fmt.Sprintf("%s %q", v.Type(), v.Label())
	}
	return "nothing"
}

// Draw takes the top card of a deck onto the board
func (c *Controller) Draw(k deck.Kind, faceUp bool) (Result, error) {
	ci, err := c.State.Draw(k, faceUp)
	if err != nil {
		return Result{}, err
	}
	return c.result("drew %s", c.describe(ci)), nil
}

// Take moves the card at 1-based position n of a deck onto the board
func (c *Controller) Take(k deck.Kind, n int) (Result, error) {
	ci, err := c.State.TakeFromDeck(k, n-1)
	if err != nil {
		return Result{}, err
	}
	return c.result("took %s", c.describe(ci)), nil
}

// Shuffle shuffles a deck
func (c *Controller) Shuffle(k deck.Kind) (Result, error) {
	if err := c.State.Shuffle(k); err != nil {
		return Result{}, err
	}
	return c.result("shuffled %s deck (%d cards)", k, c.State.Deck(k).Len()), nil
}

// ToDeck returns the selected card to the top or bottom of the main deck
func (c *Controller) ToDeck(top bool) (Result, error) {
	e, err := c.selected()
	if err != nil {
		return Result{}, err
	}
	var moved bool
	if top {
		moved, err = c.State.MoveToTop(e)
	} else {
		moved, err = c.State.MoveToBottom(e)
	}
	if err != nil {
		return Result{}, err
	}
	if !moved {
		return c.result("markers stay on the board"), nil
	}
	where := "bottom"
	if top {
		where = "top"
	}
	return c.result("returned card to the %s of the deck (%d cards)", where, c.State.Main.Len()), nil
}

// Rotate toggles the selected card's orientation
func (c *Controller) Rotate() (Result, error) {
	ci, err := c.selectedCard()
	if err != nil {
		return Result{}, err
	}
	if err := c.State.Rotate(ci); err != nil {
		return Result{}, err
	}
	return c.result("rotated %s", c.describe(ci)), nil
}

// Reverse flips the selected card
func (c *Controller) Reverse() (Result, error) {
	ci, err := c.selectedCard()
	if err != nil {
		return Result{}, err
	}
	if err := c.State.Reverse(ci); err != nil {
		return Result{}, err
	}
	face := "down"
	if ci.FaceUp {
		face = "up"
	}
	return c.result("turned %s face %s", c.describe(ci), face), nil
}

// Front brings the selection to the top of the z-order
func (c *Controller) Front() (Result, error) {
	e, err := c.selected()
	if err != nil {
		return Result{}, err
	}
	if err := c.State.BringToFront(e); err != nil {
		return Result{}, err
	}
	return c.result("brought %s to front", c.describe(e)), nil
}

// Back sends the selection to the bottom of the z-order
func (c *Controller) Back() (Result, error) {
	e, err := c.selected()
	if err != nil {
		return Result{}, err
	}
	if err := c.State.SendToBack(e); err != nil {
		return Result{}, err
	}
	return c.result("sent %s to back", c.describe(e)), nil
}

// Click selects whatever is at p
func (c *Controller) Click(p board.Point) (Result, error) {
	e := c.State.Click(p)
	if e == nil {
		return c.result("selection cleared"), nil
	}
	return c.result("selected %s", c.describe(e)), nil
}

// Move drops the selection at p
func (c *Controller) Move(p board.Point) (Result, error) {
	e, err := c.selected()
	if err != nil {
		return Result{}, err
	}
	if err := c.State.MoveTo(e, p); err != nil {
		return Result{}, err
	}
	pos := e.Position()
	return c.result("moved %s to %d,%d", c.describe(e), pos.X, pos.Y), nil
}

// SelectRect selects the cards touching the rectangle spanned by a and b
func (c *Controller) SelectRect(a, b board.Point) (Result, error) {
	hits := c.State.SelectRect(a, b)
	c.State.SelectCards(hits)
	return c.result("selected %d cards", len(hits)), nil
}

func (c *Controller) bulk(verb string, op func([]*board.CardInstance) int) (Result, error) {
	cards, err := c.selectedCards()
	if err != nil {
		return Result{}, err
	}
	return c.result("%s %d cards", verb, op(cards)), nil
}

// RotateAll rotates every selected card
func (c *Controller) RotateAll() (Result, error) {
	return c.bulk("rotated", c.State.RotateAll)
}

// FaceUpAll turns every selected card face up
func (c *Controller) FaceUpAll() (Result, error) {
	return c.bulk("turned face up", c.State.FaceUpAll)
}

// FaceDownAll turns every selected card face down
func (c *Controller) FaceDownAll() (Result, error) {
	return c.bulk("turned face down", c.State.FaceDownAll)
}

// Gather stacks the selected cards, optionally shuffling their order
func (c *Controller) Gather(shuffle bool) (Result, error) {
	verb := "gathered"
	if shuffle {
		verb = "gathered and shuffled"
	}
	return c.bulk(verb, func(cards []*board.CardInstance) int {
		return c.State.Gather(cards, shuffle)
	})
}

// UnrotateAll puts every rotated card upright
func (c *Controller) UnrotateAll() (Result, error) {
	return c.result("unrotated %d cards", c.State.UnrotateAll()), nil
}

// Delete removes the selection from the board
func (c *Controller) Delete() (Result, error) {
	if cards := c.State.Selection(); len(cards) > 0 {
		cards = append([]*board.CardInstance(nil), cards...)
		for _, ci := range cards {
			if err := c.State.Delete(ci); err != nil {
				return Result{}, err
			}
		}
		return c.result("deleted %d cards", len(cards)), nil
	}

	e, err := c.selected()
	if err != nil {
		return Result{}, err
	}
	label := c.describe(e)
	if err := c.State.Delete(e); err != nil {
		return Result{}, err
	}
	return c.result("deleted %s", label), nil
}

// Put places a new instance of id on the board
func (c *Controller) Put(id string) (Result, error) {
	ci := c.State.Instantiate(id, board.DrawPosition)
	res := c.result("put %s", c.describe(ci))
	if !c.Catalog.Has(id) {
		msg := fmt.Sprintf("card %s is not in the catalog", id)
		c.logger.Warn(msg, zap.String("card", id))
		res.Warnings = append(res.Warnings, msg)
	}
	return res, nil
}

// Marker adds a text marker
func (c *Controller) Marker(text string) (Result, error) {
	m := c.State.AddMarker(text)
	return c.result("added %s", c.describe(m)), nil
}

// Chip adds a coloured chip
func (c *Controller) Chip(color string) (Result, error) {
	m, err := c.State.AddChip(color)
	if err != nil {
		return Result{}, fmt.Errorf("%w (colours: %s)", err, strings.Join(board.ChipColors, ", "))
	}
	return c.result("added %s chip", m.Color), nil
}

// Text replaces the text of the selected marker
func (c *Controller) Text(text string) (Result, error) {
	e, err := c.selected()
	if err != nil {
		return Result{}, err
	}
	if err := c.State.SetMarkerText(e, text); err != nil {
		return Result{}, err
	}
	return c.result("set text of %s", c.describe(e)), nil
}

// LoadDeck replaces both decks from a deck file, keeping the board
func (c *Controller) LoadDeck(path string, spreadExtra bool) (Result, error) {
	list, warnings, err := deck.ReadFile(path, c.Catalog)
	if err != nil {
		return Result{}, err
	}
	for _, w := range warnings {
		c.logger.Warn(w, zap.String("deck", path))
	}
	c.State.LoadDeck(list, spreadExtra)

	res := c.result("loaded deck %s: %d main, %d extra", path, len(list.Main), len(list.Extra))
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// Save writes the board to path, or to a timestamped file in the save
// directory when path is empty
func (c *Controller) Save(path string) (Result, error) {
	snap := c.State.Snapshot()

	var err error
	if path == "" {
		path, err = savefile.SaveInDir(config.ResolveDir(c.Config.SaveDir), snap, c.now())
	} else {
		err = savefile.Save(path, snap)
	}
	if err != nil {
		return Result{}, err
	}
	return c.result("saved %s", path), nil
}

// Load replaces the whole table with a save file
func (c *Controller) Load(path string) (Result, error) {
	snap, warnings, err := savefile.Load(path)
	if err != nil {
		return Result{}, err
	}
	for _, w := range warnings {
		c.logger.Warn(w.Msg, zap.String("file", path), zap.Int("line", w.Line))
	}
	c.State.Restore(snap, c.Catalog)

	res := c.result("loaded %s: %d cards on board, %d in deck", path, len(c.State.Cards), c.State.Main.Len())
	res.Warnings = append(savefile.Messages(warnings), res.Warnings...)
	return res, nil
}

// Life sets the life point counter
func (c *Controller) Life(n int) (Result, error) {
	if err := c.State.SetLife(n); err != nil {
		return Result{}, err
	}
	return c.result("LP: %d", n), nil
}

// Dice rolls a six-sided die
func (c *Controller) Dice() (Result, error) {
	return c.result("dice: %d", dice.Roll(c.State.Rand())), nil
}

// Coin tosses a coin
func (c *Controller) Coin() (Result, error) {
	return c.result("coin: %s", dice.Coin(c.State.Rand())), nil
}

// DeckContents lists a deck from the top
func (c *Controller) DeckContents(k deck.Kind) (Result, error) {
	d := c.State.Deck(k)
	if d.Len() == 0 {
		return c.result("%s deck is empty", k), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s deck (%d cards):", k, d.Len())
	for i, id := range d.IDs() {
		fmt.Fprintf(&b, "\n%3d. %s", i+1, c.Catalog.Lookup(id).Label())
	}
	return c.result("%s", b.String()), nil
}

// Info describes the selected entity and the image the info panel shows
func (c *Controller) Info() (Result, error) {
	e, err := c.selected()
	if err != nil {
		return Result{}, err
	}
	ci, ok := e.(*board.CardInstance)
	if !ok {
		return c.result("%s", c.describe(e)), nil
	}
	return c.result("%s\nimage: %s", c.describe(ci), c.Assets.InfoImage(ci)), nil
}

// Mirror projects the opponent's view of the board
func (c *Controller) Mirror() (Result, error) {
	v := mirror.Project(c.State, c.Config.HandThreshold)
	res := c.result("opponent sees %d items", len(v.Items))
	res.Mirror = &v
	return res, nil
}

// IsUserError reports whether err is an expected refusal of a command
// rather than a failure of the program
func IsUserError(err error) bool {
	for _, target := range []error{
		board.ErrEmptyDeck, board.ErrNoSelection, board.ErrNotACard, board.ErrNotAMarker,
		board.ErrNotOnBoard, board.ErrUnknownColor, board.ErrIndexOutRange, board.ErrLifeRange, ErrUsage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
