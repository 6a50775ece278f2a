package board

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/myriadtable/myriad/internal/deck"
)

// Default board geometry
const (
	DefaultWidth  = 960
	DefaultHeight = 720
)

// Where drawn and instantiated cards land before overlap resolution
var DrawPosition = Point{X: 600, Y: 500}

var (
	ErrEmptyDeck     = errors.New("deck is empty")
	ErrNotOnBoard    = errors.New("not on the board")
	ErrNotACard      = errors.New("selection is not a card")
	ErrNotAMarker    = errors.New("selection is not a marker")
	ErrNoSelection   = errors.New("nothing selected")
	ErrUnknownColor  = errors.New("unknown chip colour")
	ErrIndexOutRange = errors.New("no card at that position")
	ErrLifeRange     = errors.New("life points out of range")
)

// MaxLife is the largest life point value the counter holds
const MaxLife = 999999

// Options configure a new State
type Options struct {
	Bounds Size
	// RevealOnReturn is the revealed flag given to cards put back into a deck
	RevealOnReturn bool
	Rand           *rand.Rand
	Logger         *zap.Logger
}

// DefaultOptions returns options for a standard 960x720 board
func DefaultOptions() Options {
	return Options{
		Bounds:         Size{W: DefaultWidth, H: DefaultHeight},
		RevealOnReturn: true,
	}
}

// State is the complete table: both decks, the board and the selection.
//
// Every card instance is owned by exactly one of Main, Extra or Cards.
// All mutating methods either complete or return an error without
// changing anything, and mark the state dirty on success.
type State struct {
	Main      *Deck
	Extra     *Deck
	Cards     []*CardInstance // board cards in z-order, last is topmost
	Markers   []Marker        // markers in z-order, drawn above cards
	Resources deck.Resources

	life           int
	bounds         Size
	revealOnReturn bool
	rng            *rand.Rand
	logger         *zap.Logger

	selected  Entity
	selection []*CardInstance

	warnings []string
	dirty    bool
	version  uint64
}

// New returns an empty table
func New(opts Options) *State {
	if opts.Bounds.W <= 0 || opts.Bounds.H <= 0 {
		opts.Bounds = Size{W: DefaultWidth, H: DefaultHeight}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &State{
		Main:           &Deck{},
		Extra:          &Deck{},
		Resources:      deck.DefaultResources(),
		bounds:         opts.Bounds,
		revealOnReturn: opts.RevealOnReturn,
		rng:            opts.Rand,
		logger:         opts.Logger,
		dirty:          true,
		version:        1,
	}
}

// Bounds returns the board size
func (s *State) Bounds() Size { return s.bounds }

// Deck returns the main or extra deck
func (s *State) Deck(k deck.Kind) *Deck {
	if k == deck.Extra {
		return s.Extra
	}
	return s.Main
}

// Rand returns the state's random source
func (s *State) Rand() *rand.Rand { return s.rng }

// Selected returns the single selected entity, or nil
func (s *State) Selected() Entity { return s.selected }

// Selection returns the multi-selection
func (s *State) Selection() []*CardInstance { return s.selection }

// Select makes e the single selection and clears any multi-selection
func (s *State) Select(e Entity) {
	s.selected = e
	s.selection = nil
	s.touch()
}

// SelectCards replaces the multi-selection and clears the single selection
func (s *State) SelectCards(cards []*CardInstance) {
	s.selected = nil
	s.selection = cards
	s.touch()
}

// ClearSelection drops both selections
func (s *State) ClearSelection() {
	s.selected = nil
	s.selection = nil
	s.touch()
}

// IsSelected reports whether e is selected singly or as part of the multi-selection
func (s *State) IsSelected(e Entity) bool {
	if e == nil {
		return false
	}
	if s.selected == e {
		return true
	}
	for _, c := range s.selection {
		if Entity(c) == e {
			return true
		}
	}
	return false
}

// Life returns the life point counter
func (s *State) Life() int { return s.life }

// SetLife sets the life point counter to n, which must be within 0..MaxLife
func (s *State) SetLife(n int) error {
	if n < 0 || n > MaxLife {
		return fmt.Errorf("%w: %d (0-%d)", ErrLifeRange, n, MaxLife)
	}
	s.life = n
	s.touch()
	return nil
}

// Dirty reports whether anything changed since the last ClearDirty
func (s *State) Dirty() bool { return s.dirty }

// ClearDirty resets the change flag
func (s *State) ClearDirty() { s.dirty = false }

// MarkDirty forces the change flag on
func (s *State) MarkDirty() { s.touch() }

// Version increases with every change. Views that redraw independently of
// the dirty flag compare it with the version they last drew.
func (s *State) Version() uint64 { return s.version }

func (s *State) touch() {
	s.dirty = true
	s.version++
}

// Warnings returns and clears the soft failures recorded since the last call
func (s *State) Warnings() []string {
	w := s.warnings
	s.warnings = nil
	return w
}

// warn records msg for the caller and logs it with structured fields
func (s *State) warn(msg string, fields ...zap.Field) {
	s.logger.Warn(msg, fields...)
	s.warnings = append(s.warnings, msg)
}

func (s *State) cardIndex(c *CardInstance) int {
	for i, bc := range s.Cards {
		if bc == c {
			return i
		}
	}
	return -1
}

func (s *State) markerIndex(m Marker) int {
	for i, bm := range s.Markers {
		if bm == m {
			return i
		}
	}
	return -1
}

// OnBoard reports whether e is placed on the board
func (s *State) OnBoard(e Entity) bool {
	switch v := e.(type) {
	case *CardInstance:
		return s.cardIndex(v) >= 0
	case Marker:
		return s.markerIndex(v) >= 0
	}
	return false
}

func (s *State) clamp(e Entity) {
	e.SetPosition(Clamp(e.Position(), e.Size(), s.bounds))
}

func (s *State) forget(e Entity) {
	if s.selected == e {
		s.selected = nil
	}
	if c, ok := e.(*CardInstance); ok {
		kept := s.selection[:0:0]
		for _, sc := range s.selection {
			if sc != c {
				kept = append(kept, sc)
			}
		}
		s.selection = kept
	}
}
