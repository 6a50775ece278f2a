// Package mirror projects the board as seen from the opposite seat.
package mirror

import (
	"github.com/myriadtable/myriad/internal/board"
)

// DefaultHandThreshold is the y coordinate below which cards count as
// held in the owner's hand and are shown to the opponent as backs
const DefaultHandThreshold = 440

// Item kinds
const (
	KindCard   = "card"
	KindMarker = "marker"
	KindChip   = "chip"
)

// Item is one entity of the mirrored view
type Item struct {
	Kind     string
	ID       string // card id, empty for markers
	Rect     board.Rect
	Rotated  bool
	ShowBack bool
	Text     string
	Color    string
}

// View is the full mirrored projection of a board
type View struct {
	Bounds    board.Size
	Items     []Item // in drawing order
	DeckCount int
	Life      int
	Resources struct {
		Back, Playmat string
	}
}

// Rect mirrors r through the centre of bounds. Applying it twice
// returns r.
func Rect(r board.Rect, bounds board.Size) board.Rect {
	return board.Rect{
		X: bounds.W - (r.X + r.W),
		Y: bounds.H - (r.Y + r.H),
		W: r.W,
		H: r.H,
	}
}

// Hidden reports whether the opponent sees the back of c: it is face
// down, or it sits below threshold in the owner's hand area.
func Hidden(c *board.CardInstance, threshold int) bool {
	return !c.FaceUp || c.Pos.Y > threshold
}

// Project computes the opponent's view of s. Cards come first, then
// plain markers, then chips, each in board z-order.
func Project(s *board.State, threshold int) View {
	bounds := s.Bounds()
	v := View{Bounds: bounds, DeckCount: s.Main.Len(), Life: s.Life()}
	v.Resources.Back = s.Resources.Back
	v.Resources.Playmat = s.Resources.Playmat

	for _, c := range s.Cards {
		v.Items = append(v.Items, Item{
			Kind:     KindCard,
			ID:       c.ID,
			Rect:     Rect(c.Bounds(), bounds),
			Rotated:  c.Rotated,
			ShowBack: Hidden(c, threshold),
		})
	}

	var chips []Item
	for _, m := range s.Markers {
		it := Item{Kind: KindMarker, Rect: Rect(m.Bounds(), bounds), Text: m.Label()}
		if chip, ok := m.(*board.ChipMarker); ok {
			it.Kind = KindChip
			it.Color = chip.Color
			chips = append(chips, it)
			continue
		}
		v.Items = append(v.Items, it)
	}
	v.Items = append(v.Items, chips...)

	return v
}
