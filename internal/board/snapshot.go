package board

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/myriadtable/myriad/internal/card"
	"github.com/myriadtable/myriad/internal/savefile"
)

// Snapshot captures the persisted parts of the table
func (s *State) Snapshot() *savefile.Snapshot {
	snap := &savefile.Snapshot{
		Resources: s.Resources,
		Deck:      s.Main.IDs(),
		Life:      s.life,
	}
	if s.Extra.Len() > 0 {
		snap.Extra = s.Extra.IDs()
	}
	for _, c := range s.Cards {
		snap.Cards = append(snap.Cards, savefile.CardRecord{
			ID:       c.ID,
			X:        c.Pos.X,
			Y:        c.Pos.Y,
			Rotated:  c.Rotated,
			FaceUp:   c.FaceUp,
			Revealed: c.Revealed,
		})
	}
	for _, m := range s.Markers {
		rec := savefile.MarkerRecord{
			Type:   m.Type(),
			Text:   m.Label(),
			X:      m.Position().X,
			Y:      m.Position().Y,
			Width:  m.Size().W,
			Height: m.Size().H,
		}
		if chip, ok := m.(*ChipMarker); ok {
			rec.Color = chip.Color
		}
		snap.Markers = append(snap.Markers, rec)
	}
	return snap
}

// Restore replaces the whole table with snap. Positions are clamped into
// the current board. Ids missing from catalog are kept and shown as
// unknown cards; a nil catalog skips that check.
func (s *State) Restore(snap *savefile.Snapshot, catalog *card.Catalog) {
	s.Main = NewDeck(snap.Deck...)
	s.Extra = NewDeck(snap.Extra...)
	s.Cards = nil
	s.Markers = nil
	s.Resources = snap.Resources
	s.life = max(0, min(snap.Life, MaxLife))
	s.selected = nil
	s.selection = nil

	for _, rec := range snap.Cards {
		c := &CardInstance{
			ID:       rec.ID,
			Pos:      Point{X: rec.X, Y: rec.Y},
			Rotated:  rec.Rotated,
			FaceUp:   rec.FaceUp,
			Revealed: rec.Revealed,
		}
		s.clamp(c)
		s.Cards = append(s.Cards, c)
	}

	if catalog != nil {
		seen := map[string]bool{}
		check := func(id string) {
			if !seen[id] && !catalog.Has(id) {
				seen[id] = true
				s.warn(fmt.Sprintf("card %s is not in the catalog", id), zap.String("card", id))
			}
		}
		for _, id := range snap.Deck {
			check(id)
		}
		for _, id := range snap.Extra {
			check(id)
		}
		for _, rec := range snap.Cards {
			check(rec.ID)
		}
	}

	for _, rec := range snap.Markers {
		var m Marker
		switch rec.Type {
		case TypeChip:
			color := rec.Color
			if !ValidChipColor(color) {
				s.warn(fmt.Sprintf("chip colour %q unknown, using white", rec.Color),
					zap.String("color", rec.Color),
					zap.Int("x", rec.X),
					zap.Int("y", rec.Y))
				color = "white"
			}
			m = &ChipMarker{Pos: Point{X: rec.X, Y: rec.Y}, Text: rec.Text, Color: color, W: rec.Width, H: rec.Height}
		default:
			if rec.Type != TypeMarker {
				s.warn(fmt.Sprintf("marker type %q unknown, loading as plain marker", rec.Type),
					zap.String("type", rec.Type),
					zap.Int("x", rec.X),
					zap.Int("y", rec.Y))
			}
			m = &TextMarker{Pos: Point{X: rec.X, Y: rec.Y}, Text: rec.Text, W: rec.Width, H: rec.Height}
		}
		s.clamp(m)
		s.Markers = append(s.Markers, m)
	}
	s.touch()
}
