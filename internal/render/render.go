// Package render draws boards and mirror views as character grids.
//
// Every call redraws the whole picture; nothing is diffed.
package render

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/myriadtable/myriad/internal/board"
	"github.com/myriadtable/myriad/internal/card"
	"github.com/myriadtable/myriad/internal/mirror"
)

// DefaultWidth is used when the terminal size is unknown
const DefaultWidth = 80

const minWidth = 24

// Options control rendering
type Options struct {
	Width   int           // grid columns, DefaultWidth when zero
	Color   bool          // emit ANSI colours
	Catalog *card.Catalog // names for the selection line, optional
}

// TerminalWidth returns the column count of f, or DefaultWidth when f is
// not a terminal
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

func (o Options) columns() int {
	if o.Width <= 0 {
		return DefaultWidth - 2
	}
	return o.Width - 2
}

// Board draws the owner's view of s: cards in z-order, then markers.
// Cards whose face the owner cannot see are labelled ##.
func Board(w io.Writer, s *board.State, opts Options) error {
	cv := newCanvas(s.Bounds(), opts.columns())

	for _, c := range s.Cards {
		label := backLabel
		if c.ShowsFace() {
			label = c.ID
		}
		cv.box(c.Bounds(), label, c.Rotated, style{selected: s.IsSelected(c)})
	}
	for _, m := range s.Markers {
		chipColor := ""
		if chip, ok := m.(*board.ChipMarker); ok {
			chipColor = chip.Color
		}
		cv.marker(m.Position(), chipColor, m.Label(), s.IsSelected(m))
	}

	if _, err := fmt.Fprintf(w, "LP: %d  Deck: %d  Extra: %d  Board: %d cards, %d markers\n",
		s.Life(), s.Main.Len(), s.Extra.Len(), len(s.Cards), len(s.Markers)); err != nil {
		return err
	}
	if err := cv.write(w, opts.Color); err != nil {
		return err
	}
	return writeSelection(w, s, opts)
}

// writeSelection prints what the info panel would show
func writeSelection(w io.Writer, s *board.State, opts Options) error {
	if n := len(s.Selection()); n > 0 {
		_, err := fmt.Fprintf(w, "Selected: %d cards\n", n)
		return err
	}
	switch e := s.Selected().(type) {
	case *board.CardInstance:
		label := card.Unknown(e.ID).Label()
		if e.Revealed {
			label = opts.Catalog.Lookup(e.ID).Label()
		}
		_, err := fmt.Fprintf(w, "Selected: %s\n", label)
		return err
	case board.Marker:
		_, err := fmt.Fprintf(w, "Selected: %s %q\n", e.Type(), e.Label())
		return err
	}
	return nil
}

// Mirror draws a projected opponent view
func Mirror(w io.Writer, v mirror.View, opts Options) error {
	cv := newCanvas(v.Bounds, opts.columns())

	for _, it := range v.Items {
		switch it.Kind {
		case mirror.KindCard:
			label := it.ID
			if it.ShowBack {
				label = backLabel
			}
			cv.box(it.Rect, label, it.Rotated, style{})
		case mirror.KindChip:
			cv.marker(board.Point{X: it.Rect.X, Y: it.Rect.Y}, it.Color, it.Text, false)
		default:
			cv.marker(board.Point{X: it.Rect.X, Y: it.Rect.Y}, "", it.Text, false)
		}
	}

	if _, err := fmt.Fprintf(w, "LP: %d  Opponent deck: %d\n", v.Life, v.DeckCount); err != nil {
		return err
	}
	return cv.write(w, opts.Color)
}
