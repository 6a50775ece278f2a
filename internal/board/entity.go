package board

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Card dimensions. A rotated card swaps them.
const (
	CardWidth  = 78
	CardHeight = 111
)

// Marker dimensions
const (
	MarkerMinWidth  = 120
	MarkerMinHeight = 50
	ChipSize        = 18
)

// rotateShift moves a card so that rotation keeps its visual centre.
// Integer division makes the shift exactly reversible.
const rotateShift = (CardHeight - CardWidth) / 2

// Marker type names used in save files
const (
	TypeMarker = "marker"
	TypeChip   = "chip"
)

// ChipColors lists the available chip colours
var ChipColors = []string{"red", "blue", "yellow", "green", "white"}

// Entity is anything placed on the board
type Entity interface {
	Position() Point
	SetPosition(Point)
	Size() Size
	Bounds() Rect
}

// Marker is a text marker or a chip
type Marker interface {
	Entity
	Type() string
	Label() string
}

// CardInstance is one physical card, either in a deck or on the board
type CardInstance struct {
	ID       string
	Pos      Point
	Rotated  bool
	FaceUp   bool
	Revealed bool

	// lastTurn is set by a rotation and kept while the card stays put
	lastTurn *turn
}

// turn is where a rotation started and ended
type turn struct {
	from, to Point
}

// NewCard returns a face-up, revealed, unrotated instance of id
func NewCard(id string) *CardInstance {
	return &CardInstance{ID: id, FaceUp: true, Revealed: true}
}

func (c *CardInstance) Position() Point     { return c.Pos }
func (c *CardInstance) SetPosition(p Point) { c.Pos = p }

// Size is derived from the orientation
func (c *CardInstance) Size() Size {
	if c.Rotated {
		return Size{W: CardHeight, H: CardWidth}
	}
	return Size{W: CardWidth, H: CardHeight}
}

func (c *CardInstance) Bounds() Rect {
	s := c.Size()
	return Rect{X: c.Pos.X, Y: c.Pos.Y, W: s.W, H: s.H}
}

// ShowsFace reports whether the owner sees the card's face
func (c *CardInstance) ShowsFace() bool {
	return c.FaceUp && c.Revealed
}

// toggleRotation flips orientation around the card's centre and keeps it
// within bounds. Rotating back a card that has not moved since returns it
// to where it started, even when the first turn was clamped at an edge.
func (c *CardInstance) toggleRotation(bounds Size) {
	from := c.Pos
	c.Rotated = !c.Rotated
	if t := c.lastTurn; t != nil && t.to == from {
		c.Pos = t.from
		c.lastTurn = &turn{from: from, to: c.Pos}
		return
	}

	if c.Rotated {
		c.Pos.X -= rotateShift
		c.Pos.Y += rotateShift
	} else {
		c.Pos.X += rotateShift
		c.Pos.Y -= rotateShift
	}
	c.Pos = Clamp(c.Pos, c.Size(), bounds)
	c.lastTurn = &turn{from: from, to: c.Pos}
}

func (c *CardInstance) resetForDeck(revealed bool) {
	c.lastTurn = nil
	c.Rotated = false
	c.FaceUp = true
	c.Revealed = revealed
}

// TextMarker is a translucent annotation sized to its text
type TextMarker struct {
	Pos  Point
	Text string
	W, H int
}

// NewTextMarker returns a marker at p sized for text
func NewTextMarker(p Point, text string) *TextMarker {
	m := &TextMarker{Pos: p}
	m.SetText(text)
	return m
}

func (m *TextMarker) Position() Point     { return m.Pos }
func (m *TextMarker) SetPosition(p Point) { m.Pos = p }
func (m *TextMarker) Size() Size          { return Size{W: m.W, H: m.H} }
func (m *TextMarker) Bounds() Rect        { return Rect{X: m.Pos.X, Y: m.Pos.Y, W: m.W, H: m.H} }
func (m *TextMarker) Type() string        { return TypeMarker }
func (m *TextMarker) Label() string       { return m.Text }

// SetText replaces the text and recomputes the size
func (m *TextMarker) SetText(text string) {
	m.Text = text
	tw, th := MeasureText(text)
	m.W = max(tw+20, MarkerMinWidth)
	m.H = max(th+10, MarkerMinHeight)
}

// ChipMarker is a small coloured token
type ChipMarker struct {
	Pos   Point
	Text  string
	Color string
	W, H  int
}

// NewChip returns a chip of the given colour at p
func NewChip(p Point, color string) *ChipMarker {
	return &ChipMarker{Pos: p, Color: color, W: ChipSize, H: ChipSize}
}

func (m *ChipMarker) Position() Point     { return m.Pos }
func (m *ChipMarker) SetPosition(p Point) { m.Pos = p }
func (m *ChipMarker) Size() Size          { return Size{W: m.W, H: m.H} }
func (m *ChipMarker) Bounds() Rect        { return Rect{X: m.Pos.X, Y: m.Pos.Y, W: m.W, H: m.H} }
func (m *ChipMarker) Type() string        { return TypeChip }
func (m *ChipMarker) Label() string       { return m.Text }

// ValidChipColor reports whether name is one of ChipColors
func ValidChipColor(name string) bool {
	for _, c := range ChipColors {
		if c == name {
			return true
		}
	}
	return false
}

// MeasureText returns the pixel extent of text in the marker font.
// Each line is measured separately; height grows with the line count.
func MeasureText(text string) (width, height int) {
	if text == "" {
		return 0, 0
	}
	face := basicfont.Face7x13
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}
	height = len(lines) * face.Metrics().Height.Ceil()
	return width, height
}
