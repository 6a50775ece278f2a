package board

import (
	"fmt"

	"github.com/myriadtable/myriad/internal/deck"
)

// SelectThreshold is the smallest drag, in pixels along each axis, that
// counts as a rectangle selection rather than a click
const SelectThreshold = 5

// Draw takes the top card of a deck onto the board and selects it.
// The card keeps its face as requested and is revealed only when drawn face up.
func (s *State) Draw(k deck.Kind, faceUp bool) (*CardInstance, error) {
	d := s.Deck(k)
	if d.Len() == 0 {
		return nil, fmt.Errorf("draw from %s deck: %w", k, ErrEmptyDeck)
	}

	c := d.PopFront()
	c.Rotated = false
	c.FaceUp = faceUp
	c.Revealed = faceUp
	s.place(c, DrawPosition)
	return c, nil
}

// TakeFromDeck moves the card at index of a deck onto the board face up
func (s *State) TakeFromDeck(k deck.Kind, index int) (*CardInstance, error) {
	c := s.Deck(k).RemoveAt(index)
	if c == nil {
		return nil, fmt.Errorf("take card %d from %s deck: %w", index+1, k, ErrIndexOutRange)
	}
	c.Rotated = false
	c.FaceUp = true
	c.Revealed = true
	s.place(c, DrawPosition)
	return c, nil
}

// Instantiate puts a new face-up card with id on the board at p
func (s *State) Instantiate(id string, p Point) *CardInstance {
	c := NewCard(id)
	s.place(c, p)
	return c
}

// place positions a card that is not yet on the board, resolves overlap,
// and puts it on top
func (s *State) place(c *CardInstance, p Point) {
	c.Pos = Clamp(p, c.Size(), s.bounds)
	s.PlaceWithoutOverlap(c)
	s.Cards = append(s.Cards, c)
	s.selected = c
	s.selection = nil
	s.touch()
}

// Shuffle permutes a deck uniformly
func (s *State) Shuffle(k deck.Kind) error {
	d := s.Deck(k)
	if d.Len() == 0 {
		return fmt.Errorf("shuffle %s deck: %w", k, ErrEmptyDeck)
	}
	d.Shuffle(s.rng)
	s.touch()
	return nil
}

// MoveToTop returns a board card to the top of the main deck.
// Markers are ignored: it reports false and no error.
func (s *State) MoveToTop(e Entity) (bool, error) {
	return s.returnToDeck(e, true)
}

// MoveToBottom returns a board card to the bottom of the main deck.
// Markers are ignored: it reports false and no error.
func (s *State) MoveToBottom(e Entity) (bool, error) {
	return s.returnToDeck(e, false)
}

func (s *State) returnToDeck(e Entity, top bool) (bool, error) {
	c, ok := e.(*CardInstance)
	if !ok {
		return false, nil
	}
	i := s.cardIndex(c)
	if i < 0 {
		return false, fmt.Errorf("return %s to deck: %w", c.ID, ErrNotOnBoard)
	}

	s.Cards = append(s.Cards[:i], s.Cards[i+1:]...)
	s.forget(c)
	c.resetForDeck(s.revealOnReturn)
	if top {
		s.Main.PushFront(c)
	} else {
		s.Main.PushBack(c)
	}
	s.touch()
	return true, nil
}

// Rotate toggles a board card between normal and rotated, keeping its centre
func (s *State) Rotate(c *CardInstance) error {
	if s.cardIndex(c) < 0 {
		return fmt.Errorf("rotate %s: %w", c.ID, ErrNotOnBoard)
	}
	c.toggleRotation(s.bounds)
	s.touch()
	return nil
}

// Reverse flips a board card. Turning it face up reveals it for good.
func (s *State) Reverse(c *CardInstance) error {
	if s.cardIndex(c) < 0 {
		return fmt.Errorf("reverse %s: %w", c.ID, ErrNotOnBoard)
	}
	c.FaceUp = !c.FaceUp
	if c.FaceUp {
		c.Revealed = true
	}
	s.touch()
	return nil
}

// BringToFront moves e to the top of its collection's z-order
func (s *State) BringToFront(e Entity) error {
	switch v := e.(type) {
	case *CardInstance:
		i := s.cardIndex(v)
		if i < 0 {
			return fmt.Errorf("bring %s to front: %w", v.ID, ErrNotOnBoard)
		}
		s.Cards = append(append(s.Cards[:i:i], s.Cards[i+1:]...), v)
	case Marker:
		i := s.markerIndex(v)
		if i < 0 {
			return fmt.Errorf("bring marker to front: %w", ErrNotOnBoard)
		}
		s.Markers = append(append(s.Markers[:i:i], s.Markers[i+1:]...), v)
	default:
		return ErrNoSelection
	}
	s.touch()
	return nil
}

// SendToBack moves e to the bottom of its collection's z-order
func (s *State) SendToBack(e Entity) error {
	switch v := e.(type) {
	case *CardInstance:
		i := s.cardIndex(v)
		if i < 0 {
			return fmt.Errorf("send %s to back: %w", v.ID, ErrNotOnBoard)
		}
		rest := append(s.Cards[:i:i], s.Cards[i+1:]...)
		s.Cards = append([]*CardInstance{v}, rest...)
	case Marker:
		i := s.markerIndex(v)
		if i < 0 {
			return fmt.Errorf("send marker to back: %w", ErrNotOnBoard)
		}
		rest := append(s.Markers[:i:i], s.Markers[i+1:]...)
		s.Markers = append([]Marker{v}, rest...)
	default:
		return ErrNoSelection
	}
	s.touch()
	return nil
}

// Delete removes a card or marker from the board
func (s *State) Delete(e Entity) error {
	switch v := e.(type) {
	case *CardInstance:
		i := s.cardIndex(v)
		if i < 0 {
			return fmt.Errorf("delete %s: %w", v.ID, ErrNotOnBoard)
		}
		s.Cards = append(s.Cards[:i], s.Cards[i+1:]...)
	case Marker:
		i := s.markerIndex(v)
		if i < 0 {
			return fmt.Errorf("delete marker: %w", ErrNotOnBoard)
		}
		s.Markers = append(s.Markers[:i], s.Markers[i+1:]...)
	default:
		return ErrNoSelection
	}
	s.forget(e)
	s.touch()
	return nil
}

// MoveTo drops e at p, clamped into the board
func (s *State) MoveTo(e Entity, p Point) error {
	if !s.OnBoard(e) {
		return fmt.Errorf("move: %w", ErrNotOnBoard)
	}
	e.SetPosition(Clamp(p, e.Size(), s.bounds))
	s.touch()
	return nil
}

// HitTest returns the topmost entity under p: markers first, then cards,
// each from the top of the z-order down. It returns nil on empty board space.
func (s *State) HitTest(p Point) Entity {
	for i := len(s.Markers) - 1; i >= 0; i-- {
		if s.Markers[i].Bounds().Contains(p) {
			return s.Markers[i]
		}
	}
	for i := len(s.Cards) - 1; i >= 0; i-- {
		if s.Cards[i].Bounds().Contains(p) {
			return s.Cards[i]
		}
	}
	return nil
}

// Click selects the entity under p, or clears the selection on empty space
func (s *State) Click(p Point) Entity {
	e := s.HitTest(p)
	if e == nil {
		s.ClearSelection()
		return nil
	}
	s.Select(e)
	return e
}

// SelectRect returns the board cards touching the rectangle spanned by a and b.
// A rectangle narrower or shorter than SelectThreshold selects nothing.
func (s *State) SelectRect(a, b Point) []*CardInstance {
	r := RectFromCorners(a, b)
	if r.W < SelectThreshold || r.H < SelectThreshold {
		return nil
	}

	var hits []*CardInstance
	for _, c := range s.Cards {
		if c.Bounds().Intersects(r) {
			hits = append(hits, c)
		}
	}
	return hits
}

// onBoardCards filters cards to the ones currently on the board
func (s *State) onBoardCards(cards []*CardInstance) []*CardInstance {
	var result []*CardInstance
	for _, c := range cards {
		if s.cardIndex(c) >= 0 {
			result = append(result, c)
		}
	}
	return result
}

// RotateAll toggles every card of the selection
func (s *State) RotateAll(cards []*CardInstance) int {
	cards = s.onBoardCards(cards)
	for _, c := range cards {
		c.toggleRotation(s.bounds)
	}
	s.touch()
	return len(cards)
}

// FaceUpAll turns every card of the selection face up and reveals it
func (s *State) FaceUpAll(cards []*CardInstance) int {
	cards = s.onBoardCards(cards)
	for _, c := range cards {
		c.FaceUp = true
		c.Revealed = true
	}
	s.touch()
	return len(cards)
}

// FaceDownAll turns every card of the selection face down.
// Revealed flags are kept.
func (s *State) FaceDownAll(cards []*CardInstance) int {
	cards = s.onBoardCards(cards)
	for _, c := range cards {
		c.FaceUp = false
	}
	s.touch()
	return len(cards)
}

// Gather stacks the selection on the centre of its bounding box.
// With shuffle, the gathered cards are put on top of the z-order in
// random order.
func (s *State) Gather(cards []*CardInstance, shuffle bool) int {
	cards = s.onBoardCards(cards)
	if len(cards) == 0 {
		return 0
	}
	if shuffle {
		s.rng.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
	}

	box := cards[0].Bounds()
	for _, c := range cards[1:] {
		box = box.Union(c.Bounds())
	}
	cx := box.X + box.W/2
	cy := box.Y + box.H/2

	for _, c := range cards {
		sz := c.Size()
		c.Pos = Clamp(Point{X: cx - sz.W/2, Y: cy - sz.H/2}, sz, s.bounds)
	}

	if shuffle {
		gathered := make(map[*CardInstance]bool, len(cards))
		for _, c := range cards {
			gathered[c] = true
		}
		rest := make([]*CardInstance, 0, len(s.Cards))
		for _, c := range s.Cards {
			if !gathered[c] {
				rest = append(rest, c)
			}
		}
		s.Cards = append(rest, cards...)
	}
	s.touch()
	return len(cards)
}

// UnrotateAll puts every rotated board card back upright
func (s *State) UnrotateAll() int {
	n := 0
	for _, c := range s.Cards {
		if c.Rotated {
			c.toggleRotation(s.bounds)
			n++
		}
	}
	s.touch()
	return n
}

// AddMarker places a text marker near the bottom centre and selects it
func (s *State) AddMarker(text string) *TextMarker {
	m := NewTextMarker(Point{}, text)
	m.Pos = Clamp(Point{X: s.bounds.W/2 - MarkerMinWidth/2, Y: s.bounds.H * 9 / 10}, m.Size(), s.bounds)
	s.Markers = append(s.Markers, m)
	s.Select(m)
	return m
}

// AddChip places a coloured chip near the bottom centre and selects it
func (s *State) AddChip(color string) (*ChipMarker, error) {
	if !ValidChipColor(color) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColor, color)
	}
	m := NewChip(Point{X: s.bounds.W/2 - ChipSize/2, Y: s.bounds.H * 9 / 10}, color)
	s.Markers = append(s.Markers, m)
	s.Select(m)
	return m, nil
}

// SetMarkerText edits the text of a marker on the board
func (s *State) SetMarkerText(e Entity, text string) error {
	switch m := e.(type) {
	case *TextMarker:
		if s.markerIndex(m) < 0 {
			return fmt.Errorf("edit marker: %w", ErrNotOnBoard)
		}
		m.SetText(text)
		s.clamp(m)
	case *ChipMarker:
		if s.markerIndex(m) < 0 {
			return fmt.Errorf("edit chip: %w", ErrNotOnBoard)
		}
		m.Text = text
	default:
		return ErrNotAMarker
	}
	s.touch()
	return nil
}

// LoadDeck replaces both decks and the resources with list. The board is
// kept. With spreadExtra the extra deck is laid out face up in rows along
// the bottom of the board instead of staying in the extra deck.
func (s *State) LoadDeck(list *deck.List, spreadExtra bool) {
	s.Main = NewDeck(list.Main...)
	s.Extra = NewDeck(list.Extra...)
	s.Resources = list.Resources

	if spreadExtra {
		x, y := 20, 600
		for s.Extra.Len() > 0 {
			c := s.Extra.PopFront()
			c.Pos = Clamp(Point{X: x, Y: y}, c.Size(), s.bounds)
			s.Cards = append(s.Cards, c)
			x += 15
			if x > 900 {
				x, y = 20, y+10
			}
		}
	}
	s.touch()
}
