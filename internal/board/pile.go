package board

import "math/rand/v2"

// Deck is an ordered sequence of card instances. The front is the top.
type Deck struct {
	cards []*CardInstance
}

// NewDeck returns a deck holding a fresh instance for every id, in order
func NewDeck(ids ...string) *Deck {
	d := &Deck{}
	for _, id := range ids {
		d.cards = append(d.cards, NewCard(id))
	}
	return d
}

// Len returns the number of cards
func (d *Deck) Len() int { return len(d.cards) }

// Cards returns the instances in draw order. The slice must not be modified.
func (d *Deck) Cards() []*CardInstance { return d.cards }

// IDs returns the card ids in draw order
func (d *Deck) IDs() []string {
	ids := make([]string, len(d.cards))
	for i, c := range d.cards {
		ids[i] = c.ID
	}
	return ids
}

// Front returns the top card, or nil when empty
func (d *Deck) Front() *CardInstance {
	if len(d.cards) == 0 {
		return nil
	}
	return d.cards[0]
}

// PopFront removes and returns the top card, or nil when empty
func (d *Deck) PopFront() *CardInstance {
	if len(d.cards) == 0 {
		return nil
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c
}

// PushFront puts c on top
func (d *Deck) PushFront(c *CardInstance) {
	d.cards = append([]*CardInstance{c}, d.cards...)
}

// PushBack puts c at the bottom
func (d *Deck) PushBack(c *CardInstance) {
	d.cards = append(d.cards, c)
}

// RemoveAt removes and returns the card at index, or nil if out of range
func (d *Deck) RemoveAt(index int) *CardInstance {
	if index < 0 || index >= len(d.cards) {
		return nil
	}
	c := d.cards[index]
	d.cards = append(d.cards[:index:index], d.cards[index+1:]...)
	return c
}

// Shuffle permutes the deck uniformly
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Clear removes all cards
func (d *Deck) Clear() {
	d.cards = nil
}
