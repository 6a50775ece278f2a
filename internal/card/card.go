package card

// Category says which deck a card may be built into
type Category int

const (
	Ordinary Category = iota // main deck
	Extra                    // extra deck
)

func (c Category) String() string {
	if c == Extra {
		return "extra"
	}
	return "ordinary"
}

// UnknownName is shown for ids that have no catalog entry
const UnknownName = "???"

// Card represents a catalog entry
type Card struct {
	ID       string   // Identifier, also the image file stem (e.g., C001 -> card-img/C001.png)
	Name     string   // Display name
	Category Category // Ordinary or extra-deck eligible

	unknown bool
}

// Unknown returns the placeholder used for ids missing from the catalog
func Unknown(id string) Card {
	return Card{ID: id, Name: UnknownName, Category: Ordinary, unknown: true}
}

// Known reports whether the card came from the catalog
func (c Card) Known() bool {
	return !c.unknown
}

// Label is the "id - name" form used by listings and search
func (c Card) Label() string {
	return c.ID + " - " + c.Name
}
