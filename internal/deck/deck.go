package deck

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/myriadtable/myriad/internal/card"
)

// Default resource references used when a deck file has none
const (
	DefaultBack    = "reverse.png"
	DefaultPlaymat = "playmat.png"
)

// GachaSize is the number of pulls in a generated deck
const GachaSize = 100

// Kind selects one of the two sequences of a deck list
type Kind int

const (
	Main Kind = iota
	Extra
)

func (k Kind) String() string {
	if k == Extra {
		return "extra"
	}
	return "main"
}

// ParseKind parses "main" or "extra" (also "ex")
func ParseKind(s string) (Kind, error) {
	switch s {
	case "main", "":
		return Main, nil
	case "extra", "ex":
		return Extra, nil
	}
	return Main, fmt.Errorf("unknown deck kind: %s", s)
}

// Resources names the card back and play surface images of a deck
type Resources struct {
	Back    string
	Playmat string
}

// DefaultResources returns the built-in resource references
func DefaultResources() Resources {
	return Resources{Back: DefaultBack, Playmat: DefaultPlaymat}
}

// List is an editable deck list: ordered card ids for the main and extra deck
type List struct {
	Main      []string
	Extra     []string
	Resources Resources
}

// New returns an empty deck list with default resources
func New() *List {
	return &List{Resources: DefaultResources()}
}

func (l *List) seq(k Kind) *[]string {
	if k == Extra {
		return &l.Extra
	}
	return &l.Main
}

// Cards returns the ids of one sequence
func (l *List) Cards(k Kind) []string {
	return *l.seq(k)
}

// AddMain appends id to the main deck
func (l *List) AddMain(id string) {
	l.Main = append(l.Main, id)
}

// AddExtra appends id to the extra deck
func (l *List) AddExtra(id string) {
	l.Extra = append(l.Extra, id)
}

// AddAuto appends id to the deck its catalog category belongs to.
// Ids unknown to the catalog go to the main deck.
func (l *List) AddAuto(id string, catalog *card.Catalog) Kind {
	if catalog.Lookup(id).Category == card.Extra {
		l.AddExtra(id)
		return Extra
	}
	l.AddMain(id)
	return Main
}

// Remove deletes the card at index from one sequence and returns its id
func (l *List) Remove(k Kind, index int) (string, error) {
	s := l.seq(k)
	if index < 0 || index >= len(*s) {
		return "", fmt.Errorf("no card at position %d in %s deck (%d cards)", index+1, k, len(*s))
	}
	id := (*s)[index]
	*s = append((*s)[:index], (*s)[index+1:]...)
	return id, nil
}

// Sort orders one sequence by id
func (l *List) Sort(k Kind) {
	sort.Strings(*l.seq(k))
}

// Counts returns the sizes of the main and extra deck
func (l *List) Counts() (main, extra int) {
	return len(l.Main), len(l.Extra)
}

// Gacha replaces the list with n random pulls from the catalog, with
// replacement, routed by category. Both sequences end up sorted and the
// resources are reset to their defaults.
func Gacha(catalog *card.Catalog, n int, rng *rand.Rand) (*List, error) {
	ids := catalog.IDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("catalog has no cards to draw from")
	}

	l := New()
	for i := 0; i < n; i++ {
		l.AddAuto(ids[rng.IntN(len(ids))], catalog)
	}
	l.Sort(Main)
	l.Sort(Extra)
	return l, nil
}

// DefaultFileName returns the name a new deck is saved under
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("deck_%s.txt", now.Format("20060102_150405"))
}
