package card

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// maxLineSize bounds a single catalog line; longer lines fail the load
const maxLineSize = 1024 * 1024

// Catalog maps card ids to their definitions. It is immutable once loaded.
type Catalog struct {
	cards map[string]Card
}

// NewCatalog builds a catalog from cards. Later duplicates replace earlier ones.
func NewCatalog(cards ...Card) *Catalog {
	c := &Catalog{cards: make(map[string]Card, len(cards))}
	for _, cd := range cards {
		cd.unknown = false
		c.cards[cd.ID] = cd
	}
	return c
}

// Load reads a catalog file (id,name[,category]).
//
// A missing file yields an empty catalog and a warning, not an error.
// Malformed lines are skipped with a warning. When an id appears more
// than once the last line wins.
func Load(path string) (*Catalog, []string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewCatalog(), []string{fmt.Sprintf("catalog %s not found, no card names available", path)}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error opening catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads catalog lines from r
func Parse(r io.Reader) (*Catalog, []string, error) {
	c := NewCatalog()
	var warnings []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ",", 3)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
			warnings = append(warnings, fmt.Sprintf("line %d: skipping malformed catalog entry %q", lineNo, line))
			continue
		}

		cd := Card{
			ID:       strings.TrimSpace(parts[0]),
			Name:     strings.TrimSpace(parts[1]),
			Category: Ordinary,
		}
		if len(parts) == 3 && strings.TrimSpace(parts[2]) == "1" {
			cd.Category = Extra
		}

		if _, dup := c.cards[cd.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("line %d: duplicate id %s replaces earlier entry", lineNo, cd.ID))
		}
		c.cards[cd.ID] = cd
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, fmt.Errorf("error reading catalog: %w", err)
	}

	return c, warnings, nil
}

// Lookup returns the card for id, or the Unknown placeholder
func (c *Catalog) Lookup(id string) Card {
	if c != nil {
		if cd, ok := c.cards[id]; ok {
			return cd
		}
	}
	return Unknown(id)
}

// Has reports whether id is in the catalog
func (c *Catalog) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.cards[id]
	return ok
}

// Len returns the number of cards
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.cards)
}

// IDs returns all ids in sorted order
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.cards))
	for id := range c.cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Cards returns all cards sorted by id
func (c *Catalog) Cards() []Card {
	ids := c.IDs()
	cards := make([]Card, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, c.cards[id])
	}
	return cards
}

// Search returns the cards whose label contains filter, ignoring case.
// An empty filter matches everything.
func (c *Catalog) Search(filter string) []Card {
	filter = strings.ToLower(strings.TrimSpace(filter))
	var result []Card
	for _, cd := range c.Cards() {
		if filter == "" || strings.Contains(strings.ToLower(cd.Label()), filter) {
			result = append(result, cd)
		}
	}
	return result
}
