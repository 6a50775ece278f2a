package validator

import (
	"fmt"
	"os"

	"github.com/myriadtable/myriad/internal/assets"
	"github.com/myriadtable/myriad/internal/card"
	"github.com/myriadtable/myriad/internal/deck"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// Validator checks a deck file against a catalog and the resource directory
type Validator struct {
	DeckPath    string
	Catalog     *card.Catalog
	ResourceDir string
	Results     ValidationResults

	list *deck.List
}

func NewValidator(deckPath string, catalog *card.Catalog, resourceDir string) *Validator {
	return &Validator{
		DeckPath:    deckPath,
		Catalog:     catalog,
		ResourceDir: resourceDir,
		Results:     ValidationResults{},
	}
}

// Validate reports problems with the deck file. Only an unreadable file is
// an error; everything else lands in the results.
func (v *Validator) Validate() (ValidationResults, error) {
	if err := v.validateDeckFile(); err != nil {
		return v.Results, err
	}

	v.validateMainDeck()
	v.validateExtraDeck()
	v.validateResources()

	return v.Results, nil
}

func (v *Validator) validateDeckFile() error {
	if _, err := os.Stat(v.DeckPath); os.IsNotExist(err) {
		return fmt.Errorf("deck file not found: %s", v.DeckPath)
	}

	// read without the catalog so unknown ids are reported, not skipped
	list, warnings, err := deck.ReadFile(v.DeckPath, nil)
	if err != nil {
		return err
	}
	v.list = list
	v.Results.Warnings = append(v.Results.Warnings, warnings...)
	return nil
}

// validateMainDeck checks that every main deck id is a known ordinary card
func (v *Validator) validateMainDeck() {
	if len(v.list.Main) == 0 {
		v.Results.Warnings = append(v.Results.Warnings, "main deck is empty")
	}

	for i, id := range v.list.Main {
		if !v.Catalog.Has(id) {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("main deck card %d: unknown card id %s", i+1, id))
			continue
		}
		if v.Catalog.Lookup(id).Category == card.Extra {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("main deck card %d: %s is an extra deck card", i+1, id))
		}
	}
}

// validateExtraDeck checks that every extra deck id is a known extra card
func (v *Validator) validateExtraDeck() {
	for i, id := range v.list.Extra {
		if !v.Catalog.Has(id) {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("extra deck card %d: unknown card id %s", i+1, id))
			continue
		}
		if v.Catalog.Lookup(id).Category != card.Extra {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("extra deck card %d: %s is not an extra deck card", i+1, id))
		}
	}
}

// validateResources checks that the card back and playmat images exist
func (v *Validator) validateResources() {
	r := assets.Resolver{ResourceDir: v.ResourceDir}

	if _, found := r.Back(v.list.Resources.Back); !found {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("card back image not found: %s", v.list.Resources.Back))
	}
	if _, found := r.Playmat(v.list.Resources.Playmat); !found {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("playmat image not found: %s", v.list.Resources.Playmat))
	}
}
