// Package assets resolves card and table images on disk.
package assets

import (
	"os"
	"path/filepath"

	"github.com/myriadtable/myriad/internal/board"
	"github.com/myriadtable/myriad/internal/deck"
)

// Fallback image names in the resource directory
const (
	NoImage      = "noimage.png"
	UnknownImage = "unknown.png"
)

// Resolver maps card ids and resource references to image paths
type Resolver struct {
	CardDir     string
	ResourceDir string
}

// CardImage returns <CardDir>/<id>.png, or the noimage fallback when that
// file does not exist. found reports which one was returned.
func (r Resolver) CardImage(id string) (path string, found bool) {
	path = filepath.Join(r.CardDir, id+".png")
	if exists(path) {
		return path, true
	}
	return filepath.Join(r.ResourceDir, NoImage), false
}

// InfoImage is the image shown in the card info panel. Cards that were
// never revealed show the unknown image.
func (r Resolver) InfoImage(c *board.CardInstance) string {
	if !c.Revealed {
		return filepath.Join(r.ResourceDir, UnknownImage)
	}
	path, _ := r.CardImage(c.ID)
	return path
}

// Back resolves a card back reference, falling back to the built-in back
func (r Resolver) Back(ref string) (string, bool) {
	return r.resource(ref, deck.DefaultBack)
}

// Playmat resolves a playmat reference, falling back to the built-in playmat
func (r Resolver) Playmat(ref string) (string, bool) {
	return r.resource(ref, deck.DefaultPlaymat)
}

func (r Resolver) resource(ref, fallback string) (string, bool) {
	if ref != "" {
		path := filepath.Join(r.ResourceDir, filepath.Base(ref))
		if exists(path) {
			return path, true
		}
	}
	return filepath.Join(r.ResourceDir, fallback), false
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
