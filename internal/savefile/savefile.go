// Package savefile reads and writes board snapshots.
//
// A save file is line oriented and split into sections:
//
//	[Resource]
//	reverse.png
//	playmat.png
//	[Deck]
//	C001
//	[Board]
//	C002,120,80,0,1,1
//	[Markers]
//	marker,LP 8000\nturn 3,420,648,120,50,
//	chip,,471,648,18,18,red
//
// Board rows are id,x,y,rotated,face_up,revealed. Marker rows are
// type,text,x,y,width,height,color; rows ending in a number are read as
// legacy plain markers (text,x,y,width,height). Marker text may contain
// commas: the fields around it have a fixed count, so everything between
// them is the text. An [EX] section holding the undrawn extra deck is
// written after [Deck] only when it is non-empty, and a [Life] section
// only when the life points are not zero.
package savefile

import (
	"fmt"
	"time"

	"github.com/myriadtable/myriad/internal/deck"
)

// Section headers
const (
	SectionResource = "[Resource]"
	SectionDeck     = "[Deck]"
	SectionExtra    = "[EX]"
	SectionBoard    = "[Board]"
	SectionMarkers  = "[Markers]"
	SectionLife     = "[Life]"
)

// maxLineSize bounds a single line; longer lines fail the read
const maxLineSize = 4 * 1024 * 1024

// newlineEscape replaces literal newlines inside marker text
const newlineEscape = `\n`

// CardRecord is one board card row
type CardRecord struct {
	ID       string `yaml:"id"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Rotated  bool   `yaml:"rotated"`
	FaceUp   bool   `yaml:"face_up"`
	Revealed bool   `yaml:"revealed"`
}

// MarkerRecord is one marker row
type MarkerRecord struct {
	Type   string `yaml:"type"`
	Text   string `yaml:"text"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Color  string `yaml:"color,omitempty"`
}

// Snapshot is the full persisted table
type Snapshot struct {
	Resources deck.Resources `yaml:"resources"`
	Deck      []string       `yaml:"deck"`
	Extra     []string       `yaml:"extra,omitempty"`
	Cards     []CardRecord   `yaml:"board"`
	Markers   []MarkerRecord `yaml:"markers"`
	Life      int            `yaml:"life,omitempty"`
}

// Warning is a row that was skipped or a value that was replaced while
// reading
type Warning struct {
	Line int // 0 for problems not tied to one line
	Msg  string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s", w.Line, w.Msg)
	}
	return w.Msg
}

// Messages formats warnings for display
func Messages(warnings []Warning) []string {
	msgs := make([]string, 0, len(warnings))
	for _, w := range warnings {
		msgs = append(msgs, w.String())
	}
	return msgs
}

// FileName returns the name a snapshot taken at now is saved under
func FileName(now time.Time) string {
	return fmt.Sprintf("save_%s.txt", now.Format("20060102150405"))
}
