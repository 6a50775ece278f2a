package savefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/myriadtable/myriad/internal/deck"
)

// Write serializes snap
func Write(w io.Writer, snap *Snapshot) error {
	bw := bufio.NewWriter(w)

	back, playmat := snap.Resources.Back, snap.Resources.Playmat
	if back == "" {
		back = deck.DefaultBack
	}
	if playmat == "" {
		playmat = deck.DefaultPlaymat
	}
	fmt.Fprintln(bw, SectionResource)
	fmt.Fprintln(bw, filepath.Base(back))
	fmt.Fprintln(bw, filepath.Base(playmat))

	fmt.Fprintln(bw, SectionDeck)
	for _, id := range snap.Deck {
		fmt.Fprintln(bw, id)
	}

	if len(snap.Extra) > 0 {
		fmt.Fprintln(bw, SectionExtra)
		for _, id := range snap.Extra {
			fmt.Fprintln(bw, id)
		}
	}

	fmt.Fprintln(bw, SectionBoard)
	for _, c := range snap.Cards {
		fmt.Fprintf(bw, "%s,%d,%d,%d,%d,%d\n", c.ID, c.X, c.Y, bit(c.Rotated), bit(c.FaceUp), bit(c.Revealed))
	}

	fmt.Fprintln(bw, SectionMarkers)
	for _, m := range snap.Markers {
		text := strings.ReplaceAll(m.Text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\n", newlineEscape)
		typ := m.Type
		if typ == "" {
			typ = "marker"
		}
		fmt.Fprintf(bw, "%s,%s,%d,%d,%d,%d,%s\n", typ, text, m.X, m.Y, m.Width, m.Height, m.Color)
	}

	if snap.Life != 0 {
		fmt.Fprintln(bw, SectionLife)
		fmt.Fprintln(bw, snap.Life)
	}

	return bw.Flush()
}

// Save writes snap to path, creating the directory if needed
func Save(path string, snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating save directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating save file: %w", err)
	}
	if err := Write(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("error writing save file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error writing save file: %w", err)
	}
	return nil
}

// SaveInDir writes snap to a timestamped file in dir and returns its path
func SaveInDir(dir string, snap *Snapshot, now time.Time) (string, error) {
	path := filepath.Join(dir, FileName(now))
	if err := Save(path, snap); err != nil {
		return "", err
	}
	return path, nil
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
