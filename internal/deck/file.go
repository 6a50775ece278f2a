package deck

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/myriadtable/myriad/internal/card"
)

// maxLineSize bounds a single deck file line
const maxLineSize = 1024 * 1024

// Section markers of the deck file format
const (
	ExtraMarker    = "[EX]"
	ResourceMarker = "[Resource]"
)

// Read parses a deck file.
//
// Lines before [EX] are main deck ids, lines between [EX] and [Resource]
// are extra deck ids, and the first two lines after [Resource] are the card
// back and play surface references. When catalog is non-nil, ids missing
// from it are skipped with a warning.
func Read(r io.Reader, catalog *card.Catalog) (*List, []string, error) {
	l := New()
	var warnings []string
	var resources []string

	section := Main
	inResources := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}

		switch {
		case line == ExtraMarker:
			section = Extra
			continue
		case line == ResourceMarker:
			inResources = true
			continue
		case inResources:
			resources = append(resources, line)
			continue
		}

		if catalog != nil && !catalog.Has(line) {
			warnings = append(warnings, fmt.Sprintf("card %s in %s deck is not in the catalog, skipping", line, section))
			continue
		}
		if section == Extra {
			l.AddExtra(line)
		} else {
			l.AddMain(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, fmt.Errorf("error reading deck file: %w", err)
	}

	if len(resources) > 0 {
		l.Resources.Back = resources[0]
	}
	if len(resources) > 1 {
		l.Resources.Playmat = resources[1]
	}
	if len(resources) > 2 {
		warnings = append(warnings, fmt.Sprintf("ignoring %d extra resource lines", len(resources)-2))
	}

	return l, warnings, nil
}

// ReadFile reads a deck file from path
func ReadFile(path string, catalog *card.Catalog) (*List, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening deck file: %w", err)
	}
	defer f.Close()

	return Read(f, catalog)
}

// Write serializes l in the deck file format. The [EX] section is only
// written when the extra deck has cards.
func Write(w io.Writer, l *List) error {
	bw := bufio.NewWriter(w)
	for _, id := range l.Main {
		fmt.Fprintln(bw, id)
	}
	if len(l.Extra) > 0 {
		fmt.Fprintln(bw, ExtraMarker)
		for _, id := range l.Extra {
			fmt.Fprintln(bw, id)
		}
	}

	back, playmat := l.Resources.Back, l.Resources.Playmat
	if back == "" {
		back = DefaultBack
	}
	if playmat == "" {
		playmat = DefaultPlaymat
	}
	fmt.Fprintln(bw, ResourceMarker)
	fmt.Fprintln(bw, back)
	fmt.Fprintln(bw, playmat)

	return bw.Flush()
}

// WriteFile writes l to path, creating the parent directory if needed
func WriteFile(path string, l *List) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating deck directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating deck file: %w", err)
	}
	if err := Write(f, l); err != nil {
		f.Close()
		return fmt.Errorf("error writing deck file: %w", err)
	}
	return f.Close()
}
