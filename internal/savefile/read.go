package savefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/myriadtable/myriad/internal/deck"
)

// Read parses a save file. Malformed rows are skipped with a warning and
// missing resource lines fall back to the defaults.
func Read(r io.Reader) (*Snapshot, []Warning, error) {
	snap := &Snapshot{Resources: deck.DefaultResources()}
	var warnings []Warning
	var resources []string
	lifeLines := 0

	section := ""
	lineNo := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" {
			continue
		}

		switch line {
		case SectionResource, SectionDeck, SectionExtra, SectionBoard, SectionMarkers, SectionLife:
			section = line
			continue
		}

		switch section {
		case SectionResource:
			resources = append(resources, line)
		case SectionDeck:
			snap.Deck = append(snap.Deck, line)
		case SectionExtra:
			snap.Extra = append(snap.Extra, line)
		case SectionBoard:
			rec, err := parseCard(line)
			if err != nil {
				warnings = append(warnings, Warning{Line: lineNo, Msg: fmt.Sprintf("skipping board row: %v", err)})
				continue
			}
			snap.Cards = append(snap.Cards, rec)
		case SectionMarkers:
			rec, err := parseMarker(line)
			if err != nil {
				warnings = append(warnings, Warning{Line: lineNo, Msg: fmt.Sprintf("skipping marker row: %v", err)})
				continue
			}
			snap.Markers = append(snap.Markers, rec)
		case SectionLife:
			n, err := strconv.Atoi(line)
			if err != nil || n < 0 {
				warnings = append(warnings, Warning{Line: lineNo, Msg: fmt.Sprintf("skipping life points %q", line)})
				continue
			}
			lifeLines++
			snap.Life = n
		default:
			warnings = append(warnings, Warning{Line: lineNo, Msg: "ignoring text outside any section"})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, fmt.Errorf("error reading save file: %w", err)
	}

	if len(resources) > 0 {
		snap.Resources.Back = resources[0]
	}
	if len(resources) > 1 {
		snap.Resources.Playmat = resources[1]
	}
	if len(resources) > 2 {
		warnings = append(warnings, Warning{Msg: fmt.Sprintf("ignoring %d extra resource lines", len(resources)-2)})
	}
	if lifeLines > 1 {
		warnings = append(warnings, Warning{Msg: fmt.Sprintf("%d life point lines, using the last", lifeLines)})
	}

	return snap, warnings, nil
}

// Load reads the save file at path
func Load(path string) (*Snapshot, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening save file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

func parseCard(line string) (CardRecord, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 6 {
		return CardRecord{}, fmt.Errorf("want 6 fields, got %d", len(parts))
	}
	nums, err := atoiAll(parts[1:])
	if err != nil {
		return CardRecord{}, err
	}
	return CardRecord{
		ID:       strings.TrimSpace(parts[0]),
		X:        nums[0],
		Y:        nums[1],
		Rotated:  nums[2] != 0,
		FaceUp:   nums[3] != 0,
		Revealed: nums[4] != 0,
	}, nil
}

// parseMarker reads type,text,x,y,w,h,color or legacy text,x,y,w,h. The
// text is whatever lies between the leading and trailing fixed fields, so
// it may itself contain commas.
func parseMarker(line string) (MarkerRecord, error) {
	parts := strings.Split(line, ",")
	n := len(parts)

	var rec MarkerRecord
	var geometry []string
	// typed rows end in a colour, legacy rows in the height
	_, err := strconv.Atoi(strings.TrimSpace(parts[n-1]))
	legacy := err == nil
	switch {
	case legacy && n >= 5:
		rec.Type = "marker"
		rec.Text = strings.Join(parts[:n-4], ",")
		geometry = parts[n-4:]
	case !legacy && n >= 7:
		rec.Type = strings.TrimSpace(parts[0])
		rec.Text = strings.Join(parts[1:n-5], ",")
		geometry = parts[n-5 : n-1]
		rec.Color = strings.TrimSpace(parts[n-1])
	default:
		return MarkerRecord{}, fmt.Errorf("want 7 fields (or 5 for legacy markers), got %d", n)
	}

	nums, err := atoiAll(geometry)
	if err != nil {
		return MarkerRecord{}, err
	}
	if rec.Type == "" {
		rec.Type = "marker"
	}
	rec.Text = strings.ReplaceAll(rec.Text, newlineEscape, "\n")
	rec.X, rec.Y, rec.Width, rec.Height = nums[0], nums[1], nums[2], nums[3]
	return rec, nil
}

func atoiAll(fields []string) ([]int, error) {
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		nums[i] = n
	}
	return nums, nil
}
