package render

import (
	"io"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/myriadtable/myriad/internal/board"
)

// Glyphs used on the character grid
const (
	backLabel = "##"
	chipGlyph = "(o)"
)

// chipPalette maps chip colour names to screen colours
var chipPalette = map[string]string{
	"red":    "#e03131",
	"blue":   "#1971c2",
	"yellow": "#f5c518",
	"green":  "#2f9e44",
	"white":  "#f8f9fa",
}

var selectedStyle = colorize.New(colorize.FgHiYellow, colorize.Bold)

type style struct {
	selected bool
	chip     string
}

type cell struct {
	r  rune
	st style
}

// canvas is a character grid scaled from board pixels
type canvas struct {
	cols, rows int
	bounds     board.Size
	cells      [][]cell
}

func newCanvas(bounds board.Size, cols int) *canvas {
	if cols < minWidth {
		cols = minWidth
	}
	// terminal cells are about twice as tall as they are wide
	rows := max(cols*bounds.H/bounds.W/2, 1)
	c := &canvas{cols: cols, rows: rows, bounds: bounds, cells: make([][]cell, rows)}
	for y := range c.cells {
		c.cells[y] = make([]cell, cols)
		for x := range c.cells[y] {
			c.cells[y][x].r = ' '
		}
	}
	return c
}

func (c *canvas) col(x int) int { return x * c.cols / c.bounds.W }
func (c *canvas) row(y int) int { return y * c.rows / c.bounds.H }

func (c *canvas) set(x, y int, r rune, st style) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y][x] = cell{r: r, st: st}
}

// box draws a framed rectangle with label on its first inner row.
// Rotated boxes use '=' for their horizontal edges.
func (c *canvas) box(r board.Rect, label string, rotated bool, st style) {
	x0, y0 := c.col(r.X), c.row(r.Y)
	x1 := max(c.col(r.X+r.W)-1, x0+2)
	y1 := max(c.row(r.Y+r.H)-1, y0+2)

	edge := '-'
	if rotated {
		edge = '='
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			switch {
			case (y == y0 || y == y1) && (x == x0 || x == x1):
				c.set(x, y, '+', st)
			case y == y0 || y == y1:
				c.set(x, y, edge, st)
			case x == x0 || x == x1:
				c.set(x, y, '|', st)
			default:
				c.set(x, y, ' ', st)
			}
		}
	}

	inner := []rune(label)
	if n := x1 - x0 - 1; len(inner) > n {
		inner = inner[:n]
	}
	for i, ch := range inner {
		c.set(x0+1+i, y0+1, ch, st)
	}
}

// text writes s starting at board point p
func (c *canvas) text(p board.Point, s string, st style) {
	x, y := c.col(p.X), c.row(p.Y)
	for i, ch := range []rune(s) {
		c.set(x+i, y, ch, st)
	}
}

// marker draws a text marker as [text] or a chip as (o)text
func (c *canvas) marker(p board.Point, chipColor, text string, selected bool) {
	first, _, multi := strings.Cut(text, "\n")
	if multi {
		first += "…"
	}
	if chipColor != "" {
		c.text(p, chipGlyph+first, style{selected: selected, chip: chipColor})
		return
	}
	c.text(p, "["+first+"]", style{selected: selected})
}

func paint(s string, st style) string {
	switch {
	case st.selected:
		return selectedStyle.Sprint(s)
	case st.chip != "":
		hex, ok := chipPalette[st.chip]
		if !ok {
			return s
		}
		col, err := colorful.Hex(hex)
		if err != nil {
			return s
		}
		return foreground(col, s)
	}
	return s
}

// write prints the grid inside a frame. With color, runs of styled
// cells are wrapped in escape sequences.
func (c *canvas) write(w io.Writer, color bool) error {
	frame := "+" + strings.Repeat("-", c.cols) + "+\n"
	var b strings.Builder
	b.WriteString(frame)
	for _, line := range c.cells {
		b.WriteByte('|')
		start := 0
		for x := 1; x <= len(line); x++ {
			if x < len(line) && line[x].st == line[start].st {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, cl := range line[start:x] {
				run = append(run, cl.r)
			}
			if color {
				b.WriteString(paint(string(run), line[start].st))
			} else {
				b.WriteString(string(run))
			}
			start = x
		}
		b.WriteString("|\n")
	}
	b.WriteString(frame)
	_, err := io.WriteString(w, b.String())
	return err
}
