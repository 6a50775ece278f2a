package board

// Point is a position on the board in pixels
type Point struct {
	X, Y int
}

// Size is a width and height in pixels
type Size struct {
	W, H int
}

// Rect is an axis-aligned rectangle anchored at its top-left corner
type Rect struct {
	X, Y, W, H int
}

// RectFromCorners normalises two arbitrary corners into a rectangle
func RectFromCorners(a, b Point) Rect {
	x1, x2 := order(a.X, b.X)
	y1, y2 := order(a.Y, b.Y)
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// Min returns the top-left corner
func (r Rect) Min() Point { return Point{r.X, r.Y} }

// Max returns the bottom-right corner
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

// Contains reports whether p lies inside r, right and bottom edges excluded
func (r Rect) Contains(p Point) bool {
	return r.X <= p.X && p.X < r.X+r.W && r.Y <= p.Y && p.Y < r.Y+r.H
}

// Intersects reports whether r and o overlap or touch
func (r Rect) Intersects(o Rect) bool {
	return !(r.X+r.W < o.X || r.X > o.X+o.W || r.Y+r.H < o.Y || r.Y > o.Y+o.H)
}

// Union returns the smallest rectangle containing r and o
func (r Rect) Union(o Rect) Rect {
	minX, minY := min(r.X, o.X), min(r.Y, o.Y)
	maxX, maxY := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Clamp returns the top-left position that keeps an object of size s
// at p fully inside bounds
func Clamp(p Point, s Size, bounds Size) Point {
	return Point{
		X: max(0, min(p.X, bounds.W-s.W)),
		Y: max(0, min(p.Y, bounds.H-s.H)),
	}
}

// Inside reports whether r lies fully within bounds
func Inside(r Rect, bounds Size) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.W <= bounds.W && r.Y+r.H <= bounds.H
}
