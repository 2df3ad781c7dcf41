package canvas

import "fmt"

// Point addresses a cell: X is the column, Y the row.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point {
	return Point{x, y}
}

func (p Point) Eq(q Point) bool {
	return p == q
}

// Less orders points column first, then row. Rasterisers use it to
// return cells in a stable order.
func (p Point) Less(q Point) bool {
	if p.X == q.X {
		return p.Y < q.Y
	}
	return p.X < q.X
}

// In reports whether the cell p lies inside r.
func (p Point) In(r Rectangle) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rectangle is a box of cells, Min inclusive and Max exclusive.
type Rectangle struct {
	Min, Max Point
}

// Rect returns the box spanned by two corners given in any order.
func Rect(x0, y0, x1, y1 int) Rectangle {
	return Rectangle{
		Min: Point{min(x0, x1), min(y0, y1)},
		Max: Point{max(x0, x1), max(y0, y1)},
	}
}

// Empty reports whether r holds no cells.
func (r Rectangle) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

func (r Rectangle) Eq(s Rectangle) bool {
	return r == s
}

// Clip intersects r with bounds. The boolean is false when nothing of
// r is left.
func (r Rectangle) Clip(bounds Rectangle) (Rectangle, bool) {
	c := Rectangle{
		Min: Point{max(r.Min.X, bounds.Min.X), max(r.Min.Y, bounds.Min.Y)},
		Max: Point{min(r.Max.X, bounds.Max.X), min(r.Max.Y, bounds.Max.Y)},
	}
	return c, !c.Empty()
}

func (r Rectangle) String() string {
	return fmt.Sprintf("%v-%v", r.Min, r.Max)
}
