// Package raster converts geometric primitives in grid coordinates
// into the set of cells to paint.
//
// Every routine clips to a rectangle, normally the grid bounds:
// candidate cells outside it are skipped, never reported as errors.
// Iteration ranges are intersected with the clip rectangle before
// looping, so arbitrarily large coordinates cost nothing.
//
// The *Points functions are pure and return the cells sorted by
// canvas.Point.Less without duplicates. Line, Rect and Circle apply
// those cells to a grid.
package raster

import (
	"math"
	"sort"

	"github.com/elizafairlady/asciidraw/canvas"
)

// pointSet accumulates cells inside a clip rectangle.
type pointSet struct {
	clip canvas.Rectangle
	seen map[canvas.Point]bool
	p    []canvas.Point
}

func newPointSet(clip canvas.Rectangle) *pointSet {
	return &pointSet{clip: clip, seen: make(map[canvas.Point]bool)}
}

func (s *pointSet) add(p canvas.Point) {
	if !p.In(s.clip) || s.seen[p] {
		return
	}
	s.seen[p] = true
	s.p = append(s.p, p)
}

func (s *pointSet) sorted() []canvas.Point {
	sort.Slice(s.p, func(i, j int) bool { return s.p[i].Less(s.p[j]) })
	return s.p
}

// satAdd returns a+b, saturating at math.MaxInt.
// Both operands must be non-negative.
func satAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// span returns the half-open rectangle covering the inclusive ranges
// [x0,x1] and [y0,y1], in either order, clipped to clip.
func span(x0, y0, x1, y1 int, clip canvas.Rectangle) (canvas.Rectangle, bool) {
	r := canvas.Rect(x0, y0, x1, y1)
	if r.Max.X >= clip.Max.X {
		r.Max.X = clip.Max.X
	} else {
		r.Max.X++
	}
	if r.Max.Y >= clip.Max.Y {
		r.Max.Y = clip.Max.Y
	} else {
		r.Max.Y++
	}
	return r.Clip(clip)
}

func paint(g *canvas.Grid, pts []canvas.Point, pen rune) []canvas.Point {
	for _, p := range pts {
		g.SetPoint(p, pen)
	}
	return pts
}

// Line paints the segment between from and to on g and returns the
// cells painted.
func Line(g *canvas.Grid, from, to canvas.Point, pen rune) []canvas.Point {
	return paint(g, LinePoints(from, to, g.Bounds()), pen)
}

// Rect paints the border of the box with corners p1 and p2.
func Rect(g *canvas.Grid, p1, p2 canvas.Point, pen rune) []canvas.Point {
	return paint(g, RectPoints(p1, p2, g.Bounds()), pen)
}

// Circle paints a ring of radius r around center.
func Circle(g *canvas.Grid, center canvas.Point, r int, pen rune) []canvas.Point {
	return paint(g, CirclePoints(center, r, g.Bounds()), pen)
}
