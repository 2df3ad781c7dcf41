package raster

import "github.com/elizafairlady/asciidraw/canvas"

// RectPoints returns the border cells of the box with inclusive
// corners p1 and p2, in any order. The interior is not included.
func RectPoints(p1, p2 canvas.Point, clip canvas.Rectangle) []canvas.Point {
	s := newPointSet(clip)
	edges := canvas.Rect(p1.X, p1.Y, p2.X, p2.Y)
	box, ok := span(p1.X, p1.Y, p2.X, p2.Y, clip)
	if !ok {
		return s.sorted()
	}
	for x := box.Min.X; x < box.Max.X; x++ {
		for y := box.Min.Y; y < box.Max.Y; y++ {
			if x == edges.Min.X || x == edges.Max.X || y == edges.Min.Y || y == edges.Max.Y {
				s.add(canvas.Pt(x, y))
			}
		}
	}
	return s.sorted()
}
