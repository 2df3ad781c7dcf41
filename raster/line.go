package raster

import "github.com/elizafairlady/asciidraw/canvas"

// LinePoints returns the cells of the segment between from and to
// inside clip.
//
// Both endpoints are always included. A vertical segment covers every
// row between them. Otherwise a cell (x, y) of the bounding box is on
// the line when y-y1 == m*(x-x1) holds exactly in float64, with
// m = (y2-y1)/(x2-x1). There is no tolerance band: slopes that do not
// land on integer rows at integer columns paint only the cells where
// they do.
func LinePoints(from, to canvas.Point, clip canvas.Rectangle) []canvas.Point {
	s := newPointSet(clip)
	s.add(from)
	s.add(to)

	box, ok := span(from.X, from.Y, to.X, to.Y, clip)
	if !ok {
		return s.sorted()
	}

	if from.X == to.X {
		for y := box.Min.Y; y < box.Max.Y; y++ {
			s.add(canvas.Pt(from.X, y))
		}
		return s.sorted()
	}

	m := float64(to.Y-from.Y) / float64(to.X-from.X)
	for x := box.Min.X; x < box.Max.X; x++ {
		want := m * float64(x-from.X)
		for y := box.Min.Y; y < box.Max.Y; y++ {
			if float64(y-from.Y) == want {
				s.add(canvas.Pt(x, y))
			}
		}
	}
	return s.sorted()
}
