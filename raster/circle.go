package raster

import (
	"math"

	"github.com/elizafairlady/asciidraw/canvas"
)

// CirclePoints returns the cells of a one-cell-thick ring of radius r.
//
// Candidates lie in columns cx-r-1 to cx+r+1 and rows cy-r-1 to
// cy+r+1, with the lower corner clamped to zero. A candidate is on the ring when its
// distance from the reference point (cx-r, cy-r) is strictly between
// r-0.5 and r+0.5. The reference point is offset from the center, so
// the ring is not centered on it. A radius of 0 marks at most the
// center cell.
func CirclePoints(center canvas.Point, r int, clip canvas.Rectangle) []canvas.Point {
	s := newPointSet(clip)
	if r < 0 {
		return s.sorted()
	}

	x0 := center.X - r - 1
	if x0 < 0 {
		x0 = 0
	}
	y0 := center.Y - r - 1
	if y0 < 0 {
		y0 = 0
	}
	x1 := satAdd(satAdd(center.X, r), 1)
	y1 := satAdd(satAdd(center.Y, r), 1)

	box, ok := span(x0, y0, x1, y1, clip)
	if !ok {
		return s.sorted()
	}

	rx := float64(center.X) - float64(r)
	ry := float64(center.Y) - float64(r)
	inner := float64(r) - 0.5
	outer := float64(r) + 0.5
	for x := box.Min.X; x < box.Max.X; x++ {
		for y := box.Min.Y; y < box.Max.Y; y++ {
			d := math.Hypot(float64(x)-rx, float64(y)-ry)
			if d > inner && d < outer {
				s.add(canvas.Pt(x, y))
			}
		}
	}
	return s.sorted()
}
