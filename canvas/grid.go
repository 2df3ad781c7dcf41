// Package canvas provides the character grid that drawing commands
// paint on, together with the integer geometry used to address it.
//
// A Grid is a fixed-size, row-major matrix of runes. It is never
// resized in place: a new canvas size means a new Grid. Every access
// must lie inside Bounds; callers clip their coordinates first, and an
// out-of-range access panics.
package canvas

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Blank is the rune a new grid is filled with.
const Blank = ' '

// ErrInvalidDimension reports a canvas size that cannot be allocated.
var ErrInvalidDimension = errors.New("invalid canvas dimension")

// DimensionError describes a rejected canvas size.
// It matches ErrInvalidDimension under errors.Is.
type DimensionError struct {
	Width, Height int
	Max           int // 0 means no ceiling was applied
}

func (e *DimensionError) Error() string {
	if e.Max > 0 && (e.Width > e.Max || e.Height > e.Max) {
		return fmt.Sprintf("%v: %dx%d exceeds %d", ErrInvalidDimension, e.Width, e.Height, e.Max)
	}
	return fmt.Sprintf("%v: %dx%d", ErrInvalidDimension, e.Width, e.Height)
}

func (e *DimensionError) Unwrap() error {
	return ErrInvalidDimension
}

// Grid is a mutable character matrix.
type Grid struct {
	w, h  int
	cells []rune // row-major, len w*h
}

// New returns a width by height grid filled with Blank.
func New(width, height int) (*Grid, error) {
	return NewLimited(width, height, 0)
}

// NewLimited is New with an upper bound on each dimension.
// A max of 0 disables the bound.
func NewLimited(width, height, max int) (*Grid, error) {
	if width <= 0 || height <= 0 || (max > 0 && (width > max || height > max)) {
		return nil, &DimensionError{Width: width, Height: height, Max: max}
	}
	g := &Grid{
		w:     width,
		h:     height,
		cells: make([]rune, width*height),
	}
	for i := range g.cells {
		g.cells[i] = Blank
	}
	return g, nil
}

// Parse builds a grid from rendered text, one row per line.
// Short rows are padded with Blank to the longest row. A trailing
// newline does not produce an extra row. Empty text yields a 1x1 grid.
func Parse(text string) *Grid {
	g, _ := ParseLimited(text, 0)
	return g
}

// ParseLimited is Parse with an upper bound on each dimension. The
// size is measured before any cells are allocated.
func ParseLimited(text string, max int) (*Grid, error) {
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	w := 1
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		lines[i] = line
		if n := utf8.RuneCountInString(line); n > w {
			w = n
		}
	}
	g, err := NewLimited(w, len(lines), max)
	if err != nil {
		return nil, err
	}
	for y, line := range lines {
		x := 0
		for _, r := range line {
			g.Set(x, y, r)
			x++
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.w
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.h
}

// Bounds returns the rectangle of valid coordinates.
func (g *Grid) Bounds() Rectangle {
	return Rect(0, 0, g.w, g.h)
}

func (g *Grid) index(x, y int) int {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		panic(fmt.Sprintf("canvas: (%d,%d) out of range %dx%d", x, y, g.w, g.h))
	}
	return y*g.w + x
}

// At returns the rune at (x, y).
func (g *Grid) At(x, y int) rune {
	return g.cells[g.index(x, y)]
}

// Set stores r at (x, y).
func (g *Grid) Set(x, y int, r rune) {
	g.cells[g.index(x, y)] = r
}

// SetPoint stores r at p.
func (g *Grid) SetPoint(p Point, r rune) {
	g.Set(p.X, p.Y, r)
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{w: g.w, h: g.h, cells: make([]rune, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Render returns the grid as Height lines of Width runes, each
// terminated by a newline, top row first.
func (g *Grid) Render() string {
	var b strings.Builder
	b.Grow(len(g.cells) + g.h)
	for y := 0; y < g.h; y++ {
		for _, r := range g.cells[y*g.w : (y+1)*g.w] {
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Grid) String() string {
	return g.Render()
}

// Info returns a one-line summary of the grid.
func (g *Grid) Info() string {
	return fmt.Sprintf("canvas %dx%d", g.w, g.h)
}
