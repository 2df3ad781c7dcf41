// Package export renders a canvas as a raster image.
//
// Each grid cell becomes one glyph cell of a fixed-width face
// (basicfont.Face7x13 unless overridden), dark glyphs on a light
// background.
package export

import (
	"image"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/elizafairlady/asciidraw/canvas"
)

// Renderer draws grids with a fixed-width face.
type Renderer struct {
	Face font.Face
}

// DefaultRenderer uses the 7x13 basic font.
var DefaultRenderer = &Renderer{Face: basicfont.Face7x13}

// CellSize returns the pixel size of one grid cell.
func (r *Renderer) CellSize() image.Point {
	m := r.Face.Metrics()
	adv, ok := r.Face.GlyphAdvance('M')
	if !ok {
		adv = m.Height / 2
	}
	return image.Pt(adv.Ceil(), m.Height.Ceil())
}

// Image returns g rendered as a grayscale image.
func (r *Renderer) Image(g *canvas.Grid) *image.Gray {
	cell := r.CellSize()
	img := image.NewGray(image.Rect(0, 0, g.Width()*cell.X, g.Height()*cell.Y))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ascent := r.Face.Metrics().Ascent
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: r.Face,
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := g.At(x, y)
			if c == canvas.Blank {
				continue
			}
			d.Dot = fixed.Point26_6{
				X: fixed.I(x * cell.X),
				Y: fixed.I(y*cell.Y) + ascent,
			}
			d.DrawString(string(c))
		}
	}
	return img
}

// WritePNG encodes g as PNG to w.
func (r *Renderer) WritePNG(w io.Writer, g *canvas.Grid) error {
	return png.Encode(w, r.Image(g))
}

// WritePNG encodes g as PNG to w with DefaultRenderer.
func WritePNG(w io.Writer, g *canvas.Grid) error {
	return DefaultRenderer.WritePNG(w, g)
}
