package export

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/elizafairlady/asciidraw/canvas"
)

func TestCellSize(t *testing.T) {
	if got, want := DefaultRenderer.CellSize(), image.Pt(7, 13); got != want {
		t.Errorf("CellSize() = %v, want %v", got, want)
	}
}

func TestImageBlank(t *testing.T) {
	g, _ := canvas.New(3, 2)
	img := DefaultRenderer.Image(g)
	if got, want := img.Bounds(), image.Rect(0, 0, 21, 26); got != want {
		t.Fatalf("Bounds() = %v, want %v", got, want)
	}
	for y := 0; y < 26; y++ {
		for x := 0; x < 21; x++ {
			if img.GrayAt(x, y).Y != 0xFF {
				t.Fatalf("blank canvas has ink at (%d,%d)", x, y)
			}
		}
	}
}

func inked(img *image.Gray, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.GrayAt(x, y).Y < 0x80 {
				return true
			}
		}
	}
	return false
}

func TestImageGlyphCell(t *testing.T) {
	g, _ := canvas.New(3, 2)
	g.Set(1, 1, '#')
	img := DefaultRenderer.Image(g)
	if !inked(img, image.Rect(7, 13, 14, 26)) {
		t.Errorf("cell (1,1) has no ink")
	}
	if inked(img, image.Rect(0, 0, 7, 13)) || inked(img, image.Rect(14, 0, 21, 13)) {
		t.Errorf("ink outside painted cell")
	}
}

func TestWritePNG(t *testing.T) {
	g, _ := canvas.New(4, 1)
	g.Set(0, 0, '*')
	var buf bytes.Buffer
	if err := WritePNG(&buf, g); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if got, want := img.Bounds().Size(), image.Pt(28, 13); got != want {
		t.Errorf("decoded size = %v, want %v", got, want)
	}
}
