// Package command implements the text grammar of the drawing console.
//
// A command line is a verb followed by whitespace-separated arguments:
//
//	LINE x1 y1 x2 y2
//	RECT x1 y1 x2 y2      (also RECTANGLE)
//	CIRC x y r            (also CIRCLE)
//	CANV width height     (also CANVAS)
//	CHAR c
//	READ path
//	SAVE path
//	INFO
//	SHOW
//	QUIT
//
// The verb is case-insensitive; arguments are kept verbatim. Numeric
// arguments are unsigned decimal integers.
package command

import (
	"fmt"

	"github.com/elizafairlady/asciidraw/canvas"
)

// Command is a parsed, validated command. The concrete types below
// form a closed set; they carry arguments only and have no behavior.
type Command interface {
	fmt.Stringer
	// Verb returns the canonical (short, upper-case) verb.
	Verb() string
}

// Line draws a segment between two points.
type Line struct {
	From, To canvas.Point
}

// Rectangle draws the border of the box spanned by two corners.
type Rectangle struct {
	P1, P2 canvas.Point
}

// Circle draws a ring of the given radius.
type Circle struct {
	Center canvas.Point
	Radius int
}

// Resize replaces the canvas with a blank one of the given size.
type Resize struct {
	Width, Height int
}

// SetPen changes the character used by drawing commands.
type SetPen struct {
	Char rune
}

// Read executes the commands stored in a file.
type Read struct {
	Path string
}

// Save writes the rendered canvas to a file.
type Save struct {
	Path string
}

// Info prints a summary of the canvas.
type Info struct{}

// Show prints the canvas.
type Show struct{}

// Quit ends the session.
type Quit struct{}

func (Line) Verb() string      { return "LINE" }
func (Rectangle) Verb() string { return "RECT" }
func (Circle) Verb() string    { return "CIRC" }
func (Resize) Verb() string    { return "CANV" }
func (SetPen) Verb() string    { return "CHAR" }
func (Read) Verb() string      { return "READ" }
func (Save) Verb() string      { return "SAVE" }
func (Info) Verb() string      { return "INFO" }
func (Show) Verb() string      { return "SHOW" }
func (Quit) Verb() string      { return "QUIT" }

// String methods return the canonical text of a command; Parse of
// that text yields an equal value.

func (c Line) String() string {
	return fmt.Sprintf("LINE %d %d %d %d", c.From.X, c.From.Y, c.To.X, c.To.Y)
}

func (c Rectangle) String() string {
	return fmt.Sprintf("RECT %d %d %d %d", c.P1.X, c.P1.Y, c.P2.X, c.P2.Y)
}

func (c Circle) String() string {
	return fmt.Sprintf("CIRC %d %d %d", c.Center.X, c.Center.Y, c.Radius)
}

func (c Resize) String() string {
	return fmt.Sprintf("CANV %d %d", c.Width, c.Height)
}

func (c SetPen) String() string { return "CHAR " + string(c.Char) }
func (c Read) String() string   { return "READ " + c.Path }
func (c Save) String() string   { return "SAVE " + c.Path }
func (Info) String() string     { return "INFO" }
func (Show) String() string     { return "SHOW" }
func (Quit) String() string     { return "QUIT" }
