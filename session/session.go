// Package session executes drawing commands against a canvas.
//
// A Session owns the current grid and pen. Commands are applied one at
// a time and completely: a command that fails to parse or to execute
// leaves the grid and pen as they were. Run drives a session from a
// line-oriented input stream, the way the interactive console does.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/elizafairlady/asciidraw/canvas"
	"github.com/elizafairlady/asciidraw/command"
	"github.com/elizafairlady/asciidraw/config"
	"github.com/elizafairlady/asciidraw/export"
	"github.com/elizafairlady/asciidraw/raster"
)

var (
	// ErrReadDepth is returned when READ files nest too deeply.
	ErrReadDepth = errors.New("READ nested too deeply")

	// ErrQuitRefused is returned for QUIT run through ExecuteDetached.
	ErrQuitRefused = errors.New("QUIT not allowed outside the console")
)

// Session is the state of one drawing session.
// Its methods are safe for concurrent use; commands are serialized.
type Session struct {
	mu      sync.Mutex
	grid    *canvas.Grid
	pen     rune
	history []command.Command
	depth    int  // current READ nesting
	detached bool // QUIT is refused

	maxDim    int
	readDepth int
	prompt    string

	out *errWriter
	fs  FileSystem
	log *logrus.Entry
}

// Option configures a Session.
type Option func(*Session)

// WithFileSystem sets the storage for READ and SAVE.
func WithFileSystem(fs FileSystem) Option {
	return func(s *Session) { s.fs = fs }
}

// WithLogger sets the log entry used by the session.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Session) { s.log = l }
}

// New returns a session writing console output to out.
func New(cfg config.Config, out io.Writer, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := canvas.NewLimited(cfg.Width, cfg.Height, cfg.MaxDimension)
	if err != nil {
		return nil, err
	}
	s := &Session{
		grid:      g,
		pen:       cfg.PenRune(),
		maxDim:    cfg.MaxDimension,
		readDepth: cfg.ReadDepth,
		prompt:    cfg.Prompt,
		out:       &errWriter{w: out},
		fs:        OSFileSystem{},
		log:       logrus.WithField("component", "session"),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Pen returns the current pen character.
func (s *Session) Pen() rune {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pen
}

// Grid returns a copy of the current grid.
func (s *Session) Grid() *canvas.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone()
}

// Render returns the current grid as text.
func (s *Session) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Render()
}

// MaxDimension returns the largest canvas side allowed, or 0 for no
// limit.
func (s *Session) MaxDimension() int {
	return s.maxDim
}

// Info returns the one-line summary printed by INFO.
func (s *Session) Info() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info()
}

func (s *Session) info() string {
	return fmt.Sprintf("%s pen %q", s.grid.Info(), s.pen)
}

// History returns the drawing, CANV and CHAR commands applied so far,
// in order. Commands run from READ files are included; READ itself is
// not.
func (s *Session) History() []command.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]command.Command(nil), s.history...)
}

// Exec parses and executes one line. It reports whether the session
// should end.
func (s *Session) Exec(line string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec(line)
}

// Execute applies cmd. It reports whether the session should end.
func (s *Session) Execute(cmd command.Command) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execute(cmd)
}

// ExecuteDetached applies cmd for a caller other than the console.
// QUIT, given directly or met in a READ file, is refused with
// ErrQuitRefused and the session keeps running.
func (s *Session) ExecuteDetached(cmd command.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
	defer func() { s.detached = false }()
	_, err := s.execute(cmd)
	return err
}

func (s *Session) exec(line string) (bool, error) {
	cmd, err := command.Parse(line)
	if err != nil {
		s.log.WithError(err).WithField("line", strings.TrimSpace(line)).Info("rejected input")
		return false, err
	}
	return s.execute(cmd)
}

func (s *Session) execute(cmd command.Command) (bool, error) {
	log := s.log.WithField("verb", cmd.Verb())
	log.WithField("cmd", cmd.String()).Debug("execute")

	var (
		done bool
		err  error
	)
	switch c := cmd.(type) {
	case command.Line:
		n := raster.Line(s.grid, c.From, c.To, s.pen)
		log.WithField("cells", len(n)).Debug("painted")
	case command.Rectangle:
		n := raster.Rect(s.grid, c.P1, c.P2, s.pen)
		log.WithField("cells", len(n)).Debug("painted")
	case command.Circle:
		n := raster.Circle(s.grid, c.Center, c.Radius, s.pen)
		log.WithField("cells", len(n)).Debug("painted")
	case command.Resize:
		err = s.resize(c.Width, c.Height)
	case command.SetPen:
		s.pen = c.Char
	case command.Read:
		done, err = s.read(c.Path)
	case command.Save:
		err = s.save(c.Path)
	case command.Info:
		fmt.Fprintln(s.out, s.info())
	case command.Show:
		io.WriteString(s.out, s.grid.Render())
	case command.Quit:
		if s.detached {
			err = ErrQuitRefused
			break
		}
		fmt.Fprintln(s.out, "Quitting...")
		done = true
	default:
		err = fmt.Errorf("unsupported command %T", cmd)
	}
	if err != nil {
		log.WithError(err).Warn("command failed")
		return false, err
	}
	if mutates(cmd) {
		s.history = append(s.history, cmd)
	}
	return done, nil
}

// Load replaces the grid with the picture in text, as rendered by
// canvas.Grid.Render. The history is cleared, since the new grid was
// not built by commands.
func (s *Session) Load(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := canvas.ParseLimited(text, s.maxDim)
	if err != nil {
		return err
	}
	s.grid = g
	s.history = nil
	s.log.WithField("size", g.Info()).Info("loaded picture")
	return nil
}

// mutates reports whether cmd changes the grid or pen. Replaying the
// mutating commands of a session rebuilds its grid.
func mutates(cmd command.Command) bool {
	switch cmd.(type) {
	case command.Line, command.Rectangle, command.Circle, command.Resize, command.SetPen:
		return true
	}
	return false
}

// resize replaces the grid, or leaves it untouched on error.
func (s *Session) resize(w, h int) error {
	g, err := canvas.NewLimited(w, h, s.maxDim)
	if err != nil {
		return err
	}
	s.grid = g
	return nil
}

func (s *Session) save(path string) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".png") {
		var b bytes.Buffer
		if err := export.WritePNG(&b, s.grid); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		data = b.Bytes()
	} else {
		data = []byte(s.grid.Render())
	}
	if err := s.fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	s.log.WithField("path", path).WithField("bytes", len(data)).Info("saved")
	return nil
}

// read executes each line of the named file. Blank lines and lines
// starting with # are skipped. A rejected line is reported and the
// file goes on; an I/O failure stops it and is returned.
func (s *Session) read(path string) (bool, error) {
	if s.depth >= s.readDepth {
		return false, fmt.Errorf("read %s: %w", path, ErrReadDepth)
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	s.depth++
	defer func() { s.depth-- }()

	lines := newLineReader(bytes.NewReader(data))
	for n := 1; ; n++ {
		line, err := lines.next()
		if err == io.EOF {
			return false, nil
		}
		if err == nil {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			var done bool
			if done, err = s.exec(line); err == nil {
				if done {
					return true, nil
				}
				continue
			}
		}
		if !recoverable(err) {
			return false, err
		}
		s.log.WithField("path", path).WithField("line", n).WithError(err).Debug("read: line skipped")
		s.report(err)
	}
}

// recoverable reports whether err leaves the session usable: a
// rejected line, canvas size, READ nesting or QUIT. Anything else is
// an I/O failure and ends the session.
func recoverable(err error) bool {
	var pe *command.ParseError
	return errors.As(err, &pe) ||
		errors.Is(err, canvas.ErrInvalidDimension) ||
		errors.Is(err, ErrReadDepth) ||
		errors.Is(err, ErrQuitRefused)
}

// report prints an error the way the console shows it.
func (s *Session) report(err error) {
	var pe *command.ParseError
	if errors.As(err, &pe) {
		fmt.Fprintln(s.out, "Invalid command.")
		return
	}
	fmt.Fprintf(s.out, "error: %v\n", err)
}

// Banner prints the startup help text.
func (s *Session) Banner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.out, banner)
}

const banner = `asciidraw

Commands:
  LINE x1 y1 x2 y2     draw a line
  RECT x1 y1 x2 y2     draw a rectangle border
  CIRC x y r           draw a circle
  CHAR c               set the pen character
  CANV width height    start a new blank canvas
  READ file            run the commands in file
  SAVE file            write the canvas to file (.png for an image)
  INFO                 show canvas size and pen
  SHOW                 print the canvas
  QUIT                 exit

`

// Run reads commands from in until QUIT, end of input, or ctx is
// done. Rejected lines are reported on the console and skipped. I/O
// failures, whether reading in, writing the console, or in READ and
// SAVE, end the loop and are returned.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	lines := newLineReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.mu.Lock()
		io.WriteString(s.out, s.prompt)
		werr := s.out.err
		s.mu.Unlock()
		if werr != nil {
			return werr
		}

		var done bool
		line, err := lines.next()
		switch {
		case err == io.EOF:
			return nil
		case err == nil:
			done, err = s.Exec(line)
			if err != nil && !recoverable(err) {
				return err
			}
		case recoverable(err):
			s.log.WithError(err).Info("rejected input")
		default:
			return fmt.Errorf("console: %w", err)
		}

		s.mu.Lock()
		if err != nil {
			s.report(err)
		}
		werr = s.out.err
		s.mu.Unlock()
		if werr != nil {
			return werr
		}
		if done {
			return nil
		}
	}
}

// errWriter remembers the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = fmt.Errorf("console: %w", err)
	}
	return n, err
}
