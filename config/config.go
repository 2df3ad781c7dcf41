// Package config holds the settings of a drawing session.
//
// Values are layered: built-in defaults, then a .env file and the
// ASCIIDRAW_* environment variables, then command line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variable names.
const (
	EnvWidth     = "ASCIIDRAW_WIDTH"
	EnvHeight    = "ASCIIDRAW_HEIGHT"
	EnvPen       = "ASCIIDRAW_PEN"
	EnvPrompt    = "ASCIIDRAW_PROMPT"
	EnvMaxDim    = "ASCIIDRAW_MAX_DIMENSION"
	EnvReadDepth = "ASCIIDRAW_READ_DEPTH"
	EnvLogLevel  = "ASCIIDRAW_LOG_LEVEL"
	EnvListen    = "ASCIIDRAW_LISTEN"
)

// Config is the session configuration.
type Config struct {
	Width, Height int    // initial canvas size
	Pen           string // initial pen, one character
	Prompt        string // printed before each input line; empty disables
	MaxDimension  int    // largest accepted canvas side; 0 is unlimited
	ReadDepth     int    // maximum nesting of READ
	LogLevel      string // logrus level name
	Listen        string // 9P listen address; empty disables
	Quiet         bool   // suppress the startup banner
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:        20,
		Height:       10,
		Pen:          "*",
		Prompt:       "> ",
		MaxDimension: 4096,
		ReadDepth:    8,
		LogLevel:     "warn",
	}
}

// Load returns Default overridden by the environment. The named env
// files (".env" if none) are loaded first; missing files are ignored
// and variables already set in the process environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	c := Default()
	if err := c.FromEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return c, nil
}

// FromEnv overrides c with the variables found by lookup.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{EnvWidth, &c.Width},
		{EnvHeight, &c.Height},
		{EnvMaxDim, &c.MaxDimension},
		{EnvReadDepth, &c.ReadDepth},
	}
	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", e.name, err)
		}
		*e.dst = n
	}
	strs := []struct {
		name string
		dst  *string
	}{
		{EnvPen, &c.Pen},
		{EnvLogLevel, &c.LogLevel},
		{EnvListen, &c.Listen},
	}
	for _, e := range strs {
		if v, ok := lookup(e.name); ok && v != "" {
			*e.dst = v
		}
	}
	// An empty prompt is meaningful, so presence alone counts.
	if v, ok := lookup(EnvPrompt); ok {
		c.Prompt = v
	}
	return nil
}

// RegisterFlags binds the configuration to fs, using the current
// values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "initial canvas `width`")
	fs.IntVar(&c.Height, "h", c.Height, "initial canvas `height`")
	fs.StringVar(&c.Pen, "pen", c.Pen, "initial pen `character`")
	fs.StringVar(&c.Prompt, "prompt", c.Prompt, "input prompt (empty for none)")
	fs.IntVar(&c.MaxDimension, "max", c.MaxDimension, "largest canvas side (0 for unlimited)")
	fs.IntVar(&c.ReadDepth, "depth", c.ReadDepth, "maximum READ nesting")
	fs.StringVar(&c.LogLevel, "log", c.LogLevel, "log `level` (debug, info, warn, error)")
	fs.StringVar(&c.Listen, "a", c.Listen, "serve the session over 9P at `addr` (tcp host:port or unix!path)")
	fs.BoolVar(&c.Quiet, "q", c.Quiet, "do not print the banner")
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("config: canvas size %dx%d must be positive", c.Width, c.Height)
	case c.MaxDimension < 0:
		return fmt.Errorf("config: max dimension %d is negative", c.MaxDimension)
	case c.MaxDimension > 0 && (c.Width > c.MaxDimension || c.Height > c.MaxDimension):
		return fmt.Errorf("config: canvas size %dx%d exceeds %d", c.Width, c.Height, c.MaxDimension)
	case utf8.RuneCountInString(c.Pen) != 1:
		return fmt.Errorf("config: pen %q must be a single character", c.Pen)
	case c.ReadDepth < 0:
		return fmt.Errorf("config: read depth %d is negative", c.ReadDepth)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// PenRune returns the pen as a rune.
func (c Config) PenRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Pen)
	return r
}

// Level returns the parsed log level.
func (c Config) Level() (logrus.Level, error) {
	l, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("config: %w", err)
	}
	return l, nil
}
