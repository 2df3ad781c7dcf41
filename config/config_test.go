package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 20, c.Width)
	assert.Equal(t, 10, c.Height)
	assert.Equal(t, '*', c.PenRune())
	assert.Equal(t, "> ", c.Prompt)
}

func TestFromEnv(t *testing.T) {
	c := Default()
	err := c.FromEnv(lookupMap(map[string]string{
		EnvWidth:    "40",
		EnvHeight:   "12",
		EnvPen:      "#",
		EnvPrompt:   "",
		EnvLogLevel: "debug",
		EnvListen:   "localhost:5640",
	}))
	require.NoError(t, err)
	assert.Equal(t, 40, c.Width)
	assert.Equal(t, 12, c.Height)
	assert.Equal(t, "#", c.Pen)
	assert.Equal(t, "", c.Prompt)
	assert.Equal(t, "localhost:5640", c.Listen)

	l, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l)
}

func TestFromEnvBadNumber(t *testing.T) {
	c := Default()
	err := c.FromEnv(lookupMap(map[string]string{EnvWidth: "wide"}))
	assert.ErrorContains(t, err, EnvWidth)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draw.env")
	require.NoError(t, os.WriteFile(path, []byte("ASCIIDRAW_WIDTH=33\nASCIIDRAW_PEN=o\n"), 0o644))

	// godotenv does not override variables that are already set.
	t.Setenv(EnvPen, "x")
	t.Setenv(EnvWidth, "")
	os.Unsetenv(EnvWidth)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 33, c.Width)
	assert.Equal(t, "x", c.Pen)
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, Default().Height, c.Height)
}

func TestRegisterFlags(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-w", "5", "-h", "6", "-pen", "@", "-q", "-a", "unix!/tmp/draw"}))
	assert.Equal(t, 5, c.Width)
	assert.Equal(t, 6, c.Height)
	assert.Equal(t, '@', c.PenRune())
	assert.True(t, c.Quiet)
	assert.Equal(t, "unix!/tmp/draw", c.Listen)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero height", func(c *Config) { c.Height = 0 }},
		{"too wide", func(c *Config) { c.MaxDimension = 10; c.Width = 11 }},
		{"negative max", func(c *Config) { c.MaxDimension = -1 }},
		{"long pen", func(c *Config) { c.Pen = "ab" }},
		{"empty pen", func(c *Config) { c.Pen = "" }},
		{"negative depth", func(c *Config) { c.ReadDepth = -1 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range tests {
		c := Default()
		tc.mod(&c)
		assert.Error(t, c.Validate(), tc.name)
	}
}
