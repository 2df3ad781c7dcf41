package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/elizafairlady/asciidraw/canvas"
)

// Parse error kinds. A *ParseError unwraps to exactly one of them.
var (
	ErrEmptyInput      = errors.New("empty input")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ParseError describes why a line did not parse.
type ParseError struct {
	Kind   error  // ErrEmptyInput, ErrUnknownCommand or ErrInvalidArgument
	Verb   string // upper-cased verb, if any
	Arg    string // offending argument, for ErrInvalidArgument
	Reason string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Verb != "" {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(e.Verb))
	}
	if e.Arg != "" {
		fmt.Fprintf(&b, ": %q", e.Arg)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// verb describes one entry of the grammar.
type verb struct {
	name  string // canonical spelling
	nargs int
	build func(args []string) (Command, error)
}

var verbs = []verb{
	{"LINE", 4, parseLine},
	{"RECT", 4, parseRect},
	{"CIRC", 3, parseCirc},
	{"CANV", 2, parseCanv},
	{"CHAR", 1, parseChar},
	{"READ", 1, func(a []string) (Command, error) { return Read{Path: a[0]}, nil }},
	{"SAVE", 1, func(a []string) (Command, error) { return Save{Path: a[0]}, nil }},
	{"INFO", 0, func([]string) (Command, error) { return Info{}, nil }},
	{"SHOW", 0, func([]string) (Command, error) { return Show{}, nil }},
	{"QUIT", 0, func([]string) (Command, error) { return Quit{}, nil }},
}

// aliases maps long spellings to their canonical verb.
var aliases = map[string]string{
	"RECTANGLE": "RECT",
	"CIRCLE":    "CIRC",
	"CANVAS":    "CANV",
}

// Tokenize splits a line on runs of whitespace and upper-cases the
// first token. The remaining tokens are returned verbatim.
func Tokenize(line string) []string {
	tokens := strings.Fields(line)
	if len(tokens) > 0 {
		tokens[0] = cases.Upper(language.Und).String(tokens[0])
	}
	return tokens
}

func lookup(name string) *verb {
	if canon, ok := aliases[name]; ok {
		name = canon
	}
	for i := range verbs {
		if verbs[i].name == name {
			return &verbs[i]
		}
	}
	return nil
}

// Parse converts one line of input into a Command.
// It has no side effects and consults no global state.
func Parse(line string) (Command, error) {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return nil, &ParseError{Kind: ErrEmptyInput}
	}
	name, args := tokens[0], tokens[1:]
	v := lookup(name)
	if v == nil {
		return nil, &ParseError{Kind: ErrUnknownCommand, Verb: name}
	}
	if len(args) != v.nargs {
		return nil, &ParseError{
			Kind:   ErrUnknownCommand,
			Verb:   name,
			Reason: fmt.Sprintf("takes %d arguments, got %d", v.nargs, len(args)),
		}
	}
	cmd, err := v.build(args)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Verb = name
		}
		return nil, err
	}
	return cmd, nil
}

// number parses an unsigned decimal that fits in a non-negative int.
func number(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
	if err != nil {
		reason := "not a non-negative integer"
		if errors.Is(err, strconv.ErrRange) {
			reason = "out of range"
		}
		return 0, &ParseError{Kind: ErrInvalidArgument, Arg: s, Reason: reason}
	}
	return int(n), nil
}

func numbers(args []string) ([]int, error) {
	ns := make([]int, len(args))
	for i, a := range args {
		n, err := number(a)
		if err != nil {
			return nil, err
		}
		ns[i] = n
	}
	return ns, nil
}

func parseLine(args []string) (Command, error) {
	n, err := numbers(args)
	if err != nil {
		return nil, err
	}
	return Line{From: canvas.Pt(n[0], n[1]), To: canvas.Pt(n[2], n[3])}, nil
}

func parseRect(args []string) (Command, error) {
	n, err := numbers(args)
	if err != nil {
		return nil, err
	}
	return Rectangle{P1: canvas.Pt(n[0], n[1]), P2: canvas.Pt(n[2], n[3])}, nil
}

func parseCirc(args []string) (Command, error) {
	n, err := numbers(args)
	if err != nil {
		return nil, err
	}
	return Circle{Center: canvas.Pt(n[0], n[1]), Radius: n[2]}, nil
}

func parseCanv(args []string) (Command, error) {
	n, err := numbers(args)
	if err != nil {
		return nil, err
	}
	return Resize{Width: n[0], Height: n[1]}, nil
}

func parseChar(args []string) (Command, error) {
	s := args[0]
	if utf8.RuneCountInString(s) != 1 {
		return nil, &ParseError{Kind: ErrInvalidArgument, Arg: s, Reason: "pen must be a single character"}
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return nil, &ParseError{Kind: ErrInvalidArgument, Arg: s, Reason: "invalid UTF-8"}
	}
	return SetPen{Char: r}, nil
}
