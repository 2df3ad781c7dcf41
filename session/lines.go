package session

import (
	"bufio"
	"fmt"
	"io"

	"github.com/elizafairlady/asciidraw/command"
)

// MaxLineLength is the longest command line accepted, in bytes.
const MaxLineLength = 64 * 1024

// lineReader splits input into lines. Unlike bufio.Scanner it survives
// an overlong line: the line is consumed and reported as a
// *command.ParseError, and reading continues with the next one.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// next returns the next line without its line ending. At end of input
// it returns io.EOF.
func (lr *lineReader) next() (string, error) {
	var (
		line []byte
		long bool
	)
	for {
		frag, more, err := lr.r.ReadLine()
		if err != nil {
			return "", err
		}
		if !long && len(line)+len(frag) > MaxLineLength {
			long, line = true, nil
		}
		if !long {
			line = append(line, frag...)
		}
		if !more {
			break
		}
	}
	if long {
		return "", &command.ParseError{
			Kind:   command.ErrInvalidArgument,
			Reason: fmt.Sprintf("line longer than %d bytes", MaxLineLength),
		}
	}
	return string(line), nil
}
