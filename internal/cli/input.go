package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInputClosed is returned once stdin reaches EOF.
var ErrInputClosed = errors.New("input closed")

// Prompter reads trimmed lines and validated numbers from an interactive
// input stream.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// ReadLine returns the next line without surrounding whitespace. Lines have
// no length limit; a final line without a newline is still returned.
func (p *Prompter) ReadLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			return "", ErrInputClosed
		}
	} else if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ReadNumber prints prompt and keeps reading until a number within
// [min, max] is entered.
func (p *Prompter) ReadNumber(prompt string, min, max uint32) (uint32, error) {
	fmt.Fprintln(p.out, prompt)
	for {
		input, err := p.ReadLine()
		if err != nil {
			return 0, err
		}
		ok, err := ValidateChoice(input, min, max)
		switch {
		case err != nil:
			fmt.Fprintln(p.out, "Please enter a valid input.")
		case !ok:
			fmt.Fprintln(p.out, "Choice is out of range.")
		default:
			n, _ := strconv.ParseUint(input, 10, 32)
			return uint32(n), nil
		}
	}
}

// ValidateChoice reports whether input is an unsigned number inside
// [min, max]. Non-numeric input returns the parse error.
func ValidateChoice(input string, min, max uint32) (bool, error) {
	n, err := strconv.ParseUint(input, 10, 32)
	if err != nil {
		return false, err
	}
	return uint32(n) >= min && uint32(n) <= max, nil
}
