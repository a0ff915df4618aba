// Package prompt reads interactive answers from a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"archive-scraper/internal/archive"
)

type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the trimmed answer line. A final line
// without a newline still counts as an answer.
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Period asks for the year and month that were not given and validates
// both.
func (p *Prompter) Period(year, month string) (archive.Period, error) {
	var err error
	if year == "" {
		if year, err = p.Ask("Enter the year (e.g., 2026): "); err != nil {
			return archive.Period{}, err
		}
	}
	if month == "" {
		if month, err = p.Ask("Enter the month (01-12): "); err != nil {
			return archive.Period{}, err
		}
	}
	return archive.ParsePeriod(year, month)
}

// WaitForEnter blocks until a line (or EOF) is read.
func (p *Prompter) WaitForEnter(message string) {
	fmt.Fprintln(p.out, message)
	_, _ = p.in.ReadString('\n')
}
