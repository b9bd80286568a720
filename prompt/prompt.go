// Package prompt implements logger.Prompter for interactive terminals
// and for plain line-oriented input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	goprompt "github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/mordilloSan/logengine/logger"
)

var (
	_ logger.Prompter = Terminal{}
	_ logger.Prompter = (*Line)(nil)
)

// New returns a Terminal prompter when stdin is a terminal and a Line
// prompter over stdin/stdout otherwise.
func New() logger.Prompter {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return Terminal{}
	}
	return NewLine(os.Stdin, os.Stdout)
}

// Terminal asks through go-prompt, with line editing and history but no
// completion.
type Terminal struct{}

func noSuggestions(goprompt.Document) []goprompt.Suggest {
	return nil
}

// Ask shows question as the prompt prefix and returns the entered text.
func (Terminal) Ask(question string) (string, error) {
	return goprompt.Input(question, noSuggestions), nil
}

// Line writes the question to w and reads one line from r.
type Line struct {
	mu sync.Mutex
	r  *bufio.Reader
	w  io.Writer
}

// NewLine returns a Line prompter. w may be nil to suppress the question.
func NewLine(r io.Reader, w io.Writer) *Line {
	return &Line{r: bufio.NewReader(r), w: w}
}

// Ask returns the next line without its line ending. A final line with
// no newline is returned as is; reading past the end returns io.EOF.
func (l *Line) Ask(question string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.w != nil {
		if _, err := fmt.Fprint(l.w, question); err != nil {
			return "", errors.Wrap(err, "prompt: write question")
		}
	}
	answer, err := l.r.ReadString('\n')
	if err != nil && !(err == io.EOF && answer != "") {
		if err == io.EOF {
			return "", err
		}
		return "", errors.Wrap(err, "prompt: read answer")
	}
	return strings.TrimRight(answer, "\r\n"), nil
}
