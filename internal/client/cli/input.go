package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword reads from the terminal without echo. Tests replace it.
var readPassword = term.ReadPassword

// prompter asks the questions of interactive commands. Answers come from r
// and prompts go to w.
type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func (a *App) ask() prompter {
	return prompter{r: a.reader, w: a.out}
}

// line asks for a single trimmed answer. A last line without a newline is
// still an answer; EOF before any input is returned as io.EOF.
func (p prompter) line(label string) (string, error) {
	if _, err := fmt.Fprintf(p.w, "%s: ", label); err != nil {
		return "", err
	}
	s, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// field asks for a new value of an editor field and shows the current one.
// An empty answer keeps current.
func (p prompter) field(label, current string) (string, error) {
	if current != "" {
		label = fmt.Sprintf("%s [%s]", label, current)
	}
	v, err := p.line(label)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// text reads a body of several lines, ended by an empty line or EOF.
func (p prompter) text(label string) (string, error) {
	if _, err := fmt.Fprintf(p.w, "%s (empty line to finish):\n", label); err != nil {
		return "", err
	}

	var b strings.Builder
	for {
		s, err := p.r.ReadString('\n')
		s = strings.TrimRight(s, "\r\n")
		if s != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(s)
		}
		if s == "" || err != nil {
			if err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			break
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// password reads a secret without echo. The caller wipes it after use.
func (p prompter) password() ([]byte, error) {
	if _, err := fmt.Fprint(p.w, "Password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

func wipe(b []byte) {
	clear(b)
}
