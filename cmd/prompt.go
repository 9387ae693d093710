package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func promptLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return "", err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when stdin is a terminal and falls back
// to a plain line read otherwise (pipes, tests).
func promptPassword(in io.Reader, out io.Writer, prompt string) (string, error) {
	stdin, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(stdin.Fd())) {
		return promptLine(in, out, prompt)
	}

	if _, err := fmt.Fprint(out, prompt); err != nil {
		return "", err
	}
	password, err := readPassword(int(stdin.Fd()))
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	answer, err := promptLine(in, out, prompt+" [y/N] ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
