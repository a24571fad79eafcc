package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var errNotInteractive = errors.New("a password is required; pass --password when running non-interactively")

// terminalPassword reads a password from the controlling terminal without
// echoing it.
func terminalPassword(prompt io.Writer) func(string) (string, error) {
	return func(text string) (string, error) {
		fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
		if !term.IsTerminal(fd) {
			return "", errNotInteractive
		}
		_, _ = fmt.Fprint(prompt, text)
		password, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(password), nil
	}
}

// promptPassword asks until a non-empty password is entered.
func (rt *runtimeState) promptPassword() (string, error) {
	if rt.nonInteractive {
		return "", errNotInteractive
	}
	read := rt.readPassword
	if read == nil {
		read = terminalPassword(rt.ErrWriter())
	}
	for {
		password, err := read("Please enter the SMTP server password: ")
		if err != nil {
			return "", err
		}
		if password != "" {
			return password, nil
		}
	}
}
