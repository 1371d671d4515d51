package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/idelchi/fcrypt/internal/config"
)

var (
	// ErrNoPassword is returned when no password source is available.
	ErrNoPassword = errors.New("no password given: use --password, --password-file or run in a terminal")
	// ErrEmptyPassword is returned for a blank password.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordMismatch is returned when the confirmation differs.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// promptFunc asks for a secret, rejecting input validate refuses.
type promptFunc func(label string, validate promptui.ValidateFunc) (string, error)

// passwordSource resolves the password from, in order, the flag or its
// environment variable, the password file and an interactive prompt.
type passwordSource struct {
	fs          afero.Fs
	interactive bool
	prompt      promptFunc
}

func resolvePassword(cfg *config.Config, confirm bool) (string, error) {
	source := passwordSource{
		fs:          afero.NewOsFs(),
		interactive: term.IsTerminal(int(os.Stdin.Fd())), //nolint:gosec // fd fits in int
		prompt:      promptMasked,
	}

	return source.resolve(cfg, confirm)
}

func (s passwordSource) resolve(cfg *config.Config, confirm bool) (string, error) {
	switch {
	case cfg.Dry:
		return "", nil
	case cfg.Password != "":
		return cfg.Password, nil
	case cfg.PasswordFile != "":
		return s.fromFile(cfg.PasswordFile)
	case s.interactive:
		return s.ask(confirm)
	default:
		return "", ErrNoPassword
	}
}

func (s passwordSource) fromFile(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", fmt.Errorf("reading password file: %w", err)
	}

	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimSuffix(line, "\r")

	if line == "" {
		return "", fmt.Errorf("password file %q: %w", path, ErrEmptyPassword)
	}

	return line, nil
}

func (s passwordSource) ask(confirm bool) (string, error) {
	password, err := s.prompt("Password", func(input string) error {
		if input == "" {
			return ErrEmptyPassword
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if !confirm {
		return password, nil
	}

	if _, err := s.prompt("Confirm password", func(input string) error {
		if input != password {
			return ErrPasswordMismatch
		}

		return nil
	}); err != nil {
		return "", fmt.Errorf("confirming password: %w", err)
	}

	return password, nil
}

func promptMasked(label string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:       label,
		Mask:        '*',
		HideEntered: true,
		Validate:    validate,
	}

	return prompt.Run() //nolint:wrapcheck
}
