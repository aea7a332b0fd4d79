package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/astba/console/internal/client"
)

type LoginCmd struct {
	connectFlags
	Email    string `arg:"" help:"Account email"`
	Password string `help:"Account password (prompted when omitted)" env:"ASTBA_PASSWORD"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := l.service()
	if err != nil {
		return err
	}

	password := l.Password
	if password == "" {
		password, err = promptPassword(os.Stdin)
		if err != nil {
			return err
		}
	}

	if err := svc.Login(ctx, l.Email, password); err != nil {
		if isCredentialRejection(err) {
			// Deliberately generic: do not distinguish unknown user from
			// bad password.
			return errors.New("email ou mot de passe incorrect")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	profile := svc.Profile()
	fmt.Printf("Logged in as %s (%s)\n", profile.Email, profile.Role)
	fmt.Printf("Landing page: %s\n", svc.DefaultRoute())
	return nil
}

// promptPassword reads the password without echoing it when stdin is a
// terminal. Piped input falls back to a plain line read.
func promptPassword(in *os.File) (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")

	if term.IsTerminal(int(in.Fd())) {
		raw, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func isCredentialRejection(err error) bool {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized ||
		apiErr.Status == http.StatusBadRequest ||
		apiErr.Status == http.StatusForbidden
}
