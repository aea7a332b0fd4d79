package commands

import (
	"context"
	"fmt"
)

type LogoutCmd struct {
	connectFlags
}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := l.service()
	if err != nil {
		return err
	}

	if !svc.IsAuthenticated() {
		fmt.Println("No active session.")
		return nil
	}

	// Server notification is best-effort; the local session is cleared
	// regardless.
	if err := svc.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	fmt.Println("Logged out.")
	return nil
}
