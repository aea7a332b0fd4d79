package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
)

type WhoamiCmd struct {
	connectFlags
}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := w.service()
	if err != nil {
		return err
	}

	if err := svc.Bootstrap(ctx); err != nil {
		log.Debug().Err(err).Msg("proactive refresh failed")
	}
	if err := requireRoles(svc); err != nil {
		return err
	}

	profile := svc.Profile()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Email:\t%s\n", profile.Email)
	fmt.Fprintf(tw, "Name:\t%s %s\n", profile.FirstName, profile.LastName)
	fmt.Fprintf(tw, "Role:\t%s\n", profile.Role)
	fmt.Fprintf(tw, "Landing page:\t%s\n", svc.DefaultRoute())
	tw.Flush()

	perms := svc.Permissions()
	if len(perms) == 0 {
		fmt.Println("Permissions: (none)")
		return nil
	}
	fmt.Println("Permissions:")
	for _, p := range perms {
		fmt.Printf("  %s\n", p)
	}
	return nil
}
