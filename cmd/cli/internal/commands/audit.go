package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// AuditCmd browses the audit trail, an admin-only page.
type AuditCmd struct {
	List AuditListCmd `cmd:"" help:"List audit entries"`
}

type AuditListCmd struct {
	connectFlags
	Limit int `help:"Maximum entries to show" default:"50"`
}

func (c *AuditListCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := adminService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	logs, err := svc.Client().ListAuditLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list audit entries: %w", err)
	}

	if len(logs) == 0 {
		fmt.Println("No audit entries.")
		return nil
	}
	if c.Limit > 0 && len(logs) > c.Limit {
		logs = logs[:c.Limit]
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTOR\tACTION\tENTITY\tDETAILS")
	for _, entry := range logs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\n",
			entry.CreatedAt.Format(time.RFC3339), entry.ActorEmail, entry.Action,
			entry.EntityType, entry.EntityID, entry.Details)
	}
	tw.Flush()
	return nil
}
