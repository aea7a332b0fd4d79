package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/astba/console/internal/client"
)

// JobsCmd reviews hiring applications, an admin-only workflow.
type JobsCmd struct {
	Filter  JobsFilterCmd  `cmd:"" help:"List scored candidates"`
	Approve JobsApproveCmd `cmd:"" help:"Approve a candidate"`
	Reject  JobsRejectCmd  `cmd:"" help:"Reject a candidate"`
}

type JobsFilterCmd struct {
	connectFlags
	Role        string  `help:"Filter by applied role"`
	AdminChoice string  `help:"Filter by prior admin decision"`
	MinScore    float64 `help:"Minimum match score" default:"-1"`
}

func (c *JobsFilterCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := adminService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	filter := client.JobApplicationFilter{
		Role:        c.Role,
		AdminChoice: c.AdminChoice,
	}
	if c.MinScore >= 0 {
		filter.MinScore = &c.MinScore
	}

	matches, err := svc.Client().FilterJobApplications(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to filter applications: %w", err)
	}

	if len(matches) == 0 {
		fmt.Println("No candidates found.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tSCORE\tMATCHED\tSTATUS")
	for _, m := range matches {
		matched := "no"
		if m.Matched {
			matched = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t%.1f\t%s\t%s\n",
			m.ID, m.Email, m.FirstName, m.LastName, m.Role, m.Score, matched, m.Status)
	}
	tw.Flush()
	return nil
}

type JobsApproveCmd struct {
	connectFlags
	ID int64 `arg:"" help:"Application id"`
}

func (c *JobsApproveCmd) Run(ctx context.Context, globals *Globals) error {
	return runDecision(ctx, &c.connectFlags, c.ID, "approved", (*client.Client).ApproveJobApplication)
}

type JobsRejectCmd struct {
	connectFlags
	ID int64 `arg:"" help:"Application id"`
}

func (c *JobsRejectCmd) Run(ctx context.Context, globals *Globals) error {
	return runDecision(ctx, &c.connectFlags, c.ID, "rejected", (*client.Client).RejectJobApplication)
}

func runDecision(
	ctx context.Context,
	flags *connectFlags,
	id int64,
	verb string,
	decide func(*client.Client, context.Context, int64) (*client.JobApplicationDecision, error),
) error {
	svc, err := adminService(ctx, flags)
	if err != nil {
		return err
	}

	decision, err := decide(svc.Client(), ctx, id)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}

	fmt.Printf("Application %d %s.\n", id, verb)
	if decision.User != nil {
		fmt.Printf("Candidate: %s (%s)\n", decision.User.Email, decision.User.Role)
	}
	switch {
	case decision.EmailSent:
		fmt.Println("Candidate notified by email.")
	case decision.EmailError != "":
		fmt.Printf("Email delivery failed: %s\n", decision.EmailError)
	}
	if decision.Message != "" {
		fmt.Println(decision.Message)
	}
	return nil
}
