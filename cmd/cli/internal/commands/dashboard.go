package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/astba/console/internal/client"
	"github.com/astba/console/internal/rbac"
)

// DashboardCmd derives console statistics client-side from fetched
// collections, the way the web dashboard aggregates its stat cards.
type DashboardCmd struct {
	connectFlags
}

func (c *DashboardCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := staffService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	messages, err := svc.Client().ListMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch messages: %w", err)
	}
	userID, _ := strconv.ParseInt(svc.Profile().ID, 10, 64)

	fmt.Printf("Signed in as %s (%s)\n\n", svc.CurrentUser(), svc.UserRole())
	fmt.Printf("Unread messages: %d\n", client.UnreadCount(messages, userID))

	// Directory and hiring stats come from admin endpoints.
	if svc.UserRole() != rbac.RoleAdmin {
		return nil
	}

	users, err := svc.Client().ListUsers(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	stats := summarizeUsers(users)

	fmt.Printf("Accounts: %d (%d pending, %.0f%% active)\n\n", stats.Total, stats.Pending, stats.ActivePercent)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tCOUNT")
	for _, role := range sortedRoles(stats.ByRole) {
		fmt.Fprintf(tw, "%s\t%d\n", role, stats.ByRole[role])
	}
	tw.Flush()

	matches, err := svc.Client().FilterJobApplications(ctx, client.JobApplicationFilter{})
	if err != nil {
		// Hiring stats are optional decoration on the dashboard.
		log.Debug().Err(err).Msg("skipping hiring stats")
		return nil
	}
	if len(matches) > 0 {
		fmt.Printf("\nHiring: %d candidates, %.0f%% matched\n", len(matches), matchRate(matches))
	}
	return nil
}

type userStats struct {
	Total         int
	Pending       int
	ByRole        map[string]int
	ActivePercent float64
}

// summarizeUsers aggregates directory counts and percentages.
func summarizeUsers(users []client.User) userStats {
	stats := userStats{ByRole: make(map[string]int)}
	active := 0
	for _, u := range users {
		stats.Total++
		stats.ByRole[u.Role]++
		switch u.Status {
		case "PENDING":
			stats.Pending++
		case "ACTIVE", "":
			active++
		}
	}
	if stats.Total > 0 {
		stats.ActivePercent = float64(active) / float64(stats.Total) * 100
	}
	return stats
}

// matchRate is the percentage of candidates the scorer marked as matched.
func matchRate(matches []client.JobApplicationMatch) float64 {
	if len(matches) == 0 {
		return 0
	}
	matched := 0
	for _, m := range matches {
		if m.Matched {
			matched++
		}
	}
	return float64(matched) / float64(len(matches)) * 100
}

func sortedRoles(byRole map[string]int) []string {
	roles := make([]string, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}
