package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/astba/console/internal/auth"
	"github.com/astba/console/internal/client"
	"github.com/astba/console/internal/rbac"
)

// UsersCmd manages staff accounts. Account management is an admin page.
type UsersCmd struct {
	List    UsersListCmd    `cmd:"" help:"List accounts"`
	Me      UsersMeCmd      `cmd:"" help:"Show the account behind the current session"`
	Pending UsersPendingCmd `cmd:"" help:"List accounts awaiting a decision"`
	Status  UsersStatusCmd  `cmd:"" help:"List account decision statuses"`
	Create  UsersCreateCmd  `cmd:"" help:"Create a staff account"`
	Update  UsersUpdateCmd  `cmd:"" help:"Update a staff account"`
	Delete  UsersDeleteCmd  `cmd:"" help:"Delete a staff account"`
}

func adminService(ctx context.Context, f *connectFlags) (*auth.Service, error) {
	svc, err := f.service()
	if err != nil {
		return nil, err
	}
	if err := svc.Bootstrap(ctx); err != nil {
		log.Debug().Err(err).Msg("proactive refresh failed")
	}
	if err := requireRoles(svc, rbac.RoleAdmin); err != nil {
		return nil, err
	}
	return svc, nil
}

func printUsers(users []client.User) {
	if len(users) == 0 {
		fmt.Println("No accounts found.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tROLE\tNAME\tSTATUS")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%s\n", u.ID, u.Email, u.Role, u.FirstName, u.LastName, u.Status)
	}
	tw.Flush()
}

type UsersListCmd struct {
	connectFlags
	Role string `help:"Filter by role"`
}

func (c *UsersListCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := adminService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	users, err := svc.Client().ListUsers(ctx, c.Role)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	printUsers(users)
	return nil
}

type UsersMeCmd struct {
	connectFlags
}

func (c *UsersMeCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := c.service()
	if err != nil {
		return err
	}
	if err := svc.Bootstrap(ctx); err != nil {
		log.Debug().Err(err).Msg("proactive refresh failed")
	}
	if err := requireRoles(svc); err != nil {
		return err
	}

	me, err := svc.Client().Me(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch account: %w", err)
	}

	printUsers([]client.User{*me})
	return nil
}

type UsersPendingCmd struct {
	connectFlags
}

func (c *UsersPendingCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := adminService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	users, err := svc.Client().PendingUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending accounts: %w", err)
	}

	printUsers(users)
	return nil
}

type UsersStatusCmd struct {
	connectFlags
}

func (c *UsersStatusCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := adminService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	users, err := svc.Client().UserStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list account statuses: %w", err)
	}

	printUsers(users)
	return nil
}

type UsersCreateCmd struct {
	connectFlags
	Email     string `arg:"" help:"Account email"`
	Role      string `help:"Account role" default:"FORMATEUR"`
	FirstName string `help:"First name"`
	LastName  string `help:"Last name"`
	NoEmail   bool   `help:"Do not mail the generated password"`
}

func (c *UsersCreateCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := adminService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	resp, err := svc.Client().CreateUser(ctx, client.CreateUserRequest{
		Email:            c.Email,
		Role:             c.Role,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		GeneratePassword: true,
		SendEmail:        !c.NoEmail,
	})
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Printf("Account created: %s (%s)\n", c.Email, c.Role)
	printMutationOutcome(resp)
	return nil
}

func printMutationOutcome(resp *client.UserMutationResponse) {
	if resp.EmailSent {
		fmt.Println("Credentials sent by email.")
		return
	}
	if resp.EmailError != "" {
		fmt.Printf("Email delivery failed: %s\n", resp.EmailError)
	}
	if resp.TemporaryPassword != "" {
		fmt.Printf("Temporary password: %s\n", resp.TemporaryPassword)
	}
}

type UsersUpdateCmd struct {
	connectFlags
	ID        int64  `arg:"" help:"Account id"`
	Email     string `help:"New email"`
	Role      string `help:"New role"`
	FirstName string `help:"New first name"`
	LastName  string `help:"New last name"`
	Status    string `help:"New status"`
}

func (c *UsersUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := adminService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	resp, err := svc.Client().UpdateUser(ctx, c.ID, client.UpdateUserRequest{
		Email:     c.Email,
		Role:      c.Role,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Status:    c.Status,
	})
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	fmt.Printf("Account %d updated.\n", c.ID)
	printMutationOutcome(resp)
	return nil
}

type UsersDeleteCmd struct {
	connectFlags
	ID int64 `arg:"" help:"Account id"`
}

func (c *UsersDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := adminService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	if err := svc.Client().DeleteUser(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	fmt.Printf("Account %d deleted.\n", c.ID)
	return nil
}
