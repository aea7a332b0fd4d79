package commands

import (
	"context"
	"fmt"

	"github.com/astba/console/internal/client"
)

// ApplyCmd submits the public hiring form. No session is required.
type ApplyCmd struct {
	connectFlags
	Email     string `arg:"" help:"Contact email"`
	FirstName string `help:"First name" required:""`
	LastName  string `help:"Last name" required:""`
	Role      string `help:"Role applied for" default:"FORMATEUR"`
	Gender    string `help:"Gender"`
	BirthDate string `help:"Birth date (YYYY-MM-DD)"`
	Phone     string `help:"Phone number"`
	Address   string `help:"Postal address"`
	Career    string `help:"Career description"`
}

func (c *ApplyCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := c.service()
	if err != nil {
		return err
	}

	err = svc.Client().SubmitJobApplication(ctx, client.JobApplicationForm{
		Email:             c.Email,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Role:              c.Role,
		Gender:            c.Gender,
		BirthDate:         c.BirthDate,
		Phone:             c.Phone,
		Address:           c.Address,
		CareerDescription: c.Career,
	})
	if err != nil {
		return fmt.Errorf("failed to submit application: %w", err)
	}

	fmt.Println("Application submitted.")
	return nil
}

// SignupCmd submits the public student enrollment form. No session is
// required.
type SignupCmd struct {
	connectFlags
	Email     string `arg:"" help:"Contact email"`
	FirstName string `help:"First name" required:""`
	LastName  string `help:"Last name" required:""`
	BirthDate string `help:"Birth date (YYYY-MM-DD)"`
	Phone     string `help:"Phone number"`
	Address   string `help:"Postal address"`
}

func (c *SignupCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := c.service()
	if err != nil {
		return err
	}

	err = svc.Client().SubmitStudentSignup(ctx, client.StudentSignupForm{
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		BirthDate: c.BirthDate,
		Phone:     c.Phone,
		Address:   c.Address,
	})
	if err != nil {
		return fmt.Errorf("failed to submit signup: %w", err)
	}

	fmt.Println("Signup submitted.")
	return nil
}
