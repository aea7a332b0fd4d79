package client

import "context"

// JobApplicationForm is the unauthenticated hiring intake form.
type JobApplicationForm struct {
	Email             string `json:"email"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Role              string `json:"role"`
	Gender            string `json:"gender,omitempty"`
	BirthDate         string `json:"birthDate,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Address           string `json:"address,omitempty"`
	CareerDescription string `json:"careerDescription,omitempty"`
}

// StudentSignupForm is the unauthenticated student enrollment form.
type StudentSignupForm struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// SubmitJobApplication submits a public hiring application. No session is
// required; the bearer header is simply absent when no token is stored.
func (c *Client) SubmitJobApplication(ctx context.Context, form JobApplicationForm) error {
	return c.postJSON(ctx, "/public/job-application", form, nil)
}

// SubmitStudentSignup submits a public student enrollment request.
func (c *Client) SubmitStudentSignup(ctx context.Context, form StudentSignupForm) error {
	return c.postJSON(ctx, "/public/student-signup", form, nil)
}
