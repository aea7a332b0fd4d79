package client

import (
	"context"
	"fmt"
)

// JobApplicationMatch is a scored hiring candidate returned by the filter
// endpoint.
type JobApplicationMatch struct {
	ID                int64   `json:"id"`
	Email             string  `json:"email"`
	Role              string  `json:"role"`
	FirstName         string  `json:"firstName"`
	LastName          string  `json:"lastName"`
	Status            string  `json:"status"`
	Gender            string  `json:"gender,omitempty"`
	BirthDate         string  `json:"birthDate,omitempty"`
	Phone             string  `json:"phone,omitempty"`
	Address           string  `json:"address,omitempty"`
	CareerDescription string  `json:"careerDescription,omitempty"`
	Score             float64 `json:"score"`
	Matched           bool    `json:"matched"`
}

// JobApplicationFilter narrows the candidate list.
type JobApplicationFilter struct {
	Role        string   `json:"role,omitempty"`
	AdminChoice string   `json:"adminChoice,omitempty"`
	MinScore    *float64 `json:"minScore,omitempty"`
}

// JobApplicationDecision is the outcome of approving or rejecting a
// candidate.
type JobApplicationDecision struct {
	User       *User  `json:"user,omitempty"`
	EmailSent  bool   `json:"emailSent"`
	EmailError string `json:"emailError,omitempty"`
	Message    string `json:"message,omitempty"`
}

// FilterJobApplications returns scored candidates matching the filter.
func (c *Client) FilterJobApplications(ctx context.Context, filter JobApplicationFilter) ([]JobApplicationMatch, error) {
	var matches []JobApplicationMatch
	if err := c.postJSON(ctx, "/job-applications/filter", filter, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// ApproveJobApplication approves a candidate, promoting them to a staff
// account.
func (c *Client) ApproveJobApplication(ctx context.Context, id int64) (*JobApplicationDecision, error) {
	var decision JobApplicationDecision
	if err := c.postJSON(ctx, fmt.Sprintf("/job-applications/%d/approve", id), nil, &decision); err != nil {
		return nil, err
	}
	return &decision, nil
}

// RejectJobApplication rejects a candidate.
func (c *Client) RejectJobApplication(ctx context.Context, id int64) (*JobApplicationDecision, error) {
	var decision JobApplicationDecision
	if err := c.postJSON(ctx, fmt.Sprintf("/job-applications/%d/reject", id), nil, &decision); err != nil {
		return nil, err
	}
	return &decision, nil
}
