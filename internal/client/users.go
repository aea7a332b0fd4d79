package client

import (
	"context"
	"fmt"
	"net/url"
)

// User is a staff or student account record.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// CreateUserRequest creates a staff account. The console always asks the
// server to generate a temporary password and mail it out.
type CreateUserRequest struct {
	Email            string `json:"email"`
	Role             string `json:"role"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	GeneratePassword bool   `json:"generatePassword"`
	SendEmail        bool   `json:"sendEmail"`
}

// UserMutationResponse is returned by create/update calls. TemporaryPassword
// is only present when the server generated one and could not mail it.
type UserMutationResponse struct {
	User              *User  `json:"user,omitempty"`
	TemporaryPassword string `json:"temporaryPassword,omitempty"`
	EmailSent         bool   `json:"emailSent"`
	EmailError        string `json:"emailError,omitempty"`
}

// UpdateUserRequest carries the mutable account fields; empty fields are
// omitted and left unchanged server-side.
type UpdateUserRequest struct {
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Status    string `json:"status,omitempty"`
}

// ListUsers returns the staff directory, optionally filtered by role.
func (c *Client) ListUsers(ctx context.Context, role string) ([]User, error) {
	query := url.Values{}
	if role != "" {
		query.Set("role", role)
	}
	var users []User
	if err := c.getJSON(ctx, "/users", query, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Me returns the account behind the current session.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PendingUsers returns accounts awaiting an admin decision.
func (c *Client) PendingUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, "/users/pending", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserStatuses returns the decision status of every account.
func (c *Client) UserStatuses(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, "/users/status", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates a staff account.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*UserMutationResponse, error) {
	var resp UserMutationResponse
	if err := c.postJSON(ctx, "/users", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateUser updates a staff account.
func (c *Client) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*UserMutationResponse, error) {
	var resp UserMutationResponse
	if err := c.putJSON(ctx, fmt.Sprintf("/users/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteUser removes a staff account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.deleteJSON(ctx, fmt.Sprintf("/users/%d", id), nil)
}
