package client

import (
	"context"
	"time"
)

// AuditLog is one entry of the server-side audit trail.
type AuditLog struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId,omitempty"`
	ActorEmail string    `json:"actorEmail,omitempty"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListAuditLogs returns the audit trail, newest first as served.
func (c *Client) ListAuditLogs(ctx context.Context) ([]AuditLog, error) {
	var logs []AuditLog
	if err := c.getJSON(ctx, "/audit-logs", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
