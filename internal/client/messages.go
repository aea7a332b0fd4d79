package client

import (
	"context"
	"time"
)

// Message is a staff-to-staff message.
type Message struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"senderId"`
	RecipientID int64     `json:"recipientId"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
}

// SendMessageRequest sends a message to another staff member.
type SendMessageRequest struct {
	RecipientID int64  `json:"recipientId"`
	Content     string `json:"content"`
}

// ListMessages returns every message visible to the current user.
func (c *Client) ListMessages(ctx context.Context) ([]Message, error) {
	var messages []Message
	if err := c.getJSON(ctx, "/messages", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts a new message.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	var msg Message
	if err := c.postJSON(ctx, "/messages", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// UnreadCount derives the unread badge count for a user from a fetched
// message list.
func UnreadCount(messages []Message, userID int64) int {
	count := 0
	for _, m := range messages {
		if m.RecipientID == userID && !m.Read {
			count++
		}
	}
	return count
}
