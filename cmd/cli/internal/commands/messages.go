package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"

	"github.com/astba/console/internal/auth"
	"github.com/astba/console/internal/client"
	"github.com/astba/console/internal/rbac"
)

// MessagesCmd is staff messaging; the student role has no inbox.
type MessagesCmd struct {
	List  MessagesListCmd  `cmd:"" help:"List messages"`
	Send  MessagesSendCmd  `cmd:"" help:"Send a message"`
	Watch MessagesWatchCmd `cmd:"" help:"Watch the unread count"`
}

var staffRoles = []rbac.Role{rbac.RoleAdmin, rbac.RoleFormateur, rbac.RoleResponsable}

func staffService(ctx context.Context, f *connectFlags) (*auth.Service, error) {
	svc, err := f.service()
	if err != nil {
		return nil, err
	}
	if err := svc.Bootstrap(ctx); err != nil {
		log.Debug().Err(err).Msg("proactive refresh failed")
	}
	if err := requireRoles(svc, staffRoles...); err != nil {
		return nil, err
	}
	return svc, nil
}

type MessagesListCmd struct {
	connectFlags
	Unread bool `help:"Only unread messages addressed to me"`
}

func (c *MessagesListCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := staffService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	messages, err := svc.Client().ListMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}

	userID, _ := strconv.ParseInt(svc.Profile().ID, 10, 64)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFROM\tTO\tTIME\tREAD\tCONTENT")
	shown := 0
	for _, m := range messages {
		if c.Unread && (m.Read || m.RecipientID != userID) {
			continue
		}
		read := "no"
		if m.Read {
			read = "yes"
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%s\n",
			m.ID, m.SenderID, m.RecipientID, m.Timestamp.Format(time.RFC3339), read, m.Content)
		shown++
	}
	tw.Flush()

	if shown == 0 {
		fmt.Println("No messages.")
	}
	return nil
}

type MessagesSendCmd struct {
	connectFlags
	Recipient int64  `arg:"" help:"Recipient account id"`
	Content   string `arg:"" help:"Message body"`
}

func (c *MessagesSendCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := staffService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	msg, err := svc.Client().SendMessage(ctx, client.SendMessageRequest{
		RecipientID: c.Recipient,
		Content:     c.Content,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	fmt.Printf("Message %d sent.\n", msg.ID)
	return nil
}

type MessagesWatchCmd struct {
	connectFlags
	Interval time.Duration `help:"Poll interval" default:"30s"`
}

func (c *MessagesWatchCmd) Run(ctx context.Context, globals *Globals) error {
	svc, err := staffService(ctx, &c.connectFlags)
	if err != nil {
		return err
	}

	userID, _ := strconv.ParseInt(svc.Profile().ID, 10, 64)
	fmt.Println("Watching messages (press Ctrl+C to stop)...")

	last := -1
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		count, err := c.fetchUnread(ctx, svc, userID)
		if err != nil {
			return fmt.Errorf("failed to poll messages: %w", err)
		}
		if count != last {
			fmt.Printf("[%s] unread: %d\n", time.Now().Format("15:04:05"), count)
			last = count
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// fetchUnread retries transient failures with exponential backoff; an auth
// failure that survived the silent refresh is permanent and ends the watch.
func (c *MessagesWatchCmd) fetchUnread(ctx context.Context, svc *auth.Service, userID int64) (int, error) {
	messages, err := backoff.Retry(ctx, func() ([]client.Message, error) {
		messages, err := svc.Client().ListMessages(ctx)
		if err != nil {
			if client.IsAuthError(err) {
				return nil, backoff.Permanent(err)
			}
			log.Debug().Err(err).Msg("poll failed, backing off")
			return nil, err
		}
		return messages, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(5))
	if err != nil {
		return 0, err
	}

	return client.UnreadCount(messages, userID), nil
}
