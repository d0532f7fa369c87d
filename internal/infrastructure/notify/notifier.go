package notify

import (
	"context"
	"fmt"
	"log/slog"

	"CompanyNewsScanner/internal/domain"
	"CompanyNewsScanner/internal/ports"
)

// EmailNotifier matches the final record list against per-user
// subscriptions and sends one digest per user with matches.
type EmailNotifier struct {
	users  ports.UserStore
	sender Sender
	logger *slog.Logger
}

var _ ports.Notifier = (*EmailNotifier)(nil)

// NewEmailNotifier wires the user store and the digest sender.
func NewEmailNotifier(users ports.UserStore, sender Sender, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{users: users, sender: sender, logger: logger}
}

// Deliver fans the record list out to subscribed users. Send failures are
// logged per recipient and never abort delivery to the rest.
func (n *EmailNotifier) Deliver(ctx context.Context, records []domain.NewsRecord) error {
	if len(records) == 0 || n.users == nil || n.sender == nil {
		return nil
	}

	users, err := n.users.Users(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	for _, user := range users {
		matched := Match(user, records)
		if len(matched) == 0 {
			continue
		}

		body, err := RenderDigest(matched)
		if err != nil {
			n.warn("digest render failed", "user", user.Email, "error", err)
			continue
		}

		if err := n.sender.Send(user.Email, digestSubject, body); err != nil {
			n.warn("digest delivery failed", "user", user.Email, "error", err)
			continue
		}
		n.debug("digest sent", "user", user.Email, "records", len(matched))
	}

	return nil
}

func (n *EmailNotifier) warn(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Warn(msg, args...)
	}
}

func (n *EmailNotifier) debug(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}
