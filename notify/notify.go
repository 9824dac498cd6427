// Package notify drives local notifications for chat activity and event
// reminders. Delivery itself sits behind the Notifier interface; this
// package decides what to present and when.
package notify

import (
	"context"
	"log/slog"
)

// Notification is one user-facing alert.
type Notification struct {
	Title   string
	Body    string
	EventID string
}

// Notifier presents notifications. Implementations deliver however they
// like; the zero-infrastructure one just logs.
type Notifier interface {
	Present(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log. Useful as the default
// delivery when no real channel is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Present(ctx context.Context, notification Notification) error {
	n.Logger.Info("notification",
		"title", notification.Title,
		"body", notification.Body,
		"event_id", notification.EventID,
	)
	return nil
}
