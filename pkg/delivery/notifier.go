package delivery

import (
	"context"
	"log/slog"

	"github.com/relaycrm/relay/pkg/services"
)

// SlogNotifier records notifications in the log stream. It stands in for the
// CRM's in-app notification service, which lives outside this engine; swap
// in a real Notifier when wiring against the full backend.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger.With("module", "notifier")}
}

func (n *SlogNotifier) SendNotification(ctx context.Context, notification services.Notification) error {
	n.logger.InfoContext(ctx, "Notification dispatched",
		"user_id", notification.UserID,
		"type", notification.Type,
		"title", notification.Title,
	)

	return nil
}
