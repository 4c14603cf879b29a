// Package email implements the SEND_EMAIL action.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaycrm/relay/pkg/services"
	"github.com/relaycrm/relay/pkg/template"
)

type Handler struct {
	to      string
	subject string
	body    string
	sender  services.EmailSender
}

func NewHandler(config map[string]any, sender services.EmailSender) (*Handler, error) {
	to, ok := config["to"].(string)
	if !ok || to == "" {
		return nil, fmt.Errorf("missing or invalid 'to' in configuration")
	}

	subject, _ := config["subject"].(string)
	body, _ := config["body"].(string)

	return &Handler{to: to, subject: subject, body: body, sender: sender}, nil
}

func (h *Handler) Execute(ctx context.Context, triggerData map[string]any, logger *slog.Logger) (any, error) {
	// All three fields may reference trigger data, including the recipient
	// ("{{.trigger_data.email}}").
	to, err := template.Render(h.to, triggerData)
	if err != nil {
		return nil, err
	}

	subject, err := template.Render(h.subject, triggerData)
	if err != nil {
		return nil, err
	}

	body, err := template.Render(h.body, triggerData)
	if err != nil {
		return nil, err
	}

	if err := h.sender.SendEmail(ctx, to, subject, body); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Email sent", "to", to)

	return map[string]any{"to": to, "subject": subject}, nil
}
