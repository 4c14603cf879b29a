// Package whatsapp implements the SEND_WHATSAPP action.
package whatsapp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaycrm/relay/pkg/services"
	"github.com/relaycrm/relay/pkg/template"
)

type Handler struct {
	to      string
	message string
	sender  services.WhatsAppSender
}

func NewHandler(config map[string]any, sender services.WhatsAppSender) (*Handler, error) {
	to, ok := config["to"].(string)
	if !ok || to == "" {
		return nil, fmt.Errorf("missing or invalid 'to' in configuration")
	}

	message, ok := config["message"].(string)
	if !ok || message == "" {
		return nil, fmt.Errorf("missing or invalid 'message' in configuration")
	}

	return &Handler{to: to, message: message, sender: sender}, nil
}

func (h *Handler) Execute(ctx context.Context, triggerData map[string]any, logger *slog.Logger) (any, error) {
	to, err := template.Render(h.to, triggerData)
	if err != nil {
		return nil, err
	}

	message, err := template.Render(h.message, triggerData)
	if err != nil {
		return nil, err
	}

	if err := h.sender.SendWhatsApp(ctx, to, message); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "WhatsApp message sent", "to", to)

	return map[string]any{"to": to}, nil
}
