package services

import "context"

// Notification is the payload handed to the notification dispatcher when an
// action wants to tell a user something happened (e.g. "a lead was assigned
// to you").
type Notification struct {
	UserID   string         `json:"user_id"`
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Link     string         `json:"link,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Notifier dispatches in-app notifications. Implementations return an error
// on delivery failure and never panic; callers capture the error into the
// action result.
type Notifier interface {
	SendNotification(ctx context.Context, notification Notification) error
}

// EmailSender delivers one email. Errors are returned, never thrown past
// the caller.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// WhatsAppSender delivers one WhatsApp message through the configured
// gateway.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, to, message string) error
}

// WebhookCaller POSTs a JSON payload to a third-party URL. A non-2xx
// response or network failure is an error.
type WebhookCaller interface {
	CallWebhook(ctx context.Context, url string, headers map[string]string, payload map[string]any) error
}
