// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/relaycrm/relay/pkg/actions/assign"
	"github.com/relaycrm/relay/pkg/actions/email"
	"github.com/relaycrm/relay/pkg/actions/status"
	"github.com/relaycrm/relay/pkg/actions/tag"
	"github.com/relaycrm/relay/pkg/actions/task"
	"github.com/relaycrm/relay/pkg/actions/updatefield"
	"github.com/relaycrm/relay/pkg/actions/webhook"
	"github.com/relaycrm/relay/pkg/actions/whatsapp"
	"github.com/relaycrm/relay/pkg/delivery"
	"github.com/relaycrm/relay/pkg/persistence"
	"github.com/relaycrm/relay/pkg/registry"
	"github.com/relaycrm/relay/pkg/services"
)

// NewRegistry builds the action registry with every native action handler
// wired to the CRM services and delivery channels.
func NewRegistry(logger *slog.Logger, p persistence.Persistence) *registry.Registry {
	reg := registry.NewRegistry(logger)

	entities := services.NewEntities(p, delivery.NewSlogNotifier(logger), logger)

	reg.RegisterAction(assign.NewUserFactory(entities))
	reg.RegisterAction(assign.NewTeamFactory(entities))
	reg.RegisterAction(status.NewFactory(entities))
	reg.RegisterAction(updatefield.NewFactory(entities))
	reg.RegisterAction(tag.NewAddFactory(entities))
	reg.RegisterAction(tag.NewRemoveFactory(entities))
	reg.RegisterAction(task.NewFactory(entities))
	reg.RegisterAction(email.NewFactory(delivery.NewSMTPEmailSender(smtpConfigFromEnv())))
	reg.RegisterAction(whatsapp.NewFactory(delivery.NewGatewayWhatsAppSender(whatsappConfigFromEnv())))
	reg.RegisterAction(webhook.NewFactory(delivery.NewHTTPWebhookCaller()))

	return reg
}

func smtpConfigFromEnv() delivery.SMTPConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	return delivery.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
		FromName: os.Getenv("SMTP_FROM_NAME"),
	}
}

func whatsappConfigFromEnv() delivery.WhatsAppConfig {
	return delivery.WhatsAppConfig{
		GatewayURL: os.Getenv("WHATSAPP_GATEWAY_URL"),
		APIKey:     os.Getenv("WHATSAPP_API_KEY"),
	}
}
