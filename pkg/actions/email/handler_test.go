package email_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycrm/relay/pkg/actions/email"
)

type fakeSender struct {
	to      string
	subject string
	body    string
	fail    bool
}

func (f *fakeSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}

	f.to = to
	f.subject = subject
	f.body = body

	return nil
}

func TestHandler_SendsRenderedEmail(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}

	handler, err := email.NewHandler(map[string]any{
		"to":      "{{.trigger_data.email}}",
		"subject": "Welcome, {{.trigger_data.name}}",
		"body":    "Your lead {{.trigger_data.id}} is in.",
	}, sender)
	require.NoError(t, err)

	triggerData := map[string]any{"id": "lead-1", "name": "Ana", "email": "ana@example.com"}

	result, err := handler.Execute(context.Background(), triggerData, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"to": "ana@example.com", "subject": "Welcome, Ana"}, result)

	assert.Equal(t, "ana@example.com", sender.to)
	assert.Equal(t, "Welcome, Ana", sender.subject)
	assert.Equal(t, "Your lead lead-1 is in.", sender.body)
}

func TestHandler_SenderFailurePropagates(t *testing.T) {
	t.Parallel()

	handler, err := email.NewHandler(map[string]any{"to": "ops@example.com"}, &fakeSender{fail: true})
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), map[string]any{}, slog.Default())
	require.Error(t, err)
}

func TestNewHandler_RequiresRecipient(t *testing.T) {
	t.Parallel()

	_, err := email.NewHandler(map[string]any{"subject": "hi"}, &fakeSender{})
	require.Error(t, err)
}

func TestHandler_BadRecipientTemplateFails(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}

	handler, err := email.NewHandler(map[string]any{"to": "{{.trigger_data.email}}"}, sender)
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), map[string]any{"name": "Ana"}, slog.Default())
	require.Error(t, err)
	assert.Empty(t, sender.to)
}
