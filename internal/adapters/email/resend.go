package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ErrNoRecipients is returned when a message has no addresses.
var ErrNoRecipients = errors.New("email: no recipients")

// ResendSender sends notices via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender with the given API key and default from address.
// PRE: apiKey is a valid Resend API key; from is a valid sender address
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send queues one message for delivery.
// POST: returns the Resend message id on success
func (s *ResendSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	if len(msg.To) == 0 {
		return Receipt{}, ErrNoRecipients
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}
	if msg.From != "" {
		params.From = msg.From
	}
	if msg.Kind != "" {
		params.Tags = []resend.Tag{{Name: "tipo", Value: msg.Kind}}
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("email_send_failed", "error", err, "to", msg.To, "kind", msg.Kind)
		return Receipt{}, fmt.Errorf("resend send failed: %w", err)
	}
	slog.Info("email_sent", "message_id", sent.Id, "to", msg.To, "kind", msg.Kind)
	return Receipt{MessageID: sent.Id, SentAt: time.Now()}, nil
}
