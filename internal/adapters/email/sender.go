package email

import (
	"context"
	"time"
)

// Message is one outgoing notice.
type Message struct {
	To      []string
	From    string // optional, the sender's default is used when empty
	Subject string
	HTML    string
	ReplyTo string
	Kind    string // provider tag used to group notices, e.g. "clase_completa"
}

// Receipt is the provider's acknowledgement of a sent message.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers notices through an external provider.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
