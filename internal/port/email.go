package port

import "context"

// EmailMessage is a single outbound email.
type EmailMessage struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// EmailSender delivers notification emails. The noop implementation is used
// when no provider is configured.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
