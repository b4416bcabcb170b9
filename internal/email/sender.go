// Package email sends account mail.
package email

import "context"

type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
}

// NoopSender is used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(context.Context, string, string) error {
	return nil
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
