// Package mail sends the service's transactional mails.
package mail

import (
	"context"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"

	"gym-backend/errs"
	"gym-backend/log"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Mailgun struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgun(domain, apiKey, from string) *Mailgun {
	return &Mailgun{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
	}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, body string) error {
	msg := m.mg.NewMessage(m.from, subject, body, to)

	_, id, err := m.mg.Send(ctx, msg)
	if err != nil {
		log.Logger.Error("error sending email", zap.String("to", to), zap.Error(err))
		return errs.ErrMail
	}

	log.Logger.Debug("email queued", zap.String("to", to), zap.String("id", id))
	return nil
}

// Noop logs mails instead of sending them. Used when no mail provider is
// configured.
type Noop struct{}

func (Noop) Send(_ context.Context, to, subject, _ string) error {
	log.Logger.Info("mail not sent, no provider configured", zap.String("to", to), zap.String("subject", subject))
	return nil
}
