// Package email delivers campaign messages.
package email

import (
	"context"

	"github.com/covenantOS/serviceline-dashboard/platform/logger"
)

// Sender delivers a rendered campaign message to a single recipient.
type Sender interface {
	SendCampaignEmail(ctx context.Context, toEmail, subject, body string) error
}

// NoopSender logs messages instead of sending them. It stands in when SMTP
// is not configured.
type NoopSender struct {
	log *logger.Logger
}

func NewNoopSender(log *logger.Logger) NoopSender {
	return NoopSender{log: log}
}

func (s NoopSender) SendCampaignEmail(ctx context.Context, toEmail, subject, _ string) error {
	if s.log != nil {
		s.log.WithContext(ctx).Info("email delivery disabled, message dropped", "to", toEmail, "subject", subject)
	}
	return nil
}

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = NoopSender{}
)
