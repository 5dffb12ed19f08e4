package email

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/covenantOS/serviceline-dashboard/platform/config"

	gomail "github.com/wneessen/go-mail"
)

const testSubjectPrefix = "[TEST] "

// SMTPSender delivers campaign messages over SMTP via go-mail. Each message
// carries the rendered HTML template and the plain text body as alternative.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates an SMTPSender from the email settings.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) buildMessage(toEmail, subject, textBody string) (*gomail.Msg, error) {
	htmlBody, err := renderCampaignEmail(subject, textBody, s.fromName)
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)
	msg.AddAlternativeString(gomail.TypeTextPlain, textBody)
	return msg, nil
}

func (s *SMTPSender) send(ctx context.Context, msg *gomail.Msg) error {
	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SendCampaignEmail renders body into the campaign layout and delivers it.
func (s *SMTPSender) SendCampaignEmail(ctx context.Context, toEmail, subject, body string) error {
	msg, err := s.buildMessage(toEmail, subject, body)
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func renderCampaignEmail(subject, body, fromName string) (string, error) {
	data := campaignEmailData{
		baseEmailData: baseEmailData{
			Title:  subject,
			Footer: "Sent by " + fromName,
		},
		Paragraphs: paragraphs(body),
	}
	if strings.HasPrefix(subject, testSubjectPrefix) {
		data.Banner = "This is a test send. Merge fields were filled with sample lead data."
	}
	return renderEmailTemplate("campaign.html", data)
}
