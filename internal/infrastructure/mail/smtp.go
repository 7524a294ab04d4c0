// Package mail delivers password-reset codes over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/openshelf/digital-library/internal/core/ports"
)

// Config carries the SMTP settings. Mail delivery counts as configured only
// when credentials are present.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Enabled reports whether mail delivery is configured.
func (c Config) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

// SMTPMailer implements ports.Mailer over an authenticated SMTP connection.
type SMTPMailer struct {
	client   *gomail.Client
	from     string
	fromName string
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	from := cfg.FromEmail
	if from == "" {
		from = cfg.Username
	}
	fromName := cfg.FromName
	if fromName == "" {
		fromName = "Digital Library"
	}
	return &SMTPMailer{client: client, from: from, fromName: fromName}, nil
}

func (m *SMTPMailer) SendResetCode(ctx context.Context, to, code string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return fmt.Errorf("compose reset mail: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("compose reset mail: %w", err)
	}
	msg.Subject("Your password reset OTP")
	msg.SetBodyString(gomail.TypeTextPlain,
		fmt.Sprintf("Your OTP to reset your password is: %s\n\nIt expires in 10 minutes.", code))
	msg.AddAlternativeString(gomail.TypeTextHTML,
		fmt.Sprintf("<p>Your OTP to reset your password is: <strong>%s</strong></p><p>It expires in 10 minutes.</p>", code))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

var _ ports.Mailer = (*SMTPMailer)(nil)
