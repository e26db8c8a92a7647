package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/learnhub/learnhub/config"
)

type smtpSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func newSMTPSender(cfg *config.Email) *smtpSender {
	return &smtpSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.From,
	}
}

func (s *smtpSender) SendPasswordReset(_ context.Context, to, resetURL string) error {
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	msg := []byte(fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\n\r\n%s",
		to, s.from, resetSubject, resetBody(resetURL)))

	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("email: smtp send failed: %w", err)
	}
	return nil
}
