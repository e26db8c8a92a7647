package email

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/learnhub/learnhub/config"
)

type mailgunSender struct {
	mg   *mailgun.MailgunImpl
	from string
}

func newMailgunSender(cfg *config.Email) *mailgunSender {
	return &mailgunSender{
		mg:   mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		from: cfg.From,
	}
}

func (s *mailgunSender) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	message := s.mg.NewMessage(s.from, resetSubject, resetBody(resetURL), to)
	_, _, err := s.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("email: mailgun send failed: %w", err)
	}
	return nil
}
