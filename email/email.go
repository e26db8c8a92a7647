// Package email sends transactional mail. Mailgun and plain SMTP are
// supported; with neither configured delivery degrades to logging,
// which keeps the password reset flow usable in development.
package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/logging/logger"
)

// Sender delivers transactional messages.
type Sender interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// NewSender creates a sender from configuration. An unrecognized or
// empty provider yields the logging sender.
func NewSender(cfg *config.Email, log *logger.Logger) (Sender, error) {
	if cfg == nil {
		return &logSender{log: log}, nil
	}

	switch cfg.Provider {
	case "mailgun":
		if cfg.Domain == "" || cfg.APIKey == "" || cfg.From == "" {
			return nil, errors.New("email: incomplete mailgun configuration")
		}
		return newMailgunSender(cfg), nil
	case "smtp":
		if cfg.SMTPHost == "" || cfg.SMTPPort == "" || cfg.From == "" {
			return nil, errors.New("email: incomplete smtp configuration")
		}
		return newSMTPSender(cfg), nil
	default:
		return &logSender{log: log}, nil
	}
}

type logSender struct {
	log *logger.Logger
}

func (s *logSender) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	s.log.Info(ctx, "password reset link (no email provider configured)", "to", to, "url", resetURL)
	return nil
}

const resetSubject = "Reset your LearnHub password"

func resetBody(resetURL string) string {
	return fmt.Sprintf("A password reset was requested for your LearnHub account.\n\n"+
		"Open the link below to choose a new password. The link expires in one hour.\n\n%s\n\n"+
		"If you did not request this, you can ignore this message.\n", resetURL)
}
