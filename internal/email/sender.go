package email

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/tennis-leagues/internal/config"
	"github.com/rs/zerolog/log"
)

// Sender delivers a plain text email to a single recipient.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// NewSender builds the sender selected by cfg.Provider.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	switch cfg.Provider {
	case config.EmailProviderSES:
		return NewSESClient(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.Region, cfg.From)
	case config.EmailProviderLog:
		return LogSender{From: cfg.From}, nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}

// LogSender writes emails to the application log instead of delivering them.
type LogSender struct {
	From string
}

func (s LogSender) Send(ctx context.Context, recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}
	log.Ctx(ctx).Info().
		Str("from", s.From).
		Str("recipient", recipient).
		Str("subject", subject).
		Str("body", body).
		Msg("Email not delivered, log provider configured")
	return nil
}
