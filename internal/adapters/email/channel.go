package email

import (
	"context"
	"fmt"
	"log/slog"

	"outreachengine/config"
	"outreachengine/internal/domain"
)

// NewChannelDialer creates a delivery channel dialer from config.
// Provider "smtp" uses the STARTTLS SMTP channel, "ses" uses AWS SES, and
// "noop" logs instead of sending. Missing credentials for the selected
// provider are a construction-time error.
func NewChannelDialer(cfg config.EmailConfig, logger *slog.Logger) (domain.ChannelDialer, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPDialer(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Account:  cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			Timeout:  cfg.SMTPTimeout,
		})
	case "ses":
		return NewSESDialer(SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		}, logger)
	case "noop":
		return &noopDialer{logger: logger}, nil
	}
	return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
}

type noopDialer struct {
	logger *slog.Logger
}

func (d *noopDialer) Open(ctx context.Context) (domain.Channel, error) {
	return &noopChannel{logger: d.logger}, nil
}

type noopChannel struct {
	logger *slog.Logger
}

func (c *noopChannel) Send(ctx context.Context, msg *domain.Message) error {
	c.logger.Info("email would be sent (noop)", "to", msg.To, "subject", msg.Subject, "from", msg.Sender.Display())
	return nil
}

func (c *noopChannel) Close() error { return nil }
