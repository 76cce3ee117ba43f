package email

import (
	"context"
	"fmt"
	"time"
)

// Sender envía un email con cuerpo HTML y texto plano.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SendError names the recipient of a failed send. It reaches logs only.
type SendError struct {
	To  string
	Err error
}

func (e *SendError) Error() string { return fmt.Sprintf("send to %s: %v", e.To, e.Err) }
func (e *SendError) Unwrap() error { return e.Err }

// Config agrupa la configuración de todos los drivers.
type Config struct {
	Driver    string `yaml:"driver"` // smtp | ses | api | log
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`

	SMTP SMTPConfig `yaml:"smtp"`
	SES  SESConfig  `yaml:"ses"`
	API  APIConfig  `yaml:"api"`
}

type SMTPConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	TLSMode            string        `yaml:"tls_mode"` // auto | starttls | ssl | none
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	Timeout            time.Duration `yaml:"timeout"`
}

type SESConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	// Endpoint override (localstack, tests).
	Endpoint string `yaml:"endpoint"`
}

type APIConfig struct {
	BaseURL            string        `yaml:"base_url"`
	AuthorizationToken string        `yaml:"authorization_token"`
	Timeout            time.Duration `yaml:"timeout"`
}

// New construye el Sender según cfg.Driver.
func New(ctx context.Context, cfg Config) (Sender, error) {
	if cfg.FromEmail == "" && cfg.Driver != "log" {
		return nil, fmt.Errorf("email: from_email is required for driver %q", cfg.Driver)
	}
	switch cfg.Driver {
	case "smtp":
		return NewSMTPSender(cfg.FromEmail, cfg.FromName, cfg.SMTP), nil
	case "ses":
		return NewSESSender(ctx, cfg.FromEmail, cfg.FromName, cfg.SES)
	case "api", "":
		return NewAPISender(cfg.FromEmail, cfg.FromName, cfg.API)
	case "log":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("email: unknown driver %q", cfg.Driver)
	}
}

func formatFrom(email, name string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
