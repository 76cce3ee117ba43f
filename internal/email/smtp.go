package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/hellolist/internal/observability/logger"
)

// SMTPSender implementa Sender usando SMTP.
type SMTPSender struct {
	From               string
	Host               string
	Port               int
	User               string
	Pass               string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
	Timeout            time.Duration
}

func NewSMTPSender(fromEmail, fromName string, cfg SMTPConfig) *SMTPSender {
	s := &SMTPSender{
		From:               formatFrom(fromEmail, fromName),
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.Username,
		Pass:               cfg.Password,
		TLSMode:            cfg.TLSMode,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		Timeout:            cfg.Timeout,
	}
	if s.TLSMode == "" {
		s.TLSMode = "auto"
	}
	if s.Port == 0 {
		s.Port = 587
	}
	if s.Timeout == 0 {
		s.Timeout = 10 * time.Second
	}
	return s
}

func (s *SMTPSender) message(to, subject, htmlBody, textBody string) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)

	// multipart/alternative: texto primero, html como alternativa preferida
	if textBody != "" {
		m.SetBody("text/plain", textBody)
	}
	if htmlBody != "" {
		if textBody == "" {
			m.SetBody("text/html", htmlBody)
		} else {
			m.AddAlternative("text/html", htmlBody)
		}
	}
	return m
}

func (s *SMTPSender) dialer() *mail.Dialer {
	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.Timeout = s.Timeout
	d.TLSConfig = &tls.Config{ServerName: s.Host, InsecureSkipVerify: s.InsecureSkipVerify}
	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	case "starttls":
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	return d
}

// Send abre una conexión por mensaje. go-mail no acepta context, así que
// solo se respeta una cancelación previa al dial.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := logger.From(ctx).With(
		logger.Component("email.smtp"),
		logger.String("host", s.Host),
		logger.Int("port", s.Port),
		logger.Recipient(to),
	)

	if err := s.dialer().DialAndSend(s.message(to, subject, htmlBody, textBody)); err != nil {
		d := Diagnose(err)
		log.Debug("smtp send failed", logger.Err(err), logger.String("diag", d.Code), logger.Bool("temporary", d.Temporary))
		return fmt.Errorf("smtp send: %w", err)
	}
	log.Debug("email sent")
	return nil
}
