package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"

	"go.uber.org/zap"
)

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func SMTPConfigFromEnv() SMTPConfig {
	return SMTPConfig{
		Host: os.Getenv("SMTP_HOST"),
		Port: os.Getenv("SMTP_PORT"),
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		From: os.Getenv("SMTP_FROM"),
	}
}

type smtpMailer struct {
	cfg    SMTPConfig
	logger *zap.Logger
}

func NewSMTPMailer(cfg SMTPConfig, logger ...*zap.Logger) Mailer {
	l := zap.L().Named("mailer.smtp")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mailer.smtp")
	}
	return &smtpMailer{cfg: cfg, logger: l}
}

// Send delivers one email over SMTP with STARTTLS. Each call opens a fresh
// connection; volume is a handful of reminders a day, not a mail queue.
func (m *smtpMailer) Send(ctx context.Context, to, subject, html string) error {
	from := m.cfg.From
	if from == "" {
		from = m.cfg.User
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: Certification Portal <%s>", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		html,
	}, "\r\n")

	addr := m.cfg.Host + ":" + m.cfg.Port

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return fmt.Errorf("smtp server does not support STARTTLS")
	}
	tlsConfig := &tls.Config{
		ServerName: m.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("start tls: %w", err)
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	if err := client.Quit(); err != nil {
		m.logger.Warn("smtp quit failed", zap.Error(err))
	}

	m.logger.Info("email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
