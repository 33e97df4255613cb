package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Config holds SMTP settings.
type Config struct {
	Host        string
	Port        int
	User        string
	Password    string
	FromAddress string
	FromName    string
}

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages over SMTP. With no host configured it only logs.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	name   string
	domain string
	logger *zap.Logger
}

// New creates a mailer from cfg.
func New(cfg Config, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Mailer{
		from:   cfg.FromAddress,
		name:   cfg.FromName,
		domain: domainOf(cfg.FromAddress),
		logger: logger,
	}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return m
}

// Enabled reports whether messages actually leave the process.
func (m *Mailer) Enabled() bool { return m.dialer != nil }

// Send delivers msg. The context is only checked before dialing; gomail has no cancellation.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("mailer: empty recipient")
	}
	if m.dialer == nil {
		m.logger.Info("smtp not configured, email skipped", zap.String("to", msg.To), zap.String("subject", msg.Subject))
		return nil
	}
	if err := m.dialer.DialAndSend(m.compose(msg, time.Now())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	m.logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (m *Mailer) compose(msg Message, now time.Time) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("Message-ID", generateMessageID(m.domain))
	gm.SetHeader("Date", now.Format(time.RFC1123Z))
	gm.SetAddressHeader("From", m.from, m.name)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}
	return gm
}

func generateMessageID(domain string) string {
	return fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)
}

func domainOf(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}
