package notify

import (
	"gopkg.in/gomail.v2"

	"github.com/inshare/goshare/internal/config"
)

// Message is the rendered notification handed to the mail transport.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer is the external mail-send capability: one attempt, success or
// failure. Retries are not this layer's business.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer delivers messages over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer builds the SMTP transport from configuration.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send dials the SMTP server and delivers the message.
func (m *SMTPMailer) Send(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	gm.AddAlternative("text/html", msg.HTML)

	return m.dialer.DialAndSend(gm)
}
