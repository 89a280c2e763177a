package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer delivers queued documents over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *Mailer) Send(doc Document) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", doc.To...)
	msg.SetHeader("Subject", doc.Message.Subject)
	msg.SetBody("text/html", doc.Message.HTML)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %v: %w", doc.To, err)
	}
	return nil
}
