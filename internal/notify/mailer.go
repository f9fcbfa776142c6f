package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

type Sender interface {
	Send(to []string, subject, body string) error
}

// SMTPSender sends plain-text mail over SMTP.
type SMTPSender struct {
	Addr string
	From string
	Auth smtp.Auth
}

func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		Addr: host + ":" + port,
		From: from,
		Auth: auth,
	}
}

func (s *SMTPSender) Send(to []string, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	return smtp.SendMail(s.Addr, s.Auth, s.From, to, []byte(msg.String()))
}
