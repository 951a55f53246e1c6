// Package mail — best-effort отправка писем о шаринге. Ошибки отправки
// логируются вызывающей стороной и никогда не валят основную операцию.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
)

// Mailer — контракт отправки уведомления о выданном доступе.
type Mailer interface {
	SendShareNotice(ctx context.Context, to, subject, body string) error
}

// SMTPMailer отправляет письма через обычный SMTP без аутентификации
// (релей во внутренней сети).
type SMTPMailer struct {
	Addr string // host:port
	From string
}

// NewSMTPMailer создаёт SMTP-отправитель.
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{Addr: addr, From: from}
}

func (m *SMTPMailer) SendShareNotice(ctx context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.From, to, subject, body)
	return smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg))
}

// NopMailer ничего не отправляет (dev/тесты).
type NopMailer struct{}

func (NopMailer) SendShareNotice(ctx context.Context, to, subject, body string) error {
	return nil
}

var (
	_ Mailer = (*SMTPMailer)(nil)
	_ Mailer = NopMailer{}
)
