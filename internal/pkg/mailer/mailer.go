package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"goexam/internal/pkg/logger"
)

// Mailer define o contrato de envio de e-mails transacionais.
// Os serviços dependem apenas desta interface; a implementação concreta
// (SMTP real ou o sender de desenvolvimento) é escolhida no main.go.
type Mailer interface {
	Send(ctx context.Context, to string, subject string, textBody string, htmlBody string) error
}

// SMTPMailer envia e-mails via um servidor SMTP configurado por
// host/porta/credenciais (MAIL_HOST, MAIL_PORT, MAIL_USER, MAIL_PASSWORD).
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

// NewSMTPMailer cria o mailer SMTP. Se user estiver vazio, o envio é feito
// sem autenticação (útil para relays locais como o MailHog).
func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
	}
}

// Send monta uma mensagem multipart/alternative (texto + HTML) e a entrega via SMTP.
func (m *SMTPMailer) Send(ctx context.Context, to string, subject string, textBody string, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}

	msg := buildMessage(m.from, to, subject, textBody, htmlBody)

	if err := smtp.SendMail(addr, auth, envelopeFrom(m.from), []string{to}, msg); err != nil {
		return fmt.Errorf("falha ao enviar e-mail via SMTP: %w", err)
	}
	return nil
}

// buildMessage serializa os cabeçalhos e o corpo multipart/alternative.
func buildMessage(from, to, subject, textBody, htmlBody string) []byte {
	const boundary = "goexam-alt-boundary"

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString("MIME-Version: 1.0\r\n")

	if htmlBody == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(textBody)
		return []byte(b.String())
	}

	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary))

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(b.String())
}

// envelopeFrom extrai o endereço puro de um From no formato `Nome <email>`.
func envelopeFrom(from string) string {
	if start := strings.LastIndex(from, "<"); start != -1 {
		if end := strings.LastIndex(from, ">"); end > start {
			return from[start+1 : end]
		}
	}
	return from
}

// LogMailer é o sender de desenvolvimento: registra a mensagem no log em vez
// de enviá-la. Ativado quando MAIL_HOST está vazio.
type LogMailer struct {
	logger logger.Logger
}

// NewLogMailer cria o sender de desenvolvimento.
func NewLogMailer(log logger.Logger) *LogMailer {
	return &LogMailer{logger: log}
}

// Send apenas loga o destinatário, o assunto e o corpo em texto.
func (m *LogMailer) Send(ctx context.Context, to string, subject string, textBody string, htmlBody string) error {
	m.logger.Info("📧 E-mail (modo desenvolvimento, não enviado).", map[string]interface{}{
		"to":      to,
		"subject": subject,
		"body":    textBody,
	})
	return nil
}
