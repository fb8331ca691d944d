package providers

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"climbing-gym/belay/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// SMTPMailer sends email through a plain SMTP relay
type SMTPMailer struct {
	addr      string
	from      string
	auth      smtp.Auth
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now       func() time.Time
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}

	return &SMTPMailer{
		addr:      cfg.Host + ":" + strconv.Itoa(cfg.Port),
		from:      cfg.From,
		auth:      auth,
		templates: tmpl,
		send:      smtp.SendMail,
		now:       time.Now,
	}, nil
}

// SendHTML renders templates/<template>.html with data and sends it
func (m *SMTPMailer) SendHTML(ctx context.Context, to []string, subject, template string, data map[string]string) error {
	body, err := m.render(template, data)
	if err != nil {
		return err
	}
	return m.deliver(ctx, to, subject, "text/html", body)
}

func (m *SMTPMailer) SendPlain(ctx context.Context, to []string, subject, body string) error {
	return m.deliver(ctx, to, subject, "text/plain", []byte(body))
}

func (m *SMTPMailer) render(name string, data map[string]string) ([]byte, error) {
	t := m.templates.Lookup(name + ".html")
	if t == nil {
		return nil, &ProviderError{Provider: "smtp", Message: "unknown template " + name, Permanent: true}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, &ProviderError{Provider: "smtp", Message: "failed to render " + name, Permanent: true, Err: err}
	}
	return buf.Bytes(), nil
}

func (m *SMTPMailer) deliver(ctx context.Context, to []string, subject, contentType string, body []byte) error {
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(m.from, subject, contentType, body, m.now())
	// Recipients go in the envelope only so members never see each other's addresses
	if err := m.send(m.addr, m.auth, m.from, to, msg); err != nil {
		return &ProviderError{Provider: "smtp", Message: "send failed", Err: err}
	}
	return nil
}

func buildMessage(from, subject, contentType string, body []byte, now time.Time) []byte {
	var b bytes.Buffer
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: undisclosed-recipients:;\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: " + contentType + "; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(string(body), "\n", "\r\n"))
	return b.Bytes()
}
