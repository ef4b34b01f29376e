package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	texttemplate "text/template"
)

// Config is embedded into the application config.
type Config struct {
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
	DefaultLayout   string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"base.html"`
	BaseURL         string `env:"MAILER_BASE_URL" envDefault:"http://localhost:8080"`
}

// Email is a fully rendered message.
type Email struct {
	Headers map[string]string
	Subject string
	HTML    string
	Text    string
	From    string // empty means the provider default
	ReplyTo string
	To      []string
}

// Sender delivers rendered emails.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, email *Email) error

func (f SenderFunc) Send(ctx context.Context, email *Email) error { return f(ctx, email) }

// LogSender logs emails instead of delivering them.
func LogSender(log *slog.Logger) Sender {
	return SenderFunc(func(ctx context.Context, email *Email) error {
		log.InfoContext(ctx, "email not sent: mailer is not configured",
			slog.Any("to", email.To),
			slog.String("subject", email.Subject),
			slog.String("text", email.Text),
		)
		return nil
	})
}

// Recipient formats "Name <email>", or just the email when name is empty.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Message describes a templated email.
type Message struct {
	To       string
	Template string // file name, e.g. "welcome.md"
	Data     any

	Subject string // overrides the template subject
	Layout  string // overrides Config.DefaultLayout
	ReplyTo string
}

type Mailer struct {
	sender   Sender
	renderer *Renderer
	cfg      Config
}

func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{sender: sender, renderer: renderer, cfg: cfg}
}

// BaseURL is the public URL used to build links in templates.
func (m *Mailer) BaseURL() string { return m.cfg.BaseURL }

// Send renders msg and delivers it.
// The subject comes from msg.Subject, then front matter, then Config.FallbackSubject,
// and is itself executed as a template against msg.Data.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	layout := msg.Layout
	if layout == "" {
		layout = m.cfg.DefaultLayout
	}

	res, err := m.renderer.Render(layout, msg.Template, msg.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	subject := msg.Subject
	if subject == "" {
		subject = m.cfg.FallbackSubject
		if s, ok := res.Metadata["Subject"].(string); ok && s != "" {
			subject = s
		}
	}
	subject, err = executeSubject(subject, msg.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	return m.SendRaw(ctx, &Email{
		To:      []string{msg.To},
		Subject: subject,
		HTML:    res.HTML,
		Text:    res.Text,
		ReplyTo: msg.ReplyTo,
	})
}

// SendRaw delivers a prepared email.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	switch {
	case len(email.To) == 0:
		return ErrNoRecipient
	case email.Subject == "":
		return ErrNoSubject
	case email.HTML == "":
		return ErrNoContent
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

func executeSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
