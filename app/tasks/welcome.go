// Package tasks holds the background jobs of the auth flow.
package tasks

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/authflow/app/emails"
	"github.com/dmitrymomot/authflow/pkg/mailer"
)

// SendWelcomeEmailName is the job name of SendWelcomeEmail.
const SendWelcomeEmailName = "send_welcome_email"

var ErrInvalidPayload = errors.New("tasks: invalid payload")

// WelcomePayload is enqueued right after a user registers.
type WelcomePayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   int64  `json:"user_id"`
}

// MailSender is satisfied by *mailer.Mailer.
type MailSender interface {
	Send(ctx context.Context, msg mailer.Message) error
	BaseURL() string
}

// SendWelcomeEmail mails new users a link to the sign in page.
type SendWelcomeEmail struct {
	mail MailSender
	log  *slog.Logger
}

func NewSendWelcomeEmail(mail MailSender, log *slog.Logger) *SendWelcomeEmail {
	return &SendWelcomeEmail{mail: mail, log: log}
}

func (t *SendWelcomeEmail) Name() string { return SendWelcomeEmailName }

func (t *SendWelcomeEmail) Handle(ctx context.Context, p WelcomePayload) error {
	if p.Email == "" {
		return ErrInvalidPayload
	}

	err := t.mail.Send(ctx, mailer.Message{
		To:       mailer.Recipient(p.Username, p.Email),
		Template: emails.Welcome,
		Data: emails.WelcomeData{
			Username: p.Username,
			LoginURL: strings.TrimSuffix(t.mail.BaseURL(), "/") + "/login",
		},
	})
	if err != nil {
		return err
	}

	t.log.InfoContext(ctx, "welcome email sent", slog.Int64("user_id", p.UserID))
	return nil
}
