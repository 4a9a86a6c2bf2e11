// Package mail delivers transactional email over SMTP using go-mail, with
// HTML bodies rendered from embedded templates.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	gomail "github.com/wneessen/go-mail"

	"github.com/contactsbook/contacts-api/internal/core/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

var subjects = map[ports.MailKind]string{
	ports.MailVerification:  "Email Verification",
	ports.MailPasswordReset: "Reset Password",
}

var templateFiles = map[ports.MailKind]string{
	ports.MailVerification:  "templates/verification_email.html",
	ports.MailPasswordReset: "templates/reset_password_email.html",
}

// Config captures SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer renders and sends one email per job over SMTP.
type Mailer struct {
	client    *gomail.Client
	from      string
	templates *template.Template
}

func NewMailer(cfg Config) (*Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mail templates: %w", err)
	}

	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithSSL(),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &Mailer{client: client, from: cfg.From, templates: tmpl}, nil
}

type templateData struct {
	Username string
	Link     string
}

// Send renders the template for the job's kind and delivers the message.
func (m *Mailer) Send(ctx context.Context, job ports.MailJob) error {
	name, ok := templateFiles[job.Kind]
	if !ok {
		return fmt.Errorf("unknown mail kind %q", job.Kind)
	}

	var body bytes.Buffer
	tmplName := name[len("templates/"):]
	if err := m.templates.ExecuteTemplate(&body, tmplName, templateData{Username: job.Username, Link: job.Link}); err != nil {
		return fmt.Errorf("render %s: %w", tmplName, err)
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(job.To); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subjects[job.Kind])
	msg.SetBodyString(gomail.TypeTextHTML, body.String())

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
