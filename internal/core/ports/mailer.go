package ports

import "context"

// MailKind selects the email template.
type MailKind string

const (
	MailVerification  MailKind = "verification"
	MailPasswordReset MailKind = "password_reset"
)

// MailJob is a single outbound email. Link points back at the confirmation
// endpoint carrying the token as a query parameter.
type MailJob struct {
	ID       string
	Kind     MailKind
	To       string
	Username string
	Link     string
}

// Mailer renders and delivers a single email.
type Mailer interface {
	Send(ctx context.Context, job MailJob) error
}

// MailDispatcher queues mail for background delivery. Enqueue never blocks
// the request path; delivery failures are logged, not surfaced to callers.
type MailDispatcher interface {
	Enqueue(job MailJob)
}
