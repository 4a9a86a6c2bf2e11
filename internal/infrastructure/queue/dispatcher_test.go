package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/contactsbook/contacts-api/internal/core/ports"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.MailJob
	errs map[string]error
	done chan struct{}
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{done: make(chan struct{}, 16)}
}

func (m *recordingMailer) Send(_ context.Context, job ports.MailJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, job)
	m.done <- struct{}{}
	if err := m.errs[job.To]; err != nil {
		return err
	}
	return nil
}

func (m *recordingMailer) await(t *testing.T, n int) []ports.MailJob {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.MailJob(nil), m.sent...)
}

func TestDispatcher_DeliversJobs(t *testing.T) {
	mailer := newRecordingMailer()
	d := NewDispatcher(2, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.MailJob{Kind: ports.MailVerification, To: "alice@example.com", Link: "https://example.com/verify"})
	d.Enqueue(ports.MailJob{Kind: ports.MailPasswordReset, To: "bob@example.com", Link: "https://example.com/reset"})

	sent := mailer.await(t, 2)
	if len(sent) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(sent))
	}
	for _, job := range sent {
		if job.ID == "" {
			t.Fatalf("job delivered without an assigned id: %+v", job)
		}
	}
}

func TestDispatcher_SameRecipientKeepsOrder(t *testing.T) {
	mailer := newRecordingMailer()
	d := NewDispatcher(4, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 5; i++ {
		d.Enqueue(ports.MailJob{ID: string(rune('a' + i)), Kind: ports.MailVerification, To: "carol@example.com"})
	}

	sent := mailer.await(t, 5)
	for i, job := range sent {
		if want := string(rune('a' + i)); job.ID != want {
			t.Fatalf("delivery %d out of order: got %q, want %q", i, job.ID, want)
		}
	}
}

func TestDispatcher_DeliveryErrorDoesNotStopWorker(t *testing.T) {
	mailer := newRecordingMailer()
	mailer.errs = map[string]error{"dead@example.com": errors.New("mailbox unavailable")}

	d := NewDispatcher(1, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.MailJob{Kind: ports.MailVerification, To: "dead@example.com"})
	d.Enqueue(ports.MailJob{Kind: ports.MailVerification, To: "alive@example.com"})

	sent := mailer.await(t, 2)
	if sent[1].To != "alive@example.com" {
		t.Fatalf("worker did not continue after a failed delivery: %+v", sent)
	}
}
