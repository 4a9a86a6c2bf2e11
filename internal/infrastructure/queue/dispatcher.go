package queue

import (
	"context"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/contactsbook/contacts-api/internal/api/metrics"
	"github.com/contactsbook/contacts-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher delivers queued emails on a fixed set of workers, hashing on
// the recipient so mails to the same address keep their enqueue order.
// Delivery is detached from the request cycle: callers never await the
// result, and failures are logged rather than surfaced.
type Dispatcher struct {
	workers []chan ports.MailJob
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.MailJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a mail job to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity. A job without an ID
// gets one assigned for log correlation.
func (d *Dispatcher) Enqueue(job ports.MailJob) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	d.workers[d.shardIndex(job.To)] <- job
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MailJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mailer.Send(ctx, job); err != nil {
				metrics.EmailErrorsTotal.WithLabelValues(string(job.Kind)).Inc()
				d.log.Error().Err(err).
					Str("job_id", job.ID).
					Str("kind", string(job.Kind)).
					Int("worker_id", id).
					Msg("email delivery failed")
				continue
			}
			metrics.EmailsDispatchedTotal.WithLabelValues(string(job.Kind)).Inc()
			d.log.Debug().Str("job_id", job.ID).Str("kind", string(job.Kind)).Msg("email delivered")
		}
	}
}
