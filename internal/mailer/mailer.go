package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/northmart/shopd/internal/providers/email"
	"go.uber.org/zap"
)

const defaultQueueSize = 256

// Dispatcher delivers emails from a background worker. Enqueue never blocks
// the caller and delivery errors are logged, not returned; callers that need
// delivery feedback should use the email.Provider directly.
type Dispatcher struct {
	provider email.Provider
	log      *zap.Logger
	queue    chan email.Message

	stopOnce sync.Once
	done     chan struct{}
}

func New(provider email.Provider, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		log:      log.Named("mailer"),
		queue:    make(chan email.Message, defaultQueueSize),
		done:     make(chan struct{}),
	}
}

// Enqueue submits a message for background delivery. When the queue is full
// the message is dropped and the drop is logged.
func (d *Dispatcher) Enqueue(msg email.Message) {
	select {
	case d.queue <- msg:
	default:
		d.log.Warn("mail queue full, dropping message",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
}

// Run drains the queue until Stop is called, then flushes what is left.
func (d *Dispatcher) Run() {
	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		case <-d.done:
			for {
				select {
				case msg := <-d.queue:
					d.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.done) })
}

func (d *Dispatcher) deliver(msg email.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := d.provider.Send(ctx, msg); err != nil {
		d.log.Warn("mail delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return
	}
	d.log.Debug("mail sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
}
