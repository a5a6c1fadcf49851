package mailer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/northmart/shopd/internal/providers/email"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type captureProvider struct {
	mu   sync.Mutex
	sent []email.Message
}

func (p *captureProvider) Send(ctx context.Context, msg email.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return nil
}

func (p *captureProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func TestDispatcherDeliversQueuedMail(t *testing.T) {
	provider := &captureProvider{}
	d := New(provider, zaptest.NewLogger(t))

	done := make(chan struct{})
	go func() {
		d.Run()
		close(done)
	}()

	d.Enqueue(email.Message{To: "jo@example.com", Subject: "Order confirmation"})
	d.Enqueue(email.Message{To: "jo@example.com", Subject: "Payment remainder"})

	assert.Eventually(t, func() bool { return provider.count() == 2 },
		2*time.Second, 10*time.Millisecond)

	d.Stop()
	<-done
}

func TestDispatcherFlushesOnStop(t *testing.T) {
	provider := &captureProvider{}
	d := New(provider, zaptest.NewLogger(t))

	// Enqueue before the worker starts, then stop immediately: the queued
	// message must still go out during the final drain.
	d.Enqueue(email.Message{To: "jo@example.com", Subject: "Order confirmation"})
	d.Stop()

	d.Run()
	assert.Equal(t, 1, provider.count())
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	provider := &captureProvider{}
	d := New(provider, zaptest.NewLogger(t))

	// No worker running: fill the queue past capacity. Enqueue must never
	// block the caller.
	for i := 0; i < defaultQueueSize+10; i++ {
		d.Enqueue(email.Message{To: "jo@example.com", Subject: "Order confirmation"})
	}

	d.Stop()
	d.Run()
	assert.Equal(t, defaultQueueSize, provider.count())
}
