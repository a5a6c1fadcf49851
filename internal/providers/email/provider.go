package email

import (
	"context"
	"errors"
)

// Send failures fall into three buckets callers care about: a header the
// mail stack would mangle, a transport-level SMTP failure, and everything else.
var (
	ErrMalformedHeader = errors.New("malformed header")
	ErrTransport       = errors.New("smtp transport failure")
	ErrSendFailed      = errors.New("mail sending failed")
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

// NoOpProvider accepts every message and drops it. Used in tests and when no
// SMTP endpoint is configured.
type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, msg Message) error {
	return nil
}
