package email

import (
	"errors"
	"net"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckHeaders(t *testing.T) {
	for _, tc := range []struct {
		name string
		msg  Message
		want error
	}{
		{"clean", Message{To: "jo@example.com", Subject: "hi"}, nil},
		{"newline in to", Message{To: "jo@example.com\nBcc: evil@example.com", Subject: "hi"}, ErrMalformedHeader},
		{"carriage return in subject", Message{To: "jo@example.com", Subject: "hi\rX-Spam: yes"}, ErrMalformedHeader},
		{"empty to", Message{To: "   ", Subject: "hi"}, ErrMalformedHeader},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := checkHeaders(tc.msg)
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	smtpErr := &textproto.Error{Code: 550, Msg: "mailbox unavailable"}
	assert.ErrorIs(t, classify(smtpErr), ErrTransport)

	var netErr net.Error = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	assert.ErrorIs(t, classify(netErr), ErrTransport)

	assert.ErrorIs(t, classify(errors.New("boom")), ErrSendFailed)
}
