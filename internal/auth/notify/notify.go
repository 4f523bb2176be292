// Package notify delivers outbound email. The credential flows only see the
// Sender interface; which implementation backs it is decided at startup.
package notify

import (
	"context"
	"errors"
	"strings"
)

// Sender delivers one HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, to, subject, htmlBody string) error

func (f SenderFunc) Send(ctx context.Context, to, subject, htmlBody string) error {
	return f(ctx, to, subject, htmlBody)
}

// ErrHeaderInjection rejects header values that would start a new header line.
var ErrHeaderInjection = errors.New("notify: header value contains a line break")

func checkHeader(values ...string) error {
	for _, v := range values {
		if strings.ContainsAny(v, "\r\n") {
			return ErrHeaderInjection
		}
	}
	return nil
}
