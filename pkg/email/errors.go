package email

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrAuthNotSupported is returned when credentials are configured but the
// server does not offer AUTH. Sending unauthenticated would hide a misconfigured relay.
var ErrAuthNotSupported = errors.New("smtp auth: server does not support AUTH")

type DispatchReason string

const (
	ReasonNotConfigured DispatchReason = "not_configured"
	ReasonCompose       DispatchReason = "compose"
	ReasonTimeout       DispatchReason = "timeout"
	ReasonTransport     DispatchReason = "transport"
)

// DispatchError reports a failed hand-off to the mail transport. Its message
// is meant for server logs; clients only ever see a generic failure.
type DispatchError struct {
	Reason DispatchReason
	Err    error
}

func (e *DispatchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("email dispatch failed (%s)", e.Reason)
	}
	return fmt.Sprintf("email dispatch failed (%s): %v", e.Reason, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func (e *DispatchError) Timeout() bool {
	return e.Reason == ReasonTimeout
}

func reasonFor(ctx context.Context, err error) DispatchReason {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonTransport
}
