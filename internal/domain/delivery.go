package domain

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies a delivery failure. Every kind except
// FailureAuthentication is transient: the attempt is recorded as bounced and
// the batch continues. FailureAuthentication is fatal for the whole batch
// because every subsequent attempt through the same channel will fail
// identically.
type FailureKind string

const (
	FailureTimeout           FailureKind = "timeout"
	FailureDNS               FailureKind = "dns_error"
	FailureConnectionRefused FailureKind = "connection_refused"
	FailureAuthentication    FailureKind = "auth_failed"
	FailureTransport         FailureKind = "smtp_error"
)

// DeliveryError is a classified transport failure.
type DeliveryError struct {
	Kind FailureKind
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed (%s): %v", e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Fatal reports whether the failure must abort the remaining batch.
func (e *DeliveryError) Fatal() bool { return e.Kind == FailureAuthentication }

// Tag is the short annotation embedded in the stored ledger content for
// audit. Generic transport failures carry their detail.
func (e *DeliveryError) Tag() string {
	if e.Kind == FailureTransport && e.Err != nil {
		return fmt.Sprintf("%s: %v", FailureTransport, e.Err)
	}
	return string(e.Kind)
}

// AsDeliveryError unwraps err into a DeliveryError, if it is one.
func AsDeliveryError(err error) (*DeliveryError, bool) {
	var derr *DeliveryError
	if errors.As(err, &derr) {
		return derr, true
	}
	return nil, false
}

// Message is one outbound email handed to a delivery channel.
type Message struct {
	To      string
	Subject string
	Body    string
	Sender  SenderIdentity
}

// Channel is one scoped delivery session. Send failures are returned as
// *DeliveryError. Channels are not safe for concurrent use; the engine
// drives them strictly sequentially.
type Channel interface {
	Send(ctx context.Context, msg *Message) error
	Close() error
}

// ChannelDialer opens a delivery channel for the duration of one campaign.
// The engine closes the channel on every exit path.
type ChannelDialer interface {
	Open(ctx context.Context) (Channel, error)
}
