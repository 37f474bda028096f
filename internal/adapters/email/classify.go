package email

import (
	"errors"
	"net"
	"syscall"

	"outreachengine/internal/domain"
)

// classifyNetworkError maps a transport error onto the delivery failure
// taxonomy. Authentication failures are classified at the call site, where
// the session phase is known.
func classifyNetworkError(err error) *domain.DeliveryError {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &domain.DeliveryError{Kind: domain.FailureDNS, Err: err}
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &domain.DeliveryError{Kind: domain.FailureConnectionRefused, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.DeliveryError{Kind: domain.FailureTimeout, Err: err}
	}
	return &domain.DeliveryError{Kind: domain.FailureTransport, Err: err}
}
