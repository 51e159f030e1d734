// Package clients provides the instrumented HTTP client shared by the
// remote collaborators: the quote store, the notification relay and the
// photo-analysis service. ACL adapters translate these infrastructure
// errors into domain errors; nothing above the adapter layer sees them.
package clients

import "errors"

var (
	// ErrCircuitOpen is returned while a collaborator's circuit is open
	// and requests are being shed.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrAttemptsExhausted is returned when every configured attempt
	// failed. The last attempt's error is wrapped.
	ErrAttemptsExhausted = errors.New("request attempts exhausted")
)
