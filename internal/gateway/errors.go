package gateway

import (
	"errors"
	"fmt"
)

// ErrTransport is matched by every *TransportError.
var ErrTransport = errors.New("transport error")

// ErrMalformedResponse is the cause recorded when a load response does not
// have the expected envelope.
var ErrMalformedResponse = errors.New("malformed response")

// TransportError reports a failed round trip to the character endpoint.
// Exactly one of Status (non-2xx reply) or Cause (network or decode failure) is set.
type TransportError struct {
	// Op is "load" or "save".
	Op     string
	Status int
	Cause  error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s character: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s character: HTTP error! status: %d", e.Op, e.Status)
}

// Unwrap returns the underlying cause, if any.
func (e *TransportError) Unwrap() error { return e.Cause }

// Is makes errors.Is(err, ErrTransport) hold.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
