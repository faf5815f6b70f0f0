package fcgiclient

import (
	"errors"
	"fmt"
)

// Sentinel errors a caller can test for with errors.Is. They mirror the
// taxonomy a FastCGI client must surface: transport failures, protocol
// framing failures, and the server's own end-of-request protocol status.
var (
	// ErrIo wraps an underlying stream read/write failure.
	ErrIo = errors.New("fcgi: transport i/o error")

	// ErrShortRead means the connection closed mid-record: fewer bytes
	// were available than the header or content length promised.
	ErrShortRead = errors.New("fcgi: short read, connection closed mid-record")

	// ErrUnsupportedVersion means an inbound record declared a protocol
	// version other than 1.
	ErrUnsupportedVersion = errors.New("fcgi: unsupported protocol version")

	// ErrMalformedRecord means a record's declared lengths disagree with
	// what was observed (e.g. an END_REQUEST body shorter than 8 bytes).
	ErrMalformedRecord = errors.New("fcgi: malformed record")

	// ErrRequestIDOverflow names request id exhaustion. No code in this
	// package returns it: the Client's allocator wraps from 65535 back to 1.
	ErrRequestIDOverflow = errors.New("fcgi: request id space exhausted")

	// ErrClientClosed is returned when Execute/ExecuteOnce is called on a
	// Client whose underlying connection has already been closed.
	ErrClientClosed = errors.New("fcgi: client connection has been closed")

	// ErrInFlight is returned when a second Execute is attempted while one
	// request is already in flight on the same Client.
	ErrInFlight = errors.New("fcgi: a request is already in flight on this client")

	// ErrInvalidConfig is returned by NewConfig when a Config fails
	// validation.
	ErrInvalidConfig = errors.New("fcgi: invalid config")
)

// EndRequestError reports a FastCGI-level failure signalled by the server's
// END_REQUEST record: the server declined or could not complete the
// request, as opposed to a transport or framing failure.
type EndRequestError struct {
	ProtocolStatus uint8
}

func (e *EndRequestError) Error() string {
	switch e.ProtocolStatus {
	case protocolStatusCantMultiplex:
		return "fcgi: server cannot multiplex connections (CANT_MPX_CONN)"
	case protocolStatusOverloaded:
		return "fcgi: server overloaded, request rejected (OVERLOADED)"
	case protocolStatusUnknownRole:
		return "fcgi: server does not support the requested role (UNKNOWN_ROLE)"
	default:
		return fmt.Sprintf("fcgi: end request protocol status %d", e.ProtocolStatus)
	}
}

// wrapf wraps err with kind so errors.Is(result, kind) succeeds while still
// carrying msg/args for a human reading the error chain.
func wrapf(kind error, msg string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), kind)
}

// wrapErr wraps err under kind, preserving err in the chain alongside kind
// so both errors.Is(result, kind) and errors.Is(result, err) succeed.
func wrapErr(kind, err error, msg string) error {
	return fmt.Errorf("%s: %w: %w", msg, kind, err)
}
