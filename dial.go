package fcgiclient

import (
	"context"
	"net"
)

// Dial connects to a FastCGI server over TCP or a Unix socket (network and
// address as accepted by net.Dial) and returns a ready-to-use Client. It is
// a convenience: Client itself never dials, and an existing stream (e.g.
// one borrowed from a pool) should be handed to New/NewKeepAlive directly
// instead.
//
// cfg.ConnectTimeout bounds the dial itself. cfg.RequestTimeout, if
// nonzero, is not applied here; see ExecuteWithTimeout.
func Dial(ctx context.Context, network, address string, cfg Config, opts ...Option) (*Client, error) {
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, wrapErr(ErrIo, err, "dialing fastcgi server")
	}
	return NewKeepAlive(conn, append(opts, WithConfig(cfg))...), nil
}

// ExecuteWithTimeout runs req through Execute, wrapping ctx in a
// context.WithTimeout derived from the Client's configured RequestTimeout
// when it is nonzero. A zero RequestTimeout (the engine's own default
// behavior) runs with ctx unmodified.
func (c *Client) ExecuteWithTimeout(ctx context.Context, req *Request) (*Response, error) {
	if c.cfg.RequestTimeout <= 0 {
		return c.Execute(ctx, req)
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()
	return c.Execute(ctx, req)
}
