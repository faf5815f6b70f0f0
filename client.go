package fcgiclient

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/gofcgi/fcgiclient/metrics"
)

// Client drives FastCGI requests, one at a time, over a single caller-owned
// stream. It does not dial, pool, or retry connections: the caller supplies
// a live io.ReadWriteCloser (typically a net.Conn) and Client speaks the
// wire protocol across it.
//
// A Client serializes its requests: Execute and ExecuteOnce both fail with
// ErrInFlight if called while another request is already running on the
// same Client. This matches the protocol's allowance for request
// multiplexing without requiring Client itself to implement a scheduler;
// callers that want concurrent requests should open multiple connections
// and multiple Clients.
type Client struct {
	stream io.ReadWriteCloser
	bufs   *bufPool
	cfg    Config
	id     uuid.UUID
	logger *slog.Logger
	metric *metrics.Collector

	// keepAlive records which constructor built this Client, purely for
	// logging: the actual KEEP_CONN flag on the wire is decided per call,
	// by Execute (true) vs ExecuteOnce (false), not by this field.
	keepAlive bool

	mu        sync.Mutex
	closed    bool
	busy      bool
	nextReqID uint16
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithLogger attaches a structured logger; every request logs its start,
// outcome, and protocol status at Debug, and failures at Warn.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics attaches a Prometheus collector. Passing nil (the default) is
// valid and simply disables instrumentation.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metric = m }
}

// WithConfig overrides the Client's Config; the default is DefaultConfig().
func WithConfig(cfg Config) Option {
	return func(c *Client) { c.cfg = cfg }
}

// New returns a Client for a stream the caller expects to use for a single
// request, typically via ExecuteOnce. The constructor does not decide the
// BEGIN_REQUEST flag KEEP_CONN: ExecuteOnce never sets it and Execute always
// does, whichever constructor built the Client.
func New(stream io.ReadWriteCloser, opts ...Option) *Client {
	return newClient(stream, false, opts)
}

// NewKeepAlive returns a Client for a stream the caller means to reuse
// across requests via Execute, which sets KEEP_CONN on every request, so
// the caller (not the server) owns closing stream once done with it; call
// Client.Close when finished. As with New, ExecuteOnce on this Client still
// omits KEEP_CONN.
func NewKeepAlive(stream io.ReadWriteCloser, opts ...Option) *Client {
	return newClient(stream, true, opts)
}

func newClient(stream io.ReadWriteCloser, keepAlive bool, opts []Option) *Client {
	c := &Client{
		stream:    stream,
		cfg:       DefaultConfig(),
		id:        uuid.New(),
		nextReqID: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.bufs = newBufPool(c.cfg.MaxWriteSize)
	c.keepAlive = keepAlive
	return c
}

// ID identifies this Client instance for correlating log lines across a
// process that may hold many Clients open at once. Metrics are not labelled
// with it.
func (c *Client) ID() uuid.UUID { return c.id }

// Execute runs req to completion with KEEP_CONN set, so the connection
// remains open afterward for a subsequent Execute or ExecuteOnce call. It
// returns ErrClientClosed if Close has already been called, and ErrInFlight
// if another request is already running.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	return c.do(ctx, req, true)
}

// ExecuteOnce runs req to completion without KEEP_CONN: a well-behaved
// server closes the connection once END_REQUEST has been sent, and the
// Client marks itself closed afterward regardless of outcome.
func (c *Client) ExecuteOnce(ctx context.Context, req *Request) (*Response, error) {
	defer func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
	}()
	return c.do(ctx, req, false)
}

func (c *Client) do(ctx context.Context, req *Request, keepConn bool) (*Response, error) {
	reqID, err := c.acquire()
	if err != nil {
		return nil, err
	}
	defer c.release()
	if !keepConn {
		// ExecuteOnce leaves the Client marked closed, after which Close no
		// longer reaches the stream, so the stream is released here.
		defer c.stream.Close()
	}

	if req.Params == nil {
		req.Params = NewParams()
	}

	logger := c.logger
	if logger != nil {
		logger = logger.With("client", c.id, "clientKeepAlive", c.keepAlive)
	}

	eng := &requestEngine{
		stream:    c.stream,
		bufs:      c.bufs,
		reqID:     reqID,
		keepAlive: keepConn,
		req:       req,
		logger:    logger,
		metrics:   c.metric,
	}
	return eng.execute(ctx)
}

// acquire validates Client state and reserves the next request id, failing
// fast instead of racing two requests onto the same connection.
func (c *Client) acquire() (uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrClientClosed
	}
	if c.busy {
		return 0, ErrInFlight
	}
	c.busy = true

	id := c.nextReqID
	c.nextReqID++
	if c.nextReqID == 0 {
		c.nextReqID = 1
	}
	return id, nil
}

func (c *Client) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// Close closes the underlying stream. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.stream.Close()
}
