package fcgiclient

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gofcgi/fcgiclient/metrics"
)

// Response is the result of one FastCGI request: the captured stdout and
// stderr bodies plus the server's end-of-request status. Stdout/Stderr are
// nil iff the server never emitted a non-empty record of that type.
type Response struct {
	Stdout         []byte
	Stderr         []byte
	AppStatus      uint32
	ProtocolStatus uint8
	StartedAt      time.Time
	EndedAt        time.Time
}

// Request bundles the parameters and body of one FastCGI invocation. Body
// is read until EOF and may be nil for a bodyless request (e.g. GET). If
// Body also implements io.Closer, it is closed once fully read or once the
// request is abandoned.
type Request struct {
	Params *Params
	Body   io.Reader
}

// requestEngine drives exactly one request over a shared connection: the
// BEGIN_REQUEST/PARAMS/STDIN send sequence and the STDOUT/STDERR/END_REQUEST
// receive loop run concurrently, per the protocol's full-duplex contract.
type requestEngine struct {
	stream    io.ReadWriteCloser
	bufs      *bufPool
	reqID     uint16
	keepAlive bool
	req       *Request
	logger    *slog.Logger
	metrics   *metrics.Collector
}

// execute runs the request to completion: it returns once END_REQUEST has
// been observed for reqID and the send half has finished, or once either
// half fails, or once ctx is cancelled.
func (e *requestEngine) execute(ctx context.Context) (*Response, error) {
	started := time.Now()
	log := e.logger
	if log == nil {
		log = slog.New(discardHandler{})
	}
	log = log.With("reqID", e.reqID)
	log.Debug("request start", "keepConn", e.keepAlive)

	var abortOnce sync.Once
	abort := func() { abortOnce.Do(func() { _ = e.stream.Close() }) }

	stop := watchContext(ctx, e.stream)
	defer stop()

	result := &Response{StartedAt: started}
	var stdout, stderr bytes.Buffer

	var g errgroup.Group

	g.Go(func() error {
		err := e.send()
		if err != nil {
			log.Debug("send half failed", "err", err)
			abort()
		}
		return err
	})

	g.Go(func() error {
		err := e.receive(&stdout, &stderr, result)
		if err != nil {
			log.Debug("receive half failed", "err", err)
			abort()
		}
		return err
	})

	err := g.Wait()
	result.EndedAt = time.Now()
	if stdout.Len() > 0 {
		result.Stdout = stdout.Bytes()
	}
	if stderr.Len() > 0 {
		result.Stderr = stderr.Bytes()
	}

	e.metrics.ObserveRequest(err == nil, result.EndedAt.Sub(started))
	if err != nil {
		log.Warn("request failed", "err", err, "timeout", isNetTimeout(err))
		return result, err
	}
	log.Debug("request complete", "appStatus", result.AppStatus, "protocolStatus", result.ProtocolStatus)
	return result, nil
}

// send emits BEGIN_REQUEST, the PARAMS stream, and the STDIN stream, in
// that strict order, each terminated as the protocol requires.
func (e *requestEngine) send() error {
	var flags uint8
	if e.keepAlive {
		flags = flagKeepConn
	}
	if err := e.writeBeginRequest(flags); err != nil {
		return err
	}
	if err := e.writeStream(typeParams, bytes.NewReader(e.req.Params.encode())); err != nil {
		return err
	}
	body := e.req.Body
	if body == nil {
		body = bytes.NewReader(nil)
	}
	if closer, ok := body.(io.Closer); ok {
		defer closer.Close()
	}
	return e.writeStream(typeStdin, body)
}

func (e *requestEngine) writeBeginRequest(flags uint8) error {
	content := [8]byte{byte(roleResponder >> 8), byte(roleResponder), flags}
	return writeRecord(e.stream, e.bufs.pad, typeBeginRequest, e.reqID, content[:])
}

// writeStream chunks src into ≤65535-byte records of type t, reusing the
// Client's scratch buffer, then emits a single empty terminator record. A
// zero-length src still produces exactly one (empty) record.
func (e *requestEngine) writeStream(t recordType, src io.Reader) error {
	for {
		n, err := io.ReadFull(src, e.bufs.sendChunk)
		if n > 0 {
			if werr := writeRecord(e.stream, e.bufs.pad, t, e.reqID, e.bufs.sendChunk[:n]); werr != nil {
				return werr
			}
			e.metrics.AddBytesSent(streamLabel(t), n)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return wrapErr(ErrIo, err, "reading request body")
		}
	}
	return writeRecord(e.stream, e.bufs.pad, t, e.reqID, nil)
}

// receive reads records until it observes END_REQUEST for e.reqID, routing
// STDOUT/STDERR payloads into the matching buffer. Records for a foreign
// request id, and management records other than those of interest, are
// read and discarded.
func (e *requestEngine) receive(stdout, stderr *bytes.Buffer, result *Response) error {
	for {
		h, content, err := readRecord(e.stream, e.bufs.recvChunk, e.bufs.discard)
		if err != nil {
			return err
		}
		if h.RequestID != e.reqID {
			continue
		}
		switch h.Type {
		case typeStdout:
			if len(content) > 0 {
				stdout.Write(content)
				e.metrics.AddBytesReceived("stdout", len(content))
			}
		case typeStderr:
			if len(content) > 0 {
				stderr.Write(content)
				e.metrics.AddBytesReceived("stderr", len(content))
			}
		case typeEndRequest:
			if len(content) < 8 {
				return wrapf(ErrMalformedRecord, "end request payload %d bytes, want 8", len(content))
			}
			result.AppStatus = uint32(content[0])<<24 | uint32(content[1])<<16 | uint32(content[2])<<8 | uint32(content[3])
			result.ProtocolStatus = content[4]
			if result.ProtocolStatus != protocolStatusComplete {
				return &EndRequestError{ProtocolStatus: result.ProtocolStatus}
			}
			return nil
		default:
			// Management records and any other type are discarded;
			// this client only ever issues one request at a time.
		}
	}
}

func streamLabel(t recordType) string {
	switch t {
	case typeParams:
		return "params"
	case typeStdin:
		return "stdin"
	default:
		return "other"
	}
}

// discardHandler is a slog.Handler that drops every record; used as the
// zero-cost default when a Client has no logger attached.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }
