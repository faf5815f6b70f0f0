package fcgiclient

import (
	"context"
	"errors"
	"io"
	"net"
	"time"
)

// deadlineSetter is implemented by net.Conn and anything else that exposes
// cooperative, deadline-based cancellation. Streams that don't implement it
// get no deadline; a pending read or write on them is unblocked only when
// watchContext closes the stream on cancellation.
type deadlineSetter interface {
	SetDeadline(time.Time) error
}

// watchContext arranges for stream to be closed if ctx is done before stop
// is called, so a goroutine blocked on a Read or Write against stream is
// unblocked rather than hanging forever when the caller cancels execution.
// It returns a stop function that must always be called to release the
// watcher goroutine.
//
// When stream also implements deadlineSetter (the common case: a net.Conn),
// watchContext additionally arms a deadline from ctx's own deadline, if any,
// so a well-behaved cancellation surfaces as a net.Error with Timeout()
// rather than only as "use of closed network connection".
func watchContext(ctx context.Context, stream io.Closer) (stop func()) {
	if d, ok := stream.(deadlineSetter); ok {
		if deadline, ok := ctx.Deadline(); ok {
			_ = d.SetDeadline(deadline)
		}
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = stream.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// isNetTimeout reports whether err is a network timeout, the shape a
// deadline-triggered cancellation takes.
func isNetTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
