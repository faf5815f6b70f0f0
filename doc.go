// Package fcgiclient speaks the client side of the FastCGI wire protocol
// (as served by PHP-FPM and similar application servers) over a caller-owned
// bidirectional byte stream such as a *net.TCPConn or *net.UnixConn.
//
// A caller dials its own transport, builds a Params value describing the
// CGI-style environment, and calls Client.Execute (or ExecuteOnce) with a
// Request carrying those Params and an optional body reader. The client
// frames BEGIN_REQUEST/PARAMS/STDIN records, drains STDOUT/STDERR/END_REQUEST
// concurrently so neither side deadlocks against the other's buffers, and
// returns the captured output.
//
// Client itself does not dial (Dial is a thin convenience that opens a
// connection and wraps it in a Client). This package does not pool
// connections across endpoints,
// and does not interpret the CGI response (status line, headers) — it hands
// back raw stdout/stderr bytes plus the FastCGI-level completion status.
package fcgiclient
