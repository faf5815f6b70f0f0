package fcgiclient

// bufPool holds the heap-allocated scratch buffers a Client reuses across
// every request it drives, so the hot path of framing and draining records
// never allocates a fresh 64KB buffer per call. See Design Note "Avoiding
// per-request allocation churn": the buffers live for the lifetime of the
// Client, not the lifetime of one request.
//
// Allocating these with make (rather than as stack-local arrays) is also
// what keeps the maximum-size record buffer off the call stack, which the
// protocol's own design notes call out as a requirement on platforms with
// small default stack sizes.
type bufPool struct {
	// sendChunk stages a bounded read from a body io.Reader before
	// framing it as one PARAMS or STDIN record. Owned exclusively by the
	// send half of a request. Its length is Config.MaxWriteSize, which
	// bounds how much of a logical stream lands in a single record; the
	// backing array is allocated at exactly that length.
	sendChunk []byte

	// recvChunk holds inbound record content while decoding. Owned
	// exclusively by the receive half of a request. It must be a
	// separate buffer from sendChunk: the send and receive halves of one
	// request run concurrently, and sharing a buffer between them would
	// be a data race. Always sized to maxRecordContent: an inbound
	// record's content length is the server's choice, not ours, so
	// MaxWriteSize (which only governs what we write) does not apply.
	recvChunk []byte

	// pad holds maxPaddingLength zero bytes for writing a record's
	// padding without allocating it fresh each time.
	pad []byte

	// discard holds scratch space for reading and throwing away an
	// inbound record's padding bytes.
	discard []byte
}

// newBufPool allocates a Client's scratch buffers, chunking outbound writes
// to at most maxWriteSize bytes per record.
func newBufPool(maxWriteSize int) *bufPool {
	if maxWriteSize <= 0 || maxWriteSize > maxRecordContent {
		maxWriteSize = maxRecordContent
	}
	return &bufPool{
		sendChunk: make([]byte, maxWriteSize),
		recvChunk: make([]byte, maxRecordContent),
		pad:       make([]byte, maxPaddingLength),
		discard:   make([]byte, maxPaddingLength),
	}
}
