package fcgiclient

import (
	"encoding/binary"
	"io"
)

// recordType is a FastCGI record type, as defined by the FastCGI
// specification section 8.
type recordType uint8

const (
	typeBeginRequest    recordType = 1
	typeAbortRequest    recordType = 2
	typeEndRequest      recordType = 3
	typeParams          recordType = 4
	typeStdin           recordType = 5
	typeStdout          recordType = 6
	typeStderr          recordType = 7
	typeData            recordType = 8
	typeGetValues       recordType = 9
	typeGetValuesResult recordType = 10
	typeUnknownType     recordType = 11
)

// role selects the behaviour the FastCGI server runs on this request. This
// client only ever sends roleResponder: authorizer/filter are server-side
// concerns out of scope here.
type role uint16

const (
	roleResponder  role = 1
	roleAuthorizer role = 2
	roleFilter     role = 3
)

// BEGIN_REQUEST flags.
const flagKeepConn uint8 = 0x01

// END_REQUEST protocol status values.
const (
	protocolStatusComplete      uint8 = 0
	protocolStatusCantMultiplex uint8 = 1
	protocolStatusOverloaded    uint8 = 2
	protocolStatusUnknownRole   uint8 = 3
)

const protocolVersion1 uint8 = 1

// maxRecordContent is the largest content length a single record's header
// can describe (content length is a 16-bit field).
const maxRecordContent = 65535

// maxPaddingLength is the largest padding length a record's header can
// describe. A decoder must be prepared to discard up to this much padding
// even though this client's own encoder only ever emits 0-7 padding bytes.
const maxPaddingLength = 255

// header is the 8-byte FastCGI record header, big-endian on the wire.
type header struct {
	Version       uint8
	Type          recordType
	RequestID     uint16
	ContentLength uint16
	PaddingLength uint8
	Reserved      uint8
}

// newHeader builds a header for a record of contentLength bytes, padding
// the content to the next 8-byte boundary as the protocol recommends.
func newHeader(t recordType, reqID uint16, contentLength int) header {
	return header{
		Version:       protocolVersion1,
		Type:          t,
		RequestID:     reqID,
		ContentLength: uint16(contentLength),
		PaddingLength: uint8((8 - contentLength%8) % 8),
	}
}

// writeRecord encodes and writes one complete record (header, content,
// zero padding) to w. pad must have at least maxPaddingLength zero bytes
// available; it is never mutated.
func writeRecord(w io.Writer, pad []byte, t recordType, reqID uint16, content []byte) error {
	h := newHeader(t, reqID, len(content))
	if err := binary.Write(w, binary.BigEndian, h); err != nil {
		return wrapErr(ErrIo, err, "writing record header")
	}
	if len(content) > 0 {
		if _, err := w.Write(content); err != nil {
			return wrapErr(ErrIo, err, "writing record content")
		}
	}
	if h.PaddingLength > 0 {
		if _, err := w.Write(pad[:h.PaddingLength]); err != nil {
			return wrapErr(ErrIo, err, "writing record padding")
		}
	}
	return nil
}

// readRecord reads one record's header, then reads its content into buf
// (truncating buf to the returned length; buf must have capacity for at
// least maxRecordContent bytes) and discards its padding using discard as
// scratch space. The returned slice aliases buf and is only valid until the
// next call to readRecord sharing the same buf.
func readRecord(r io.Reader, buf, discard []byte) (header, []byte, error) {
	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return header{}, nil, wrapErr(ErrShortRead, err, "reading record header")
		}
		return header{}, nil, wrapErr(ErrIo, err, "reading record header")
	}
	if h.Version != protocolVersion1 {
		return header{}, nil, wrapf(ErrUnsupportedVersion, "got version %d", h.Version)
	}
	if int(h.ContentLength) > cap(buf) {
		return header{}, nil, wrapf(ErrMalformedRecord, "content length %d exceeds buffer", h.ContentLength)
	}
	content := buf[:h.ContentLength]
	if h.ContentLength > 0 {
		if _, err := io.ReadFull(r, content); err != nil {
			return header{}, nil, shortReadOrIo(err, "reading record content")
		}
	}
	if h.PaddingLength > 0 {
		if int(h.PaddingLength) > cap(discard) {
			return header{}, nil, wrapf(ErrMalformedRecord, "padding length %d exceeds scratch buffer", h.PaddingLength)
		}
		if _, err := io.ReadFull(r, discard[:h.PaddingLength]); err != nil {
			return header{}, nil, shortReadOrIo(err, "reading record padding")
		}
	}
	return h, content, nil
}

func shortReadOrIo(err error, msg string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return wrapErr(ErrShortRead, err, msg)
	}
	return wrapErr(ErrIo, err, msg)
}
