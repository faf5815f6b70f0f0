package fcgiclient

import "encoding/binary"

// encodeSize appends the FastCGI variable-length size encoding of size to b
// (via append) and returns the extended slice. Sizes under 128 use a single
// byte with the top bit clear; larger sizes use four bytes, big-endian,
// with the top bit of the first byte set.
func encodeSize(b []byte, size uint32) []byte {
	if size < 128 {
		return append(b, byte(size))
	}
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], size|(1<<31))
	return append(b, tmp[:]...)
}

// encodePair appends the wire encoding of one name/value pair (sizes, then
// name bytes, then value bytes) to b and returns the extended slice.
func encodePair(b []byte, name, value []byte) []byte {
	b = encodeSize(b, uint32(len(name)))
	b = encodeSize(b, uint32(len(value)))
	b = append(b, name...)
	b = append(b, value...)
	return b
}

// readSize decodes one FastCGI variable-length size from the front of b,
// returning the value and the number of bytes it consumed. It returns
// (0, 0) if b does not hold a complete size (the boundary case a streaming
// decoder would need; this package only decodes sizes out of a fully
// buffered PARAMS block, so callers can treat (0, 0) as malformed input).
func readSize(b []byte) (uint32, int) {
	if len(b) == 0 {
		return 0, 0
	}
	if b[0]&0x80 == 0 {
		return uint32(b[0]), 1
	}
	if len(b) < 4 {
		return 0, 0
	}
	size := binary.BigEndian.Uint32(b)
	size &^= 1 << 31
	return size, 4
}

// decodePairs decodes a fully-buffered block of name/value pairs, as
// produced by Params.encode. It is used by tests to verify what a Request
// actually sent on the wire; the fcgitest mock server has its own decoder.
func decodePairs(b []byte) (map[string]string, error) {
	out := make(map[string]string)
	for len(b) > 0 {
		nameLen, n := readSize(b)
		if n == 0 {
			return nil, wrapf(ErrMalformedRecord, "truncated name length")
		}
		b = b[n:]
		valueLen, n := readSize(b)
		if n == 0 {
			return nil, wrapf(ErrMalformedRecord, "truncated value length")
		}
		b = b[n:]
		if uint32(len(b)) < nameLen+valueLen {
			return nil, wrapf(ErrMalformedRecord, "truncated name/value data")
		}
		name := string(b[:nameLen])
		b = b[nameLen:]
		value := string(b[:valueLen])
		b = b[valueLen:]
		out[name] = value
	}
	return out, nil
}
