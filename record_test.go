package fcgiclient

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteRecordPadsToEightByteBoundary(t *testing.T) {
	var buf bytes.Buffer
	pad := make([]byte, maxPaddingLength)

	require.NoError(t, writeRecord(&buf, pad, typeStdin, 1, []byte("abc")))

	require.Equal(t, 8+8, buf.Len()) // header + content padded to 8
}

func TestWriteRecordEmptyContentStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	pad := make([]byte, maxPaddingLength)

	require.NoError(t, writeRecord(&buf, pad, typeStdin, 1, nil))
	require.Equal(t, 8, buf.Len())
}

func TestReadRecordRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	pad := make([]byte, maxPaddingLength)
	content := []byte("hello, fastcgi")

	require.NoError(t, writeRecord(&buf, pad, typeStdout, 42, content))

	scratch := make([]byte, maxRecordContent)
	discard := make([]byte, maxPaddingLength)
	h, got, err := readRecord(&buf, scratch, discard)
	require.NoError(t, err)
	require.Equal(t, typeStdout, h.Type)
	require.Equal(t, uint16(42), h.RequestID)
	require.Equal(t, content, got)
}

func TestReadRecordRejectsWrongVersion(t *testing.T) {
	raw := []byte{2, byte(typeStdout), 0, 1, 0, 0, 0, 0}
	scratch := make([]byte, maxRecordContent)
	discard := make([]byte, maxPaddingLength)

	_, _, err := readRecord(bytes.NewReader(raw), scratch, discard)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestReadRecordShortHeaderIsShortRead(t *testing.T) {
	raw := []byte{1, byte(typeStdout), 0, 1}
	scratch := make([]byte, maxRecordContent)
	discard := make([]byte, maxPaddingLength)

	_, _, err := readRecord(bytes.NewReader(raw), scratch, discard)
	require.ErrorIs(t, err, ErrShortRead)
}

func TestReadRecordRejectsOversizedContentLength(t *testing.T) {
	raw := []byte{1, byte(typeStdout), 0, 1, 0xFF, 0xFF, 0, 0}
	scratch := make([]byte, 16)
	discard := make([]byte, maxPaddingLength)

	_, _, err := readRecord(bytes.NewReader(raw), scratch, discard)
	require.ErrorIs(t, err, ErrMalformedRecord)
}

type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func TestWriteRecordWrapsIoError(t *testing.T) {
	wantErr := errors.New("boom")
	pad := make([]byte, maxPaddingLength)

	err := writeRecord(errWriter{wantErr}, pad, typeStdin, 1, nil)
	require.ErrorIs(t, err, ErrIo)
	require.ErrorIs(t, err, wantErr)
}

func TestReadRecordEOFMidContentIsShortRead(t *testing.T) {
	// Header declares 10 bytes of content but only 3 follow.
	raw := []byte{1, byte(typeStdout), 0, 1, 0, 10, 0, 0, 'a', 'b', 'c'}
	scratch := make([]byte, maxRecordContent)
	discard := make([]byte, maxPaddingLength)

	_, _, err := readRecord(bytes.NewReader(raw), scratch, discard)
	require.ErrorIs(t, err, ErrShortRead)
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, ErrShortRead))
}
