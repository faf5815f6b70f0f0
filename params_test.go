package fcgiclient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewParamsSeedsDefaults(t *testing.T) {
	p := NewParams()

	gi, ok := p.Get("GATEWAY_INTERFACE")
	require.True(t, ok)
	require.Equal(t, "CGI/1.1", gi)

	sp, ok := p.Get("SERVER_PROTOCOL")
	require.True(t, ok)
	require.Equal(t, "HTTP/1.1", sp)
}

func TestParamsSetOverwritesInPlace(t *testing.T) {
	p := NewParams()
	p.Set("A", "1")
	p.Set("B", "2")
	p.Set("A", "3")

	require.Equal(t, []string{"GATEWAY_INTERFACE", "SERVER_PROTOCOL", "A", "B"}, p.order)

	v, ok := p.Get("A")
	require.True(t, ok)
	require.Equal(t, "3", v)
}

func TestParamsChainedTypedSetters(t *testing.T) {
	p := NewParams().
		RequestMethod("POST").
		ScriptFilename("/var/www/app.php").
		RemotePort(54321).
		ContentLength(128)

	v, _ := p.Get("REQUEST_METHOD")
	require.Equal(t, "POST", v)
	v, _ = p.Get("SCRIPT_FILENAME")
	require.Equal(t, "/var/www/app.php", v)
	v, _ = p.Get("REMOTE_PORT")
	require.Equal(t, "54321", v)
	v, _ = p.Get("CONTENT_LENGTH")
	require.Equal(t, "128", v)
}

func TestParamsEncodeRoundTripsThroughDecodePairs(t *testing.T) {
	p := NewParams().RequestMethod("GET").ScriptName("/index.php")

	decoded, err := decodePairs(p.encode())
	require.NoError(t, err)
	require.Equal(t, "GET", decoded["REQUEST_METHOD"])
	require.Equal(t, "/index.php", decoded["SCRIPT_NAME"])
	require.Equal(t, "CGI/1.1", decoded["GATEWAY_INTERFACE"])
}

func TestParamsGetMissingKey(t *testing.T) {
	p := NewParams()
	_, ok := p.Get("NOT_SET")
	require.False(t, ok)
}
