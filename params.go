package fcgiclient

import (
	"strconv"

	"github.com/creasty/defaults"
)

// paramDefaults seeds the two CGI variables FastCGI servers expect to be
// present even on a minimal request. Using struct-tag defaults here, rather
// than hand-written if-empty checks, keeps the default set declarative and
// in one place as the well-known key list grows.
type paramDefaults struct {
	GatewayInterface string `default:"CGI/1.1"`
	ServerProtocol   string `default:"HTTP/1.1"`
}

// Params is a chainable builder for the CGI-style name/value pairs sent to
// a FastCGI server in the PARAMS stream. Keys are unique by last write;
// setting a key that was already set replaces its value in place rather
// than moving it to the end.
type Params struct {
	order []string
	index map[string]int
	value map[string]string
}

// NewParams returns a Params seeded with GATEWAY_INTERFACE=CGI/1.1 and
// SERVER_PROTOCOL=HTTP/1.1. All other well-known keys are absent until set.
func NewParams() *Params {
	p := &Params{
		index: make(map[string]int),
		value: make(map[string]string),
	}
	var seed paramDefaults
	_ = defaults.Set(&seed) // cannot fail for plain string tags
	p.Set("GATEWAY_INTERFACE", seed.GatewayInterface)
	p.Set("SERVER_PROTOCOL", seed.ServerProtocol)
	return p
}

// Set assigns an arbitrary CGI variable name to value, overwriting any
// previous value for that name. It is the generic escape hatch the typed
// setters below are built on.
func (p *Params) Set(name, value string) *Params {
	if i, ok := p.index[name]; ok {
		p.order[i] = name
		p.value[name] = value
		return p
	}
	p.index[name] = len(p.order)
	p.order = append(p.order, name)
	p.value[name] = value
	return p
}

// Get returns the current value of name and whether it has been set.
func (p *Params) Get(name string) (string, bool) {
	v, ok := p.value[name]
	return v, ok
}

func (p *Params) RequestMethod(v string) *Params    { return p.Set("REQUEST_METHOD", v) }
func (p *Params) ScriptName(v string) *Params       { return p.Set("SCRIPT_NAME", v) }
func (p *Params) ScriptFilename(v string) *Params   { return p.Set("SCRIPT_FILENAME", v) }
func (p *Params) RequestURI(v string) *Params       { return p.Set("REQUEST_URI", v) }
func (p *Params) DocumentURI(v string) *Params      { return p.Set("DOCUMENT_URI", v) }
func (p *Params) RemoteAddr(v string) *Params       { return p.Set("REMOTE_ADDR", v) }
func (p *Params) ServerAddr(v string) *Params       { return p.Set("SERVER_ADDR", v) }
func (p *Params) ServerName(v string) *Params       { return p.Set("SERVER_NAME", v) }
func (p *Params) ContentType(v string) *Params      { return p.Set("CONTENT_TYPE", v) }
func (p *Params) GatewayInterface(v string) *Params { return p.Set("GATEWAY_INTERFACE", v) }
func (p *Params) ServerProtocol(v string) *Params   { return p.Set("SERVER_PROTOCOL", v) }

func (p *Params) RemotePort(v int) *Params    { return p.Set("REMOTE_PORT", strconv.Itoa(v)) }
func (p *Params) ServerPort(v int) *Params    { return p.Set("SERVER_PORT", strconv.Itoa(v)) }
func (p *Params) ContentLength(v int) *Params { return p.Set("CONTENT_LENGTH", strconv.Itoa(v)) }

// encode flattens the pairs into the wire byte block described by the
// FastCGI name/value encoding, in insertion order, ready for chunking into
// PARAMS records.
func (p *Params) encode() []byte {
	var b []byte
	for _, name := range p.order {
		b = encodePair(b, []byte(name), []byte(p.value[name]))
	}
	return b
}
