// Package httpenv bridges an incoming net/http.Request to the CGI-style
// Params a FastCGI server expects, for callers building a FastCGI-backed
// HTTP handler on top of fcgiclient. Building Params from an *http.Request
// is a convenience, not a requirement: fcgiclient.Client itself never
// touches net/http.
package httpenv

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofcgi/fcgiclient"
)

// FromRequest builds a Params set from r's method, URL, headers, and
// connection metadata: the common CGI variables every FastCGI server
// (PHP-FPM foremost) expects, plus one HTTP_* variable per request header.
//
// scriptFilename is the absolute path of the script the server should
// execute (CGI's SCRIPT_FILENAME); fcgiclient has no notion of a document
// root or file routing, so the caller supplies it directly.
func FromRequest(r *http.Request, scriptFilename string) *fcgiclient.Params {
	p := fcgiclient.NewParams()

	isHTTPS := r.TLS != nil
	remoteAddr, remotePort, _ := net.SplitHostPort(r.RemoteAddr)
	host, serverPort, err := net.SplitHostPort(r.Host)
	if err != nil {
		host = r.Host
		if isHTTPS {
			serverPort = "443"
		} else {
			serverPort = "80"
		}
	}

	p.RequestMethod(r.Method).
		RequestURI(r.URL.RequestURI()).
		DocumentURI(r.URL.Path).
		ScriptName(r.URL.Path).
		ScriptFilename(scriptFilename).
		ServerProtocol(r.Proto).
		ServerName(host).
		RemoteAddr(remoteAddr)

	if port, err := strconv.Atoi(remotePort); err == nil {
		p.RemotePort(port)
	}
	if port, err := strconv.Atoi(serverPort); err == nil {
		p.ServerPort(port)
	}

	p.Set("QUERY_STRING", r.URL.RawQuery)
	p.Set("REDIRECT_STATUS", "200")
	if isHTTPS {
		p.Set("HTTPS", "on")
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		p.ContentType(ct)
	}
	if cl := r.Header.Get("Content-Length"); cl != "" {
		p.Set("CONTENT_LENGTH", cl)
	}

	mapHeaders(p, r.Header)
	return p
}

// mapHeaders maps every request header into an HTTP_* CGI variable, per
// RFC 3875 §4.1.18: "foo-bar: baz" becomes HTTP_FOO_BAR=baz. CONTENT_TYPE
// and CONTENT_LENGTH are handled separately above and never overwritten
// here, matching how a real web server front end behaves.
func mapHeaders(p *fcgiclient.Params, h http.Header) {
	for k, v := range h {
		key := strings.ReplaceAll(strings.ToUpper(k), "-", "_")
		if key == "CONTENT_TYPE" || key == "CONTENT_LENGTH" {
			continue
		}
		// Per RFC 7230 §3.2.2, multiple header fields with the same
		// name are combined into one comma-separated value in order.
		p.Set("HTTP_"+key, strings.Join(v, ","))
	}
}
