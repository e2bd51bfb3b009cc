// Package rtmpurl parses RTMP URLs of the form
// rtmp[s|t|ts|e|te]://host[:port]/app[/subapp]/streamKey[?query] and
// derives the app/tcUrl/streamKey values a connect object needs, per
// §4.10 and §6.
package rtmpurl

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bluenviron/rtmplib/rtmperrs"
)

// Scheme identifies which of the six RTMP URL schemes was parsed.
type Scheme string

// Supported schemes.
const (
	SchemeRTMP   Scheme = "rtmp"
	SchemeRTMPS  Scheme = "rtmps"
	SchemeRTMPT  Scheme = "rtmpt"
	SchemeRTMPTS Scheme = "rtmpts"
	SchemeRTMPE  Scheme = "rtmpe"
	SchemeRTMPTE Scheme = "rtmpte"
)

// defaultPorts maps each scheme to its default TCP port, per §6.
var defaultPorts = map[Scheme]string{
	SchemeRTMP:   "1935",
	SchemeRTMPE:  "1935",
	SchemeRTMPS:  "443",
	SchemeRTMPTS: "443",
	SchemeRTMPT:  "80",
	SchemeRTMPTE: "80",
}

// URL is a parsed RTMP URL plus its derived connect-object values.
type URL struct {
	Scheme Scheme
	Host   string // host:port, port always present
	App    string // first path segment, or first two when nested
	Stream string // path segments after App (+ query string)
	TCURL  string // scheme://host:port/App, without the stream key or query
}

// usesTLS reports whether Scheme terminates in TLS.
func (u URL) usesTLS() bool {
	return u.Scheme == SchemeRTMPS || u.Scheme == SchemeRTMPTS
}

// UsesTLS reports whether the parsed URL's scheme runs over TLS.
func (u URL) UsesTLS() bool { return u.usesTLS() }

// IsTunneled reports whether the parsed URL's scheme is the
// HTTP-tunneled family (rtmpt/rtmpts/rtmpte).
func (u URL) IsTunneled() bool {
	switch u.Scheme {
	case SchemeRTMPT, SchemeRTMPTS, SchemeRTMPTE:
		return true
	}
	return false
}

// Parse parses raw as an RTMP URL. Scheme matching is case-insensitive.
func Parse(raw string) (URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return URL{}, &rtmperrs.ProtocolError{Reason: "invalid RTMP URL: " + err.Error()}
	}

	scheme := Scheme(strings.ToLower(parsed.Scheme))
	defaultPort, ok := defaultPorts[scheme]
	if !ok {
		return URL{}, &rtmperrs.ProtocolError{Reason: fmt.Sprintf("unsupported RTMP scheme %q", parsed.Scheme)}
	}

	host := parsed.Host
	if host == "" {
		return URL{}, &rtmperrs.ProtocolError{Reason: "RTMP URL missing host"}
	}
	if !strings.Contains(host, ":") {
		host += ":" + defaultPort
	}

	app, stream := splitPath(parsed)

	tcURLCopy := *parsed
	tcURLCopy.Host = host
	tcURLCopy.RawQuery = ""
	tcURLCopy.Path = "/" + app

	return URL{
		Scheme: scheme,
		Host:   host,
		App:    app,
		Stream: stream,
		TCURL:  tcURLCopy.String(),
	}, nil
}

// splitPath implements §4.10/§6's app/streamKey derivation: the app is
// the first path segment, or the first two when the path nests a
// subapp; the stream key is whatever remains, plus any query string.
func splitPath(u *url.URL) (app, stream string) {
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) == 1 && segs[0] == "" {
		return "", ""
	}

	switch {
	case len(segs) == 1:
		app = segs[0]
	case len(segs) == 2:
		app = segs[0]
		stream = segs[1]
	default:
		app = strings.Join(segs[:2], "/")
		stream = strings.Join(segs[2:], "/")
	}

	if u.RawQuery != "" {
		stream += "?" + u.RawQuery
	}
	return app, stream
}
