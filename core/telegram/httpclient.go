package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/carta/core/buildinfo"
)

const (
	defaultDialTimeout       = 5 * time.Second
	defaultTLSHandshake      = 5 * time.Second
	defaultIdleConnTimeout   = 30 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
	// long polls hold the request open for up to the poll timeout
	defaultClientTimeout = 40 * time.Second
)

// BuildHTTPClient returns an HTTP client tuned for Telegram API calls.
// Failed calls are reported to the caller as is; nothing is retried.
func BuildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Timeout:   defaultClientTimeout,
		Transport: userAgent{base: transport, value: buildinfo.UserAgent()},
	}
}

// userAgent stamps every Bot API request with the build identifier.
type userAgent struct {
	base  http.RoundTripper
	value string
}

func (t userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.value)
	return t.base.RoundTrip(req)
}
