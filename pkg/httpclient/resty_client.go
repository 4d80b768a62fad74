package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const maxRedirects = 10

// NewRestyHTTPClient returns a resty.Client with the SDK transport's timeouts and
// redirect policy for endpoints other than the Knawat API. Certificates are always
// verified; the API-only VerifySSL default does not apply.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	opts := DefaultOptions()
	opts.Timeout = timeout
	opts.VerifySSL = true
	return newRestyBaseClient(opts.normalize())
}

// newRestyBaseClient creates a resty.Client that opens a fresh connection per request.
func newRestyBaseClient(opts Options) *resty.Client {
	dialer := &net.Dialer{Timeout: opts.Timeout}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: opts.Timeout,
		DisableKeepAlives:   true,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !opts.VerifySSL, //nolint:gosec // verify_ssl defaults to false for API compatibility
		},
	}

	c := resty.New()
	c.SetTransport(transport)
	c.SetTimeout(opts.Timeout)
	c.SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))
	return c
}

// transportInfo flattens the resty response metadata into TransportInfo.
func transportInfo(resp *resty.Response) TransportInfo {
	info := TransportInfo{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Proto:      resp.Proto(),
		Header:     resp.Header(),
		Size:       resp.Size(),
		TotalTime:  resp.Time(),
		ReceivedAt: resp.ReceivedAt(),
	}
	if resp.RawResponse != nil {
		info.ContentLength = resp.RawResponse.ContentLength
	}
	if resp.Request != nil {
		info.Method = resp.Request.Method
		trace := resp.Request.TraceInfo()
		info.Timing = Timing{
			DNSLookup:    trace.DNSLookup,
			Connect:      trace.ConnTime,
			TLSHandshake: trace.TLSHandshake,
			Server:       trace.ServerTime,
			Total:        trace.TotalTime,
			ConnReused:   trace.IsConnReused,
		}
		if trace.RemoteAddr != nil {
			info.Timing.RemoteAddr = trace.RemoteAddr.String()
		}
	}
	return info
}

// effectiveURL returns the URL of the final request after redirects.
func effectiveURL(resp *resty.Response, fallback string) string {
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		return resp.RawResponse.Request.URL.String()
	}
	return fallback
}
