package httpclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Result is the diagnostic form of a call: the decoded body together with what
// was sent and what the transport observed.
type Result struct {
	// Body is the decoded JSON payload, nil when the response was not valid JSON.
	Body any
	// EffectiveURL is the URL of the final request after redirects.
	EffectiveURL string
	// RequestBody is the JSON that was sent, nil when no body was sent.
	RequestBody []byte
	// ResponseText is Body re-encoded as JSON ("null" when Body is nil).
	ResponseText string
	// Transport carries status and timing metadata.
	Transport TransportInfo

	raw []byte
}

// TransportInfo is the low-level metadata of one round trip.
type TransportInfo struct {
	Method        string
	StatusCode    int
	Status        string
	Proto         string
	Header        http.Header
	ContentLength int64
	Size          int64
	TotalTime     time.Duration
	ReceivedAt    time.Time
	Timing        Timing
}

// Timing breaks the round trip down by phase.
type Timing struct {
	DNSLookup    time.Duration
	Connect      time.Duration
	TLSHandshake time.Duration
	Server       time.Duration
	Total        time.Duration
	ConnReused   bool
	RemoteAddr   string
}

// Raw returns the undecoded response bytes.
func (r *Result) Raw() []byte {
	if r == nil {
		return nil
	}
	return r.raw
}

// IsSuccess reports whether the response status was 2xx.
func (r *Result) IsSuccess() bool {
	return r != nil && r.Transport.StatusCode >= 200 && r.Transport.StatusCode < 300
}

// StatusError returns a *StatusError for non-2xx responses and nil otherwise.
func (r *Result) StatusError() error {
	if r == nil || r.IsSuccess() {
		return nil
	}
	return &StatusError{
		StatusCode: r.Transport.StatusCode,
		URL:        r.EffectiveURL,
		Body:       bodySnippet(r.raw),
	}
}

// Decode unmarshals the raw response bytes into out.
func (r *Result) Decode(out any) error {
	if r == nil || len(r.raw) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(r.raw, out)
}
