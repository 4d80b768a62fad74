package httpclient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransportUnavailable is returned when a request is attempted on a client
	// that has no usable HTTP transport (nil or zero-value Client).
	ErrTransportUnavailable = errors.New("http transport is not available")

	// ErrInvalidBaseURL is returned by New when the API base URL is empty or not absolute.
	ErrInvalidBaseURL = errors.New("invalid api base url")

	// ErrTokenUnavailable is returned by New in strict auth mode when the token
	// exchange response carries no channel.token.
	ErrTokenUnavailable = errors.New("access token not present in token response")
)

// StatusError describes a non-2xx response observed in diagnostic mode.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("knawat api %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("knawat api %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
