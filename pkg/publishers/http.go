package publishers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/knawat/mp-go/pkg/httpclient"
)

// Headers set on every webhook delivery.
const (
	HeaderEvent     = "X-Knawat-Event"
	HeaderDelivery  = "X-Knawat-Delivery"
	HeaderSignature = "X-Knawat-Signature"
)

// webhookPublisher delivers product events to a store's HTTP endpoint.
type webhookPublisher struct {
	id     string
	cfg    HTTPPublisherConfig
	client *resty.Client
	log    Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	hook := *cfg.HTTP
	hook.normalize()
	if err := hook.validate(); err != nil {
		return nil, fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}

	client := httpclient.NewRestyHTTPClient(time.Duration(hook.TimeoutSeconds) * time.Second)
	if hook.InsecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // explicit per-sink opt-out
	}

	return &webhookPublisher{
		id:     cfg.ID,
		cfg:    hook,
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (w *webhookPublisher) ID() string   { return w.id }
func (w *webhookPublisher) Type() string { return TypeHTTP }

func (w *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	req := w.client.R().
		SetContext(ctx).
		SetHeaders(w.cfg.Headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderEvent, evt.Type).
		SetHeader(HeaderDelivery, evt.ID).
		SetBody(body)
	if w.cfg.Secret != "" {
		req.SetHeader(HeaderSignature, Sign(w.cfg.Secret, body))
	}

	resp, err := req.Execute(w.cfg.Method, w.cfg.URL)
	if err != nil {
		return fmt.Errorf("deliver %s to %s: %w", evt.SKU, w.cfg.URL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook answered %d: %s", resp.StatusCode(), snippet(resp.Body()))
	}

	w.log.DebugObj("webhook delivered product event", "publisher_http_delivery", map[string]any{
		"publisher_id": w.id,
		"event_id":     evt.ID,
		"sku":          evt.SKU,
		"status":       resp.StatusCode(),
	})
	return nil
}

// Sign returns the X-Knawat-Signature value for body: "sha256=" followed by
// the hex HMAC-SHA256 of body keyed with secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func snippet(body []byte) string {
	const limit = 512
	if len(body) > limit {
		body = body[:limit]
	}
	return strings.TrimSpace(string(body))
}
