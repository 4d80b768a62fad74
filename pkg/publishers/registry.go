package publishers

import (
	"context"
	"fmt"
	"strings"
)

// Builder creates a Publisher from a sink definition.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Builders maps sink types to the constructor for that type.
type Builders map[string]Builder

// DefaultBuilders returns constructors for every sink type this package ships.
func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:      newHTTPPublisher,
		TypeSQS:       newSQSPublisher,
		TypeSNS:       newSNSPublisher,
		TypeGCPPubSub: newGCPPubSubPublisher,
	}
}

// Build constructs the publisher for one sink definition.
func (b Builders) Build(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	typ := strings.ToLower(strings.TrimSpace(cfg.Type))
	if typ == "" {
		return nil, fmt.Errorf("publisher %q has no type configured", cfg.ID)
	}
	build, ok := b[typ]
	if !ok || build == nil {
		return nil, fmt.Errorf("publisher %q: unsupported type %q", cfg.ID, cfg.Type)
	}
	return build(ctx, cfg, log)
}

// BuildAll constructs a publisher per definition, in order. On failure the
// publishers already built are closed and the error names the failing sink.
func (b Builders) BuildAll(ctx context.Context, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := b.Build(ctx, cfg, log)
		if err != nil {
			_ = CloseAll(pubs)
			return nil, err
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
