package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// GCPQueueConfig identifies a Pub/Sub topic and optional service account credentials.
type GCPQueueConfig struct {
	ProjectID       string `yaml:"project_id"`
	Topic           string `yaml:"topic"`
	CredentialsFile string `yaml:"credentials_file"`
}

// gcpPubSubSender delivers events to one Pub/Sub topic.
type gcpPubSubSender struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	log    Logger
}

func newGCPPubSubSender(ctx context.Context, cfg *GCPQueueConfig, log Logger) (*gcpPubSubSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gcp pubsub config is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if file := strings.TrimSpace(cfg.CredentialsFile); file != "" {
		opts = append(opts, option.WithCredentialsFile(file))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &gcpPubSubSender{
		client: client,
		topic:  client.Topic(cfg.Topic),
		log:    ensureLogger(log),
	}, nil
}

// Send publishes the event and waits for the server acknowledgement.
func (g *gcpPubSubSender) Send(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	attrs := make(map[string]string)
	for k, v := range evt.attributes() {
		if v != "" {
			attrs[k] = v
		}
	}

	id, err := g.topic.Publish(ctx, &pubsub.Message{Data: payload, Attributes: attrs}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	g.log.DebugObj("pubsub message published", "publisher_pubsub_delivery", map[string]any{
		"event_id":   evt.ID,
		"message_id": id,
	})
	return nil
}

// Close flushes pending messages and releases the client.
func (g *gcpPubSubSender) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	g.topic.Stop()
	return g.client.Close()
}

type gcpPubSubPublisher struct {
	id     string
	typ    string
	sender *gcpPubSubSender
	log    Logger
}

func newGCPPubSubPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.GCPPubSub == nil {
		return nil, fmt.Errorf("publisher %q missing gcp_pubsub configuration", cfg.ID)
	}

	sender, err := newGCPPubSubSender(ctx, cfg.GCPPubSub, log)
	if err != nil {
		return nil, err
	}
	return &gcpPubSubPublisher{
		id:     cfg.ID,
		typ:    TypeGCPPubSub,
		sender: sender,
		log:    ensureLogger(log),
	}, nil
}

func (g *gcpPubSubPublisher) ID() string   { return g.id }
func (g *gcpPubSubPublisher) Type() string { return g.typ }

func (g *gcpPubSubPublisher) Publish(ctx context.Context, evt Event) error {
	if err := g.sender.Send(ctx, evt); err != nil {
		g.log.ErrorObj("pubsub publisher send failed", "publisher_pubsub_error", map[string]any{
			"publisher_id": g.id,
			"error":        err.Error(),
		})
		return err
	}
	return nil
}

func (g *gcpPubSubPublisher) Close() error { return g.sender.Close() }
