package publishers

import "context"

// Publisher sends events to a downstream sink (HTTP, SQS, SNS or Pub/Sub).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}
