package publishers

import (
	"time"

	"github.com/google/uuid"

	"github.com/knawat/mp-go/internal/domain"
)

// EventProductUpdated is emitted for every new product revision seen by sync.
const EventProductUpdated = "product.updated"

// Event represents the payload published downstream.
type Event struct {
	ID          string                `json:"id"`
	Type        string                `json:"type"`
	SKU         string                `json:"sku"`
	Product     domain.ProductSummary `json:"product"`
	CollectedAt time.Time             `json:"collected_at"`
}

// NewEvent constructs a product.updated Event for the given summary.
func NewEvent(product domain.ProductSummary) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        EventProductUpdated,
		SKU:         product.SKU,
		Product:     product,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are the string attributes attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_type": e.Type,
		"sku":        e.SKU,
	}
}
