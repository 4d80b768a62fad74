package catalog

import (
	"context"

	"github.com/knawat/mp-go/pkg/httpclient"
	"github.com/knawat/mp-go/pkg/mp"
	"github.com/knawat/mp-go/pkg/publishers"
)

// ProductSource lists catalog products in diagnostic form.
type ProductSource interface {
	GetProductsResult(ctx context.Context, q mp.ProductsQuery) (*httpclient.Result, error)
}

// EventPublisher publishes product events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Store persists the sync cursor and the product revisions already published.
type Store interface {
	SeenProduct(key string) (bool, error)
	MarkProduct(key string) error
	Cursor() (string, error)
	SetCursor(cursor string) error
}
