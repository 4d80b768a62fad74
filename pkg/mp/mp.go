// Package mp is the Knawat marketplace API surface: products and orders on top
// of the authenticated transport in pkg/httpclient.
//
// Paths are built by plain string concatenation. Query values and path segments
// are neither validated nor escaped; callers pass already-safe strings.
package mp

import (
	"context"
	"net/http"
	"strconv"

	"github.com/knawat/mp-go/pkg/httpclient"
)

// DefaultBaseURL is the production Knawat MP API root.
const DefaultBaseURL = "https://mp.knawat.io/api/"

const (
	defaultProductsLimit = 25
	defaultOrdersLimit   = 10
	defaultPage          = 1
)

// OrdersBasePath is the order collection path; CreateOrder posts here.
const OrdersBasePath = "/orders"

// MP routes marketplace operations to a single transport.
type MP struct {
	client httpclient.Requester
}

// New authenticates against DefaultBaseURL.
func New(ctx context.Context, consumerKey, consumerSecret string, opts ...httpclient.Option) (*MP, error) {
	return NewWithBaseURL(ctx, DefaultBaseURL, consumerKey, consumerSecret, opts...)
}

// NewWithBaseURL authenticates against a caller-supplied API root.
func NewWithBaseURL(ctx context.Context, baseURL, consumerKey, consumerSecret string, opts ...httpclient.Option) (*MP, error) {
	client, err := httpclient.New(ctx, baseURL, consumerKey, consumerSecret, opts...)
	if err != nil {
		return nil, err
	}
	return &MP{client: client}, nil
}

// NewWithClient wraps an existing transport.
func NewWithClient(client httpclient.Requester) *MP {
	return &MP{client: client}
}

// AccessToken returns the session token held by the transport.
func (m *MP) AccessToken() (string, bool) {
	return m.client.AccessToken()
}

// ProductsQuery holds the GetProducts parameters. Zero Limit and Page mean 25 and 1.
type ProductsQuery struct {
	Limit      int
	Page       int
	LastUpdate string
	SortField  string
	SortOrder  string
}

// OrdersQuery holds the GetOrders parameters. Zero Limit and Page mean 10 and 1.
type OrdersQuery struct {
	Limit int
	Page  int
}

// GetProducts lists catalog products.
func (m *MP) GetProducts(ctx context.Context, q ProductsQuery) (any, error) {
	return m.client.Get(ctx, ProductsPath(q))
}

// GetProductsResult is GetProducts in diagnostic form.
func (m *MP) GetProductsResult(ctx context.Context, q ProductsQuery) (*httpclient.Result, error) {
	return m.client.Do(ctx, http.MethodGet, ProductsPath(q), nil)
}

// GetProductBySKU fetches one product.
func (m *MP) GetProductBySKU(ctx context.Context, sku string) (any, error) {
	return m.client.Get(ctx, ProductPath(sku))
}

// GetOrders lists orders.
func (m *MP) GetOrders(ctx context.Context, q OrdersQuery) (any, error) {
	return m.client.Get(ctx, OrdersPath(q))
}

// GetOrderByID fetches one order.
func (m *MP) GetOrderByID(ctx context.Context, id string) (any, error) {
	return m.client.Get(ctx, OrderPath(id))
}

// CreateOrder creates a sales order; data is sent as the JSON body unchanged.
func (m *MP) CreateOrder(ctx context.Context, data any) (any, error) {
	return m.client.Post(ctx, OrdersBasePath, data)
}

// UpdateOrder updates a sales order by id.
func (m *MP) UpdateOrder(ctx context.Context, orderID string, data any) (any, error) {
	return m.client.Put(ctx, OrderPath(orderID), data)
}

// Get performs an API GET request.
func (m *MP) Get(ctx context.Context, path string) (any, error) {
	return m.client.Get(ctx, path)
}

// Post performs an API POST request.
func (m *MP) Post(ctx context.Context, path string, data any) (any, error) {
	return m.client.Post(ctx, path, data)
}

// Put performs an API PUT request.
func (m *MP) Put(ctx context.Context, path string, data any) (any, error) {
	return m.client.Put(ctx, path, data)
}

// Delete performs an API DELETE request.
func (m *MP) Delete(ctx context.Context, path string, data any) (any, error) {
	return m.client.Delete(ctx, path, data)
}

// Do performs a request with any verb and returns the diagnostic result.
func (m *MP) Do(ctx context.Context, method, path string, data any) (*httpclient.Result, error) {
	return m.client.Do(ctx, method, path, data)
}

// ProductsPath builds the catalog listing path. Optional parameters are
// appended only when non-empty, always in the order lastupdate, sort[field], sort[order].
func ProductsPath(q ProductsQuery) string {
	limit, page := q.Limit, q.Page
	if limit == 0 {
		limit = defaultProductsLimit
	}
	if page == 0 {
		page = defaultPage
	}

	path := "/catalog/products?limit=" + strconv.Itoa(limit) + "&page=" + strconv.Itoa(page)
	if q.LastUpdate != "" {
		path += "&lastupdate=" + q.LastUpdate
	}
	if q.SortField != "" {
		path += "&sort[field]=" + q.SortField
	}
	if q.SortOrder != "" {
		path += "&sort[order]=" + q.SortOrder
	}
	return path
}

// OrdersPath builds the order listing path.
func OrdersPath(q OrdersQuery) string {
	limit, page := q.Limit, q.Page
	if limit == 0 {
		limit = defaultOrdersLimit
	}
	if page == 0 {
		page = defaultPage
	}
	return OrdersBasePath + "?limit=" + strconv.Itoa(limit) + "&page=" + strconv.Itoa(page)
}

// ProductPath is the path of a single product. The SKU is inserted verbatim.
func ProductPath(sku string) string {
	return "/catalog/products/" + sku
}

// OrderPath is the path of a single order. The id is inserted verbatim.
func OrderPath(id string) string {
	return OrdersBasePath + "/" + id
}
