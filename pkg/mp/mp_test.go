package mp_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knawat/mp-go/pkg/httpclient"
	"github.com/knawat/mp-go/pkg/mp"
)

// call is one verb invocation seen by fakeRequester.
type call struct {
	method string
	path   string
	data   any
}

// fakeRequester records calls and answers with a fixed body.
type fakeRequester struct {
	calls []call
	reply any
}

func (f *fakeRequester) record(method, path string, data any) (any, error) {
	f.calls = append(f.calls, call{method: method, path: path, data: data})
	return f.reply, nil
}

func (f *fakeRequester) Get(_ context.Context, path string) (any, error) {
	return f.record(http.MethodGet, path, nil)
}

func (f *fakeRequester) Post(_ context.Context, path string, data any) (any, error) {
	return f.record(http.MethodPost, path, data)
}

func (f *fakeRequester) Put(_ context.Context, path string, data any) (any, error) {
	return f.record(http.MethodPut, path, data)
}

func (f *fakeRequester) Delete(_ context.Context, path string, data any) (any, error) {
	return f.record(http.MethodDelete, path, data)
}

func (f *fakeRequester) Do(_ context.Context, method, path string, data any) (*httpclient.Result, error) {
	body, _ := f.record(method, path, data)
	return &httpclient.Result{Body: body}, nil
}

func (f *fakeRequester) AccessToken() (string, bool) { return "fake-token", true }

func (f *fakeRequester) last() call { return f.calls[len(f.calls)-1] }

func TestProductsPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    mp.ProductsQuery
		want string
	}{
		{
			name: "all parameters",
			q:    mp.ProductsQuery{Limit: 10, Page: 2, LastUpdate: "2020-01-01", SortField: "name", SortOrder: "asc"},
			want: "/catalog/products?limit=10&page=2&lastupdate=2020-01-01&sort[field]=name&sort[order]=asc",
		},
		{
			name: "defaults only",
			q:    mp.ProductsQuery{},
			want: "/catalog/products?limit=25&page=1",
		},
		{
			name: "limit and page only",
			q:    mp.ProductsQuery{Limit: 10, Page: 2},
			want: "/catalog/products?limit=10&page=2",
		},
		{
			name: "sort order without field",
			q:    mp.ProductsQuery{SortOrder: "desc"},
			want: "/catalog/products?limit=25&page=1&sort[order]=desc",
		},
		{
			name: "values are not escaped",
			q:    mp.ProductsQuery{LastUpdate: "2020-01-01T00:00:00+03:00"},
			want: "/catalog/products?limit=25&page=1&lastupdate=2020-01-01T00:00:00+03:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mp.ProductsPath(tt.q))
		})
	}
}

func TestOrdersPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/orders?limit=10&page=1", mp.OrdersPath(mp.OrdersQuery{}))
	assert.Equal(t, "/orders?limit=50&page=3", mp.OrdersPath(mp.OrdersQuery{Limit: 50, Page: 3}))
}

func TestSingleResourcePaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/catalog/products/ABC-123", mp.ProductPath("ABC-123"))
	assert.Equal(t, "/catalog/products/a b/c", mp.ProductPath("a b/c"))
	assert.Equal(t, "/orders/42", mp.OrderPath("42"))
	assert.Equal(t, "/orders", mp.OrdersBasePath)
}

func TestMP_Routing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	order := map[string]any{"items": []any{map[string]any{"sku": "ABC-123", "quantity": 1}}}

	tests := []struct {
		name string
		run  func(m *mp.MP) (any, error)
		want call
	}{
		{
			name: "get products",
			run: func(m *mp.MP) (any, error) {
				return m.GetProducts(ctx, mp.ProductsQuery{Limit: 10, Page: 2, LastUpdate: "2020-01-01", SortField: "name", SortOrder: "asc"})
			},
			want: call{method: http.MethodGet, path: "/catalog/products?limit=10&page=2&lastupdate=2020-01-01&sort[field]=name&sort[order]=asc"},
		},
		{
			name: "get product by sku",
			run:  func(m *mp.MP) (any, error) { return m.GetProductBySKU(ctx, "ABC-123") },
			want: call{method: http.MethodGet, path: "/catalog/products/ABC-123"},
		},
		{
			name: "get orders",
			run:  func(m *mp.MP) (any, error) { return m.GetOrders(ctx, mp.OrdersQuery{}) },
			want: call{method: http.MethodGet, path: "/orders?limit=10&page=1"},
		},
		{
			name: "get order by id",
			run:  func(m *mp.MP) (any, error) { return m.GetOrderByID(ctx, "ord-7") },
			want: call{method: http.MethodGet, path: "/orders/ord-7"},
		},
		{
			name: "create order",
			run:  func(m *mp.MP) (any, error) { return m.CreateOrder(ctx, order) },
			want: call{method: http.MethodPost, path: "/orders", data: order},
		},
		{
			name: "update order",
			run:  func(m *mp.MP) (any, error) { return m.UpdateOrder(ctx, "ord-7", order) },
			want: call{method: http.MethodPut, path: "/orders/ord-7", data: order},
		},
		{
			name: "generic delete",
			run:  func(m *mp.MP) (any, error) { return m.Delete(ctx, "/orders/ord-7/", nil) },
			want: call{method: http.MethodDelete, path: "/orders/ord-7/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeRequester{reply: map[string]any{"ok": true}}
			m := mp.NewWithClient(fake)

			got, err := tt.run(m)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"ok": true}, got)
			require.Len(t, fake.calls, 1)
			assert.Equal(t, tt.want, fake.last())
		})
	}
}

func TestMP_AccessToken(t *testing.T) {
	t.Parallel()

	token, ok := mp.NewWithClient(&fakeRequester{}).AccessToken()
	assert.True(t, ok)
	assert.Equal(t, "fake-token", token)
}

func TestMP_AgainstServer(t *testing.T) {
	t.Parallel()

	type seen struct {
		method string
		uri    string
		auth   string
		body   []byte
	}

	var (
		mu    sync.Mutex
		calls []seen
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, seen{method: r.Method, uri: r.RequestURI, auth: r.Header.Get("Authorization"), body: body})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_, _ = w.Write([]byte(`{"channel":{"token":"mp-token"}}`))
		case "/orders":
			_, _ = w.Write([]byte(`{"id":"ord-1","status":"pending"}`))
		default:
			_, _ = w.Write([]byte(`{"sku":"ABC-123"}`))
		}
	}))
	defer srv.Close()

	m, err := mp.NewWithBaseURL(context.Background(), srv.URL+"/", "key", "secret")
	require.NoError(t, err)

	token, ok := m.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "mp-token", token)

	product, err := m.GetProductBySKU(context.Background(), "ABC-123")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sku": "ABC-123"}, product)

	order := map[string]any{"items": []any{map[string]any{"sku": "ABC-123", "quantity": float64(2)}}}
	created, err := m.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "ord-1", "status": "pending"}, created)

	res, err := m.GetProductsResult(context.Background(), mp.ProductsQuery{Limit: 10, Page: 2, LastUpdate: "2020-01-01", SortField: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/catalog/products?limit=10&page=2&lastupdate=2020-01-01&sort[field]=name&sort[order]=asc", res.EffectiveURL)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 4)

	assert.Equal(t, "/token", calls[0].uri)
	assert.Empty(t, calls[0].auth)

	assert.Equal(t, http.MethodGet, calls[1].method)
	assert.Equal(t, "/catalog/products/ABC-123", calls[1].uri)
	assert.Equal(t, "Bearer mp-token", calls[1].auth)

	assert.Equal(t, http.MethodPost, calls[2].method)
	assert.Equal(t, "/orders", calls[2].uri)
	var sent map[string]any
	require.NoError(t, json.Unmarshal(calls[2].body, &sent))
	assert.Equal(t, order, sent)

	assert.Equal(t, "/catalog/products?limit=10&page=2&lastupdate=2020-01-01&sort[field]=name&sort[order]=asc", calls[3].uri)
}

func TestNew_DefaultBaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://mp.knawat.io/api/", mp.DefaultBaseURL)
}
