package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiRecorder is a fake Knawat API that records non-token requests.
type apiRecorder struct {
	mu       sync.Mutex
	requests []recorded
}

type recorded struct {
	method string
	uri    string
	body   string
}

func (a *apiRecorder) last() recorded {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests[len(a.requests)-1]
}

func newAPI(t *testing.T) (*apiRecorder, string) {
	t.Helper()
	rec := &apiRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/token" {
			_, _ = w.Write([]byte(`{"channel":{"token":"cli-token"}}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, recorded{method: r.Method, uri: r.URL.RequestURI(), body: string(body)})
		rec.mu.Unlock()

		switch {
		case strings.HasPrefix(r.URL.Path, "/catalog/products"):
			_, _ = w.Write([]byte(`{"products":[{"sku":"A-1","name":{"en":"Shirt"},"updated":"2020-01-01T00:00:00.000Z","variations":[{},{}]}]}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
	t.Cleanup(srv.Close)
	return rec, srv.URL + "/"
}

func setEnv(t *testing.T, baseURL string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("KNAWAT_CONSUMER_KEY", "ck")
	t.Setenv("KNAWAT_CONSUMER_SECRET", "cs")
	t.Setenv("KNAWAT_BASE_URL", baseURL)
	t.Setenv("KNAWAT_LOG_LEVEL", "error")
	t.Setenv("KNAWAT_BBOLT_PATH", filepath.Join(dir, "sync.db"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	_, base := newAPI(t)
	setEnv(t, base)

	out, err := execute(t, "token", "-o", "table")
	require.NoError(t, err)
	assert.Equal(t, "cli-token\n", out)

	out, err = execute(t, "token")
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"cli-token","present":true}`, out)
}

func TestProductsListCommand(t *testing.T) {
	rec, base := newAPI(t)
	setEnv(t, base)

	out, err := execute(t, "products", "list", "--limit", "5", "--page", "2", "--last-update", "2020-01-01", "--sort-field", "name", "--sort-order", "asc")
	require.NoError(t, err)

	got := rec.last()
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/catalog/products?limit=5&page=2&lastupdate=2020-01-01&sort[field]=name&sort[order]=asc", got.uri)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Len(t, body["products"], 1)
}

func TestProductsListTable(t *testing.T) {
	_, base := newAPI(t)
	setEnv(t, base)

	out, err := execute(t, "products", "list", "-o", "table")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"SKU", "NAME", "UPDATED", "VARIATIONS"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"A-1", "Shirt", "2020-01-01T00:00:00.000Z", "2"}, strings.Fields(lines[1]))
}

func TestProductsGetCommand(t *testing.T) {
	rec, base := newAPI(t)
	setEnv(t, base)

	_, err := execute(t, "products", "get", "ABC-123")
	require.NoError(t, err)
	assert.Equal(t, "/catalog/products/ABC-123", rec.last().uri)
}

func TestOrdersCommands(t *testing.T) {
	rec, base := newAPI(t)
	setEnv(t, base)

	file := filepath.Join(t.TempDir(), "order.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"items":[{"sku":"A-1","quantity":1}]}`), 0o644))

	_, err := execute(t, "orders", "create", "--file", file)
	require.NoError(t, err)
	got := rec.last()
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/orders", got.uri)
	assert.JSONEq(t, `{"items":[{"sku":"A-1","quantity":1}]}`, got.body)

	_, err = execute(t, "orders", "update", "42", "-f", file)
	require.NoError(t, err)
	got = rec.last()
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/orders/42", got.uri)

	_, err = execute(t, "orders", "list", "--limit", "3")
	require.NoError(t, err)
	assert.Equal(t, "/orders?limit=3&page=1", rec.last().uri)

	_, err = execute(t, "orders", "get", "42")
	require.NoError(t, err)
	assert.Equal(t, "/orders/42", rec.last().uri)
}

func TestOrdersCreateRejectsInvalidJSON(t *testing.T) {
	_, base := newAPI(t)
	setEnv(t, base)

	file := filepath.Join(t.TempDir(), "order.json")
	require.NoError(t, os.WriteFile(file, []byte(`{not json`), 0o644))

	_, err := execute(t, "orders", "create", "--file", file)
	require.Error(t, err)

	_, err = execute(t, "orders", "create")
	require.Error(t, err)
}

func TestRequestCommandDiagnostic(t *testing.T) {
	rec, base := newAPI(t)
	setEnv(t, base)

	out, err := execute(t, "request", "delete", "/orders/7/", "--data", `{"reason":"dup"}`, "--diagnostic")
	require.NoError(t, err)

	got := rec.last()
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "/orders/7", got.uri)
	assert.JSONEq(t, `{"reason":"dup"}`, got.body)

	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "DELETE", view["method"])
	assert.EqualValues(t, http.StatusOK, view["status_code"])
	assert.Equal(t, base+"orders/7", view["effective_url"])
	assert.Equal(t, map[string]any{"reason": "dup"}, view["request_body"])
	assert.Equal(t, map[string]any{"ok": true}, view["body"])
}

func TestRootValidatesFlagsAndCredentials(t *testing.T) {
	_, base := newAPI(t)
	setEnv(t, base)

	_, err := execute(t, "token", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")

	t.Setenv("KNAWAT_CONSUMER_SECRET", "")
	_, err = execute(t, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consumer_secret")
}

func TestSyncCommand(t *testing.T) {
	_, base := newAPI(t)
	setEnv(t, base)

	var delivered int
	var mu sync.Mutex
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		delivered++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(hook.Close)

	pubFile := filepath.Join(t.TempDir(), "publishers.yaml")
	require.NoError(t, os.WriteFile(pubFile, []byte("publishers:\n  - id: hook\n    type: http\n    http:\n      url: "+hook.URL+"\n"), 0o644))
	t.Setenv("KNAWAT_PUBLISHERS_FILE", pubFile)

	out, err := execute(t, "sync")
	require.NoError(t, err)
	assert.JSONEq(t, `{"fetched":1,"skipped":0,"published":1,"failed":0,"cursor":"2020-01-01T00:00:00.000Z"}`, out)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, delivered)
}

func TestCellTextKeepsLargeIntegers(t *testing.T) {
	assert.Equal(t, "12345678901234567", cellText(json.Number("12345678901234567")))
	assert.Equal(t, "Shirt", cellText(map[string]any{"tr": "Gömlek", "en": "Shirt"}))
	assert.Equal(t, "-", cellText(nil))
}
