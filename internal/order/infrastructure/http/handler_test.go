package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/storefront/internal/order/application"
	"github.com/dmehra2102/storefront/internal/order/domain"
	paymentapp "github.com/dmehra2102/storefront/internal/payment/application"
	"github.com/dmehra2102/storefront/internal/persistence"
	"github.com/dmehra2102/storefront/pkg/httpx"
	"github.com/dmehra2102/storefront/pkg/idempotency"
)

const orderBody = `{
	"items": [
		{"productId": "a", "title": "Mug", "price": "10", "quantity": 2, "image": ""},
		{"productId": "b", "title": "Pen", "price": "5", "quantity": 1, "image": ""}
	],
	"shippingAddress": {"street": "1 Main St", "city": "Springfield", "state": "IL", "zipCode": "62701", "country": "US"},
	"paymentMethod": "Credit Card"
}`

type identity struct {
	user  string
	admin bool
}

func newServer(t *testing.T, limit decimal.Decimal, opts ...Option) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := persistence.NewCollection[domain.Order](persistence.NewMemoryKV(), persistence.OrdersKey)
	store, err := application.NewStore(context.Background(), log, repo)
	require.NoError(t, err)
	svc := application.NewService(log, store, paymentapp.NewGateway(log, 0, limit))
	return NewHandler(log, svc, opts...).Routes()
}

func do(t *testing.T, h http.Handler, method, target, body string, who identity, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if who.user != "" {
		req.Header.Set(httpx.HeaderUserID, who.user)
	}
	if who.admin {
		req.Header.Set(httpx.HeaderUserRole, httpx.RoleAdmin)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createOrder(t *testing.T, h http.Handler, user string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/orders", orderBody, identity{user: user})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

func TestCreateAndGetOrder(t *testing.T) {
	h := newServer(t, decimal.Zero)
	id := createOrder(t, h, "u1")

	rec := do(t, h, http.MethodGet, "/orders/"+id, "", identity{user: "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var o domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, "36.99", o.Total.StringFixed(2))
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Contains(t, rec.Body.String(), `"total":"36.99"`)
}

func TestCreateOrderErrors(t *testing.T) {
	h := newServer(t, decimal.NewFromInt(30))

	rec := do(t, h, http.MethodPost, "/orders", orderBody, identity{user: "u1"})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = do(t, h, http.MethodPost, "/orders", orderBody, identity{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/orders", `{"unknown": true}`, identity{user: "u1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := strings.Replace(orderBody, `"items"`, `"userId": "u2", "items"`, 1)
	rec = do(t, h, http.MethodPost, "/orders", body, identity{user: "u1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOrdersOnBehalf(t *testing.T) {
	h := newServer(t, decimal.Zero)

	body := strings.Replace(orderBody, `"items"`, `"userId": "u2", "items"`, 1)
	rec := do(t, h, http.MethodPost, "/orders", body, identity{user: "staff", admin: true})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/orders?userId=u2", "", identity{user: "u2"})
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
}

func TestOrderAccessControl(t *testing.T) {
	h := newServer(t, decimal.Zero)
	id := createOrder(t, h, "u1")

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/orders/"+id, "", identity{user: "u2"}).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/orders/"+id, "", identity{admin: true}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/orders/missing", "", identity{user: "u1"}).Code)

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/orders", "", identity{user: "u1"}).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/orders?userId=u1", "", identity{user: "u2"}).Code)

	rec := do(t, h, http.MethodGet, "/orders", "", identity{admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	var all []domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}

func TestListOrdersEmptyIsArray(t *testing.T) {
	h := newServer(t, decimal.Zero)

	rec := do(t, h, http.MethodGet, "/orders?userId=u1", "", identity{user: "u1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateStatus(t *testing.T) {
	h := newServer(t, decimal.Zero)
	id := createOrder(t, h, "u1")
	target := "/orders/" + id + "/status"

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodPatch, target, `{"status":"processing"}`, identity{user: "u1"}).Code)

	rec := do(t, h, http.MethodPatch, target, `{"status":"processing"}`, identity{admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	var o domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, domain.StatusProcessing, o.Status)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPatch, target, `{"status":"pending"}`, identity{admin: true}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPatch, target, `{"status":"lost"}`, identity{admin: true}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPatch, "/orders/missing/status", `{"status":"shipped"}`, identity{admin: true}).Code)
}

type memChecker map[string]bool

func (m memChecker) Key(scope, key string) string { return scope + "|" + key }

func (m memChecker) Seen(_ context.Context, key string) (bool, error) {
	seen := m[key]
	m[key] = true
	return seen, nil
}

func (m memChecker) Release(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

func TestCreateOrderIdempotency(t *testing.T) {
	h := newServer(t, decimal.Zero, WithIdempotency(memChecker{}))

	first := do(t, h, http.MethodPost, "/orders", orderBody, identity{user: "u1"}, idempotency.Header, "abc")
	require.Equal(t, http.StatusCreated, first.Code)

	second := do(t, h, http.MethodPost, "/orders", orderBody, identity{user: "u1"}, idempotency.Header, "abc")
	assert.Equal(t, http.StatusConflict, second.Code)

	rec := do(t, h, http.MethodGet, "/orders?userId=u1", "", identity{user: "u1"})
	var orders []domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
}
