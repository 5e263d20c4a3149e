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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/storefront/internal/catalog/application"
	"github.com/dmehra2102/storefront/internal/catalog/domain"
	"github.com/dmehra2102/storefront/internal/persistence"
	"github.com/dmehra2102/storefront/pkg/httpx"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := persistence.NewCollection[domain.Product](persistence.NewMemoryKV(), persistence.CatalogKey)
	store, err := application.NewStore(context.Background(), log, repo)
	require.NoError(t, err)
	return NewHandler(log, application.NewService(log, store)).Routes()
}

func do(t *testing.T, h http.Handler, method, target, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if admin {
		req.Header.Set(httpx.HeaderUserRole, httpx.RoleAdmin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProducts(t *testing.T, rec *httptest.ResponseRecorder) []domain.Product {
	t.Helper()
	var out []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListProductsQuery(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/products?search=wireless", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeProducts(t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	rec = do(t, h, http.MethodGet, "/products?category=Electronics&minPrice=150&maxPrice=300&minRating=4.7&inStock=true", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeProducts(t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	rec = do(t, h, http.MethodGet, "/products?minPrice=abc", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/products?minPrice=10&maxPrice=1", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductAndRecommendations(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/products/7", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Minimalist Desk Lamp")

	rec = do(t, h, http.MethodGet, "/products/404", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/products/1/recommendations", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeProducts(t, rec), 4)

	rec = do(t, h, http.MethodGet, "/products/404/recommendations", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/products/categories", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["Electronics","Fashion","Food","Home","Sports"]`, rec.Body.String())
}

func TestProductMutations(t *testing.T) {
	h := newServer(t)

	body := `{"title":"Desk Chair","price":"149.00","category":"Home","rating":4.2,"stock":5,"brand":"SitWell","tags":["chair"]}`
	rec := do(t, h, http.MethodPost, "/products", body, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, "/products", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "149", created.Price.String())

	rec = do(t, h, http.MethodPut, "/products/"+created.ID, `{"stock":-2}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/products/"+created.ID, `{"stock":0,"featured":true}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 0, updated.Stock)
	assert.True(t, updated.Featured)

	rec = do(t, h, http.MethodPut, "/products/missing", `{"stock":1}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/products", `{"title":"x","unknown":1}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/products/"+created.ID, "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/products/"+created.ID, "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
