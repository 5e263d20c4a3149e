package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/storefront/internal/catalog/application"
	"github.com/dmehra2102/storefront/internal/catalog/domain"
	"github.com/dmehra2102/storefront/pkg/apperr"
	"github.com/dmehra2102/storefront/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("catalog-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// Register adds the catalog routes to r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/products/categories", h.categories)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/products/{id}/recommendations", h.recommendations)

	r.Group(func(r chi.Router) {
		r.Use(httpx.RequireAdmin(h.log))
		r.Post("/products", h.createProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListProducts")
	defer span.End()

	params, err := parseListParams(r)
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	products, err := h.service.List(ctx, params)
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	span.SetAttributes(attribute.Int("products.count", len(products)))
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Categories(r.Context()))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProduct")
	defer span.End()

	p, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Recommendations")
	defer span.End()

	recs, err := h.service.Recommendations(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, recs)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateProduct")
	defer span.End()

	var draft domain.Draft
	if err := httpx.DecodeJSON(r, &draft); err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	p, err := h.service.Create(ctx, draft)
	h.writeMutation(ctx, w, http.StatusCreated, p, err)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateProduct")
	defer span.End()

	var patch domain.Patch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	p, err := h.service.Update(ctx, chi.URLParam(r, "id"), patch)
	h.writeMutation(ctx, w, http.StatusOK, p, err)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteProduct")
	defer span.End()

	id := chi.URLParam(r, "id")
	err := h.service.Delete(ctx, id)
	if err == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeMutation(ctx, w, http.StatusNoContent, map[string]string{"id": id}, err)
}

func (h *Handler) writeMutation(ctx context.Context, w http.ResponseWriter, status int, data any, err error) {
	if err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
	}
	httpx.Result(w, h.log, status, data, err)
}

func parseListParams(r *http.Request) (application.ListParams, error) {
	q := r.URL.Query()
	params := application.ListParams{
		Search:   q.Get("search"),
		Category: strings.TrimSpace(q.Get("category")),
	}

	var err error
	if params.MinPrice, err = decimalParam(q.Get("minPrice"), "minPrice"); err != nil {
		return params, err
	}
	if params.MaxPrice, err = decimalParam(q.Get("maxPrice"), "maxPrice"); err != nil {
		return params, err
	}
	if v := q.Get("minRating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, apperr.Invalid("minRating", "must be a number")
		}
		params.MinRating = &rating
	}
	if params.InStock, err = boolParam(q.Get("inStock"), "inStock"); err != nil {
		return params, err
	}
	if params.Featured, err = boolParam(q.Get("featured"), "featured"); err != nil {
		return params, err
	}
	return params, nil
}

func decimalParam(v, name string) (*decimal.Decimal, error) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, apperr.Invalid(name, "must be a decimal number")
	}
	return &d, nil
}

func boolParam(v, name string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperr.Invalid(name, "must be a boolean")
	}
	return b, nil
}
