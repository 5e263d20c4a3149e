package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/storefront/internal/order/application"
	"github.com/dmehra2102/storefront/internal/order/domain"
	"github.com/dmehra2102/storefront/pkg/apperr"
	"github.com/dmehra2102/storefront/pkg/httpx"
	"github.com/dmehra2102/storefront/pkg/idempotency"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
	guards  []func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithIdempotency guards order creation with the Idempotency-Key header.
func WithIdempotency(checker idempotency.Checker) Option {
	return func(h *Handler) {
		h.guards = append(h.guards, idempotency.Middleware(h.log, checker, "orders"))
	}
}

func NewHandler(log *slog.Logger, service *application.Service, opts ...Option) *Handler {
	h := &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("order-http"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type createOrderReq struct {
	UserID          string             `json:"userId"`
	Items           []domain.OrderItem `json:"items"`
	ShippingAddress domain.Address     `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// Register adds the order routes to r.
func (h *Handler) Register(r chi.Router) {
	r.With(h.guards...).Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.With(httpx.RequireAdmin(h.log)).Patch("/orders/{id}/status", h.updateStatus)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var req createOrderReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, h.log, err)
		return
	}

	// Admins may order on behalf of another user.
	owner := httpx.UserID(r)
	if req.UserID != "" && req.UserID != owner {
		if !httpx.IsAdmin(r) {
			httpx.Error(w, h.log, errors.Wrap(apperr.ErrForbidden, "cannot order for another user"))
			return
		}
		owner = req.UserID
	}

	o, err := h.service.Checkout(ctx, application.CheckoutRequest{
		UserID:          owner,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if o.ID != "" {
		span.SetAttributes(attribute.String("order.id", o.ID))
	}
	h.writeMutation(ctx, w, http.StatusCreated, map[string]string{"id": o.ID}, err)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	if o.UserID != httpx.UserID(r) && !httpx.IsAdmin(r) {
		httpx.Error(w, h.log, errors.Wrap(apperr.ErrForbidden, "order belongs to another user"))
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

// listOrders returns the caller's orders, or every order for an admin that
// names no user.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	userID := r.URL.Query().Get("userId")
	admin := httpx.IsAdmin(r)
	if userID == "" {
		if !admin {
			httpx.Error(w, h.log, errors.Wrap(apperr.ErrForbidden, "listing all orders requires admin"))
			return
		}
		httpx.JSON(w, http.StatusOK, h.service.AllOrders(ctx))
		return
	}
	if userID != httpx.UserID(r) && !admin {
		httpx.Error(w, h.log, errors.Wrap(apperr.ErrForbidden, "orders belong to another user"))
		return
	}

	orders, err := h.service.UserOrders(ctx, userID)
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	var req updateStatusReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	o, err := h.service.UpdateStatus(ctx, chi.URLParam(r, "id"), req.Status)
	h.writeMutation(ctx, w, http.StatusOK, o, err)
}

func (h *Handler) writeMutation(ctx context.Context, w http.ResponseWriter, status int, data any, err error) {
	if err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
	}
	httpx.Result(w, h.log, status, data, err)
}
