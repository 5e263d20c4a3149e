package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/dmehra2102/storefront/internal/order/domain"
	"github.com/dmehra2102/storefront/pkg/apperr"
	"github.com/dmehra2102/storefront/pkg/outbox"
	"github.com/dmehra2102/storefront/pkg/tracing"
)

const aggregateType = "order"

type CheckoutRequest struct {
	UserID          string
	Items           []domain.OrderItem
	ShippingAddress domain.Address
	PaymentMethod   string
}

type Service struct {
	log      *slog.Logger
	store    *Store
	payments PaymentGateway
	products ProductLookup
	events   outbox.Writer
}

type Option func(*Service)

// WithProductLookup makes checkout price items from the catalog instead of
// trusting the caller's snapshot.
func WithProductLookup(l ProductLookup) Option {
	return func(s *Service) { s.products = l }
}

// WithEvents enqueues order lifecycle events to w.
func WithEvents(w outbox.Writer) Option {
	return func(s *Service) { s.events = w }
}

func NewService(log *slog.Logger, store *Store, payments PaymentGateway, opts ...Option) *Service {
	s := &Service{log: log, store: store, payments: payments}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout prices the cart, takes payment and records the order. Nothing is
// recorded when validation fails, the payment is declined or ctx ends before
// the payment completes. A *apperr.PersistenceError comes back together with
// the created order.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (domain.Order, error) {
	items, err := s.snapshot(ctx, req.Items)
	if err != nil {
		return domain.Order{}, err
	}
	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	totals, err := domain.ValidateCheckout(req.UserID, items, req.ShippingAddress, paymentMethod)
	if err != nil {
		return domain.Order{}, err
	}

	id := s.store.NextID()
	payment, err := s.payments.Authorize(ctx, id, totals.Total)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "authorize payment")
	}
	if !payment.Approved() {
		s.log.Warn("payment declined", "order_id", id, "user_id", req.UserID, "reason", payment.Reason)
		return domain.Order{}, errors.Wrap(apperr.ErrPaymentDeclined, payment.Reason)
	}
	if err := ctx.Err(); err != nil {
		return domain.Order{}, errors.Wrap(err, "checkout abandoned")
	}

	order, err := s.store.Create(ctx, id, req.UserID, items, req.ShippingAddress, paymentMethod)
	if err != nil && !apperr.IsPersistence(err) {
		return domain.Order{}, err
	}
	s.publish(ctx, domain.EventOrderCreated, order.ID, domain.OrderCreated{
		OrderID: order.ID,
		UserID:  order.UserID,
		Total:   order.Total,
		Items:   order.Items,
	})
	return order, err
}

func (s *Service) snapshot(ctx context.Context, items []domain.OrderItem) ([]domain.OrderItem, error) {
	if s.products == nil {
		return items, nil
	}
	out := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		snap, err := s.products.Snapshot(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		snap.Quantity = item.Quantity
		out = append(out, snap)
	}
	return out, nil
}

func (s *Service) Get(_ context.Context, id string) (domain.Order, error) {
	return s.store.Get(id)
}

func (s *Service) UserOrders(_ context.Context, userID string) ([]domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Invalid("userId", "is required")
	}
	return s.store.UserOrders(userID), nil
}

func (s *Service) AllOrders(_ context.Context) []domain.Order {
	return s.store.All()
}

// UpdateStatus applies a status change and enqueues OrderStatusChanged.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (domain.Order, error) {
	order, prev, err := s.store.UpdateStatus(ctx, id, domain.OrderStatus(strings.TrimSpace(status)))
	if err != nil && !apperr.IsPersistence(err) {
		return domain.Order{}, err
	}
	s.publish(ctx, domain.EventOrderStatusChanged, order.ID, domain.OrderStatusChanged{
		OrderID: order.ID,
		From:    prev,
		To:      order.Status,
		At:      order.UpdatedAt,
	})
	return order, err
}

func (s *Service) Persist(ctx context.Context) error {
	return s.store.Persist(ctx)
}

// publish never fails the caller; a lost event is logged.
func (s *Service) publish(ctx context.Context, eventType, orderID string, payload any) {
	if s.events == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("encode order event", "type", eventType, "order_id", orderID, "err", err)
		return
	}
	event := outbox.Event{
		AggregateType: aggregateType,
		AggregateID:   orderID,
		Type:          eventType,
		Payload:       raw,
		Traceparent:   tracing.Traceparent(ctx),
	}
	if err := s.events.Enqueue(context.WithoutCancel(ctx), event); err != nil {
		s.log.Error("outbox enqueue failed", "type", eventType, "order_id", orderID, "err", err)
	}
}
