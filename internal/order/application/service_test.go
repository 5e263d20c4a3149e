package application

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/storefront/internal/order/domain"
	paymentapp "github.com/dmehra2102/storefront/internal/payment/application"
	paymentdomain "github.com/dmehra2102/storefront/internal/payment/domain"
	"github.com/dmehra2102/storefront/pkg/apperr"
	"github.com/dmehra2102/storefront/pkg/outbox"
)

type countingGateway struct {
	calls atomic.Int32
	next  PaymentGateway
}

func (g *countingGateway) Authorize(ctx context.Context, ref string, amount decimal.Decimal) (paymentdomain.Payment, error) {
	g.calls.Add(1)
	return g.next.Authorize(ctx, ref, amount)
}

type failingWriter struct{}

func (failingWriter) Enqueue(context.Context, outbox.Event) error {
	return errors.New("outbox unavailable")
}

type fakeLookup map[string]domain.OrderItem

func (f fakeLookup) Snapshot(_ context.Context, id string) (domain.OrderItem, error) {
	item, ok := f[id]
	if !ok {
		return domain.OrderItem{}, apperr.NotFound("product", id)
	}
	return item, nil
}

func newService(t *testing.T, gateway PaymentGateway, opts ...Option) (*Service, *Store) {
	t.Helper()
	store := openStore(t, newKV())
	return NewService(discard, store, gateway, opts...), store
}

func instantGateway() *countingGateway {
	return &countingGateway{next: paymentapp.NewGateway(discard, 0, decimal.Zero)}
}

func checkoutRequest() CheckoutRequest {
	return CheckoutRequest{
		UserID:          "u1",
		Items:           cart(),
		ShippingAddress: address(),
		PaymentMethod:   "Credit Card",
	}
}

func TestCheckout(t *testing.T) {
	gateway := instantGateway()
	svc, store := newService(t, gateway)

	o, err := svc.Checkout(context.Background(), checkoutRequest())
	require.NoError(t, err)

	assert.Equal(t, "36.99", o.Total.StringFixed(2))
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.EqualValues(t, 1, gateway.calls.Load())

	got, err := store.Get(o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestCheckoutValidatesBeforePayment(t *testing.T) {
	gateway := instantGateway()
	svc, store := newService(t, gateway)

	req := checkoutRequest()
	req.PaymentMethod = "  "
	_, err := svc.Checkout(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	req = checkoutRequest()
	req.Items = nil
	_, err = svc.Checkout(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.Zero(t, gateway.calls.Load())
	assert.Empty(t, store.All())
}

func TestCheckoutDeclined(t *testing.T) {
	svc, store := newService(t, paymentapp.NewGateway(discard, 0, decimal.NewFromInt(30)))

	_, err := svc.Checkout(context.Background(), checkoutRequest())

	assert.ErrorIs(t, err, apperr.ErrPaymentDeclined)
	assert.Empty(t, store.All())
}

func TestCheckoutCancelledDuringPayment(t *testing.T) {
	svc, store := newService(t, paymentapp.NewGateway(discard, time.Hour, decimal.Zero))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := svc.Checkout(ctx, checkoutRequest())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.All())
}

func TestCheckoutPricesFromCatalog(t *testing.T) {
	lookup := fakeLookup{
		"a": {ProductID: "a", Title: "Mug", Price: decimal.RequireFromString("12.50"), Image: "mug.png"},
		"b": {ProductID: "b", Title: "Pen", Price: decimal.RequireFromString("1")},
	}
	svc, _ := newService(t, instantGateway(), WithProductLookup(lookup))

	req := checkoutRequest()
	req.Items[0].Price = decimal.Zero
	req.Items[0].Title = "spoofed"
	o, err := svc.Checkout(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Mug", o.Items[0].Title)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "26", o.Subtotal.String())

	req.Items = append(req.Items, domain.OrderItem{ProductID: "zzz", Quantity: 1})
	_, err = svc.Checkout(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCheckoutEnqueuesOrderCreated(t *testing.T) {
	events := outbox.NewMemoryStore()
	svc, _ := newService(t, instantGateway(), WithEvents(events))

	o, err := svc.Checkout(context.Background(), checkoutRequest())
	require.NoError(t, err)

	queued := events.Events()
	require.Len(t, queued, 1)
	assert.Equal(t, domain.EventOrderCreated, queued[0].Type)
	assert.Equal(t, o.ID, queued[0].AggregateID)

	var payload domain.OrderCreated
	require.NoError(t, json.Unmarshal(queued[0].Payload, &payload))
	assert.Equal(t, "u1", payload.UserID)
	assert.True(t, o.Total.Equal(payload.Total))
}

func TestEnqueueFailureDoesNotFailCheckout(t *testing.T) {
	svc, store := newService(t, instantGateway(), WithEvents(failingWriter{}))

	_, err := svc.Checkout(context.Background(), checkoutRequest())

	require.NoError(t, err)
	assert.Len(t, store.All(), 1)
}

func TestServiceUpdateStatus(t *testing.T) {
	events := outbox.NewMemoryStore()
	svc, _ := newService(t, instantGateway(), WithEvents(events))
	ctx := context.Background()

	o, err := svc.Checkout(ctx, checkoutRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, o.ID, " processing ")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)

	_, err = svc.UpdateStatus(ctx, o.ID, "delivered")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = svc.UpdateStatus(ctx, "missing", "shipped")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	queued := events.Events()
	require.Len(t, queued, 2)
	var change domain.OrderStatusChanged
	require.NoError(t, json.Unmarshal(queued[1].Payload, &change))
	assert.Equal(t, domain.StatusPending, change.From)
	assert.Equal(t, domain.StatusProcessing, change.To)
}

func TestServiceUserOrders(t *testing.T) {
	svc, _ := newService(t, instantGateway())
	ctx := context.Background()

	_, err := svc.UserOrders(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Checkout(ctx, checkoutRequest())
	require.NoError(t, err)

	orders, err := svc.UserOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Len(t, svc.AllOrders(ctx), 1)
}
