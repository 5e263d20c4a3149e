package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/storefront/internal/order/domain"
	paymentdomain "github.com/dmehra2102/storefront/internal/payment/domain"
)

type OrderRepository interface {
	Key() string
	Load(ctx context.Context) ([]domain.Order, error)
	Save(ctx context.Context, orders []domain.Order) error
}

// PaymentGateway authorizes a charge. It must return promptly once ctx is
// done.
type PaymentGateway interface {
	Authorize(ctx context.Context, orderRef string, amount decimal.Decimal) (paymentdomain.Payment, error)
}

// ProductLookup returns the current catalog fields of a product as an order
// item with zero quantity.
type ProductLookup interface {
	Snapshot(ctx context.Context, productID string) (domain.OrderItem, error)
}
