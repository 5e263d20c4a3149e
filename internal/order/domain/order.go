package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/storefront/pkg/apperr"
)

var (
	ShippingFee = decimal.RequireFromString("9.99")
	TaxRate     = decimal.RequireFromString("0.08")
)

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem is a copy of the product fields at purchase time. It never
// refers back to the live catalog entry.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

func (a Address) Validate() error {
	fields := []struct{ name, value string }{
		{"shippingAddress.street", a.Street},
		{"shippingAddress.city", a.City},
		{"shippingAddress.state", a.State},
		{"shippingAddress.zipCode", a.ZipCode},
		{"shippingAddress.country", a.Country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return apperr.Invalid(f.name, "is required")
		}
	}
	return nil
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Quote prices items: the subtotal, the flat shipping fee and tax rounded to
// cents.
func Quote(items []OrderItem) (Totals, error) {
	if err := validateItems(items); err != nil {
		return Totals{}, err
	}
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Shipping: ShippingFee,
		Tax:      tax,
		Total:    subtotal.Add(ShippingFee).Add(tax),
	}, nil
}

func validateItems(items []OrderItem) error {
	if len(items) == 0 {
		return apperr.Invalid("items", "must not be empty")
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return apperr.Invalid("items.quantity", "must be at least 1")
		}
		if item.Price.IsNegative() {
			return apperr.Invalid("items.price", "must not be negative")
		}
	}
	return nil
}

// ValidateCheckout checks everything an order needs before payment is taken
// and returns the priced totals.
func ValidateCheckout(userID string, items []OrderItem, addr Address, paymentMethod string) (Totals, error) {
	if strings.TrimSpace(userID) == "" {
		return Totals{}, apperr.Invalid("userId", "is required")
	}
	if err := addr.Validate(); err != nil {
		return Totals{}, err
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return Totals{}, apperr.Invalid("paymentMethod", "is required")
	}
	return Quote(items)
}

func NewOrder(id, userID string, items []OrderItem, addr Address, paymentMethod string, now time.Time) (Order, error) {
	totals, err := ValidateCheckout(userID, items, addr, paymentMethod)
	if err != nil {
		return Order{}, err
	}

	return Order{
		ID:              id,
		UserID:          userID,
		Items:           append([]OrderItem(nil), items...),
		Subtotal:        totals.Subtotal,
		Shipping:        totals.Shipping,
		Tax:             totals.Tax,
		Total:           totals.Total,
		Status:          StatusPending,
		ShippingAddress: addr,
		PaymentMethod:   paymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// TransitionTo moves the order to next if the transition table allows it.
func (o *Order) TransitionTo(next OrderStatus, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return &IllegalTransitionError{From: o.Status, To: next}
	}
	o.Status = next
	o.UpdatedAt = now
	return nil
}

func (o Order) Clone() Order {
	out := o
	out.Items = append([]OrderItem(nil), o.Items...)
	return out
}
