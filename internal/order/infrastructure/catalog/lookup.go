// Package catalog adapts the product catalog to the order checkout's
// ProductLookup port.
package catalog

import (
	"context"

	catalogdomain "github.com/dmehra2102/storefront/internal/catalog/domain"
	"github.com/dmehra2102/storefront/internal/order/domain"
)

type ProductReader interface {
	Get(ctx context.Context, id string) (catalogdomain.Product, error)
}

type Lookup struct {
	products ProductReader
}

func NewLookup(products ProductReader) *Lookup {
	return &Lookup{products: products}
}

// Snapshot copies the product's purchase-relevant fields. The returned item
// has no quantity.
func (l *Lookup) Snapshot(ctx context.Context, productID string) (domain.OrderItem, error) {
	p, err := l.products.Get(ctx, productID)
	if err != nil {
		return domain.OrderItem{}, err
	}
	return domain.OrderItem{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Image:     p.Image,
	}, nil
}
