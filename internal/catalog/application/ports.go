package application

import (
	"context"

	"github.com/dmehra2102/storefront/internal/catalog/domain"
)

// ProductRepository persists the whole catalog as one collection.
type ProductRepository interface {
	Key() string
	Load(ctx context.Context) ([]domain.Product, error)
	Save(ctx context.Context, products []domain.Product) error
}
