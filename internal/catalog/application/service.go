package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/storefront/internal/catalog/domain"
	"github.com/dmehra2102/storefront/pkg/apperr"
)

// ListParams are the optional catalog listing criteria. Nil or zero fields
// do not constrain the result.
type ListParams struct {
	Search    string
	Category  string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *float64
	InStock   bool
	Featured  bool
}

func (p ListParams) validate() error {
	if p.MinPrice != nil && p.MinPrice.IsNegative() {
		return apperr.Invalid("minPrice", "must not be negative")
	}
	if p.MaxPrice != nil && p.MaxPrice.IsNegative() {
		return apperr.Invalid("maxPrice", "must not be negative")
	}
	if p.MinPrice != nil && p.MaxPrice != nil && p.MinPrice.GreaterThan(*p.MaxPrice) {
		return apperr.Invalid("minPrice", "must not exceed maxPrice")
	}
	if p.MinRating != nil && (*p.MinRating < 0 || *p.MinRating > domain.MaxRating) {
		return apperr.Invalid("minRating", "must be between 0 and 5")
	}
	return nil
}

func (p ListParams) predicates() []domain.Predicate {
	var preds []domain.Predicate
	if p.Category != "" {
		preds = append(preds, domain.InCategory(p.Category))
	}
	switch {
	case p.MinPrice != nil && p.MaxPrice != nil:
		preds = append(preds, domain.PriceBetween(*p.MinPrice, *p.MaxPrice))
	case p.MinPrice != nil:
		preds = append(preds, domain.MinPrice(*p.MinPrice))
	case p.MaxPrice != nil:
		preds = append(preds, domain.MaxPrice(*p.MaxPrice))
	}
	if p.MinRating != nil {
		preds = append(preds, domain.MinRating(*p.MinRating))
	}
	if p.InStock {
		preds = append(preds, domain.InStock())
	}
	if p.Featured {
		preds = append(preds, domain.IsFeatured())
	}
	return preds
}

// Service is the catalog boundary used by transports.
type Service struct {
	log   *slog.Logger
	store *Store
}

func NewService(log *slog.Logger, store *Store) *Service {
	return &Service{log: log, store: store}
}

func (s *Service) List(_ context.Context, params ListParams) ([]domain.Product, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return s.store.Query(strings.TrimSpace(params.Search), params.predicates()...), nil
}

func (s *Service) Get(_ context.Context, id string) (domain.Product, error) {
	return s.store.Get(id)
}

func (s *Service) ByCategory(_ context.Context, category string) []domain.Product {
	return s.store.ByCategory(category)
}

func (s *Service) Featured(_ context.Context) []domain.Product {
	return s.store.Featured()
}

func (s *Service) Categories(_ context.Context) []string {
	return s.store.Categories()
}

func (s *Service) Recommendations(_ context.Context, id string) ([]domain.Product, error) {
	return s.store.Recommend(id)
}

// Create adds a product. On a persistence failure the created product is
// still returned together with the error.
func (s *Service) Create(ctx context.Context, draft domain.Draft) (domain.Product, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	id, err := s.store.Add(ctx, draft)
	if id == "" {
		return domain.Product{}, err
	}
	p, getErr := s.store.Get(id)
	if getErr != nil {
		return domain.Product{}, getErr
	}
	return p, err
}

func (s *Service) Update(ctx context.Context, id string, patch domain.Patch) (domain.Product, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	return s.store.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Reseed replaces the catalog with the default products.
func (s *Service) Reseed(ctx context.Context) error {
	s.log.Info("reseeding catalog")
	return s.store.Reset(ctx, domain.DefaultCatalog())
}

func (s *Service) Persist(ctx context.Context) error {
	return s.store.Persist(ctx)
}
