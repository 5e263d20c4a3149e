package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dmehra2102/storefront/internal/catalog/domain"
	"github.com/dmehra2102/storefront/internal/persistence"
	"github.com/dmehra2102/storefront/pkg/apperr"
)

// Store owns the catalog. Reads share the lock; mutations hold the write lock
// through the in-memory change and the write-through save.
type Store struct {
	log   *slog.Logger
	repo  ProductRepository
	newID func() string

	mu       sync.RWMutex
	products []domain.Product
}

// NewStore loads the catalog from repo, seeding the default catalog when the
// stored one is missing or corrupt. Any other load failure is returned.
func NewStore(ctx context.Context, log *slog.Logger, repo ProductRepository) (*Store, error) {
	s := &Store{log: log, repo: repo, newID: newProductID}

	products, err := repo.Load(ctx)
	switch {
	case err == nil:
		s.products = products
		log.Info("catalog loaded", "products", len(products))
	case errors.Is(err, persistence.ErrKeyNotFound), errors.Is(err, persistence.ErrCorrupt):
		log.Warn("catalog unavailable, seeding defaults", "err", err)
		s.products = domain.DefaultCatalog()
		if err := s.persist(ctx); err != nil {
			log.Warn("seed catalog not persisted", "err", err)
		}
	default:
		return nil, errors.Wrap(err, "load catalog")
	}
	return s, nil
}

func newProductID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// List returns every product in insertion order.
func (s *Store) List() []domain.Product {
	return s.Filter()
}

func (s *Store) Get(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, apperr.NotFound("product", id)
	}
	return s.products[i].Clone(), nil
}

func (s *Store) ByCategory(category string) []domain.Product {
	return s.Filter(domain.InCategory(category))
}

func (s *Store) Featured() []domain.Product {
	return s.Filter(domain.IsFeatured())
}

// Search returns products matching query; a blank query returns everything.
func (s *Store) Search(query string) []domain.Product {
	return s.Query(query)
}

// Filter returns the products satisfying every predicate.
func (s *Store) Filter(preds ...domain.Predicate) []domain.Product {
	return s.Query("", preds...)
}

// Query searches and then filters, preserving insertion order.
func (s *Store) Query(query string, preds ...domain.Predicate) []domain.Product {
	match := domain.All(preds...)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if domain.Matches(p, query) && match(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Categories lists distinct categories in first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Recommend returns up to domain.RecommendationLimit products most similar
// to id.
func (s *Store) Recommend(id string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return []domain.Product{}, apperr.NotFound("product", id)
	}
	return domain.Recommend(s.products[i], s.products, domain.RecommendationLimit), nil
}

// Add inserts a new product and returns its id. A *apperr.PersistenceError
// means the product was added but not saved.
func (s *Store) Add(ctx context.Context, draft domain.Draft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.indexOf(id) >= 0 {
		id = s.newID()
	}
	p, err := domain.NewProduct(id, draft)
	if err != nil {
		return "", err
	}
	s.products = append(s.products, p)
	s.log.Info("product added", "product_id", id)
	return id, s.persist(ctx)
}

func (s *Store) Update(ctx context.Context, id string, patch domain.Patch) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, apperr.NotFound("product", id)
	}
	updated, err := s.products[i].Apply(patch)
	if err != nil {
		return domain.Product{}, err
	}
	s.products[i] = updated
	s.log.Info("product updated", "product_id", id)
	return updated.Clone(), s.persist(ctx)
}

// Delete removes a product. Orders keep their own item snapshots.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return apperr.NotFound("product", id)
	}
	s.products = append(s.products[:i:i], s.products[i+1:]...)
	s.log.Info("product deleted", "product_id", id)
	return s.persist(ctx)
}

// Reset replaces the whole catalog.
func (s *Store) Reset(ctx context.Context, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return errors.Wrapf(err, "product %s", p.ID)
		}
		next = append(next, p.Clone())
	}
	s.products = next
	return s.persist(ctx)
}

// Persist saves the current catalog again, for retrying a failed
// write-through.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.products); err != nil {
		return &apperr.PersistenceError{Key: s.repo.Key(), Err: err}
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
