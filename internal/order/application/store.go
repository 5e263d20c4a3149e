package application

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dmehra2102/storefront/internal/order/domain"
	"github.com/dmehra2102/storefront/internal/persistence"
	"github.com/dmehra2102/storefront/pkg/apperr"
)

// Store is the order ledger. Orders are only ever appended; status is the
// one field that changes after creation.
type Store struct {
	log  *slog.Logger
	repo OrderRepository
	now  func() time.Time

	mu     sync.RWMutex
	orders []domain.Order
}

// NewStore loads the ledger. A missing or corrupt ledger starts empty and is
// left in place until the next successful write replaces it.
func NewStore(ctx context.Context, log *slog.Logger, repo OrderRepository) (*Store, error) {
	s := &Store{log: log, repo: repo, now: func() time.Time { return time.Now().UTC() }}

	orders, err := repo.Load(ctx)
	switch {
	case err == nil:
		s.orders = orders
		log.Info("orders loaded", "orders", len(orders))
	case errors.Is(err, persistence.ErrKeyNotFound):
		s.orders = []domain.Order{}
	case errors.Is(err, persistence.ErrCorrupt):
		log.Warn("order ledger unreadable, starting empty", "err", err)
		s.orders = []domain.Order{}
	default:
		return nil, errors.Wrap(err, "load orders")
	}
	return s, nil
}

// NextID returns a fresh time-ordered order id.
func (s *Store) NextID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Create validates and appends a new pending order under id. An empty id
// gets a generated one. A *apperr.PersistenceError means the order exists in
// memory but was not saved.
func (s *Store) Create(ctx context.Context, id, userID string, items []domain.OrderItem, addr domain.Address, paymentMethod string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = s.NextID()
	}
	if s.indexOf(id) >= 0 {
		return domain.Order{}, errors.Wrapf(apperr.ErrConflict, "order %q exists", id)
	}
	o, err := domain.NewOrder(id, userID, items, addr, paymentMethod, s.now())
	if err != nil {
		return domain.Order{}, err
	}
	s.orders = append(s.orders, o)
	s.log.Info("order created", "order_id", o.ID, "user_id", o.UserID, "total", o.Total.StringFixed(2))
	return o.Clone(), s.persist(ctx)
}

func (s *Store) Get(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Order{}, apperr.NotFound("order", id)
	}
	return s.orders[i].Clone(), nil
}

// UserOrders returns userID's orders, newest first.
func (s *Store) UserOrders(userID string) []domain.Order {
	return s.collect(func(o domain.Order) bool { return o.UserID == userID })
}

// All returns every order, newest first.
func (s *Store) All() []domain.Order {
	return s.collect(func(domain.Order) bool { return true })
}

// UpdateStatus moves order id to next and returns the updated order and the
// status it left. On any validation failure the ledger is unchanged.
func (s *Store) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (domain.Order, domain.OrderStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Order{}, "", apperr.NotFound("order", id)
	}
	if _, err := domain.ParseStatus(string(next)); err != nil {
		return domain.Order{}, "", err
	}

	updated := s.orders[i].Clone()
	prev := updated.Status
	if err := updated.TransitionTo(next, s.now()); err != nil {
		return domain.Order{}, "", err
	}
	s.orders[i] = updated
	s.log.Info("order status changed", "order_id", id, "from", prev, "to", next)
	return updated.Clone(), prev, s.persist(ctx)
}

// Persist saves the ledger again, for retrying a failed write-through.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.orders); err != nil {
		return &apperr.PersistenceError{Key: s.repo.Key(), Err: err}
	}
	return nil
}

func (s *Store) collect(keep func(domain.Order) bool) []domain.Order {
	s.mu.RLock()
	out := make([]domain.Order, 0)
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o.Clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) indexOf(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}
