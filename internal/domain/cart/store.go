// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Store is the cart of one session. Every mutation loads the persisted
// document, applies the change and writes the full list back.
type Store struct {
	mu        sync.Mutex
	sessionID string
	storage   Storage
	catalog   Catalog
	currency  string
	logger    *logrus.Logger
	now       func() time.Time
}

// NewStore creates a cart store bound to a session
func NewStore(sessionID string, storage Storage, catalog Catalog, currency string, logger *logrus.Logger) *Store {
	return &Store{
		sessionID: sessionID,
		storage:   storage,
		catalog:   catalog,
		currency:  currency,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SessionID returns the session the store is bound to
func (s *Store) SessionID() string {
	return s.sessionID
}

// Items returns a copy of the current cart lines
func (s *Store) Items(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// Total returns the cart total in the base currency
func (s *Store) Total(ctx context.Context) (float64, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	return Total(items), nil
}

// Summary returns items and totals for display
func (s *Store) Summary(ctx context.Context) (*Summary, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}

	quantity := 0
	for _, item := range items {
		quantity += item.Quantity
	}

	return &Summary{
		SessionID:     s.sessionID,
		Items:         items,
		ItemCount:     len(items),
		TotalQuantity: quantity,
		Total:         Total(items),
		Currency:      s.currency,
	}, nil
}

// Add merges quantity into an existing line or appends a new one. When
// snapshot is nil the product is looked up in the catalog.
func (s *Store) Add(ctx context.Context, productID string, quantity int, snapshot *ProductSnapshot) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return fmt.Errorf("product ID is required")
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			return s.save(ctx, cart)
		}
	}

	if snapshot == nil {
		if s.catalog == nil {
			return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		snapshot, err = s.catalog.Product(ctx, productID)
		if err != nil {
			return err
		}
	}

	cart.Items = append(cart.Items, Item{
		ProductID: productID,
		Name:      snapshot.Name,
		UnitPrice: snapshot.Price,
		Currency:  s.currency,
		Quantity:  quantity,
		Image:     snapshot.Image,
	})
	return s.save(ctx, cart)
}

// SetQuantity sets a line's quantity, clamped to at least 1. Absent products are ignored.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return s.save(ctx, cart)
		}
	}
	return nil
}

// Remove drops a line. Absent products are ignored.
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(cart.Items) {
		return nil
	}
	cart.Items = kept
	return s.save(ctx, cart)
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.storage.Delete(ctx, s.sessionID)
}

// load reads the session cart. Unreadable documents are treated as an empty cart.
func (s *Store) load(ctx context.Context) (*SessionCart, error) {
	data, err := s.storage.Load(ctx, s.sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	empty := &SessionCart{
		SessionID: s.sessionID,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(data) == 0 {
		return empty, nil
	}

	var cart SessionCart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.logger.WithError(err).WithField("session_id", s.sessionID).Warn("⚠️ Discarding unreadable cart data")
		return empty, nil
	}

	items := make([]Item, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID == "" {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		items = append(items, item)
	}
	cart.Items = items
	cart.SessionID = s.sessionID
	return &cart, nil
}

func (s *Store) save(ctx context.Context, cart *SessionCart) error {
	cart.UpdatedAt = s.now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = cart.UpdatedAt
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return s.storage.Save(ctx, s.sessionID, data)
}
