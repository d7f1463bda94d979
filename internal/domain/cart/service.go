// internal/domain/cart/service.go
package cart

import (
	"github.com/sirupsen/logrus"
)

// Service hands out session-bound cart stores sharing one storage backend
type Service struct {
	storage  Storage
	catalog  Catalog
	currency string
	logger   *logrus.Logger
}

// NewService creates a new cart service
func NewService(storage Storage, catalog Catalog, currency string, logger *logrus.Logger) *Service {
	return &Service{
		storage:  storage,
		catalog:  catalog,
		currency: currency,
		logger:   logger,
	}
}

// ForSession returns the cart store of a session
func (s *Service) ForSession(sessionID string) *Store {
	return NewStore(sessionID, s.storage, s.catalog, s.currency, s.logger)
}
