// internal/domain/payment/repository.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Repository persists payment records
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	List(ctx context.Context, filter ListFilter) ([]Payment, int64, error)
	// Save writes p only if the stored version still equals expectedVersion
	Save(ctx context.Context, p *Payment, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
}

// ListFilter represents payment list query parameters
type ListFilter struct {
	Status string
	Method string
	Email  string
	Q      string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// Pagination bounds
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Normalize clamps page and limit into range
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	switch {
	case f.Limit == 0:
		f.Limit = DefaultLimit
	case f.Limit < 1:
		f.Limit = 1
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
}

// GormRepository is the gorm-backed Repository
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new payment repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Create inserts a new record
func (r *GormRepository) Create(ctx context.Context, p *Payment) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// Get retrieves a single record by ID
func (r *GormRepository) Get(ctx context.Context, id string) (*Payment, error) {
	var p Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve payment: %w", err)
	}
	return &p, nil
}

// List retrieves records with filtering and pagination, newest first
func (r *GormRepository) List(ctx context.Context, filter ListFilter) ([]Payment, int64, error) {
	var payments []Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&Payment{})

	// Apply filters
	if filter.Status != "" {
		query = query.Where("status = ?", strings.ToLower(filter.Status))
	}

	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}

	if filter.Email != "" {
		query = query.Where("email = ?", strings.ToLower(strings.TrimSpace(filter.Email)))
	}

	if q := strings.TrimSpace(filter.Q); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(
			`(LOWER(email) LIKE ? ESCAPE '\' OR LOWER(order_id) LIKE ? ESCAPE '\' OR LOWER(meta_transaction_id) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern,
		)
	}

	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}

	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	// Count total records
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(filter.Limit).Find(&payments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve payments: %w", err)
	}

	return payments, total, nil
}

// Save performs a version-conditional full update
func (r *GormRepository) Save(ctx context.Context, p *Payment, expectedVersion int64) error {
	result := r.db.WithContext(ctx).
		Model(p).
		Where("version = ?", expectedVersion).
		Select("*").Omit("id", "created_at").
		Updates(p)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// Delete removes a record permanently
func (r *GormRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Payment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
