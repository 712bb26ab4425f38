package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nafcode/product-registry/internal/models"
)

// ErrProductNotFound is the negative lookup result. Callers distinguish it
// from storage failures with errors.Is.
var ErrProductNotFound = errors.New("product not found")

// ProductStore is the durable home of Product records. The workflow is
// append-only, so no update or delete operations exist.
type ProductStore interface {
	Save(ctx context.Context, product *models.Product) error
	FindByProductID(ctx context.Context, productID string) (*models.Product, error)
}

type gormProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) ProductStore {
	return &gormProductStore{db: db}
}

func (s *gormProductStore) Save(ctx context.Context, product *models.Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByProductID returns a single match. product_id carries no unique
// constraint, so with duplicate rows this is whichever was inserted first,
// not necessarily the most recent.
func (s *gormProductStore) FindByProductID(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at").
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}
