package repository

import (
	"context"

	"github.com/lucentlab/lucent/pkg/model"
)

// Repository defines the interface for product persistence
type Repository interface {
	// PutProduct saves a product, overwriting any existing document with the same ID
	PutProduct(ctx context.Context, product *model.Product) error

	// GetProduct retrieves a product by ID
	GetProduct(ctx context.Context, id model.ProductID) (*model.Product, error)

	// ListProducts retrieves all products ordered by UpdatedAt descending
	ListProducts(ctx context.Context) ([]*model.Product, error)
}
