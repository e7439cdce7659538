package product

import (
	"context"

	"github.com/lucentlab/lucent/pkg/model"
	"github.com/lucentlab/lucent/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// UseCase provides read access to persisted products
type UseCase struct {
	repo repository.Repository
}

// New creates a product UseCase instance
func New(repo repository.Repository) *UseCase {
	return &UseCase{repo: repo}
}

// List returns all products, most recently updated first.
func (u *UseCase) List(ctx context.Context) ([]*model.Product, error) {
	return u.repo.ListProducts(ctx)
}

// Get returns one product by ID.
func (u *UseCase) Get(ctx context.Context, id model.ProductID) (*model.Product, error) {
	if id == "" {
		return nil, goerr.New("product id is required", goerr.T(model.TagInvalidRequest))
	}
	return u.repo.GetProduct(ctx, id)
}
