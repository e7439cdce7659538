package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/lucentlab/lucent/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Memory implements Repository in process memory. It backs unit tests and
// local development without a Firestore project.
type Memory struct {
	mu       sync.RWMutex
	products map[model.ProductID]*model.Product
}

// NewMemory creates an empty in-memory repository
func NewMemory() *Memory {
	return &Memory{
		products: make(map[model.ProductID]*model.Product),
	}
}

func (r *Memory) PutProduct(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *Memory) GetProduct(_ context.Context, id model.ProductID) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrProductNotFound, "no such product",
			goerr.T(model.TagNotFound), goerr.V("id", id))
	}
	return cloneProduct(product), nil
}

func (r *Memory) ListProducts(_ context.Context) ([]*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*model.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, cloneProduct(product))
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].UpdatedAt.After(products[j].UpdatedAt)
	})
	return products, nil
}

// cloneProduct guards the stored record against mutation through returned or
// retained pointers.
func cloneProduct(product *model.Product) *model.Product {
	clone := *product
	clone.Details = make([]*model.ProductDetail, len(product.Details))
	for i, detail := range product.Details {
		d := *detail
		clone.Details[i] = &d
	}
	return &clone
}
