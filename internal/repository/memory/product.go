// Package memory is the default, non-durable store. Every process starts
// from the seed set and loses its changes on exit.
package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/seed"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products []*entity.Product
	byAsset  map[string]int
	sequence atomic.Int64
}

func NewProductRepository(data *seed.Data) *ProductRepository {
	r := &ProductRepository{
		products: make([]*entity.Product, 0, len(data.Products)),
		byAsset:  make(map[string]int, len(data.Products)),
	}

	for _, p := range data.Products {
		r.byAsset[p.AssetID] = len(r.products)
		r.products = append(r.products, cloneProduct(p))
	}
	r.sequence.Store(data.LastSequence())

	return r
}

func (r *ProductRepository) NextAssetSequence(_ context.Context) (int64, error) {
	return r.sequence.Add(1), nil
}

// Upsert replaces the record with the same asset id or appends a new one.
func (r *ProductRepository) Upsert(_ context.Context, product *entity.Product) (*entity.Product, error) {
	stored := cloneProduct(product)

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.byAsset[stored.AssetID]; ok {
		r.products[i] = stored
	} else {
		r.byAsset[stored.AssetID] = len(r.products)
		r.products = append(r.products, stored)
	}

	return cloneProduct(stored), nil
}

func (r *ProductRepository) Get(_ context.Context, assetID string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byAsset[assetID]
	if !ok {
		return nil, entity.ErrDataNotFound
	}
	return cloneProduct(r.products[i]), nil
}

func (r *ProductRepository) List(_ context.Context) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Product, len(r.products))
	for i, p := range r.products {
		out[i] = cloneProduct(p)
	}
	return out, nil
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}
