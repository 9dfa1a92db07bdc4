package store

import (
	"context"

	"product-catalog/internal/domain"
)

// ProductStorer defines the storage operations the catalog requires.
//
// DeleteProduct is idempotent: removing an id that is not present is a
// success, not an error. List and find results carry no ordering guarantee.
type ProductStorer interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]domain.Product, error)
	FindByName(ctx context.Context, name string) ([]domain.Product, error)
	FindByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error)
	FindByAvailability(ctx context.Context, available bool) ([]domain.Product, error)
}
