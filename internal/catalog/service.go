// Package catalog implements the catalog's core logic: validated CRUD on
// products and single-dimension search dispatch. The service is stateless;
// durable state lives behind store.ProductStorer.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"product-catalog/internal/domain"
	"product-catalog/internal/store"
)

// ErrNotFound is returned when an operation references an id absent from
// the store.
var ErrNotFound = errors.New("catalog: product not found")

// ProductCache is an optional read cache for product-by-id lookups.
// Implementations must degrade silently: a miss or a cache failure is a
// (nil, false) get, never an error.
type ProductCache interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, bool)
	SetProduct(ctx context.Context, product *domain.Product)
	Invalidate(ctx context.Context, id int64)
}

// Filters holds the optional list criteria. At most one dimension is
// honored per query, in the order name, category, available.
type Filters struct {
	Name      *string
	Category  *string
	Available *bool
}

// Service orchestrates product operations against a ProductStorer.
type Service struct {
	store store.ProductStorer
	cache ProductCache
}

// NewService creates a Service. cache may be nil to disable read caching.
func NewService(s store.ProductStorer, cache ProductCache) *Service {
	return &Service{store: s, cache: cache}
}

// CreateProduct validates the input and stores it. The store assigns the
// id; any id on the input is ignored.
func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	record := *product
	record.ID = 0
	created, err := s.store.CreateProduct(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("catalog: create failed: %w", err)
	}
	if s.cache != nil {
		s.cache.SetProduct(ctx, created)
	}
	return created, nil
}

// GetProduct retrieves a product by id, consulting the cache first.
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if s.cache != nil {
		if product, ok := s.cache.GetProduct(ctx, id); ok {
			return product, nil
		}
	}
	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get failed: %w", err)
	}
	if s.cache != nil {
		s.cache.SetProduct(ctx, product)
	}
	return product, nil
}

// UpdateProduct validates the input and replaces every mutable attribute of
// an existing product, preserving its id. It fails with ErrNotFound when
// the id is absent.
func (s *Service) UpdateProduct(ctx context.Context, id int64, product *domain.Product) (*domain.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	record := *product
	record.ID = id
	updated, err := s.store.UpdateProduct(ctx, &record)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: update failed: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return updated, nil
}

// DeleteProduct removes a product. Deletion is idempotent: an absent id is
// a success, not an error.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("catalog: delete failed: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return nil
}

// ListProducts returns products matching at most one filter dimension.
// Precedence is name, then category, then available, then the full set.
// Supplying several criteria is not an AND query: the highest-precedence
// one wins and the rest are ignored. Category input is normalized through
// domain.ParseCategory, so display labels and internal tags both match.
func (s *Service) ListProducts(ctx context.Context, filters Filters) ([]domain.Product, error) {
	var (
		products []domain.Product
		err      error
	)
	switch {
	case filters.Name != nil:
		products, err = s.store.FindByName(ctx, *filters.Name)
	case filters.Category != nil:
		products, err = s.store.FindByCategory(ctx, domain.ParseCategory(*filters.Category))
	case filters.Available != nil:
		products, err = s.store.FindByAvailability(ctx, *filters.Available)
	default:
		products, err = s.store.ListProducts(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: list failed: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
