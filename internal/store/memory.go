package store

import (
	"context"
	"sync"

	"product-catalog/internal/domain"
)

// MemoryStore is an in-memory ProductStorer used for tests and for
// deployments that run without PostgreSQL (STORE_BACKEND=memory). A single
// RWMutex serializes writers, which makes per-id create/update/delete
// linearizable; reads take a point-in-time snapshot under the read lock.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	nextID   int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]domain.Product),
	}
}

func (m *MemoryStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	created := *product
	created.ID = m.nextID
	m.products[created.ID] = created
	return &created, nil
}

func (m *MemoryStore) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	product, exists := m.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func (m *MemoryStore) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[product.ID]; !exists {
		return nil, ErrProductNotFound
	}
	updated := *product
	m.products[updated.ID] = updated
	return &updated, nil
}

// DeleteProduct removes the id from the set. Deleting an absent id is a
// no-op success.
func (m *MemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.products, id)
	return nil
}

func (m *MemoryStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]domain.Product, 0, len(m.products))
	for _, product := range m.products {
		products = append(products, product)
	}
	return products, nil
}

func (m *MemoryStore) FindByName(ctx context.Context, name string) ([]domain.Product, error) {
	return m.filter(func(p domain.Product) bool { return p.Name == name })
}

func (m *MemoryStore) FindByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	return m.filter(func(p domain.Product) bool { return p.Category == category })
}

func (m *MemoryStore) FindByAvailability(ctx context.Context, available bool) ([]domain.Product, error) {
	return m.filter(func(p domain.Product) bool { return p.Available == available })
}

func (m *MemoryStore) filter(match func(domain.Product) bool) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := []domain.Product{}
	for _, product := range m.products {
		if match(product) {
			results = append(results, product)
		}
	}
	return results, nil
}
