package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"product-catalog/internal/domain"
)

// Predefined errors for store operations
var (
	ErrProductNotFound = errors.New("store: product not found")
)

// PostgresStore implements the ProductStorer interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func scanProduct(row *sql.Row) (*domain.Product, error) {
	var p domain.Product
	var category string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Available, &category)
	if err != nil {
		return nil, err
	}
	p.Category = domain.ParseCategory(category)
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		var category string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Available, &category); err != nil {
			return nil, fmt.Errorf("store: failed to scan product row: %w", err)
		}
		p.Category = domain.ParseCategory(category)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: product row iteration error: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO catalog.products (name, description, price, available, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, price, available, category;
	`
	row := s.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Available, product.Category.Tag(),
	)

	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to scan row: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, available, category
		FROM catalog.products
		WHERE id = $1;
	`
	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProductByID failed to scan row: %w", err)
	}
	return product, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE catalog.products
		SET name = $1, description = $2, price = $3, available = $4, category = $5
		WHERE id = $6
		RETURNING id, name, description, price, available, category;
	`
	row := s.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Available, product.Category.Tag(), product.ID,
	)

	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: UpdateProduct failed to scan row: %w", err)
	}
	return updated, nil
}

// DeleteProduct removes a product if present. It is a plain set-difference
// DELETE with no rows-affected check, so deleting an absent id succeeds and
// concurrent deletes of the same id cannot race an existence check.
func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	query := `DELETE FROM catalog.products WHERE id = $1;`
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("store: DeleteProduct failed to execute delete: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, available, category
		FROM catalog.products;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListProducts failed to query products: %w", err)
	}
	return collectProducts(rows)
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, available, category
		FROM catalog.products
		WHERE name = $1;
	`
	rows, err := s.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("store: FindByName failed to query products: %w", err)
	}
	return collectProducts(rows)
}

func (s *PostgresStore) FindByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, available, category
		FROM catalog.products
		WHERE category = $1;
	`
	rows, err := s.db.QueryContext(ctx, query, category.Tag())
	if err != nil {
		return nil, fmt.Errorf("store: FindByCategory failed to query products: %w", err)
	}
	return collectProducts(rows)
}

func (s *PostgresStore) FindByAvailability(ctx context.Context, available bool) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, available, category
		FROM catalog.products
		WHERE available = $1;
	`
	rows, err := s.db.QueryContext(ctx, query, available)
	if err != nil {
		return nil, fmt.Errorf("store: FindByAvailability failed to query products: %w", err)
	}
	return collectProducts(rows)
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		log.Println("INFO: Closing database connection pool...")
		if err := s.db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database connection pool: %v", err)
			return err
		}
	}
	return nil
}
