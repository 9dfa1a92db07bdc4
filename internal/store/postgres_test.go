package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"product-catalog/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a mock DB and PostgresStore for testing
func newMockDBAndStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	store := NewPostgresStore(db)
	require.NotNil(t, store, "Store should not be nil")

	return db, mock, store
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "price", "available", "category"})
}

func TestPostgresStore_CreateProduct(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	productToCreate := &domain.Product{
		Name:        "Hammer",
		Description: "Claw hammer",
		Price:       decimal.RequireFromString("34.95"),
		Available:   true,
		Category:    domain.CategoryTools,
	}
	expectedID := int64(1)

	query := regexp.QuoteMeta(`
		INSERT INTO catalog.products (name, description, price, available, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, price, available, category;
	`)

	rows := productRows().
		AddRow(expectedID, productToCreate.Name, productToCreate.Description, "34.95", productToCreate.Available, "TOOLS")

	mock.ExpectQuery(query).
		WithArgs(productToCreate.Name, productToCreate.Description, productToCreate.Price, productToCreate.Available, "TOOLS").
		WillReturnRows(rows)

	created, err := store.CreateProduct(context.Background(), productToCreate)

	require.NoError(t, err, "CreateProduct should not return an error")
	require.NotNil(t, created)
	assert.Equal(t, expectedID, created.ID)
	assert.Equal(t, productToCreate.Name, created.Name)
	assert.True(t, productToCreate.Price.Equal(created.Price), "price should survive the round trip exactly")
	assert.Equal(t, domain.CategoryTools, created.Category)

	require.NoError(t, mock.ExpectationsWereMet(), "SQLmock expectations were not met")
}

func TestPostgresStore_GetProductByID_Found(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	productID := int64(1)
	query := regexp.QuoteMeta(`
		SELECT id, name, description, price, available, category
		FROM catalog.products
		WHERE id = $1;
	`)

	rows := productRows().
		AddRow(productID, "Hat", "A red fedora", "59.95", true, "CLOTHS")

	mock.ExpectQuery(query).WithArgs(productID).WillReturnRows(rows)

	product, err := store.GetProductByID(context.Background(), productID)

	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, productID, product.ID)
	assert.Equal(t, "Hat", product.Name)
	assert.True(t, decimal.RequireFromString("59.95").Equal(product.Price))
	assert.Equal(t, domain.CategoryCloths, product.Category)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetProductByID_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	productID := int64(666)
	query := regexp.QuoteMeta(`
		SELECT id, name, description, price, available, category
		FROM catalog.products
		WHERE id = $1;
	`)

	mock.ExpectQuery(query).WithArgs(productID).WillReturnError(sql.ErrNoRows)

	product, err := store.GetProductByID(context.Background(), productID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProductNotFound), "Error should be ErrProductNotFound")
	assert.Nil(t, product)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateProduct(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	productToUpdate := &domain.Product{
		ID:          3,
		Name:        "Big Mac",
		Description: "NiHao",
		Price:       decimal.RequireFromString("5.99"),
		Available:   true,
		Category:    domain.CategoryFood,
	}

	query := regexp.QuoteMeta(`
		UPDATE catalog.products
		SET name = $1, description = $2, price = $3, available = $4, category = $5
		WHERE id = $6
		RETURNING id, name, description, price, available, category;
	`)

	rows := productRows().
		AddRow(productToUpdate.ID, productToUpdate.Name, productToUpdate.Description, "5.99", productToUpdate.Available, "FOOD")

	mock.ExpectQuery(query).
		WithArgs(productToUpdate.Name, productToUpdate.Description, productToUpdate.Price, productToUpdate.Available, "FOOD", productToUpdate.ID).
		WillReturnRows(rows)

	updated, err := store.UpdateProduct(context.Background(), productToUpdate)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, productToUpdate.ID, updated.ID, "id must be preserved across update")
	assert.Equal(t, "NiHao", updated.Description)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateProduct_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	productToUpdate := &domain.Product{
		ID:       666,
		Name:     "Ghost",
		Price:    decimal.RequireFromString("1.00"),
		Category: domain.CategoryUnknown,
	}

	query := regexp.QuoteMeta(`
		UPDATE catalog.products
		SET name = $1, description = $2, price = $3, available = $4, category = $5
		WHERE id = $6
		RETURNING id, name, description, price, available, category;
	`)

	mock.ExpectQuery(query).
		WithArgs(productToUpdate.Name, productToUpdate.Description, productToUpdate.Price, productToUpdate.Available, "UNKNOWN", productToUpdate.ID).
		WillReturnError(sql.ErrNoRows)

	_, err := store.UpdateProduct(context.Background(), productToUpdate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProductNotFound), "Error should be ErrProductNotFound")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteProduct_Success(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	productID := int64(2)
	query := regexp.QuoteMeta(`DELETE FROM catalog.products WHERE id = $1;`)

	mock.ExpectExec(query).WithArgs(productID).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.DeleteProduct(context.Background(), productID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteProduct_AbsentIDStillSucceeds(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	productID := int64(666)
	query := regexp.QuoteMeta(`DELETE FROM catalog.products WHERE id = $1;`)

	// Zero rows affected: the id was already gone. Still a success.
	mock.ExpectExec(query).WithArgs(productID).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.DeleteProduct(context.Background(), productID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProducts(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`
		SELECT id, name, description, price, available, category
		FROM catalog.products;
	`)

	rows := productRows().
		AddRow(int64(1), "Hat", "", "59.95", true, "CLOTHS").
		AddRow(int64(2), "Shoes", "", "120.50", false, "CLOTHS").
		AddRow(int64(3), "Big Mac", "", "5.99", true, "FOOD").
		AddRow(int64(4), "Sheets", "", "87.00", true, "HOUSEWARES")

	mock.ExpectQuery(query).WillReturnRows(rows)

	products, err := store.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.Equal(t, "Hat", products[0].Name)
	assert.Equal(t, domain.CategoryHousewares, products[3].Category)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindByName(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`
		SELECT id, name, description, price, available, category
		FROM catalog.products
		WHERE name = $1;
	`)

	rows := productRows().
		AddRow(int64(2), "Shoes", "", "120.50", false, "CLOTHS")

	mock.ExpectQuery(query).WithArgs("Shoes").WillReturnRows(rows)

	products, err := store.FindByName(context.Background(), "Shoes")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Shoes", products[0].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindByCategory(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`
		SELECT id, name, description, price, available, category
		FROM catalog.products
		WHERE category = $1;
	`)

	rows := productRows().
		AddRow(int64(4), "Sheets", "", "87.00", true, "HOUSEWARES")

	mock.ExpectQuery(query).WithArgs("HOUSEWARES").WillReturnRows(rows)

	products, err := store.FindByCategory(context.Background(), domain.CategoryHousewares)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Sheets", products[0].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindByAvailability(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`
		SELECT id, name, description, price, available, category
		FROM catalog.products
		WHERE available = $1;
	`)

	rows := productRows().
		AddRow(int64(2), "Shoes", "", "120.50", false, "CLOTHS")

	mock.ExpectQuery(query).WithArgs(false).WillReturnRows(rows)

	products, err := store.FindByAvailability(context.Background(), false)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Shoes", products[0].Name)
	assert.False(t, products[0].Available)

	require.NoError(t, mock.ExpectationsWereMet())
}
