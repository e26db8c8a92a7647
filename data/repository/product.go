package repository

import (
	"context"
	"fmt"

	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/paging"
	"github.com/learnhub/learnhub/structs"
)

// ProductRepository defines catalog persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *structs.Product) error
	FindByID(ctx context.Context, id int64) (*structs.Product, error)
	ListAfter(ctx context.Context, after *paging.Position, limit int) ([]*structs.Product, error)
	Count(ctx context.Context) (int64, error)
}

type productRepository struct {
	d *data.Data
}

// NewProductRepository creates a product repository.
func NewProductRepository(d *data.Data) ProductRepository {
	return &productRepository{d: d}
}

const productColumns = `id, name, price, category, in_stock, created_at`

func (r *productRepository) Create(ctx context.Context, product *structs.Product) error {
	row := r.d.DB().QueryRowContext(ctx, r.d.Rebind(`
		INSERT INTO products (name, price, category, in_stock, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`),
		product.Name,
		product.Price,
		product.Category,
		boolToInt(product.InStock),
		formatTime(product.CreatedAt),
	)
	if err := row.Scan(&product.ID); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*structs.Product, error) {
	row := r.d.DB().QueryRowContext(ctx, r.d.Rebind(`
		SELECT `+productColumns+` FROM products WHERE id = ?
	`), id)
	return scanProductRow(row)
}

// ListAfter returns products ordered by id ascending, strictly after
// the given position when one is supplied.
func (r *productRepository) ListAfter(ctx context.Context, after *paging.Position, limit int) ([]*structs.Product, error) {
	var (
		query = `SELECT ` + productColumns + ` FROM products ORDER BY id ASC LIMIT ?`
		args  = []any{limit}
	)
	if after != nil {
		query = `SELECT ` + productColumns + ` FROM products WHERE id > ? ORDER BY id ASC LIMIT ?`
		args = []any{after.Key, limit}
	}

	rows, err := r.d.DB().QueryContext(ctx, r.d.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*structs.Product
	for rows.Next() {
		product, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.d.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func scanProductRow(row rowScanner) (*structs.Product, error) {
	var (
		product   structs.Product
		inStock   int
		createdAt string
	)
	err := row.Scan(&product.ID, &product.Name, &product.Price, &product.Category, &inStock, &createdAt)
	if err != nil {
		return nil, err
	}
	product.InStock = inStock != 0
	product.CreatedAt = parseTime(createdAt)
	return &product, nil
}
