package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/learnhub/learnhub/data/repository"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/paging"
	"github.com/learnhub/learnhub/structs"
)

// CreateProductRequest is the admin payload for adding a product.
type CreateProductRequest struct {
	Name     string  `json:"name" binding:"required,max=200"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Category string  `json:"category" binding:"required,max=100"`
	InStock  bool    `json:"in_stock"`
}

// CatalogService serves the demo product catalog behind the pagination
// lessons.
type CatalogService struct {
	products repository.ProductRepository
	log      *logger.Logger
}

// NewCatalogService creates the catalog service.
func NewCatalogService(products repository.ProductRepository, log *logger.Logger) *CatalogService {
	return &CatalogService{products: products, log: log}
}

// ListProducts returns one page of products ordered by id ascending.
func (s *CatalogService) ListProducts(ctx context.Context, params paging.Params) (*paging.Result[*structs.Product], error) {
	return paging.Paginate(ctx, params,
		func(p *structs.Product) paging.Position {
			return paging.Position{Key: p.ID}
		},
		s.products.ListAfter,
	)
}

// CreateProduct adds a product to the catalog.
func (s *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*structs.Product, error) {
	product := &structs.Product{
		Name:      req.Name,
		Price:     req.Price,
		Category:  req.Category,
		InStock:   req.InStock,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// GetProduct returns a single product.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*structs.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// Seed fills the catalog with sample data when it is empty, so the
// pagination endpoints have something to page through on a fresh
// install. It is a no-op otherwise.
func (s *CatalogService) Seed(ctx context.Context, size int) (int64, error) {
	n, err := s.products.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	if size <= 0 {
		size = 250
	}

	categories := []string{"books", "electronics", "stationery", "courses", "accessories"}
	now := time.Now().UTC()

	var created int64
	for i := 1; i <= size; i++ {
		product := &structs.Product{
			Name:      fmt.Sprintf("Product %03d", i),
			Price:     float64(100+i%400) / 10,
			Category:  categories[i%len(categories)],
			InStock:   i%7 != 0,
			CreatedAt: now,
		}
		if err := s.products.Create(ctx, product); err != nil {
			return created, err
		}
		created++
	}

	s.log.Info(ctx, "catalog seeded", "count", created)
	return created, nil
}
