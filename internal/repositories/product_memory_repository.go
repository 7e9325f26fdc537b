package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"productapi/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[uint]models.Product
	lastID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
	}
}

// List returns all products ordered by ID.
func (r *MemoryProductRepository) List(_ context.Context, order SortDirection) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		if order == SortAscending {
			return productList[i].ID < productList[j].ID
		}
		return productList[i].ID > productList[j].ID
	})
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id uint) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return product, nil
}

// Create adds a new product. IDs are never reused, even after deletion.
func (r *MemoryProductRepository) Create(_ context.Context, fields models.ProductFields) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	now := time.Now()
	product := models.Product{ID: r.lastID, CreatedAt: now, UpdatedAt: now}.WithFields(fields)
	r.products[product.ID] = product
	return product, nil
}

// Persist replaces the stored mutable fields of an existing product.
func (r *MemoryProductRepository) Persist(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return models.Product{}, fmt.Errorf("product with ID %d: %w", product.ID, ErrProductNotFound)
	}
	stored = stored.WithFields(models.ProductFields{
		Name:         product.Name,
		Price:        product.Price,
		Availability: product.Availability,
	})
	stored.UpdatedAt = time.Now()
	r.products[stored.ID] = stored
	return stored, nil
}

// Remove deletes a product.
func (r *MemoryProductRepository) Remove(_ context.Context, product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductNotFound)
	}
	delete(r.products, product.ID)
	return nil
}

// Ping always succeeds.
func (r *MemoryProductRepository) Ping(context.Context) error {
	return nil
}
