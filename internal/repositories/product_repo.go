package repositories

import (
	"context"
	"errors"

	"productapi/internal/models"
)

// ErrProductNotFound is returned when no product matches the requested ID.
var ErrProductNotFound = errors.New("product not found")

// SortDirection orders list results by ID.
type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// ProductRepository defines the interface for product data access.
// Any error other than ErrProductNotFound is a storage fault.
type ProductRepository interface {
	List(ctx context.Context, order SortDirection) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (models.Product, error)
	Create(ctx context.Context, fields models.ProductFields) (models.Product, error)
	Persist(ctx context.Context, product models.Product) (models.Product, error)
	Remove(ctx context.Context, product models.Product) error
	Ping(ctx context.Context) error
}
